package wsserver

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/tally/pkg/session"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })

	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Request) Response {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, wsjson.Write(ctx, conn, req))

	var resp Response
	require.NoError(t, wsjson.Read(ctx, conn, &resp))

	return resp
}

func TestServer_SingleKeys(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()
	conn := dial(t, srv)

	for _, key := range []string{"5", "+", "3"} {
		resp := roundTrip(t, conn, Request{Key: key})
		assert.True(t, resp.Consumed, key)
	}

	resp := roundTrip(t, conn, Request{Key: "Enter"})
	assert.Equal(t, "8", resp.Display)
	assert.False(t, resp.Error)
}

func TestServer_UnknownKeyNotConsumed(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()
	conn := dial(t, srv)

	resp := roundTrip(t, conn, Request{Key: "Tab"})
	assert.False(t, resp.Consumed)
	assert.Equal(t, "0", resp.Display)
}

func TestServer_KeySequence(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()
	conn := dial(t, srv)

	resp := roundTrip(t, conn, Request{Keys: "1+2*3="})
	assert.True(t, resp.Consumed)
	assert.Equal(t, "9", resp.Display)

	resp = roundTrip(t, conn, Request{Keys: "C5/0="})
	assert.Equal(t, "Error", resp.Display)
	assert.True(t, resp.Error)
}

func TestServer_BadSequenceReportsMessage(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()
	conn := dial(t, srv)

	resp := roundTrip(t, conn, Request{Keys: "1?"})
	assert.False(t, resp.Consumed)
	assert.Contains(t, resp.Message, "unknown key")
	assert.Equal(t, "0", resp.Display)

	resp = roundTrip(t, conn, Request{})
	assert.Contains(t, resp.Message, "empty request")
}

func TestServer_SessionPerConnection(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)

	roundTrip(t, a, Request{Keys: "42"})
	resp := roundTrip(t, b, Request{Key: "7"})

	assert.Equal(t, "7", resp.Display)
	assert.Equal(t, "427", roundTrip(t, a, Request{Key: "7"}).Display)
}

func TestServer_MaxDigits(t *testing.T) {
	srv := httptest.NewServer(New(Options{MaxDigits: 2}))
	defer srv.Close()
	conn := dial(t, srv)

	resp := roundTrip(t, conn, Request{Keys: "123"})
	assert.Equal(t, "12", resp.Display)
}

func TestServer_SharedEvents(t *testing.T) {
	bus := session.NewEventBus()
	sub := bus.Subscribe(8)
	defer bus.Unsubscribe(sub)

	srv := httptest.NewServer(New(Options{Events: bus}))
	defer srv.Close()
	conn := dial(t, srv)

	roundTrip(t, conn, Request{Key: "9"})

	select {
	case e := <-sub.C:
		assert.Equal(t, session.EventDisplayChanged, e.Kind)
		assert.Equal(t, "9", e.Display)
		assert.True(t, strings.HasPrefix(e.SessionID, "ws-"))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestServer_MalformedFrameClosesConnection(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()
	conn := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("not json")))

	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusInvalidFramePayloadData, websocket.CloseStatus(err))
}

func TestServer_BinaryFrameClosesConnection(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()
	conn := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, conn.Write(ctx, websocket.MessageBinary, []byte(`{"key":"5"}`)))

	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusUnsupportedData, websocket.CloseStatus(err))
}

func TestServer_WrongJSONShapeClosesConnection(t *testing.T) {
	srv := httptest.NewServer(New(Options{}))
	defer srv.Close()
	conn := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// A JSON value of the wrong shape is still not a request.
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`[1,2]`)))

	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusInvalidFramePayloadData, websocket.CloseStatus(err))
}
