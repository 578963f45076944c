// Package wsserver exposes calculator sessions over WebSocket. Every
// connection gets its own session; clients send key frames and receive the
// display after each one.
package wsserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/germanamz/tally/pkg/calculator"
	"github.com/germanamz/tally/pkg/session"
)

// Request is a client frame. Exactly one of Key (a single key name, see
// keymap.Translate) or Keys (a compact sequence, see keymap.Parse) is set.
type Request struct {
	Key  string `json:"key,omitempty"`
	Keys string `json:"keys,omitempty"`
}

// Response is sent after every request.
type Response struct {
	Display  string `json:"display"`
	Error    bool   `json:"error"`
	Consumed bool   `json:"consumed"`
	Message  string `json:"message,omitempty"`
}

// Options configures a Server.
type Options struct {
	MaxDigits      int
	Logger         *slog.Logger
	Events         *session.EventBus // Shared by all connection sessions when set.
	OriginPatterns []string          // Passed to websocket.Accept.
}

// Server is an http.Handler upgrading requests to calculator connections.
type Server struct {
	opts   Options
	log    *slog.Logger
	nextID atomic.Uint64
}

// New creates a Server.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{opts: opts, log: log}
}

// ServeHTTP accepts the WebSocket handshake and serves the connection until
// the client goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		s.log.Warn("websocket accept failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	id := fmt.Sprintf("ws-%d", s.nextID.Add(1))
	sess := session.New(session.Options{
		ID:        id,
		MaxDigits: s.opts.MaxDigits,
		Logger:    s.log,
		Events:    s.opts.Events,
	})

	s.log.Info("connection opened", "session", id, "remote", r.RemoteAddr)

	err = s.serve(r.Context(), conn, sess)

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		s.log.Info("connection closed", "session", id)
	case errors.Is(err, context.Canceled):
		s.log.Info("connection cancelled", "session", id)
	default:
		s.log.Warn("connection failed", "session", id, "error", err)
	}
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn, sess *session.Session) error {
	for {
		req, err := readRequest(ctx, conn)
		if err != nil {
			return err
		}

		resp := s.handle(ctx, sess, req)

		if err := wsjson.Write(ctx, conn, resp); err != nil {
			return err
		}
	}
}

// readRequest reads one client frame. Binary frames close the connection
// with StatusUnsupportedData, text that is not a JSON request with
// StatusInvalidFramePayloadData.
func readRequest(ctx context.Context, conn *websocket.Conn) (Request, error) {
	typ, data, err := conn.Read(ctx)
	if err != nil {
		return Request{}, err
	}

	if typ != websocket.MessageText {
		_ = conn.Close(websocket.StatusUnsupportedData, "expected text frame")
		return Request{}, fmt.Errorf("wsserver: read: unexpected %v frame", typ)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		_ = conn.Close(websocket.StatusInvalidFramePayloadData, "expected JSON request")
		return Request{}, fmt.Errorf("wsserver: read: %w", err)
	}

	return req, nil
}

func (s *Server) handle(ctx context.Context, sess *session.Session, req Request) Response {
	resp := Response{}

	switch {
	case req.Key != "":
		resp.Consumed = sess.Press(req.Key)
	case req.Keys != "":
		if err := sess.Run(ctx, req.Keys); err != nil {
			resp.Message = err.Error()
		} else {
			resp.Consumed = true
		}
	default:
		resp.Message = "wsserver: empty request"
	}

	resp.Display = sess.Display()
	resp.Error = calculator.IsError(sess.Engine().Entry())

	return resp
}
