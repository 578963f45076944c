package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/germanamz/tally/pkg/script"
	"github.com/germanamz/tally/pkg/session"
	"github.com/germanamz/tally/pkg/tallydir"
	"github.com/germanamz/tally/pkg/tools/calctools"
	"github.com/germanamz/tally/pkg/tools/mcpserver"
	"github.com/germanamz/tally/pkg/tools/toolbox"
	"github.com/germanamz/tally/pkg/wsserver"
)

// errScriptsFailed is returned by run when at least one script mismatched.
var errScriptsFailed = errors.New("scripts failed")

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tally eval [flags] KEYS...\n\nEvaluate a key sequence such as 12+3= and print the display.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	flags := registerCommonFlags(fs)
	trace := fs.Bool("trace", false, "print the display after every key")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("eval: no keys given")
	}

	cfg, err := loadSettings(flags)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	return evalKeys(context.Background(), os.Stdout, strings.Join(fs.Args(), ""), session.Options{
		ID:        "eval",
		MaxDigits: cfg.Engine.MaxDigits,
		Logger:    log,
	}, *trace)
}

// evalKeys runs keys on a fresh session and writes the final display to w.
// With trace set every intermediate display is written as well.
func evalKeys(ctx context.Context, w io.Writer, keys string, opts session.Options, trace bool) error {
	sess := session.New(opts)

	if trace {
		frames := 0
		sess.Bind(session.DisplayFunc(func(text string) {
			// Skip the frame Bind renders before any key.
			if frames > 0 {
				fmt.Fprintln(w, text)
			}
			frames++
		}))
	}

	if err := sess.Run(ctx, keys); err != nil {
		return err
	}

	if !trace {
		fmt.Fprintln(w, sess.Display())
	}

	return nil
}

func runScripts(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tally run [flags] [SCRIPT.yaml...]\n\nRun key scripts (default: every script in <tally-dir>/scripts).\n\nFlags:\n")
		fs.PrintDefaults()
	}
	flags := registerCommonFlags(fs)
	_ = fs.Parse(args)

	cfg, err := loadSettings(flags)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	paths := fs.Args()
	if len(paths) == 0 {
		paths = tallydir.New(flags.tallyDir).Scripts()
	}
	if len(paths) == 0 {
		return errors.New("run: no scripts given and none found")
	}

	return runScriptFiles(context.Background(), os.Stdout, paths, script.Options{
		MaxDigits: cfg.Engine.MaxDigits,
		Logger:    log,
	})
}

// runScriptFiles runs every script, printing one line per script and the
// diff of each failure. It returns errScriptsFailed when any script
// mismatched.
func runScriptFiles(ctx context.Context, w io.Writer, paths []string, opts script.Options) error {
	failed := 0

	for _, path := range paths {
		s, err := script.Load(path)
		if err != nil {
			return err
		}

		report, err := script.Run(ctx, s, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if report.OK() {
			fmt.Fprintf(w, "ok    %s (%d steps)\n", s.Name, len(report.Steps))
			continue
		}

		failed++
		fmt.Fprintf(w, "FAIL  %s (%d of %d steps)\n", s.Name, report.Failures(), len(report.Steps))

		diff, err := report.Diff()
		if err != nil {
			return err
		}
		fmt.Fprint(w, diff)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errScriptsFailed, failed, len(paths))
	}

	return nil
}

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tally mcp [flags]\n\nServe the calculator as MCP tools on stdin/stdout.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	flags := registerCommonFlags(fs)
	_ = fs.Parse(args)

	cfg, err := loadSettings(flags)
	if err != nil {
		return err
	}

	// stdout carries the protocol; logs must stay on stderr or in a file.
	log, closeLog, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := session.New(session.Options{ID: "mcp", MaxDigits: cfg.Engine.MaxDigits, Logger: log})

	tb := newToolBox(sess)

	srv := mcpserver.New(cfg.MCP.Name, version, log)
	srv.Register(tb.Tools()...)

	log.Info("mcp server started", "name", cfg.MCP.Name, "tools", len(tb.Tools()))

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newToolBox registers the calculator tools bound to sess.
func newToolBox(sess *session.Session) *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(calctools.New(sess).Tools()...)
	return tb
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tally serve [flags]\n\nServe the calculator over WebSocket at /ws, with /healthz and /stats.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	flags := registerCommonFlags(fs)
	addr := fs.String("addr", "", "listen address (overrides server.addr in config)")
	_ = fs.Parse(args)

	cfg, err := loadSettings(flags)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log, closeLog, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Every connection publishes to one bus; stats observes it for /stats
	// and logs a summary on shutdown.
	bus := session.NewEventBus()
	sub := bus.Subscribe(256)
	stats := session.NewStats()

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		stats.Watch(ctx, sub, log)
	}()

	ws := wsserver.New(wsserver.Options{
		MaxDigits: cfg.Engine.MaxDigits,
		Logger:    log,
		Events:    bus,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServeMux(ws, stats),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("websocket server listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		bus.Unsubscribe(sub)
		<-watchDone
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-watchDone
	bus.Unsubscribe(sub)
	log.Info("websocket server stopped")

	return nil
}

func newServeMux(ws http.Handler, stats *session.Stats) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok\n")
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats.Snapshot())
	})
	return mux
}
