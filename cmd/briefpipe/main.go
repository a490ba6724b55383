// Command briefpipe harvests marketing briefings from project document
// pages: it discovers the briefing PDF in each project, downloads it,
// extracts text, annotations and structured fields, and reports results.
//
// Usage:
//
//	briefpipe -config run.yaml                      # batch run from YAML config
//	briefpipe -session state.json <url> [<url>...]  # quick run over URLs
//	briefpipe -config run.yaml -serve :8080         # with a live SSE status stream
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"briefpipe/harvest"
	"briefpipe/progress"
	"briefpipe/store"
)

func main() {
	configPath := flag.String("config", "", "path to run.yaml config file")
	sessionFile := flag.String("session", "", "path to the authenticated session state (overrides config)")
	serveAddr := flag.String("serve", "", "address for the SSE status stream (e.g. :8080)")
	dbPath := flag.String("db", "", "SQLite results database (overrides config)")
	headful := flag.Bool("headful", false, "run Chrome with a visible window")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *sessionFile, *serveAddr, *dbPath, *headful, flag.Args()); err != nil {
		logger.Error("briefpipe: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, sessionFile, serveAddr, dbPath string, headful bool, args []string) error {
	opts := harvest.DefaultOptions()
	urls := args
	database := dbPath

	if configPath != "" {
		loaded, configURLs, configDB, err := harvest.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		opts = loaded
		if len(urls) == 0 {
			urls = configURLs
		}
		if database == "" {
			database = configDB
		}
	}
	if sessionFile != "" {
		opts.SessionFile = sessionFile
	}
	if headful {
		opts.Headless = false
	}
	opts.Logger = logger

	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: briefpipe -config <file> | -session <state.json> <url> [<url>...]")
		os.Exit(1)
	}
	if opts.SessionFile == "" {
		return errors.New("no session file: pass -session or set session_file in the config")
	}

	sinks := []progress.Sink{progress.NewStdout(nil)}

	var sse *progress.SSE
	if serveAddr != "" {
		sse = progress.NewSSE(logger)
		sinks = append(sinks, sse)
		srv := &http.Server{Addr: serveAddr, Handler: sse.Routes()}
		go func() {
			logger.Info("briefpipe: status stream listening", "addr", serveAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("briefpipe: status stream stopped", "error", err)
			}
		}()
		defer srv.Close()
	}
	opts.Sink = progress.NewRouter(logger, sinks...)

	if database != "" {
		st, err := store.Open(database, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Store = st
	}

	sum, err := harvest.New(opts).Run(ctx, urls)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	if sum.Failed > 0 {
		logger.Warn("briefpipe: run finished with failures", "failed", sum.Failed, "succeeded", sum.Succeeded)
	}
	return nil
}
