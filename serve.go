package foundry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tfkr-ae/foundry/api"
	"github.com/tfkr-ae/foundry/core"
	"github.com/tfkr-ae/foundry/listener"
	"github.com/tfkr-ae/foundry/site"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Handler builds the router serving the JSON API under /api and the public
// pages everywhere else.
func (app *App) Handler() (http.Handler, error) {
	repo := app.repo()
	if repo == nil {
		return nil, errors.New("app has no repository")
	}
	cfg, err := app.Config.ParseCarousel()
	if err != nil {
		return nil, fmt.Errorf("parsing carousel config: %w", err)
	}

	server, err := api.New(repo,
		api.WithLogger(app.Logger),
		api.WithCarouselConfig(cfg),
		api.WithPrettyJSON(app.Config.PrettyJSON),
		api.WithCompression(app.Config.Compression),
		api.WithErrorHandler(app.logRequestError),
	)
	if err != nil {
		return nil, fmt.Errorf("creating api server: %w", err)
	}

	pages, err := site.New(repo,
		site.WithLogger(app.Logger),
		site.WithCarouselConfig(cfg),
		site.WithFormatting(app.Config.FormatHTML),
	)
	if err != nil {
		return nil, fmt.Errorf("creating site: %w", err)
	}

	r := mux.NewRouter()
	server.Register(r)
	pages.Register(r)
	server.Use(r)
	r.NotFoundHandler = server.Wrap(r.NotFoundHandler)
	return r, nil
}

// logRequestError persists internal API errors with the request that caused them.
func (app *App) logRequestError(r *http.Request, err error) {
	options := []core.LogOption{
		core.LogWithContext(map[string]any{"method": r.Method, "path": r.URL.Path}),
	}
	if id, ok := api.RequestIDFromContext(r.Context()); ok {
		options = append(options, core.LogWithRequestID(id))
	}
	if logErr := app.WriteLog("ERROR", err.Error(), options...); logErr != nil {
		app.Logger.Warn("writing request error log", "error", logErr)
	}
}

// logConnectionError persists connections the listener rejected.
func (app *App) logConnectionError(err error) {
	if logErr := app.WriteLog("WARN", fmt.Sprintf("connection rejected: %v", err)); logErr != nil {
		app.Logger.Warn("writing connection error log", "error", logErr)
	}
}

// Listen opens the configured address. Plain HTTP and, when a key pair is
// configured, TLS are accepted on the same port.
func (app *App) Listen() (net.Listener, error) {
	tlsConfig, err := app.Config.TLSConfig()
	if err != nil {
		return nil, err
	}
	return listener.Listen(app.Config.ListenAddress, app.Config.ListenPort, tlsConfig,
		listener.WithLogger(app.Logger),
		listener.WithErrorHandler(app.logConnectionError),
	)
}

// Serve listens on the configured address and serves until ctx is cancelled.
func (app *App) Serve(ctx context.Context) error {
	ln, err := app.Listen()
	if err != nil {
		return err
	}
	return app.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully. ln is closed on return.
func (app *App) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := app.Handler()
	if err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(app.Logger.Handler(), slog.LevelWarn),
	}

	if err := app.WriteLog("INFO", fmt.Sprintf("foundry listening on %s", ln.Addr())); err != nil {
		app.Logger.Warn("writing startup log", "error", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	<-serveErr
	app.WriteLog("INFO", "foundry stopped")
	return nil
}
