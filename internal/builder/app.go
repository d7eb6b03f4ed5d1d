package builder

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownGrace = 30 * time.Second

// App is the HTTP service with the index it serves
type App struct {
	server *http.Server
	core   *core
	// stops background work started by Build, such as the index watcher
	cancel context.CancelFunc
}

// Run serves until ctx is done or the listener fails, then drains in-flight requests
func (a *App) Run(ctx context.Context) error {
	log := a.core.logger
	defer a.core.close()
	defer a.cancel()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", a.server.Addr))
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		log.Error("http server failed", zap.Error(err))
		return err
	case <-ctx.Done():
		log.Info("shutdown requested", zap.NamedError("cause", context.Cause(ctx)))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown incomplete", zap.Error(err))
		return err
	}
	log.Info("http server stopped")
	return nil
}
