// Package server is a reference implementation of the developer record API.
//
// Routes live under /api/desarrolladores/:
//
//	POST   crear/           201 + stored record
//	POST   actualizar/:id   200 + stored record, 404 unknown id
//	GET    listado          200 + array of records
//	DELETE eliminar/:id     200 + {"message"}, 404 unknown id
//
// Invalid bodies get 400 with {"message", "errors"}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"devroster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BasePath is the route group for the record API.
const BasePath = "/api/desarrolladores"

// Options configure the router.
type Options struct {
	Store store.Store
	Log   zerolog.Logger
}

// NewRouter builds the gin engine serving the record API.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		recovery(opts.Log),
		requestID(),
		requestLogger(opts.Log),
		cors(),
	)

	h := &handler{store: opts.Store, log: opts.Log}
	api := router.Group(BasePath)
	{
		api.POST("/crear/", h.create)
		api.POST("/actualizar/:id", h.update)
		api.GET("/listado", h.list)
		api.DELETE("/eliminar/:id", h.delete)
	}
	router.NoRoute(func(c *gin.Context) {
		message(c, http.StatusNotFound, "route not found")
	})
	return router
}

// Server serves the record API until its context is cancelled.
type Server struct {
	Addr    string
	Handler http.Handler
	Log     zerolog.Logger

	// ShutdownTimeout bounds graceful shutdown; 10s when zero.
	ShutdownTimeout time.Duration
}

// Run listens on Addr and blocks until ctx is done, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) Run(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info().Str("addr", ln.Addr().String()).Str("base", BasePath+"/").Msg("server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.Log.Info().Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
