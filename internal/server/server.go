package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/internal/config"
	"github.com/wippyai/wcp-tools/internal/metrics"
	"github.com/wippyai/wcp-tools/store"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a store over HTTP.
type Server struct {
	engine *gin.Engine
	store  *store.Store
	hub    *hub
	cfg    config.Server
}

// New creates a server for st and subscribes it to store events.
// Call Close to unsubscribe.
func New(st *store.Store, cfg config.Server) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), requestMetrics())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		store:  st,
		hub:    newHub(),
		cfg:    cfg,
	}
	st.Subscribe(s.hub)
	metrics.Register()

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"files":  s.store.Len(),
		})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api/files")
	api.GET("", s.listFiles)
	api.POST("/:name", s.openFile)
	api.GET("/:name", s.fileInfo)
	api.DELETE("/:name", s.closeFile)
	api.GET("/:name/hierarchy", s.hierarchy)
	api.GET("/:name/signals/:ref/changes", s.changes)
	api.GET("/:name/vcd", s.exportVCD)
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close unsubscribes from the store and disconnects websocket clients.
func (s *Server) Close() {
	s.store.Unsubscribe(s.hub)
	s.hub.close()
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		Logger().Info("server: listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	Logger().Info("server: stopped")
	return nil
}
