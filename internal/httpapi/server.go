// Package httpapi exposes the session service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/studysync/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// DefaultMaxFrameBytes caps a single uploaded frame.
const DefaultMaxFrameBytes = 10 << 20

type Options struct {
	Logger        *slog.Logger
	Sessions      service.SessionService
	Labels        LabelSource
	Health        HealthProbe
	DefaultUserID string
	CORSOrigins   []string
	MaxFrameBytes int64
}

// NewRouter builds the gin engine with recovery, request logging and all
// routes. Trailing slashes follow the paths existing clients call.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	maxFrame := opts.MaxFrameBytes
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameBytes
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.MaxMultipartMemory = maxFrame

	sessions := NewSessionHandler(log, opts.Sessions, opts.DefaultUserID, maxFrame)
	info := NewInfoHandler(opts.Labels, opts.Health)

	router.POST("/start_session/", sessions.StartSession)
	router.POST("/end_session/:id", sessions.EndSession)
	router.POST("/analyze_focus/", sessions.AnalyzeFocus)
	router.GET("/sessions/", sessions.ListSessions)
	router.GET("/session_metrics/:id", sessions.SessionMetrics)
	router.GET("/emotions", info.Emotions)
	router.GET("/health", info.Health)

	return router
}

// NewHandler wraps the router with CORS for the given origins. "*" allows
// any origin.
func NewHandler(opts Options) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(NewRouter(opts))
}

// Serve runs handler on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http api: %w", err)
	}
	log.Info("http api stopped")
	return nil
}
