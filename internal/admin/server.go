package admin

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/yarkeeb/bookfeed/internal/metrics"
	"github.com/yarkeeb/bookfeed/pkg/venue"
)

// PhaseReporter is satisfied by venue workers.
type PhaseReporter interface {
	Name() string
	Phase() venue.Phase
}

type Server struct {
	srv    *http.Server
	venues []PhaseReporter
	log    *zap.Logger
}

func NewServer(addr string, reg *prometheus.Registry, venues []PhaseReporter, logger *zap.Logger) *Server {
	s := &Server{venues: venues, log: logger}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) router(reg *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(ginzap.Ginzap(s.log, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(s.log, true))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.ready)
	router.GET("/venues", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.phases())
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(reg)))
	return router
}

func (s *Server) phases() map[string]string {
	ret := make(map[string]string, len(s.venues))
	for _, v := range s.venues {
		ret[v.Name()] = v.Phase().String()
	}
	return ret
}

// ready reports 200 once at least one venue streams in steady state.
func (s *Server) ready(c *gin.Context) {
	for _, v := range s.venues {
		if v.Phase() == venue.Steady {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no venue in sync", "venues": s.phases()})
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe blocks until the server fails or is shut down.
func (s *Server) ListenAndServe() error {
	s.log.Info("admin server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "admin server")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
