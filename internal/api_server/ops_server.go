// Package apiserver exposes the worker's operational surface: health and
// Prometheus metrics. The content APIs live in a separate service; this
// process only reports on itself.
package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/janavarta/news-platform/pkg/metrics"
	chainmw "github.com/janavarta/news-platform/pkg/middleware"
	"go.uber.org/zap"
)

const gracefulShutdownTimeout = 5 * time.Second

type OpsServer struct {
	bindAddress string
	httpServer  *http.Server
	listener    net.Listener
}

func NewOpsServer(bindAddress string, listener net.Listener) *OpsServer {
	router := chi.NewRouter()
	router.Use(chainmw.RequestID)
	router.Use(chainmw.Logger())

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	prometheusMetricHandler := metrics.NewPrometheusMetricsHandler()
	router.Handle("/metrics", prometheusMetricHandler.Handler())

	return &OpsServer{
		bindAddress: bindAddress,
		listener:    listener,
		httpServer: &http.Server{
			Addr:    bindAddress,
			Handler: router,
		},
	}
}

func (s *OpsServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		s.httpServer.SetKeepAlivesEnabled(false)
		_ = s.httpServer.Shutdown(ctxTimeout)
		zap.S().Named("ops_server").Info("ops server terminated")
	}()

	zap.S().Named("ops_server").Infof("serving ops endpoints: %s", s.bindAddress)
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
