// Package grpc runs the side-channel gRPC server: the standard health
// service, kept in sync with the session store and analytics, plus
// reflection so grpcurl and probes can discover it.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
)

// Service names reported by the health service. The empty name is the
// overall status.
const (
	ServiceStorage   = "scrimhub.ui.Storage"
	ServiceAnalytics = "scrimhub.ui.Analytics"
)

// Pinger is a dependency whose reachability is reported
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps the gRPC server and its health state
type Server struct {
	srv       *grpc.Server
	health    *health.Server
	store     Pinger
	analytics Pinger
}

// NewServer creates the server. Storage decides the overall status;
// analytics is reported on its own and never makes the service unhealthy.
func NewServer(store, analytics Pinger) *Server {
	s := &Server{
		srv:       grpc.NewServer(),
		health:    health.NewServer(),
		store:     store,
		analytics: analytics,
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	return s
}

// Refresh pings the dependencies and updates the reported statuses
func (s *Server) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	storage := s.probe(ctx, ServiceStorage, s.store)
	s.probe(ctx, ServiceAnalytics, s.analytics)
	s.health.SetServingStatus("", storage)
}

func (s *Server) probe(ctx context.Context, service string, p Pinger) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if p != nil {
		if err := p.Ping(ctx); err != nil {
			logger.Warn("gRPC: Health probe failed", "service", service, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus(service, status)
	return status
}

// Watch refreshes the statuses every interval until ctx is done
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Serve accepts connections on lis until Stop
func (s *Server) Serve(lis net.Listener) error {
	logger.Info("gRPC server starting", "address", lis.Addr().String())
	return s.srv.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains in-flight calls
func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
