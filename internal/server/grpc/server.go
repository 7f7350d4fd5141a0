// Package grpc serves the standard gRPC health protocol so orchestrators can
// probe the server without speaking its JSON API.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the overall ("")
// status.
const ServiceName = "passvault.Vault"

var netListen = net.Listen

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthServer struct {
	address  string
	pinger   Pinger
	logger   logging.Logger
	interval time.Duration
	health   *health.Server
}

func NewHealthServer(a string, p Pinger, l logging.Logger) *HealthServer {
	return &HealthServer{
		address:  a,
		pinger:   p,
		logger:   l.With("module", "grpc_health"),
		interval: 5 * time.Second,
		health:   health.NewServer(),
	}
}

// refresh sets the serving status from a storage ping.
func (s *HealthServer) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.pinger.Ping(pingCtx); err != nil {
		s.logger.Warn(ctx, "storage ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := netListen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.refresh(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
