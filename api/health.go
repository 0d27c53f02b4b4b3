package api

import (
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"territory-client/session"
)

// HEALTH_SERVICE is the service name probes ask about. The empty name reports the same.
const HEALTH_SERVICE = "territory.Client"

// HealthService exposes the standard gRPC health protocol. It reports NOT_SERVING until a
// welcome has been applied.
type HealthService struct {
	health *health.Server
	server *grpc.Server
}

func NewHealthService() *HealthService {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(HEALTH_SERVICE, healthpb.HealthCheckResponse_NOT_SERVING)

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return &HealthService{health: hs, server: srv}
}

// Update follows the published summary. Its shape fits a session publisher.
func (h *HealthService) Update(sum session.Summary, _ session.Stats) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if sum.Welcomed {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(HEALTH_SERVICE, status)
}

// Serve blocks accepting probes on lis.
func (h *HealthService) Serve(lis net.Listener) error {
	log.Printf("gRPC health service listening on %s", lis.Addr())
	return h.server.Serve(lis)
}

func (h *HealthService) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
