package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/handler"
	myGRPC "github.com/MKhiriev/go-taskpro/internal/handler/grpc"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type okHealth struct{}

func (okHealth) Check(context.Context) models.Health {
	return models.Health{Status: models.HealthStatusOK, Database: models.DatabaseConnected}
}
func (okHealth) GetAppVersion(context.Context) string { return "test" }

func newTestServer(t *testing.T) (*server, *myGRPC.Handler) {
	t.Helper()

	ping := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	httpSrv, err := newHTTPServer(ping, "127.0.0.1:0", logger.Nop())
	require.NoError(t, err)

	grpcHandler := myGRPC.NewHandler(&service.Services{HealthService: okHealth{}}, logger.Nop())
	grpcSrv, err := newGRPCServer(grpcHandler, "127.0.0.1:0", logger.Nop())
	require.NoError(t, err)

	return &server{httpServer: httpSrv, gRPCServer: grpcSrv, logger: logger.Nop()}, grpcHandler
}

func TestServer_RunServesUntilCanceled(t *testing.T) {
	srv, grpcHandler := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.httpServer.listener.Addr().String() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	conn, err := grpc.NewClient(srv.gRPCServer.gRPCNetListener.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	grpcHandler.RefreshHealth(ctx)
	check, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: myGRPC.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check.GetStatus())

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_ShutdownIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)

	srv.Shutdown()
	srv.Shutdown()

	_, err := http.Get("http://" + srv.httpServer.listener.Addr().String() + "/")
	assert.Error(t, err)
}

func TestServer_RunWithoutTransports(t *testing.T) {
	srv := &server{logger: logger.Nop()}

	assert.ErrorIs(t, srv.Run(context.Background()), errNoServersToRun)
}

func TestNewServer_NoAddresses(t *testing.T) {
	_, err := NewServer(&handler.Handlers{}, config.Server{}, logger.Nop())

	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestNewServer_ListenError(t *testing.T) {
	_, err := NewServer(&handler.Handlers{GRPC: myGRPC.NewHandler(nil, logger.Nop())}, config.Server{GRPCAddress: "256.0.0.1:bad"}, logger.Nop())

	assert.Error(t, err)
}
