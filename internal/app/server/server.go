// Package server wires the gateway together: registry, inference
// client, bridge, health endpoints, and the HTTP listener, under one
// service manager with graceful shutdown.
package server

import (
	"context"
	"time"

	"github.com/gorilla/mux"

	"haircast-core/internal/bridge"
	"haircast-core/internal/core/dispose"
	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/core/metrics"
	"haircast-core/internal/health"
	"haircast-core/internal/inference"
	"haircast-core/internal/session"
)

// Server is the assembled gateway process.
type Server struct {
	config          *Config
	serviceManager  *dispose.ServiceManager
	registry        *session.Registry
	inferenceClient *inference.Client
	bridgeServer    *bridge.Server
	router          *mux.Router
}

// New builds a gateway from config. Logging and metrics are
// initialized here so every later component logs consistently.
func New(config *Config, parentCtx context.Context) *Server {
	if err := corelog.Init(&config.Log); err != nil {
		corelog.Fatalf("Server: logger initialization failed: %v", err)
	}
	if err := metrics.SetGlobalMetrics(metrics.NewMemoryMetrics(parentCtx)); err != nil {
		corelog.Fatalf("Server: metrics initialization failed: %v", err)
	}

	serviceConfig := dispose.DefaultServiceConfig()
	serviceConfig.GracefulShutdownTimeout = 30 * time.Second
	serviceConfig.ResourceDisposeTimeout = 10 * time.Second
	serviceManager := dispose.NewServiceManager(serviceConfig)

	registry := session.NewRegistry(parentCtx)
	client := inference.NewClient(parentCtx, config.Inference.toInference())
	bridgeServer := bridge.NewServer(parentCtx, config.Bridge.toBridge(), registry, bridge.NewInferenceProvider(client))

	registry.StartSweeper(
		time.Duration(config.Session.SweepInterval)*time.Second,
		time.Duration(config.Session.MaxIdle)*time.Second,
		bridgeServer.EvictSession)

	checker := health.NewCompositeHealthChecker(time.Duration(config.Health.CheckTimeout) * time.Second)
	checker.RegisterChecker("session_registry", health.NewRegistryChecker(registry))
	checker.RegisterChecker("inference_backend", health.NewInferenceChecker(client))

	router := mux.NewRouter()
	bridgeServer.RegisterRoutes(router)
	health.NewHandler(checker, registry).RegisterRoutes(router)

	s := &Server{
		config:          config,
		serviceManager:  serviceManager,
		registry:        registry,
		inferenceClient: client,
		bridgeServer:    bridgeServer,
		router:          router,
	}

	httpService := dispose.NewHTTPService(config.HTTP.Addr(), router)
	httpService.ReadHeaderTimeout = time.Duration(config.HTTP.ReadTimeout) * time.Second
	httpService.WriteTimeout = time.Duration(config.HTTP.WriteTimeout) * time.Second
	httpService.IdleTimeout = time.Duration(config.HTTP.IdleTimeout) * time.Second
	if err := serviceManager.RegisterService(httpService); err != nil {
		corelog.Fatalf("Server: HTTP service registration failed: %v", err)
	}

	// Shutdown order: bridge first (stops accepting sessions), then
	// the inference client, then the registry.
	mustRegisterResource(serviceManager, "bridge_server", bridgeServer.CloseWithError)
	mustRegisterResource(serviceManager, "inference_client", client.CloseWithError)
	mustRegisterResource(serviceManager, "session_registry", registry.CloseWithError)

	return s
}

func mustRegisterResource(sm *dispose.ServiceManager, name string, release func() error) {
	if err := sm.RegisterResource(name, dispose.DisposeFunc(release)); err != nil {
		corelog.Fatalf("Server: resource %s registration failed: %v", name, err)
	}
}

// Run blocks until a shutdown signal arrives, then shuts down
// gracefully.
func (s *Server) Run() error {
	corelog.Infof("Server: listening on %s (stream %s)", s.config.HTTP.Addr(), s.config.Bridge.Path)
	return s.serviceManager.Run()
}

// Shutdown triggers a graceful stop programmatically.
func (s *Server) Shutdown() {
	s.serviceManager.TriggerShutdown()
}
