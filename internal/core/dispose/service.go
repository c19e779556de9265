package dispose

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ServiceConfig controls ServiceManager shutdown behavior.
type ServiceConfig struct {
	GracefulShutdownTimeout time.Duration
	ResourceDisposeTimeout  time.Duration
	EnableSignalHandling    bool
	ResourceManager         *ResourceManager
}

// DefaultServiceConfig returns the standard shutdown configuration.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		GracefulShutdownTimeout: 30 * time.Second,
		ResourceDisposeTimeout:  10 * time.Second,
		EnableSignalHandling:    true,
	}
}

// Service is implemented by everything the ServiceManager runs.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Name() string
}

// HTTPService runs an http.Server as a Service.
type HTTPService struct {
	addr    string
	handler http.Handler
	server  *http.Server
	mu      sync.Mutex

	// Optional timeouts. ReadHeaderTimeout instead of ReadTimeout so
	// hijacked (WebSocket) connections are unaffected.
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// NewHTTPService creates an HTTP service listening on addr.
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{
		addr:    addr,
		handler: handler,
	}
}

func (h *HTTPService) Name() string {
	return fmt.Sprintf("HTTP-Server-%s", h.addr)
}

func (h *HTTPService) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.server = &http.Server{
		Addr:              h.addr,
		Handler:           h.handler,
		ReadHeaderTimeout: h.ReadHeaderTimeout,
		WriteTimeout:      h.WriteTimeout,
		IdleTimeout:       h.IdleTimeout,
	}

	Infof("Starting HTTP service on %s", h.addr)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			Errorf("HTTP service error: %v", err)
		}
	}()

	return nil
}

func (h *HTTPService) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.server == nil {
		return nil
	}

	Infof("Stopping HTTP service on %s", h.addr)
	return h.server.Shutdown(ctx)
}

// ServiceManager starts and stops a set of services and disposes
// registered resources on shutdown.
type ServiceManager struct {
	Dispose
	config       *ServiceConfig
	services     map[string]Service
	order        []string
	resourceMgr  *ResourceManager
	shutdownChan chan struct{}
	mu           sync.RWMutex
	runCtx       context.Context
	runCancel    context.CancelFunc
}

// NewServiceManager creates a service manager with the given config.
func NewServiceManager(config *ServiceConfig) *ServiceManager {
	if config == nil {
		config = DefaultServiceConfig()
	}

	resourceMgr := config.ResourceManager
	if resourceMgr == nil {
		resourceMgr = NewResourceManager()
	}

	ctx, cancel := context.WithCancel(context.Background())

	manager := &ServiceManager{
		config:       config,
		services:     make(map[string]Service),
		resourceMgr:  resourceMgr,
		shutdownChan: make(chan struct{}),
		runCtx:       ctx,
		runCancel:    cancel,
	}
	manager.SetCtx(ctx, nil)
	return manager
}

// RegisterService registers a service; services start in registration
// order and stop in reverse.
func (sm *ServiceManager) RegisterService(service Service) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	name := service.Name()
	if _, exists := sm.services[name]; exists {
		return fmt.Errorf("service %s already registered", name)
	}

	sm.services[name] = service
	sm.order = append(sm.order, name)
	Infof("Service registered: %s", name)
	return nil
}

// RegisterResource registers a Disposable released during shutdown.
func (sm *ServiceManager) RegisterResource(name string, resource Disposable) error {
	return sm.resourceMgr.Register(name, resource)
}

// StartAllServices starts every registered service.
func (sm *ServiceManager) StartAllServices() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	Infof("Starting %d services...", len(sm.order))

	for _, name := range sm.order {
		service := sm.services[name]
		if err := service.Start(sm.runCtx); err != nil {
			Errorf("Failed to start service %s: %v", name, err)
			return fmt.Errorf("failed to start service %s: %v", name, err)
		}
		Infof("Service started: %s", name)
	}

	return nil
}

// StopAllServices stops every registered service in reverse order.
func (sm *ServiceManager) StopAllServices() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	Infof("Stopping %d services...", len(sm.order))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), sm.config.GracefulShutdownTimeout)
	defer cancel()

	var lastErr error
	for i := len(sm.order) - 1; i >= 0; i-- {
		name := sm.order[i]
		service := sm.services[name]
		if err := service.Stop(shutdownCtx); err != nil {
			Errorf("Failed to stop service %s: %v", name, err)
			lastErr = err
		} else {
			Infof("Service stopped: %s", name)
		}
	}

	return lastErr
}

// RunWithContext starts all services and blocks until ctx is cancelled
// or a shutdown signal arrives, then performs graceful shutdown.
func (sm *ServiceManager) RunWithContext(ctx context.Context) error {
	if sm.config.EnableSignalHandling {
		sm.setupSignalHandling()
	}

	if err := sm.StartAllServices(); err != nil {
		return fmt.Errorf("failed to start services: %v", err)
	}

	select {
	case <-ctx.Done():
		Infof("Context cancelled, initiating shutdown")
	case <-sm.shutdownChan:
		Infof("Shutdown signal received")
	}

	return sm.gracefulShutdown()
}

// Run starts all services and blocks until a shutdown signal arrives.
func (sm *ServiceManager) Run() error {
	return sm.RunWithContext(context.Background())
}

// TriggerShutdown initiates shutdown programmatically.
func (sm *ServiceManager) TriggerShutdown() {
	select {
	case <-sm.shutdownChan:
	default:
		close(sm.shutdownChan)
	}
}

func (sm *ServiceManager) setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		Infof("Received signal: %v", sig)
		sm.TriggerShutdown()
	}()
}

func (sm *ServiceManager) gracefulShutdown() error {
	Infof("Starting graceful shutdown...")

	if err := sm.StopAllServices(); err != nil {
		Errorf("Service shutdown error: %v", err)
	}

	Infof("Disposing resources...")
	result := sm.resourceMgr.DisposeWithTimeout(sm.config.ResourceDisposeTimeout)
	if result.HasErrors() {
		Errorf("Resource disposal completed with errors: %v", result.Error())
		sm.runCancel()
		return fmt.Errorf("resource disposal failed: %v", result.Error())
	}

	sm.runCancel()
	Infof("Graceful shutdown completed successfully")
	return nil
}
