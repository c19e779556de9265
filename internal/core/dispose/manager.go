package dispose

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ResourceManager tracks Disposables and releases them in reverse
// registration order.
type ResourceManager struct {
	resources map[string]Disposable
	mu        sync.RWMutex
	order     []string
	disposing bool
}

// DisposeFunc adapts a plain function to Disposable.
type DisposeFunc func() error

func (f DisposeFunc) Dispose() error { return f() }

// NewResourceManager creates an empty resource manager.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		resources: make(map[string]Disposable),
		order:     make([]string, 0),
	}
}

// Register adds a resource; release order follows registration order.
func (rm *ResourceManager) Register(name string, resource Disposable) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, exists := rm.resources[name]; exists {
		return fmt.Errorf("resource %s already registered", name)
	}

	rm.resources[name] = resource
	rm.order = append(rm.order, name)
	Debugf("Registered resource: %s", name)
	return nil
}

// Unregister removes a resource without disposing it.
func (rm *ResourceManager) Unregister(name string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, exists := rm.resources[name]; !exists {
		return fmt.Errorf("resource %s not found", name)
	}

	delete(rm.resources, name)
	for i, resourceName := range rm.order {
		if resourceName == name {
			rm.order = append(rm.order[:i], rm.order[i+1:]...)
			break
		}
	}
	Debugf("Unregistered resource: %s", name)
	return nil
}

// GetResourceCount returns the number of registered resources.
func (rm *ResourceManager) GetResourceCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.resources)
}

// DisposeAll releases all resources in reverse registration order.
func (rm *ResourceManager) DisposeAll() *DisposeResult {
	rm.mu.Lock()

	if rm.disposing || len(rm.resources) == 0 {
		rm.mu.Unlock()
		return &DisposeResult{Errors: make([]*DisposeError, 0)}
	}

	rm.disposing = true

	resources := rm.resources
	order := make([]string, len(rm.order))
	copy(order, rm.order)

	rm.resources = make(map[string]Disposable)
	rm.order = make([]string, 0)

	rm.mu.Unlock()

	result := &DisposeResult{Errors: make([]*DisposeError, 0)}
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		resource := resources[name]
		if resource == nil {
			continue
		}

		if err := resource.Dispose(); err != nil {
			disposeErr := &DisposeError{
				HandlerIndex: len(order) - 1 - i,
				ResourceName: name,
				Err:          err,
			}
			result.Errors = append(result.Errors, disposeErr)
			Errorf("Failed to dispose resource %s: %v", name, err)
		} else {
			Debugf("Disposed resource: %s", name)
		}
	}

	rm.mu.Lock()
	rm.disposing = false
	rm.mu.Unlock()

	return result
}

// DisposeWithTimeout runs DisposeAll bounded by timeout.
func (rm *ResourceManager) DisposeWithTimeout(timeout time.Duration) *DisposeResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resultChan := make(chan *DisposeResult, 1)

	go func() {
		resultChan <- rm.DisposeAll()
	}()

	select {
	case result := <-resultChan:
		return result
	case <-ctx.Done():
		return &DisposeResult{
			Errors: []*DisposeError{
				{
					HandlerIndex: -1,
					ResourceName: "timeout",
					Err:          fmt.Errorf("dispose timeout after %v", timeout),
				},
			},
		}
	}
}
