// Package dispose provides the resource lifecycle primitives used across
// haircast-core: a cancellable context paired with an ordered stack of
// cleanup handlers, plus a registry for process-wide resources.
package dispose

import (
	"context"
	"fmt"
	"sync"
)

// DisposeError describes a single cleanup handler failure.
type DisposeError struct {
	HandlerIndex int
	ResourceName string
	Err          error
}

func (e *DisposeError) Error() string {
	if e.ResourceName != "" {
		return fmt.Sprintf("cleanup resource[%s] handler[%d] failed: %v", e.ResourceName, e.HandlerIndex, e.Err)
	}
	return fmt.Sprintf("cleanup handler[%d] failed: %v", e.HandlerIndex, e.Err)
}

// DisposeResult aggregates the outcome of a cleanup pass.
type DisposeResult struct {
	Errors []*DisposeError
}

func (r *DisposeResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *DisposeResult) Error() string {
	if !r.HasErrors() {
		return ""
	}
	return fmt.Sprintf("dispose cleanup failed with %d errors", len(r.Errors))
}

// Disposable is the unified resource release interface.
type Disposable interface {
	Dispose() error
}

// Dispose couples a cancellable context with cleanup handlers that run
// exactly once, either on Close or on context cancellation.
type Dispose struct {
	currentLock   sync.Mutex
	closed        bool
	ctx           context.Context
	cancel        context.CancelFunc
	cleanHandlers []func() error
	linkLock      sync.Mutex
	errors        []*DisposeError
}

func (c *Dispose) Ctx() context.Context {
	return c.ctx
}

func (c *Dispose) IsClosed() bool {
	c.currentLock.Lock()
	defer c.currentLock.Unlock()
	return c.closed
}

// Close cancels the context and runs cleanup handlers.
func (c *Dispose) Close() *DisposeResult {
	c.currentLock.Lock()
	defer c.currentLock.Unlock()
	if c.closed {
		return &DisposeResult{Errors: c.errors}
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	return c.runCleanHandlers()
}

// CloseWithError is a convenience wrapper returning an error value.
func (c *Dispose) CloseWithError() error {
	result := c.Close()
	if result.HasErrors() {
		return result.Errors[0].Err
	}
	return nil
}

func (c *Dispose) runCleanHandlers() *DisposeResult {
	result := &DisposeResult{Errors: make([]*DisposeError, 0)}

	// Copy under linkLock so AddCleanHandler cannot race the iteration.
	c.linkLock.Lock()
	handlers := make([]func() error, len(c.cleanHandlers))
	copy(handlers, c.cleanHandlers)
	c.linkLock.Unlock()

	for i, handler := range handlers {
		if err := handler(); err != nil {
			disposeErr := &DisposeError{
				HandlerIndex: i,
				Err:          err,
			}
			result.Errors = append(result.Errors, disposeErr)
			c.errors = append(c.errors, disposeErr)
			Errorf("Cleanup handler[%d] failed: %v", i, err)
		}
	}

	return result
}

// AddCleanHandler registers a cleanup handler; handlers run in
// registration order.
func (c *Dispose) AddCleanHandler(f func() error) {
	c.linkLock.Lock()
	defer c.linkLock.Unlock()

	if c.cleanHandlers == nil {
		c.cleanHandlers = make([]func() error, 0)
	}
	c.cleanHandlers = append(c.cleanHandlers, f)
}

// SetCtx binds the dispose to a parent context. When the context is
// cancelled the cleanup handlers run, the same as an explicit Close.
func (c *Dispose) SetCtx(parent context.Context, onClose func() error) {
	if c.ctx != nil {
		Warn("ctx already set")
		return
	}

	curParent := parent
	if curParent == nil {
		curParent = context.Background()
	}

	if onClose != nil {
		c.AddCleanHandler(onClose)
	}

	c.ctx, c.cancel = context.WithCancel(curParent)
	c.closed = false
	go func() {
		<-c.ctx.Done()
		c.currentLock.Lock()
		defer c.currentLock.Unlock()

		if !c.closed {
			result := c.runCleanHandlers()
			if result.HasErrors() {
				Errorf("Context cancellation cleanup failed: %v", result.Error())
			}
			c.closed = true
		}
	}()
}
