package dispose

import (
	"context"
)

// ResourceBase is the common base for managed resources.
type ResourceBase struct {
	Dispose
	name string
}

// NewResourceBase creates a named resource base.
func NewResourceBase(name string) *ResourceBase {
	return &ResourceBase{
		name: name,
	}
}

// Initialize binds the resource to a parent context.
func (r *ResourceBase) Initialize(parentCtx context.Context) {
	r.SetCtx(parentCtx, r.onClose)
}

func (r *ResourceBase) onClose() error {
	Debugf("%s resources cleaned up", r.name)
	return nil
}

// GetName returns the resource name.
func (r *ResourceBase) GetName() string {
	return r.name
}

// SetName sets the resource name.
func (r *ResourceBase) SetName(name string) {
	r.name = name
}
