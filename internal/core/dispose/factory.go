package dispose

import (
	"context"
)

// ManagerBase is the standard base for long-lived managers.
type ManagerBase struct {
	*ResourceBase
}

// ServiceBase is the standard base for services.
type ServiceBase struct {
	*ResourceBase
}

// NewManager creates a manager base bound to parentCtx.
func NewManager(name string, parentCtx context.Context) *ManagerBase {
	manager := &ManagerBase{
		ResourceBase: NewResourceBase(name),
	}
	manager.Initialize(parentCtx)
	return manager
}

// NewService creates a service base bound to parentCtx.
func NewService(name string, parentCtx context.Context) *ServiceBase {
	service := &ServiceBase{
		ResourceBase: NewResourceBase(name),
	}
	service.Initialize(parentCtx)
	return service
}
