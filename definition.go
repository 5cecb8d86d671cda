package retyped

import (
	"fmt"
	"slices"

	restate "github.com/restatedev/sdk-go"
)

// Definition is a built service, object or workflow, ready for SDK
// registration.
type Definition interface {
	// Name returns the definition's registered name.
	Name() string

	// Bindable returns the SDK service definition to pass to
	// server.NewRestate().Bind.
	Bindable() restate.ServiceDefinition
}

// bindingCore is shared by a definition and every handler bound into it.
type bindingCore struct {
	service string
	kind    targetKind
	codec   Codec
	hooks   Hooks
}

// ServiceDefinition is a built stateless service.
type ServiceDefinition struct {
	core  *bindingCore
	order []string
	raw   map[string]rawServiceHandler
}

// Service builds a service definition from handler declarations. An empty
// handler set is legal; handlers can still be added in a later rebuild.
func (f *Facade) Service(name string, handlers ...ServiceBinding) (*ServiceDefinition, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	d := &ServiceDefinition{
		core: f.newCore(name, targetService),
		raw:  make(map[string]rawServiceHandler, len(handlers)),
	}
	for _, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("service %q: %w", name, ErrHandlerRequired)
		}
		hn := h.handlerName()
		if hn == "" {
			return nil, fmt.Errorf("service %q: unnamed handler: %w", name, ErrNameRequired)
		}
		if _, dup := d.raw[hn]; dup {
			return nil, fmt.Errorf("service %q: %w: %q", name, ErrDuplicateHandler, hn)
		}
		if err := h.bindService(d); err != nil {
			return nil, fmt.Errorf("service %q, handler %q: %w", name, hn, err)
		}
		d.order = append(d.order, hn)
	}
	f.track(d)
	return d, nil
}

// Name returns the service name.
func (d *ServiceDefinition) Name() string { return d.core.service }

// HandlerNames lists the bound handlers in declaration order.
func (d *ServiceDefinition) HandlerNames() []string { return slices.Clone(d.order) }

// Bindable returns the SDK registration for this service.
func (d *ServiceDefinition) Bindable() restate.ServiceDefinition {
	router := restate.NewService(d.core.service,
		restate.WithPayloadCodec(passthroughFor(d.core.codec)))
	for _, name := range d.order {
		router = router.Handler(name, restate.NewServiceHandler(d.raw[name]))
	}
	return router
}

// ObjectDefinition is a built virtual object.
type ObjectDefinition struct {
	core      *bindingCore
	order     []string
	exclusive map[string]rawObjectHandler
	shared    map[string]rawObjectSharedHandler
}

// Object builds a virtual-object definition from any mix of exclusive and
// shared handler declarations.
func (f *Facade) Object(name string, handlers ...ObjectBinding) (*ObjectDefinition, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	d := &ObjectDefinition{
		core:      f.newCore(name, targetObject),
		exclusive: make(map[string]rawObjectHandler),
		shared:    make(map[string]rawObjectSharedHandler),
	}
	for _, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("object %q: %w", name, ErrHandlerRequired)
		}
		hn := h.handlerName()
		if hn == "" {
			return nil, fmt.Errorf("object %q: unnamed handler: %w", name, ErrNameRequired)
		}
		if d.has(hn) {
			return nil, fmt.Errorf("object %q: %w: %q", name, ErrDuplicateHandler, hn)
		}
		if err := h.bindObject(d); err != nil {
			return nil, fmt.Errorf("object %q, handler %q: %w", name, hn, err)
		}
		d.order = append(d.order, hn)
	}
	f.track(d)
	return d, nil
}

func (d *ObjectDefinition) has(name string) bool {
	if _, ok := d.exclusive[name]; ok {
		return true
	}
	_, ok := d.shared[name]
	return ok
}

// Name returns the object name.
func (d *ObjectDefinition) Name() string { return d.core.service }

// HandlerNames lists all bound handlers in declaration order.
func (d *ObjectDefinition) HandlerNames() []string { return slices.Clone(d.order) }

// SharedHandlerNames lists the handlers bound in shared mode, in declaration
// order.
func (d *ObjectDefinition) SharedHandlerNames() []string {
	var names []string
	for _, n := range d.order {
		if _, ok := d.shared[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// Bindable returns the SDK registration for this object.
func (d *ObjectDefinition) Bindable() restate.ServiceDefinition {
	router := restate.NewObject(d.core.service,
		restate.WithPayloadCodec(passthroughFor(d.core.codec)))
	for _, name := range d.order {
		if rh, ok := d.exclusive[name]; ok {
			router = router.Handler(name, restate.NewObjectHandler(rh))
			continue
		}
		router = router.Handler(name, restate.NewObjectSharedHandler(d.shared[name]))
	}
	return router
}

// WorkflowDefinition is a built workflow: one run handler plus any number of
// shared handlers.
type WorkflowDefinition struct {
	core   *bindingCore
	run    rawWorkflowHandler
	order  []string
	shared map[string]rawWorkflowSharedHandler
}

// Workflow builds a workflow definition. The run handler is a distinct
// parameter, so a workflow without one does not construct.
func (f *Facade) Workflow(name string, run WorkflowRunBinding, shared ...WorkflowBinding) (*WorkflowDefinition, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if run == nil {
		return nil, fmt.Errorf("workflow %q: %w", name, ErrRunHandlerRequired)
	}
	d := &WorkflowDefinition{
		core:   f.newCore(name, targetWorkflow),
		shared: make(map[string]rawWorkflowSharedHandler, len(shared)),
	}
	if err := run.bindWorkflowRun(d); err != nil {
		return nil, fmt.Errorf("workflow %q, run handler: %w", name, err)
	}
	for _, h := range shared {
		if h == nil {
			return nil, fmt.Errorf("workflow %q: %w", name, ErrHandlerRequired)
		}
		hn := h.handlerName()
		if hn == "" {
			return nil, fmt.Errorf("workflow %q: unnamed handler: %w", name, ErrNameRequired)
		}
		if _, dup := d.shared[hn]; dup || hn == workflowRunName {
			return nil, fmt.Errorf("workflow %q: %w: %q", name, ErrDuplicateHandler, hn)
		}
		if err := h.bindWorkflowShared(d); err != nil {
			return nil, fmt.Errorf("workflow %q, handler %q: %w", name, hn, err)
		}
		d.order = append(d.order, hn)
	}
	f.track(d)
	return d, nil
}

// Name returns the workflow name.
func (d *WorkflowDefinition) Name() string { return d.core.service }

// HandlerNames lists the run handler followed by the shared handlers in
// declaration order.
func (d *WorkflowDefinition) HandlerNames() []string {
	return append([]string{workflowRunName}, d.order...)
}

// SharedHandlerNames lists the shared handlers in declaration order.
func (d *WorkflowDefinition) SharedHandlerNames() []string { return slices.Clone(d.order) }

// Bindable returns the SDK registration for this workflow.
func (d *WorkflowDefinition) Bindable() restate.ServiceDefinition {
	router := restate.NewWorkflow(d.core.service,
		restate.WithPayloadCodec(passthroughFor(d.core.codec)))
	router = router.Handler(workflowRunName, restate.NewWorkflowHandler(d.run))
	for _, name := range d.order {
		router = router.Handler(name, restate.NewWorkflowSharedHandler(d.shared[name]))
	}
	return router
}

var (
	_ Definition = (*ServiceDefinition)(nil)
	_ Definition = (*ObjectDefinition)(nil)
	_ Definition = (*WorkflowDefinition)(nil)
)
