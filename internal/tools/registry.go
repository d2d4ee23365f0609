package tools

// Registry holds the hosted tools in registration order. Registration
// happens during startup wiring; reads after that are lock-free.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Re-registering a name replaces the tool but
// keeps its original position.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns the tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Descriptors returns the tool list in the shape the /info document
// advertises.
func (r *Registry) Descriptors() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(r.order))
	for _, t := range r.List() {
		out = append(out, map[string]interface{}{
			"name":         t.Name,
			"description":  t.Description,
			"input_schema": t.InputSchema,
		})
	}
	return out
}

// ResourceRegistry holds the hosted resources in registration order.
type ResourceRegistry struct {
	resources map[string]Resource
	order     []string
}

func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{resources: make(map[string]Resource)}
}

func (r *ResourceRegistry) Register(res Resource) {
	if _, exists := r.resources[res.URI]; !exists {
		r.order = append(r.order, res.URI)
	}
	r.resources[res.URI] = res
}

func (r *ResourceRegistry) Get(uri string) (Resource, bool) {
	res, ok := r.resources[uri]
	return res, ok
}

// Descriptors returns the resource list in the shape the /info document
// advertises.
func (r *ResourceRegistry) Descriptors() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(r.order))
	for _, uri := range r.order {
		res := r.resources[uri]
		out = append(out, map[string]interface{}{
			"uri":         res.URI,
			"description": res.Description,
		})
	}
	return out
}
