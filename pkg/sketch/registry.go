package sketch

import "github.com/samber/lo"

// Registry holds the planes of a workspace in creation order.
type Registry struct {
	byID  map[PlaneID]*Plane
	order []PlaneID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[PlaneID]*Plane)}
}

// Add registers p. Adding the same plane twice is a no-op.
func (r *Registry) Add(p *Plane) {
	if _, ok := r.byID[p.ID]; ok {
		return
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
}

// Plane returns the plane with the given id, or nil.
func (r *Registry) Plane(id PlaneID) *Plane {
	return r.byID[id]
}

// Planes returns every plane in creation order.
func (r *Registry) Planes() []*Plane {
	return lo.Map(r.order, func(id PlaneID, _ int) *Plane { return r.byID[id] })
}

// Owner returns the plane holding primitive id, or nil.
func (r *Registry) Owner(id PrimitiveID) *Plane {
	for _, pid := range r.order {
		if p := r.byID[pid]; p.Contains(id) {
			return p
		}
	}
	return nil
}
