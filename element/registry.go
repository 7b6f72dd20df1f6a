package element

import (
	"sync"

	"github.com/golang/glog"

	"github.com/notargets/dgamr/types"
)

type registryKey struct {
	order int
	shape types.CellShape
}

// Registry hands out one shared StdElement per (order, shape)
type Registry struct {
	mu       sync.Mutex
	elements map[registryKey]*StdElement
}

func NewRegistry() *Registry {
	return &Registry{
		elements: make(map[registryKey]*StdElement),
	}
}

func (r *Registry) Get(order int, shape types.CellShape) (se *StdElement, err error) {
	key := registryKey{order: order, shape: shape}
	r.mu.Lock()
	defer r.mu.Unlock()
	if se = r.elements[key]; se != nil {
		return
	}
	if se, err = NewStdElement(order, shape); err != nil {
		return
	}
	glog.V(1).Infof("registry: created standard element %v", se)
	r.elements[key] = se
	return
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.elements)
}
