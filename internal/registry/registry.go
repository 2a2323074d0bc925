package registry

import (
	"errors"
	"fmt"
	"strings"

	"docqa/pkg/types"
)

// DefaultModels is the selectable set when configuration names none.
var DefaultModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo"}

// ErrEmpty is returned when no model ids remain after trimming.
var ErrEmpty = errors.New("registry: no models configured")

// Registry is the fixed, ordered set of model ids the form offers.
type Registry struct {
	ids   []string
	index map[string]struct{}
	def   string
}

// New builds a registry from ids in display order. Blank and duplicate ids are
// dropped. def must be one of ids; an empty def selects the first id.
func New(ids []string, def string) (*Registry, error) {
	r := &Registry{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := r.index[id]; dup {
			continue
		}
		r.index[id] = struct{}{}
		r.ids = append(r.ids, id)
	}
	if len(r.ids) == 0 {
		return nil, ErrEmpty
	}
	def = strings.TrimSpace(def)
	if def == "" {
		def = r.ids[0]
	}
	if _, ok := r.index[def]; !ok {
		return nil, fmt.Errorf("registry: default model %q is not in %v", def, r.ids)
	}
	r.def = def
	return r, nil
}

// Has reports whether id is selectable.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Default returns the preselected model id.
func (r *Registry) Default() string { return r.def }


// List returns the models for GET /models.
func (r *Registry) List() []types.Model {
	out := make([]types.Model, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, types.Model{ID: id, Default: id == r.def})
	}
	return out
}
