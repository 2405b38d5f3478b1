package master

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Resource is one named scalar quantity, e.g. {cpus 1.5} or {mem 128}.
// Revocable marks a quantity the manager may reclaim at any time.
type Resource struct {
	Name      string
	Value     float64
	Revocable bool
}

// Resources is a vector of named scalar quantities. An offer's resources
// satisfy a requirement iff, for every dimension present in the requirement,
// the offer holds at least as much (revocable and non-revocable quantities
// are distinct dimensions).
type Resources []Resource

// Small tolerance for float accumulation when subtracting task requirements
// out of an offer repeatedly.
const epsilon = 1e-9

type resourceKey struct {
	name      string
	revocable bool
}

func (r Resources) sums() map[resourceKey]float64 {
	m := make(map[resourceKey]float64, len(r))
	for _, res := range r {
		m[resourceKey{res.Name, res.Revocable}] += res.Value
	}
	return m
}

// Get returns the total non-revocable quantity for the named dimension.
func (r Resources) Get(name string) float64 {
	return r.sums()[resourceKey{name, false}]
}

// Contains reports whether r dominates req component-wise.
func (r Resources) Contains(req Resources) bool {
	have := r.sums()
	for key, want := range req.sums() {
		if have[key]+epsilon < want {
			return false
		}
	}
	return true
}

// Plus returns the component-wise sum of r and other.
func (r Resources) Plus(other Resources) Resources {
	return fromSums(addSums(r.sums(), other.sums(), 1))
}

// Minus returns r with other subtracted component-wise.
// Dimensions that drop to zero (or below epsilon) are removed.
func (r Resources) Minus(other Resources) Resources {
	return fromSums(addSums(r.sums(), other.sums(), -1))
}

func addSums(a, b map[resourceKey]float64, sign float64) map[resourceKey]float64 {
	for key, v := range b {
		a[key] += sign * v
	}
	return a
}

func fromSums(m map[resourceKey]float64) Resources {
	var out Resources
	for key, v := range m {
		if v > epsilon {
			out = append(out, Resource{Name: key.name, Value: v, Revocable: key.revocable})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return !out[i].Revocable && out[j].Revocable
	})
	return out
}

// Revocable returns a copy of r with every resource marked revocable.
func (r Resources) Revocable() Resources {
	out := make(Resources, len(r))
	for i, res := range r {
		res.Revocable = true
		out[i] = res
	}
	return out
}

func (r Resources) String() string {
	canonical := fromSums(r.sums())
	parts := make([]string, 0, len(canonical))
	for _, res := range canonical {
		name := res.Name
		if res.Revocable {
			name += "{REV}"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", name, strconv.FormatFloat(res.Value, 'f', -1, 64)))
	}
	return strings.Join(parts, ";")
}

// ParseResources parses a flat resource spec of the form "cpus:1;mem:128".
// Whitespace around tokens is ignored. Names and values are both required.
func ParseResources(spec string) (Resources, error) {
	var out Resources
	for _, tok := range strings.Split(spec, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		nv := strings.SplitN(tok, ":", 2)
		if len(nv) != 2 || strings.TrimSpace(nv[0]) == "" {
			return nil, errors.Errorf("malformed resource %q, expected name:value", tok)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(nv[1]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed resource value in %q", tok)
		}
		if value < 0 {
			return nil, errors.Errorf("negative resource value in %q", tok)
		}
		out = append(out, Resource{Name: strings.TrimSpace(nv[0]), Value: value})
	}
	if len(out) == 0 {
		return nil, errors.Errorf("empty resource spec %q", spec)
	}
	return out, nil
}
