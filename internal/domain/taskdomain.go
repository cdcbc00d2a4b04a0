package domain

import "fmt"

// TaskDomain is a category of stars: a color and the point its cluster forms around.
// AnchorX/AnchorY are galaxy coordinates. FracX/FracY express the same anchor as a fraction
// of the viewport measured from its center, for responsive placement.
type TaskDomain struct {
	Name    string  `json:"name" yaml:"name"`
	Color   string  `json:"color" yaml:"color"`
	AnchorX float64 `json:"anchorX" yaml:"anchor_x"`
	AnchorY float64 `json:"anchorY" yaml:"anchor_y"`
	FracX   float64 `json:"fracX" yaml:"frac_x"`
	FracY   float64 `json:"fracY" yaml:"frac_y"`
}

// DomainTable is the fixed, ordered set of domains a galaxy accepts
type DomainTable struct {
	order  []string
	byName map[string]TaskDomain
}

// NewDomainTable builds a table, rejecting empty and duplicate names
func NewDomainTable(domains []TaskDomain) (*DomainTable, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("domain table is empty")
	}
	t := &DomainTable{
		order:  make([]string, 0, len(domains)),
		byName: make(map[string]TaskDomain, len(domains)),
	}
	for _, d := range domains {
		if d.Name == "" {
			return nil, fmt.Errorf("domain without a name")
		}
		if _, dup := t.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate domain %q", d.Name)
		}
		t.order = append(t.order, d.Name)
		t.byName[d.Name] = d
	}
	return t, nil
}

// DefaultDomains returns the stock Work/Personal/Study table
func DefaultDomains() *DomainTable {
	t, _ := NewDomainTable([]TaskDomain{
		{Name: "Work", Color: "#00ffff", AnchorX: -500, AnchorY: -500, FracX: -0.25, FracY: -0.25},
		{Name: "Personal", Color: "#ff00ff", AnchorX: 500, AnchorY: 500, FracX: 0.25, FracY: 0.25},
		{Name: "Study", Color: "#ffff00", AnchorX: 500, AnchorY: -500, FracX: 0.25, FracY: -0.25},
	})
	return t
}

// Lookup returns the domain named name
func (t *DomainTable) Lookup(name string) (TaskDomain, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// All returns the domains in table order
func (t *DomainTable) All() []TaskDomain {
	out := make([]TaskDomain, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}
