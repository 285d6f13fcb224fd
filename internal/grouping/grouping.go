// Package grouping buckets contacts that share a mailing address.
package grouping

import "github.com/sells-group/contacts-dedupe/internal/model"

// Group holds the contacts sharing one address key in input order. The first
// member is the primary.
type Group struct {
	Key string
	// Unkeyed is set for the singleton group of a contact without a street.
	Unkeyed bool
	members []model.Contact
}

// Primary returns the first contact seen at this address.
func (g *Group) Primary() model.Contact {
	return g.members[0]
}

// Members returns the contacts in insertion order. The slice must not be modified.
func (g *Group) Members() []model.Contact {
	return g.members
}

// Len returns the number of contacts in the group.
func (g *Group) Len() int {
	return len(g.members)
}

// Table maps address keys to groups and remembers the order in which keys
// were first seen.
type Table struct {
	index  map[string]*Group
	groups []*Group
}

// Stats summarizes a table.
type Stats struct {
	Records      int `json:"records" yaml:"records"`
	Groups       int `json:"groups" yaml:"groups"`
	SharedGroups int `json:"shared_groups" yaml:"shared_groups"` // groups with more than one contact
	LargestGroup int `json:"largest_group" yaml:"largest_group"`
	Unkeyed      int `json:"unkeyed" yaml:"unkeyed"` // contacts without a street
}

// Build groups contacts by address key in a single pass. Keys come from keyer,
// which must not be shared with another run.
func Build(contacts []model.Contact, keyer *model.AddressKeyer) *Table {
	t := &Table{index: make(map[string]*Group)}
	for _, c := range contacts {
		t.add(keyer.Key(c), c)
	}
	return t
}

func (t *Table) add(key string, c model.Contact) {
	g, ok := t.index[key]
	if !ok {
		g = &Group{Key: key, Unkeyed: !c.HasStreet()}
		t.index[key] = g
		t.groups = append(t.groups, g)
	}
	g.members = append(g.members, c)
}

// Get returns the group for key.
func (t *Table) Get(key string) (*Group, bool) {
	g, ok := t.index[key]
	return g, ok
}

// Groups returns the groups in first-seen order.
func (t *Table) Groups() []*Group {
	return t.groups
}

// Len returns the number of distinct addresses.
func (t *Table) Len() int {
	return len(t.groups)
}

// Stats computes record and group counts.
func (t *Table) Stats() Stats {
	s := Stats{Groups: len(t.groups)}
	for _, g := range t.groups {
		s.Records += g.Len()
		if g.Len() > 1 {
			s.SharedGroups++
		}
		if g.Len() > s.LargestGroup {
			s.LargestGroup = g.Len()
		}
		if g.Unkeyed {
			s.Unkeyed++
		}
	}
	return s
}
