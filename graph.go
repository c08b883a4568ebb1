package skein

import (
	"reflect"
	"strconv"
)

// Link is a directed edge between two graph nodes.
type Link struct {
	From     int    // Index of the record holding the reference
	To       int    // Index of the referenced record
	Field    string // Name of the reference field
	Position int    // Position inside a reference list, -1 for single references
}

// Graph is a decoded document viewed as an arena: records addressed by
// index plus index-based links. The records themselves are fully linked,
// so Nodes can also be walked through their fields.
type Graph struct {
	Nodes  []Record // In order of first appearance in the document
	Roots  []int    // Top-level records, nil roots excluded
	Labels []string // Map key of each root, empty for list and single documents
	Links  []Link

	index map[Record]int
}

// Index returns the position of r in Nodes.
func (g *Graph) Index(r Record) (int, bool) {
	i, ok := g.index[r]
	return i, ok
}

// Outgoing returns the links leaving node i.
func (g *Graph) Outgoing(i int) []Link {
	var out []Link
	for _, l := range g.Links {
		if l.From == i {
			out = append(out, l)
		}
	}
	return out
}

// Incoming returns the links arriving at node i.
func (g *Graph) Incoming(i int) []Link {
	var in []Link
	for _, l := range g.Links {
		if l.To == i {
			in = append(in, l)
		}
	}
	return in
}

// Type returns the Go struct name of node i.
func (g *Graph) Type(i int) string {
	return reflect.TypeOf(g.Nodes[i]).Elem().Name()
}

// graph decodes any accepted top-level shape without a typed target.
func (d *decoder) graph(v Value) (*Graph, error) {
	g := &Graph{}
	addRoot := func(label string, raw Value, path string) error {
		if raw == nil {
			return nil
		}
		r, err := d.node(raw, path)
		if err != nil {
			return err
		}
		g.Roots = append(g.Roots, d.index[r])
		g.Labels = append(g.Labels, label)
		return nil
	}
	addList := func(label string, arr Array, path string) error {
		for i, elem := range arr {
			if err := addRoot(label, elem, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		return nil
	}

	switch t := v.(type) {
	case nil:
	case Array:
		if err := addList("", t, "$"); err != nil {
			return nil, err
		}
	case *Object:
		if t.Has(memberKey) {
			if err := addRoot("", t, "$"); err != nil {
				return nil, err
			}
			break
		}
		for _, m := range t.Members() {
			path := "$." + m.Name
			var err error
			if arr, ok := m.Value.(Array); ok {
				err = addList(m.Name, arr, path)
			} else {
				err = addRoot(m.Name, m.Value, path)
			}
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, newFormatError("$", "expected object or array, got %s", tokenName(v))
	}

	g.Nodes = d.order
	g.Links = d.links
	g.index = d.index
	return g, nil
}
