// Package vfs holds the operator terminal's simulated filesystem: the node
// tree, path resolution and the clearance/visibility rules layered on top.
package vfs

import "fmt"

// Node is either a *Dir or a *File.
type Node interface {
	Meta() *Attrs
	node()
}

// Attrs are the attributes shared by every node.
type Attrs struct {
	Name      string `yaml:"name"`
	Hidden    bool   `yaml:"hidden,omitempty"`
	Clearance int    `yaml:"clearance,omitempty"`
}

// Level returns the clearance required to enter or open the node.
func (a *Attrs) Level() int {
	if a.Clearance < 1 {
		return 1
	}
	return a.Clearance
}

// File is a leaf with mutable content.
type File struct {
	Attrs
	Content string
	Exec    bool
	Live    bool
}

func (f *File) Meta() *Attrs { return &f.Attrs }
func (*File) node()          {}

// Dir keeps its children in insertion order; that order is the listing order.
type Dir struct {
	Attrs
	order    []string
	children map[string]Node
}

func (d *Dir) Meta() *Attrs { return &d.Attrs }
func (*Dir) node()          {}

// NewDir returns an empty directory.
func NewDir(name string) *Dir {
	return &Dir{Attrs: Attrs{Name: name}, children: make(map[string]Node)}
}

// NewRoot returns the tree root: named "/" with clearance 1.
func NewRoot() *Dir {
	d := NewDir("/")
	d.Clearance = 1
	return d
}

// Child looks a child up by name.
func (d *Dir) Child(name string) (Node, bool) {
	n, ok := d.children[name]
	return n, ok
}

// Children returns the children in insertion order.
func (d *Dir) Children() []Node {
	out := make([]Node, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.children[name])
	}
	return out
}

// Add attaches a node while the tree is being built. Names must be unique.
func (d *Dir) Add(n Node) error {
	name := n.Meta().Name
	if name == "" {
		return fmt.Errorf("empty node name under %q", d.Name)
	}
	if _, ok := d.children[name]; ok {
		return fmt.Errorf("%w: %s/%s", ErrExists, d.Name, name)
	}
	d.order = append(d.order, name)
	d.children[name] = n
	return nil
}

// Put creates or overwrites a File. A name already held by a directory is refused.
func (d *Dir) Put(f *File) error {
	existing, ok := d.children[f.Name]
	if !ok {
		return d.Add(f)
	}
	if _, isDir := existing.(*Dir); isDir {
		return fmt.Errorf("%w: %s is a directory", ErrExists, f.Name)
	}
	d.children[f.Name] = f
	return nil
}
