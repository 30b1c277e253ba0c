package vfs

import "strings"

// Viewer is the slice of session state access control needs.
type Viewer struct {
	Clearance  int
	ShowHidden bool
}

// Allows reports whether the viewer may enter or open n.
func (v Viewer) Allows(n Node) bool {
	return v.Clearance >= n.Meta().Level()
}

// Lists reports whether n survives the listing filter. The visibility rule
// and the clearance rule are independent: bloom never lifts clearance.
func (v Viewer) Lists(n Node) bool {
	a := n.Meta()
	if !v.ShowHidden && (strings.HasPrefix(a.Name, ".") || a.Hidden) {
		return false
	}
	return v.Allows(n)
}

// List returns the visible entries of path, directories suffixed with "/".
func (v Viewer) List(root *Dir, cwd []string, path string) ([]string, error) {
	n, err := Resolve(root, cwd, path)
	if err != nil {
		return nil, ErrNotADirectory
	}
	dir, ok := n.(*Dir)
	if !ok {
		return nil, ErrNotADirectory
	}
	var out []string
	for _, child := range dir.Children() {
		if !v.Lists(child) {
			continue
		}
		name := child.Meta().Name
		if _, isDir := child.(*Dir); isDir {
			name += "/"
		}
		out = append(out, name)
	}
	return out, nil
}

// Enter resolves a directory for cd and returns its absolute segments.
func (v Viewer) Enter(root *Dir, cwd []string, path string) (*Dir, []string, error) {
	segs := Segments(cwd, path)
	n, err := Walk(root, segs)
	if err != nil {
		return nil, nil, ErrNoSuchDirectory
	}
	dir, ok := n.(*Dir)
	if !ok {
		return nil, nil, ErrNoSuchDirectory
	}
	if !v.Allows(dir) {
		return nil, nil, ErrInsufficientClearance
	}
	return dir, segs, nil
}

// Open resolves a file for reading and returns its absolute path.
func (v Viewer) Open(root *Dir, cwd []string, path string) (*File, string, error) {
	segs := Segments(cwd, path)
	n, err := Walk(root, segs)
	if err != nil {
		return nil, "", ErrNoSuchFile
	}
	f, ok := n.(*File)
	if !ok {
		return nil, "", ErrNoSuchFile
	}
	if !v.Allows(f) {
		return nil, "", ErrInsufficientClearance
	}
	return f, Join(segs), nil
}
