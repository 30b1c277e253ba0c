package vfs

import (
	"fmt"
	"strings"
)

// Segments normalises path against cwd and returns the absolute segment list.
// "." and empty resolve to cwd; ".." pops one segment and stops at the root.
func Segments(cwd []string, path string) []string {
	var segs []string
	if !strings.HasPrefix(path, "/") {
		segs = append(segs, cwd...)
	}
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
		case "..":
			if len(segs) > 0 {
				segs = segs[:len(segs)-1]
			}
		default:
			segs = append(segs, part)
		}
	}
	return segs
}

// Abs renders the absolute form of path as seen from cwd.
func Abs(cwd []string, path string) string {
	return Join(Segments(cwd, path))
}

// Join renders a segment list as an absolute path.
func Join(segs []string) string {
	return "/" + strings.Join(segs, "/")
}

// Walk follows segs from root. It performs no clearance or visibility check.
func Walk(root *Dir, segs []string) (Node, error) {
	var cur Node = root
	for i, seg := range segs {
		dir, ok := cur.(*Dir)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, Join(segs[:i+1]))
		}
		next, ok := dir.Child(seg)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, Join(segs[:i+1]))
		}
		cur = next
	}
	return cur, nil
}

// Resolve looks path up relative to cwd.
func Resolve(root *Dir, cwd []string, path string) (Node, error) {
	return Walk(root, Segments(cwd, path))
}

// Find resolves an absolute path; programs use it to reach fixed locations.
func Find(root *Dir, abs string) (Node, error) {
	return Walk(root, Segments(nil, abs))
}

// FindFile is Find narrowed to files.
func FindFile(root *Dir, abs string) (*File, error) {
	n, err := Find(root, abs)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*File)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchFile, abs)
	}
	return f, nil
}

// FindDir is Find narrowed to directories.
func FindDir(root *Dir, abs string) (*Dir, error) {
	n, err := Find(root, abs)
	if err != nil {
		return nil, err
	}
	d, ok := n.(*Dir)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}
	return d, nil
}
