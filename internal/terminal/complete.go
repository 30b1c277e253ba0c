package terminal

import (
	"strings"

	"github.com/m0n0x41d/fote-terminal/internal/vfs"
)

// Complete proposes a completion for a partially typed line. It returns the
// completed line when exactly one candidate matches, and the candidates
// otherwise. Paths complete only through the list filter.
func (t *Terminal) Complete(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(line, " ")) {
		prefix := ""
		if len(fields) == 1 {
			prefix = fields[0]
		}
		var matches []string
		for _, v := range Verbs {
			if strings.HasPrefix(v, prefix) {
				matches = append(matches, v)
			}
		}
		if len(matches) == 1 {
			return matches[0] + " ", nil
		}
		return line, matches
	}

	verb := fields[0]
	partial := ""
	if len(fields) > 1 && !strings.HasSuffix(line, " ") {
		partial = fields[len(fields)-1]
	}

	switch {
	case pathVerbs[verb] && len(fields) <= 2:
		return t.completePath(verb, partial)
	case verb == "run" && len(fields) <= 2:
		return t.completeProgram(partial)
	case verb == "run" && len(fields) >= 3 && fields[1] == ProgramPlaintext && strings.EqualFold(fields[2], "load"):
		return t.completePath(strings.Join(fields[:3], " "), partial)
	}
	return line, nil
}

func (t *Terminal) completeProgram(partial string) (string, []string) {
	var matches []string
	for _, name := range t.programs.Names() {
		if strings.HasPrefix(name, partial) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 1 {
		return "run " + matches[0] + " ", nil
	}
	return "run " + partial, matches
}

func (t *Terminal) completePath(head, partial string) (string, []string) {
	s := t.session
	dirPart, namePart := "", partial
	if i := strings.LastIndex(partial, "/"); i >= 0 {
		dirPart, namePart = partial[:i+1], partial[i+1:]
	}
	current := strings.TrimSpace(head + " " + partial)

	n, err := vfs.Resolve(s.Root, s.cwd, dirPart)
	if err != nil {
		return current, nil
	}
	dir, ok := n.(*vfs.Dir)
	if !ok {
		return current, nil
	}

	viewer := s.Viewer()
	var matches []string
	for _, child := range dir.Children() {
		name := child.Meta().Name
		if !viewer.Lists(child) || !strings.HasPrefix(name, namePart) {
			continue
		}
		if _, isDir := child.(*vfs.Dir); isDir {
			name += "/"
		}
		matches = append(matches, name)
	}
	if len(matches) == 1 {
		return head + " " + dirPart + matches[0], nil
	}
	return current, matches
}
