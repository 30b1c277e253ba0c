// Package world holds the operator terminal's static filesystem and the
// out-of-band secrets that live files leak one character at a time.
package world

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/m0n0x41d/fote-terminal/internal/protocol"
	"github.com/m0n0x41d/fote-terminal/internal/vfs"
)

//go:embed world.yaml
var worldYAML []byte

// Well-known locations the programs read and write.
const (
	CMBLog       = "/sensors/cmb.txt"
	MessageCor   = "/.eden/flower/message.cor"
	MessageGol   = "/.eden/flower/message.gol"
	AtlasLock    = "/.eden/locks/atlas.lock"
	ClearanceKey = "/keys/clearance.key"
	LastPattern  = "/patterns/user/last.txt"
	OutDir       = "/out"
)

// secrets is keyed by absolute path. Never listed, never opened.
var secrets = map[string]string{
	CMBLog: protocol.OverrideCode,
}

// LiveSecret returns the string a live file at path leaks, or "".
func LiveSecret(path string) string {
	return secrets[path]
}

type entry struct {
	Name      string  `yaml:"name"`
	Hidden    bool    `yaml:"hidden"`
	Clearance int     `yaml:"clearance"`
	Exec      bool    `yaml:"exec"`
	Live      bool    `yaml:"live"`
	Content   string  `yaml:"content"`
	Children  []entry `yaml:"children"`
}

func (e entry) isDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// Build decodes the embedded fixture into a fresh tree. Every call returns
// an independent tree, so sessions never share mutations.
func Build() (*vfs.Dir, error) {
	return Parse(worldYAML)
}

// Parse decodes a world fixture. Names ending in "/" are directories.
func Parse(data []byte) (*vfs.Dir, error) {
	var top entry
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse world: %w", err)
	}
	if top.Name != "/" {
		return nil, fmt.Errorf("world root must be named \"/\", got %q", top.Name)
	}
	root := vfs.NewRoot()
	if err := attach(root, top.Children); err != nil {
		return nil, err
	}
	return root, nil
}

func attach(parent *vfs.Dir, entries []entry) error {
	for _, e := range entries {
		if e.Clearance < 0 {
			return fmt.Errorf("%s%s: negative clearance", parent.Name, e.Name)
		}
		if !e.isDir() {
			if len(e.Children) > 0 {
				return fmt.Errorf("%s: file with children", e.Name)
			}
			f := &vfs.File{
				Attrs:   vfs.Attrs{Name: e.Name, Hidden: e.Hidden, Clearance: e.Clearance},
				Content: e.Content,
				Exec:    e.Exec,
				Live:    e.Live,
			}
			if err := parent.Add(f); err != nil {
				return err
			}
			continue
		}

		d := vfs.NewDir(strings.TrimSuffix(e.Name, "/"))
		d.Hidden = e.Hidden
		d.Clearance = e.Clearance
		if err := parent.Add(d); err != nil {
			return err
		}
		if err := attach(d, e.Children); err != nil {
			return err
		}
	}
	return nil
}

// MustBuild is Build for callers that embed a known-good fixture.
func MustBuild() *vfs.Dir {
	root, err := Build()
	if err != nil {
		panic(err)
	}
	return root
}
