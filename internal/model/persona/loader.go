package persona

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resource names inside a persona pack.
const (
	RegistryFile = "registry.yaml"
	RoutingFile  = "routing.yaml"
)

var ErrEmptyPath = errors.New("instruction document path is empty")

//go:embed defaults/*.yaml defaults/*.md
var defaultPack embed.FS

// Loader reads persona metadata, routing rules and instruction documents.
type Loader interface {
	ListPersonas() ([]Persona, error)
	LoadInstructionDocument(path string) (string, error)
	ListRoutingRules() ([]RoutingRule, error)
}

// FSLoader reads a persona pack from an fs.FS.
type FSLoader struct {
	fsys fs.FS
}

var _ Loader = (*FSLoader)(nil)

// NewFSLoader returns a loader rooted at fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// NewDirLoader reads the pack from a directory on disk.
func NewDirLoader(dir string) *FSLoader {
	return NewFSLoader(os.DirFS(dir))
}

// DefaultLoader reads the pack compiled into the binary.
func DefaultLoader() *FSLoader {
	sub, err := fs.Sub(defaultPack, "defaults")
	if err != nil {
		// fs.Sub only fails on an invalid literal path
		panic(err)
	}
	return NewFSLoader(sub)
}

// ListPersonas decodes the registry.
func (l *FSLoader) ListPersonas() ([]Persona, error) {
	var items []Persona
	if err := l.decodeYAML(RegistryFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListRoutingRules decodes the routing table in priority order.
func (l *FSLoader) ListRoutingRules() ([]RoutingRule, error) {
	var rules []RoutingRule
	if err := l.decodeYAML(RoutingFile, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadInstructionDocument returns the raw text of an instruction document.
func (l *FSLoader) LoadInstructionDocument(p string) (string, error) {
	name := cleanPath(p)
	if name == "" {
		return "", ErrEmptyPath
	}
	raw, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(raw), nil
}

func (l *FSLoader) decodeYAML(name string, out any) error {
	raw, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// cleanPath maps registry paths such as "./fashion.md" or "/fashion.md" to fs.FS names.
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}
