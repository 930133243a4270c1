package script

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/phanxgames/grove/action"
	"gopkg.in/yaml.v3"
)

// Library holds named action definitions. Build returns a new, unbound action
// tree on every call so the same definition can run on many targets at once.
type Library struct {
	defs map[string]Def

	mu      sync.Mutex
	scripts map[string]*tengo.Compiled
}

func newLibrary() *Library {
	return &Library{defs: map[string]Def{}, scripts: map[string]*tengo.Compiled{}}
}

// Load parses a definition document and checks that every definition builds.
func Load(data []byte) (*Library, error) {
	l := newLibrary()
	if err := l.add(data, "document"); err != nil {
		return nil, err
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadFile loads a single definition file.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	l := newLibrary()
	if err := l.add(data, path); err != nil {
		return nil, err
	}
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// LoadDir loads every .yaml and .yml file in dir into one library. Files are
// read in name order and a name defined twice is an error.
func LoadDir(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("script: read dir %s: %w", dir, err)
	}
	l := newLibrary()
	for _, e := range entries {
		if e.IsDir() || !isDefinitionFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("script: read %s: %w", path, err)
		}
		if err := l.add(data, path); err != nil {
			return nil, err
		}
	}
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return l, nil
}

func isDefinitionFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func (l *Library) add(data []byte, source string) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("script: unmarshal %s: %w", source, err)
	}
	for name, d := range doc.Actions {
		if _, dup := l.defs[name]; dup {
			return fmt.Errorf("script: %s: %q defined twice", source, name)
		}
		l.defs[name] = d
	}
	return nil
}

// validate builds every definition once. This also compiles every call
// script, so Build never sees a compile error.
func (l *Library) validate() error {
	for _, name := range l.Names() {
		if _, err := l.Build(name); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the defined action names in sorted order.
func (l *Library) Names() []string {
	return slices.Sorted(maps.Keys(l.defs))
}

// Has reports whether name is defined.
func (l *Library) Has(name string) bool {
	_, ok := l.defs[name]
	return ok
}

// Len returns the number of definitions.
func (l *Library) Len() int { return len(l.defs) }

// Build constructs a fresh action for name. Constructor panics, such as a
// negative duration or reversing an absolute action, come back as errors.
func (l *Library) Build(name string) (a action.Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("script: build %s: %v", name, r)
		}
	}()
	b := &builder{lib: l}
	a, err = b.ref(name)
	if err != nil {
		return nil, fmt.Errorf("script: build %s: %w", name, err)
	}
	return a, nil
}

// MustBuild is like Build but panics on error.
func (l *Library) MustBuild(name string) action.Action {
	a, err := l.Build(name)
	if err != nil {
		panic(err)
	}
	return a
}

func (l *Library) compiled(src string) (*tengo.Compiled, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.scripts[src]; ok {
		return c, nil
	}
	c, err := compile(src)
	if err != nil {
		return nil, err
	}
	l.scripts[src] = c
	return c, nil
}
