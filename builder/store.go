package builder

import (
	"fmt"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	designsObject = "designs"
	indexProperty = "_index"
)

// DesignFile is the saved form of a design. Modules are listed parents first,
// so they can be placed again in order.
type DesignFile struct {
	Name    string         `yaml:"name"`
	Modules []PlacedModule `yaml:"modules"`
}

type PlacedModule struct {
	ID     int    `yaml:"id"`
	Module string `yaml:"module"`
	Parent int    `yaml:"parent"`
	Snap   string `yaml:"snap,omitempty"`
}

// File returns the saved form of the design.
func (d *Design) File() DesignFile {
	f := DesignFile{Name: d.Name}
	for _, m := range d.Modules() {
		f.Modules = append(f.Modules, PlacedModule{
			ID:     m.ID,
			Module: m.Data.Name,
			Parent: m.Parent,
			Snap:   m.Snap,
		})
	}

	return f
}

// Build places every module in the file again, checking each placement. The
// IDs of the new modules may differ from those in the file.
func (f DesignFile) Build(c *Catalog) (*Design, error) {
	d := NewDesign(f.Name)
	ids := map[int]int{}

	for i, pm := range f.Modules {
		md, ok := c.Get(pm.Module)
		if !ok {
			return nil, fmt.Errorf("module #%d: unknown module: %s", i, pm.Module)
		}

		var m *Module
		var err error

		if pm.Parent < 0 {
			m, err = d.Root(md)
		} else {
			parent, ok := ids[pm.Parent]
			if !ok {
				return nil, fmt.Errorf("module #%d: %w: parent %d", i, ErrNoSuchModule, pm.Parent)
			}

			m, err = d.Place(md, parent, pm.Snap)
		}

		if err != nil {
			return nil, fmt.Errorf("module #%d (%s): %w", i, pm.Module, err)
		}

		ids[pm.ID] = m.ID
	}

	return d, nil
}

func ParseDesign(data []byte, c *Catalog) (*Design, error) {
	var f DesignFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design: %w", err)
	}

	return f.Build(c)
}

// Store saves designs between runs. If the gdata manager is nil, designs are
// only kept in memory.
type Store struct {
	manager *gdata.Manager
	catalog *Catalog
	memory  map[string][]byte
}

func NewStore(m *gdata.Manager, c *Catalog) *Store {
	return &Store{
		manager: m,
		catalog: c,
		memory:  map[string][]byte{},
	}
}

// OpenStore opens the gdata storage for the given app. If that fails, the store
// falls back to memory.
func OpenStore(app string, c *Catalog) *Store {
	m, err := gdata.Open(gdata.Config{
		AppName: app,
	})
	if err != nil {
		log.Warnf("failed to open storage: %v (designs won't be saved)", err)
		m = nil
	}

	return NewStore(m, c)
}

func (s *Store) Save(d *Design) error {
	if d.Name == "" || d.Name == indexProperty {
		return fmt.Errorf("invalid design name: %q", d.Name)
	}

	data, err := yaml.Marshal(d.File())
	if err != nil {
		return fmt.Errorf("failed to marshal design: %w", err)
	}

	s.memory[d.Name] = data
	if s.manager == nil {
		return nil
	}

	if err := s.manager.SaveObjectProp(designsObject, d.Name, data); err != nil {
		return fmt.Errorf("failed to save design: %w", err)
	}

	names, err := s.Names()
	if err != nil {
		return err
	}

	if !contains(names, d.Name) {
		names = append(names, d.Name)
		sort.Strings(names)

		idx, err := yaml.Marshal(names)
		if err != nil {
			return fmt.Errorf("failed to marshal index: %w", err)
		}

		if err := s.manager.SaveObjectProp(designsObject, indexProperty, idx); err != nil {
			return fmt.Errorf("failed to save index: %w", err)
		}
	}

	log.Infof("saved design: %s", d.Name)
	return nil
}

func (s *Store) Load(name string) (*Design, error) {
	data, ok := s.memory[name]

	if !ok && s.manager != nil && s.manager.ObjectPropExists(designsObject, name) {
		var err error
		data, err = s.manager.LoadObjectProp(designsObject, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load design: %w", err)
		}

		ok = true
	}

	if !ok {
		return nil, fmt.Errorf("no such design: %s", name)
	}

	return ParseDesign(data, s.catalog)
}

// Names returns the names of every saved design, sorted.
func (s *Store) Names() ([]string, error) {
	var names []string

	if s.manager != nil && s.manager.ObjectPropExists(designsObject, indexProperty) {
		data, err := s.manager.LoadObjectProp(designsObject, indexProperty)
		if err != nil {
			return nil, fmt.Errorf("failed to load index: %w", err)
		}

		if err := yaml.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("failed to unmarshal index: %w", err)
		}
	}

	for n := range s.memory {
		if !contains(names, n) {
			names = append(names, n)
		}
	}

	sort.Strings(names)
	return names, nil
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}

	return false
}

// Starter returns a small design which passes validation: a frame with a
// cockpit, four legs, a reactor and a cannon.
func Starter(c *Catalog) (*Design, error) {
	f := DesignFile{
		Name: "starter",
		Modules: []PlacedModule{
			{ID: 0, Module: "frame", Parent: -1},
			{ID: 1, Module: "cockpit", Parent: 0, Snap: "top"},
			{ID: 2, Module: "leg", Parent: 0, Snap: "fl"},
			{ID: 3, Module: "leg", Parent: 0, Snap: "fr"},
			{ID: 4, Module: "leg", Parent: 0, Snap: "bl"},
			{ID: 5, Module: "leg", Parent: 0, Snap: "br"},
			{ID: 6, Module: "reactor", Parent: 0, Snap: "back"},
			{ID: 7, Module: "cannon", Parent: 1, Snap: "top"},
		},
	}

	return f.Build(c)
}
