package builder

import (
	"errors"
	"fmt"
)

// The most modules which a single design can have.
const MaxModules = 50

var (
	ErrTooManyModules = errors.New("too many modules")
	ErrHasRoot        = errors.New("design already has a root module")
	ErrNoSuchModule   = errors.New("no such module")
	ErrNoSuchSnap     = errors.New("no such snap")
	ErrSnapOccupied   = errors.New("snap is occupied")
	ErrNotAccepted    = errors.New("snap doesn't accept that category")
	ErrTooDeep        = errors.New("chain is too deep")
)

// Module is one placed instance of some ModuleData.
type Module struct {
	ID   int
	Data *ModuleData

	// The module and snap which this is attached to. The root module has no
	// parent, and a parent of -1.
	Parent int
	Snap   string

	// Number of attachments between this and the root.
	Depth int

	Children []int
}

type snapKey struct {
	module int
	snap   string
}

// Design is a tree of modules.
type Design struct {
	Name string

	modules  map[int]*Module
	order    []int
	occupied map[snapKey]int
	nextID   int
	root     int
}

func NewDesign(name string) *Design {
	return &Design{
		Name:     name,
		modules:  map[int]*Module{},
		occupied: map[snapKey]int{},
		root:     -1,
	}
}

// Root spawns the starting module, which everything else attaches to.
func (d *Design) Root(md *ModuleData) (*Module, error) {
	if d.root >= 0 {
		return nil, ErrHasRoot
	}

	m := d.add(md, -1, "", 0)
	d.root = m.ID
	return m, nil
}

// CanAttach returns nil if a module of the given kind could be attached to the
// given snap on the given parent.
func (d *Design) CanAttach(md *ModuleData, parentID int, snap string) error {
	if len(d.modules) >= MaxModules {
		return ErrTooManyModules
	}

	parent, ok := d.modules[parentID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchModule, parentID)
	}

	s, ok := parent.Data.Snap(snap)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrNoSuchSnap, parent.Data.Name, snap)
	}

	if _, ok := d.occupied[snapKey{parentID, snap}]; ok {
		return fmt.Errorf("%w: %s.%s", ErrSnapOccupied, parent.Data.Name, snap)
	}

	if !s.accepts(md.Category) {
		return fmt.Errorf("%w: %s.%s can't take %s", ErrNotAccepted, parent.Data.Name, snap, md.Category)
	}

	if parent.Depth >= md.MaxChainDepth {
		return fmt.Errorf("%w: %s can't be more than %d deep", ErrTooDeep, md.Name, md.MaxChainDepth)
	}

	return nil
}

// Place attaches a new module to the given snap of the given parent.
func (d *Design) Place(md *ModuleData, parentID int, snap string) (*Module, error) {
	if err := d.CanAttach(md, parentID, snap); err != nil {
		return nil, err
	}

	parent := d.modules[parentID]
	m := d.add(md, parentID, snap, parent.Depth+1)
	parent.Children = append(parent.Children, m.ID)
	d.occupied[snapKey{parentID, snap}] = m.ID

	log.Debugf("placed %s (#%d) on %s.%s", md.Name, m.ID, parent.Data.Name, snap)
	return m, nil
}

func (d *Design) add(md *ModuleData, parent int, snap string, depth int) *Module {
	m := &Module{
		ID:     d.nextID,
		Data:   md,
		Parent: parent,
		Snap:   snap,
		Depth:  depth,
	}

	d.nextID += 1
	d.modules[m.ID] = m
	d.order = append(d.order, m.ID)
	return m
}

// Detach removes a module and everything attached to it, and frees the snap
// which it was attached to.
func (d *Design) Detach(id int) error {
	m, ok := d.modules[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchModule, id)
	}

	if p, ok := d.modules[m.Parent]; ok {
		delete(d.occupied, snapKey{p.ID, m.Snap})
		p.Children = without(p.Children, id)
	}

	d.remove(m)

	order := d.order[:0]
	for _, i := range d.order {
		if _, ok := d.modules[i]; ok {
			order = append(order, i)
		}
	}
	d.order = order

	return nil
}

func (d *Design) remove(m *Module) {
	for _, c := range m.Children {
		cm, ok := d.modules[c]
		if !ok {
			continue
		}

		delete(d.occupied, snapKey{m.ID, cm.Snap})
		d.remove(cm)
	}

	if m.ID == d.root {
		d.root = -1
	}

	delete(d.modules, m.ID)
}

func without(ids []int, id int) []int {
	out := ids[:0]
	for _, i := range ids {
		if i != id {
			out = append(out, i)
		}
	}

	return out
}

func (d *Design) Get(id int) (*Module, bool) {
	m, ok := d.modules[id]
	return m, ok
}

// Modules returns every module, in the order they were placed. Parents always
// come before their children.
func (d *Design) Modules() []*Module {
	out := make([]*Module, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.modules[id])
	}

	return out
}

func (d *Design) Len() int {
	return len(d.modules)
}

// Count returns the number of modules in the given category.
func (d *Design) Count(c Category) int {
	n := 0
	for _, m := range d.modules {
		if m.Data.Category == c {
			n += 1
		}
	}

	return n
}
