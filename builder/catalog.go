// Package builder assembles mechs out of modules, which snap onto each other in
// a tree rooted at the starting module.
package builder

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "builder",
})

type Category string

const (
	Cockpit    Category = "cockpit"
	Locomotion Category = "locomotion"
	Power      Category = "power"
	Weapon     Category = "weapon"
	Armor      Category = "armor"
	Structure  Category = "structure"
)

// Modules can't be attached deeper than this below the root, unless their
// data says otherwise.
const defaultMaxChainDepth = 5

// Snap is a point on a module which other modules can be attached to.
type Snap struct {
	Name    string     `yaml:"name"`
	Accepts []Category `yaml:"accepts"`
}

func (s Snap) accepts(c Category) bool {
	for _, a := range s.Accepts {
		if a == c {
			return true
		}
	}

	return false
}

// ModuleData describes one kind of module. It's shared by every module of that
// kind.
type ModuleData struct {
	Name            string   `yaml:"name"`
	Category        Category `yaml:"category"`
	Health          float64  `yaml:"health"`
	Weight          float64  `yaml:"weight"`
	PowerUsage      float64  `yaml:"powerUsage"`
	PowerGeneration float64  `yaml:"powerGeneration"`
	MaxChainDepth   int      `yaml:"maxChainDepth"`
	Snaps           []Snap   `yaml:"snaps"`
}

func (md *ModuleData) Snap(name string) (Snap, bool) {
	for _, s := range md.Snaps {
		if s.Name == name {
			return s, true
		}
	}

	return Snap{}, false
}

type Catalog struct {
	modules map[string]*ModuleData
}

// ParseCatalog reads a YAML list of modules.
func ParseCatalog(data []byte) (*Catalog, error) {
	var mods []*ModuleData
	if err := yaml.Unmarshal(data, &mods); err != nil {
		return nil, fmt.Errorf("error while parsing catalog: %w", err)
	}

	c := &Catalog{modules: map[string]*ModuleData{}}
	for i, md := range mods {
		if md.Name == "" {
			return nil, fmt.Errorf("module #%d has no name", i)
		}

		if _, ok := c.modules[md.Name]; ok {
			return nil, fmt.Errorf("duplicate module: %s", md.Name)
		}

		if md.MaxChainDepth == 0 {
			md.MaxChainDepth = defaultMaxChainDepth
		}

		c.modules[md.Name] = md
	}

	log.Debugf("loaded %d modules", len(c.modules))
	return c, nil
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error while reading catalog: %w", err)
	}

	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in modules.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog([]byte(defaultCatalog))
	if err != nil {
		panic(err)
	}

	return c
}

func (c *Catalog) Get(name string) (*ModuleData, bool) {
	md, ok := c.modules[name]
	return md, ok
}

// Names returns the names of every module, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.modules))
	for n := range c.modules {
		out = append(out, n)
	}

	sort.Strings(out)
	return out
}

const defaultCatalog = `
- name: frame
  category: structure
  health: 100
  weight: 40
  snaps:
    - {name: top,   accepts: [cockpit, weapon, power, armor]}
    - {name: back,  accepts: [power, armor]}
    - {name: front, accepts: [weapon, armor]}
    - {name: fl,    accepts: [locomotion]}
    - {name: fr,    accepts: [locomotion]}
    - {name: bl,    accepts: [locomotion]}
    - {name: br,    accepts: [locomotion]}

- name: cockpit
  category: cockpit
  health: 50
  weight: 20
  powerUsage: 5
  snaps:
    - {name: top, accepts: [weapon, armor]}

- name: leg
  category: locomotion
  health: 40
  weight: 15
  powerUsage: 5
  maxChainDepth: 1

- name: reactor
  category: power
  health: 30
  weight: 25
  powerGeneration: 40
  snaps:
    - {name: top, accepts: [armor, power]}

- name: cannon
  category: weapon
  health: 20
  weight: 15
  powerUsage: 10

- name: plate
  category: armor
  health: 60
  weight: 20
  snaps:
    - {name: outer, accepts: [armor]}
`
