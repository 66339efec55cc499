package ground

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

var layerNames = map[string]Mask{
	"default":    LayerDefault,
	"terrain":    LayerTerrain,
	"structure":  LayerStructure,
	"mech":       LayerMech,
	"everything": Everything,
}

// ParseMask returns the mask with all of the named layers.
func ParseMask(names ...string) (Mask, error) {
	var m Mask
	for _, n := range names {
		l, ok := layerNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown layer: %q", n)
		}

		m |= l
	}

	return m, nil
}

// UnmarshalYAML accepts either a raw bitmask, a single layer name, or a list of
// layer names.
func (m *Mask) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}

		mm, err := ParseMask(names...)
		if err != nil {
			return err
		}

		*m = mm
		return nil

	case yaml.ScalarNode:
		var n uint32
		if err := value.Decode(&n); err == nil {
			*m = Mask(n)
			return nil
		}

		mm, err := ParseMask(value.Value)
		if err != nil {
			return err
		}

		*m = mm
		return nil
	}

	return fmt.Errorf("invalid layer mask at line %d", value.Line)
}
