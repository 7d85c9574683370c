package layout

import (
	"fmt"
	"strings"
)

// Layout selects how destination directories are derived from manifest paths.
type Layout int

const (
	// Raw mirrors the manifest directory under the root.
	Raw Layout = iota
	// Type files entries under the category label.
	Type
	// Ext files entries under their upper-cased extension.
	Ext
	// TypeExt files entries under the category label, then the extension.
	TypeExt
	// Sim strips the matching prefix filter from the manifest directory.
	Sim
	// TypeSim combines Type and Sim.
	TypeSim
	// ExtSim combines Ext and Sim.
	ExtSim
	// TypeExtSim combines Type, Ext and Sim.
	TypeExtSim
	// Smart keeps only the innermost directory (two for live photo wrappers)
	// under the category label.
	Smart
)

var layoutNames = [...]string{
	Raw:        "raw",
	Type:       "type",
	Ext:        "ext",
	TypeExt:    "type_ext",
	Sim:        "sim",
	TypeSim:    "type_sim",
	ExtSim:     "ext_sim",
	TypeExtSim: "type_ext_sim",
	Smart:      "smart",
}

// All returns every layout in declaration order.
func All() []Layout {
	out := make([]Layout, len(layoutNames))
	for i := range layoutNames {
		out[i] = Layout(i)
	}
	return out
}

func (l Layout) valid() bool {
	return l >= Raw && int(l) < len(layoutNames)
}

func (l Layout) String() string {
	if !l.valid() {
		return fmt.Sprintf("layout(%d)", int(l))
	}
	return layoutNames[l]
}

// Parse resolves a configuration key. Keys are case-insensitive and the empty
// key selects Raw.
func Parse(key string) (Layout, error) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "" {
		return Raw, nil
	}
	for i, name := range layoutNames {
		if name == normalized {
			return Layout(i), nil
		}
	}
	return Raw, fmt.Errorf("unknown layout %q (expected one of %s)", key, strings.Join(layoutNames[:], ", "))
}

// CategoryScoped reports whether every category lands in its own
// root/label subtree under this layout.
func (l Layout) CategoryScoped() bool {
	switch l {
	case Type, TypeExt, TypeSim, TypeExtSim, Smart:
		return true
	default:
		return false
	}
}

// StripsPrefix reports whether the layout removes the matching prefix filter.
func (l Layout) StripsPrefix() bool {
	switch l {
	case Sim, TypeSim, ExtSim, TypeExtSim:
		return true
	default:
		return false
	}
}
