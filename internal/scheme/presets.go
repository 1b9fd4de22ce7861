package scheme

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Preset names.
const (
	PresetLight = "light"
	PresetDark  = "dark"
)

// ErrUnknownPreset is returned by Preset for names other than light and dark.
var ErrUnknownPreset = errors.New("unknown preset")

// Light returns the default theme.
func Light() ColorScheme {
	return ColorScheme{
		TensorNode:   "lightyellow",
		ModuleNode:   "darkseagreen1",
		FunctionNode: "aliceblue",

		Activation: "indianred1",
		Conv:       "deepskyblue1",
		Linear:     "deepskyblue1",
	}
}

// Dark returns the theme meant for dark backgrounds.
func Dark() ColorScheme {
	return ColorScheme{
		TensorNode:   "darkgoldenrod4",
		ModuleNode:   "darkseagreen4",
		FunctionNode: "cadetblue4",

		Activation: "firebrick",
		Conv:       "dodgerblue4",
		Dropout:    "darkolivegreen4",
		Linear:     "dodgerblue4",
		Sparse:     "palegreen4",
	}
}

// Presets lists the built-in theme names.
func Presets() []string {
	return []string{PresetLight, PresetDark}
}

// Preset returns the built-in theme with the given name. Matching is
// case-insensitive.
func Preset(name string) (ColorScheme, error) {
	switch strings.ToLower(name) {
	case PresetLight:
		return Light(), nil
	case PresetDark:
		return Dark(), nil
	default:
		return ColorScheme{}, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
}
