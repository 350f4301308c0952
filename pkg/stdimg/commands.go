// Package stdimg: authoritative registry of engine commands.
//
// This file mirrors the commands implemented in Engine.Apply in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, docs, help text) can read a single
// source of truth.

package stdimg

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "odd"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
	Intensity   bool   // updates the engine statistics
}

// Commands is the authoritative list of commands implemented by the engine.
var Commands = []CommandSpec{
	{
		Name:        "grayscale",
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Convert to luma (0.299R+0.587G+0.114B) and record intensity statistics.",
		Intensity:   true,
	},
	{
		Name:        "observe",
		Args:        []ArgSpec{},
		Usage:       "observe",
		Description: "Record intensity statistics without changing pixels.",
		Intensity:   true,
	},
	{
		Name: "tone",
		Args: []ArgSpec{
			{"gamma", "float", false, "1.5", "tone curve exponent"},
			{"lowOut", "float", false, "45", "output for the darkest observed value"},
			{"highOut", "float", false, "220", "output for the brightest observed value"},
		},
		Usage:       "tone [gamma] [lowOut] [highOut]",
		Description: "Gamma tone mapping of the last observed range onto [lowOut,highOut].",
		Intensity:   true,
	},
	{
		Name:        "distension",
		Args:        []ArgSpec{},
		Usage:       "distension",
		Description: "Linear contrast stretch of the last observed range.",
		Intensity:   true,
	},
	{
		Name:        "equalize",
		Args:        []ArgSpec{},
		Usage:       "equalize",
		Description: "Histogram equalization of a gray image.",
		Intensity:   true,
	},
	{
		Name:        "negate",
		Args:        []ArgSpec{},
		Usage:       "negate",
		Description: "Invert intensities against the last observed maximum.",
		Intensity:   true,
	},
	{
		Name: "gaussianNoise",
		Args: []ArgSpec{
			{"sigma", "float", false, "0.08", "standard deviation on the [0,1] scale"},
			{"mean", "float", false, "0", "mean on the [0,1] scale"},
		},
		Usage:       "gaussianNoise [sigma] [mean]",
		Description: "Additive Gaussian noise per channel.",
	},
	{
		Name: "multiplicativeNoise",
		Args: []ArgSpec{
			{"sigma", "float", false, "0.08", "half width of the factor range"},
			{"mean", "float", false, "1", "centre of the factor range"},
		},
		Usage:       "multiplicativeNoise [sigma] [mean]",
		Description: "Multiplicative uniform noise per channel.",
	},
	{
		Name:        "saltPepper",
		Args:        []ArgSpec{{"density", "float", false, "0.18", "corruption probability"}},
		Usage:       "saltPepper [density]",
		Description: "Salt-and-pepper noise.",
	},
	{
		Name:        "mean",
		Args:        []ArgSpec{{"kernel", "odd", true, "", "odd kernel size"}},
		Usage:       "mean <kernel>",
		Description: "Mean filter.",
	},
	{
		Name:        "median",
		Args:        []ArgSpec{{"kernel", "odd", true, "", "odd kernel size"}},
		Usage:       "median <kernel>",
		Description: "Median filter.",
	},
	{
		Name:        "despeckle",
		Args:        []ArgSpec{},
		Usage:       "despeckle",
		Description: "Despeckle (3x3 median filter).",
	},
}

// Lookup returns the spec for name.
func Lookup(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
