package layers

import "github.com/Benny93/layerviz/internal/scheme"

// ActivationEntry is a value of an activation registry. Some registries store
// a bare class, others bundle the class with constructor arguments; the class
// always comes first.
type ActivationEntry struct {
	Class string
	Args  map[string]any
}

// Bare is an entry that holds a class only.
func Bare(class string) ActivationEntry {
	return ActivationEntry{Class: class}
}

// WithArgs is an entry that bundles class with constructor arguments.
func WithArgs(class string, args map[string]any) ActivationEntry {
	return ActivationEntry{Class: class, Args: args}
}

// ActivationRegistry is an Extension backed by a name -> activation entry
// registry. Every class it references is classified as an activation.
type ActivationRegistry struct {
	name    string
	entries map[string]ActivationEntry
}

// NewActivationRegistry wraps entries as an Extension called name.
func NewActivationRegistry(name string, entries map[string]ActivationEntry) *ActivationRegistry {
	return &ActivationRegistry{name: name, entries: entries}
}

// Name implements Extension.
func (a *ActivationRegistry) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// LayerTypes implements Extension.
func (a *ActivationRegistry) LayerTypes() map[string]scheme.Key {
	if a == nil {
		return nil
	}
	types := make(map[string]scheme.Key, len(a.entries))
	for _, entry := range a.entries {
		if entry.Class == "" {
			continue
		}
		types[entry.Class] = scheme.Activation
	}
	return types
}

// TransformersName is the name of the Hugging Face transformers extension.
const TransformersName = "transformers"

// Transformers returns the extension describing the activation classes of the
// Hugging Face transformers library (transformers.activations.ACT2CLS).
func Transformers() *ActivationRegistry {
	return NewActivationRegistry(TransformersName, map[string]ActivationEntry{
		"gelu":              Bare("GELUActivation"),
		"gelu_10":           WithArgs("ClippedGELUActivation", map[string]any{"min": -10, "max": 10}),
		"gelu_fast":         Bare("FastGELUActivation"),
		"gelu_new":          Bare("NewGELUActivation"),
		"gelu_python":       WithArgs("GELUActivation", map[string]any{"use_gelu_python": true}),
		"gelu_pytorch_tanh": Bare("PytorchGELUTanh"),
		"gelu_accurate":     Bare("AccurateGELUActivation"),
		"laplace":           Bare("LaplaceActivation"),
		"leaky_relu":        Bare("LeakyReLU"),
		"linear":            Bare("LinearActivation"),
		"mish":              Bare("MishActivation"),
		"quick_gelu":        Bare("QuickGELUActivation"),
		"relu":              Bare("ReLU"),
		"relu2":             Bare("ReLUSquaredActivation"),
		"relu6":             Bare("ReLU6"),
		"sigmoid":           Bare("Sigmoid"),
		"silu":              Bare("SiLU"),
		"swish":             Bare("SiLU"),
		"tanh":              Bare("Tanh"),
		"prelu":             Bare("PReLU"),
	})
}
