package scheme

import (
	"github.com/cockroachdb/errors"

	"github.com/Benny93/layerviz/internal/collections"
)

// ColorScheme stores the rendering color of every node kind and layer
// category. An empty color means no override: the renderer keeps its default.
//
// ColorScheme is a plain value. Copies are independent of each other.
type ColorScheme struct {
	TensorNode   string `json:"TensorNode" yaml:"TensorNode"`
	ModuleNode   string `json:"ModuleNode" yaml:"ModuleNode"`
	FunctionNode string `json:"FunctionNode" yaml:"FunctionNode"`

	Activation     string `json:"activation" yaml:"activation"`
	Adaptive       string `json:"adaptive" yaml:"adaptive"`
	BatchNorm      string `json:"batchnorm" yaml:"batchnorm"`
	ChannelShuffle string `json:"channelshuffle" yaml:"channelshuffle"`
	Container      string `json:"container" yaml:"container"`
	Conv           string `json:"conv" yaml:"conv"`
	Distance       string `json:"distance" yaml:"distance"`
	Dropout        string `json:"dropout" yaml:"dropout"`
	Flatten        string `json:"flatten" yaml:"flatten"`
	Fold           string `json:"fold" yaml:"fold"`
	InstanceNorm   string `json:"instancenorm" yaml:"instancenorm"`
	Lazy           string `json:"lazy" yaml:"lazy"`
	Linear         string `json:"linear" yaml:"linear"`
	Normalization  string `json:"normalization" yaml:"normalization"`
	Padding        string `json:"padding" yaml:"padding"`
	PixelShuffle   string `json:"pixelshuffle" yaml:"pixelshuffle"`
	Pooling        string `json:"pooling" yaml:"pooling"`
	RNN            string `json:"rnn" yaml:"rnn"`
	Sparse         string `json:"sparse" yaml:"sparse"`
	Transformer    string `json:"transformer" yaml:"transformer"`
	Upsampling     string `json:"upsampling" yaml:"upsampling"`
}

// fields is the key -> field lookup table. It must cover every key.
var fields = map[Key]func(*ColorScheme) *string{
	TensorNode:   func(c *ColorScheme) *string { return &c.TensorNode },
	ModuleNode:   func(c *ColorScheme) *string { return &c.ModuleNode },
	FunctionNode: func(c *ColorScheme) *string { return &c.FunctionNode },

	Activation:     func(c *ColorScheme) *string { return &c.Activation },
	Adaptive:       func(c *ColorScheme) *string { return &c.Adaptive },
	BatchNorm:      func(c *ColorScheme) *string { return &c.BatchNorm },
	ChannelShuffle: func(c *ColorScheme) *string { return &c.ChannelShuffle },
	Container:      func(c *ColorScheme) *string { return &c.Container },
	Conv:           func(c *ColorScheme) *string { return &c.Conv },
	Distance:       func(c *ColorScheme) *string { return &c.Distance },
	Dropout:        func(c *ColorScheme) *string { return &c.Dropout },
	Flatten:        func(c *ColorScheme) *string { return &c.Flatten },
	Fold:           func(c *ColorScheme) *string { return &c.Fold },
	InstanceNorm:   func(c *ColorScheme) *string { return &c.InstanceNorm },
	Lazy:           func(c *ColorScheme) *string { return &c.Lazy },
	Linear:         func(c *ColorScheme) *string { return &c.Linear },
	Normalization:  func(c *ColorScheme) *string { return &c.Normalization },
	Padding:        func(c *ColorScheme) *string { return &c.Padding },
	PixelShuffle:   func(c *ColorScheme) *string { return &c.PixelShuffle },
	Pooling:        func(c *ColorScheme) *string { return &c.Pooling },
	RNN:            func(c *ColorScheme) *string { return &c.RNN },
	Sparse:         func(c *ColorScheme) *string { return &c.Sparse },
	Transformer:    func(c *ColorScheme) *string { return &c.Transformer },
	Upsampling:     func(c *ColorScheme) *string { return &c.Upsampling },
}

// Color returns the color configured for k, or "" when k is not a valid key.
func (c ColorScheme) Color(k Key) string {
	f, ok := fields[k]
	if !ok {
		return ""
	}
	return *f(&c)
}

// Set assigns color to k. Unknown keys are rejected.
func (c *ColorScheme) Set(k Key, color string) error {
	f, ok := fields[k]
	if !ok {
		return errors.Wrapf(ErrUnknownKey, "%q", string(k))
	}
	*f(c) = color
	return nil
}

// Lookup returns the color configured for the named key.
// Names outside the key set yield an error wrapping ErrUnknownKey.
func (c ColorScheme) Lookup(name string) (string, error) {
	k, err := ParseKey(name)
	if err != nil {
		return "", err
	}
	return c.Color(k), nil
}

// Get returns the color configured for the named key. Names outside the key
// set yield the first fallback, or "" when no fallback is given.
func (c ColorScheme) Get(name string, fallback ...string) string {
	if f, ok := fields[Key(name)]; ok {
		return *f(&c)
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// Map returns every key and its color in key declaration order.
func (c ColorScheme) Map() *collections.OrderedMap[Key, string] {
	m := collections.NewOrderedMap[Key, string]()
	for _, k := range Keys() {
		m.Set(k, c.Color(k))
	}
	return m
}

// WithOverrides returns a copy of c with the given colors applied.
func (c ColorScheme) WithOverrides(overrides map[string]string) (ColorScheme, error) {
	out := c
	for name, color := range overrides {
		k, err := ParseKey(name)
		if err != nil {
			return c, errors.Wrap(err, "applying overrides")
		}
		_ = out.Set(k, color)
	}
	return out, nil
}
