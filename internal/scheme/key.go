// Package scheme defines the closed set of style keys used by layerviz and the
// color schemes that map each key to a rendering color.
//
// A key is either one of the three node kinds of a computation graph
// (tensor, module, function) or one of the coarse layer categories a layer
// class is classified into (conv, activation, rnn, ...).
package scheme

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Key identifies a field of a ColorScheme.
type Key string

// Node kinds.
const (
	TensorNode   Key = "TensorNode"
	ModuleNode   Key = "ModuleNode"
	FunctionNode Key = "FunctionNode"
)

// Layer categories.
const (
	Activation     Key = "activation"
	Adaptive       Key = "adaptive"
	BatchNorm      Key = "batchnorm"
	ChannelShuffle Key = "channelshuffle"
	Container      Key = "container"
	Conv           Key = "conv"
	Distance       Key = "distance"
	Dropout        Key = "dropout"
	Flatten        Key = "flatten"
	Fold           Key = "fold"
	InstanceNorm   Key = "instancenorm"
	Lazy           Key = "lazy"
	Linear         Key = "linear"
	Normalization  Key = "normalization"
	Padding        Key = "padding"
	PixelShuffle   Key = "pixelshuffle"
	Pooling        Key = "pooling"
	RNN            Key = "rnn"
	Sparse         Key = "sparse"
	Transformer    Key = "transformer"
	Upsampling     Key = "upsampling"
)

// ErrUnknownKey is returned when a name is outside the closed key set.
var ErrUnknownKey = errors.New("unknown scheme key")

var nodeKinds = []Key{TensorNode, ModuleNode, FunctionNode}

var categories = []Key{
	Activation, Adaptive, BatchNorm, ChannelShuffle, Container, Conv,
	Distance, Dropout, Flatten, Fold, InstanceNorm, Lazy, Linear,
	Normalization, Padding, PixelShuffle, Pooling, RNN, Sparse,
	Transformer, Upsampling,
}

// keyIndex maps every key to its slot in ColorScheme.colors.
var keyIndex = func() map[Key]int {
	m := make(map[Key]int, len(nodeKinds)+len(categories))
	for i, k := range Keys() {
		m[k] = i
	}
	return m
}()

// Keys returns every key, node kinds first, in declaration order.
func Keys() []Key {
	keys := make([]Key, 0, len(nodeKinds)+len(categories))
	keys = append(keys, nodeKinds...)
	return append(keys, categories...)
}

// Categories returns the layer category keys in declaration order.
func Categories() []Key {
	return append([]Key(nil), categories...)
}

// NodeKinds returns the three node kind keys.
func NodeKinds() []Key {
	return append([]Key(nil), nodeKinds...)
}

// ParseKey converts a name into a Key.
func ParseKey(name string) (Key, error) {
	k := Key(name)
	if _, ok := keyIndex[k]; !ok {
		return "", errors.Wrapf(ErrUnknownKey, "%q", name)
	}
	return k, nil
}

// ParseKeyFold is ParseKey with case-insensitive matching. Configuration
// layers that lowercase their keys use it.
func ParseKeyFold(name string) (Key, error) {
	for _, k := range Keys() {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKey, "%q", name)
}

// Valid reports whether k belongs to the key set.
func (k Key) Valid() bool {
	_, ok := keyIndex[k]
	return ok
}

// IsNodeKind reports whether k is one of the node kinds rather than a category.
func (k Key) IsNodeKind() bool {
	return k == TensorNode || k == ModuleNode || k == FunctionNode
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}
