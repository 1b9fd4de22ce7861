// Package graph provides the computation graph data model for layerviz.
//
// It defines the three node kinds of a rendered network (tensors, modules and
// functions) and the directed edges between them. The graph itself is built
// elsewhere; this package stores it in reproducible order and styles it.
package graph

import (
	"github.com/Benny93/layerviz/internal/scheme"
)

// NodeKind represents the kind of a graph node.
type NodeKind string

const (
	KindTensor   NodeKind = "tensor"
	KindModule   NodeKind = "module"
	KindFunction NodeKind = "function"
)

// Valid reports whether k is one of the known node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindTensor, KindModule, KindFunction:
		return true
	}
	return false
}

// SchemeKey returns the color scheme key for the node kind.
func (k NodeKind) SchemeKey() scheme.Key {
	switch k {
	case KindTensor:
		return scheme.TensorNode
	case KindFunction:
		return scheme.FunctionNode
	default:
		return scheme.ModuleNode
	}
}

// Node represents a node in the computation graph.
type Node struct {
	// ID is the unique identifier for the node.
	// Format: {kind}:{path}
	ID string `json:"id" yaml:"id"`

	// Kind is the kind of the node.
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Name is the display name (e.g., "features.0", "input-tensor").
	Name string `json:"name" yaml:"name"`

	// TypeName is the class name of the module or function (e.g., "Conv2d").
	TypeName string `json:"type,omitempty" yaml:"type,omitempty"`

	// Depth is the nesting depth within the module hierarchy.
	Depth int `json:"depth" yaml:"depth"`

	// Properties holds additional metadata (e.g., shapes).
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Edge is a directed edge between two node IDs.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// GenerateID creates a deterministic node ID from kind and path.
func GenerateID(kind NodeKind, path string) string {
	return string(kind) + ":" + path
}
