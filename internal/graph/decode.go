package graph

import (
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Description is the serialized form of a computation graph as exported by
// a graph builder. JSON documents are accepted as well since JSON is YAML.
type Description struct {
	Name  string `yaml:"name"`
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges"`
}

// Decode reads a graph description and returns the graph it describes.
//
// Nodes without an ID get one from GenerateID. Nodes without a kind are
// modules. Edges must reference declared nodes.
func Decode(r io.Reader) (*Graph, error) {
	var desc Description
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, errors.Wrap(err, "decoding graph description")
	}

	g := New()
	for i := range desc.Nodes {
		node := desc.Nodes[i]
		if node.Kind == "" {
			node.Kind = KindModule
		}
		if !node.Kind.Valid() {
			return nil, errors.Newf("node %d (%s): unknown kind %q", i, node.Name, node.Kind)
		}
		if node.ID == "" {
			if node.Name == "" {
				return nil, errors.Newf("node %d: id or name required", i)
			}
			node.ID = GenerateID(node.Kind, node.Name)
		}
		g.AddNode(&node)
	}

	for i, e := range desc.Edges {
		if g.GetNode(e.Source) == nil {
			return nil, errors.Newf("edge %d: unknown source %q", i, e.Source)
		}
		if g.GetNode(e.Target) == nil {
			return nil, errors.Newf("edge %d: unknown target %q", i, e.Target)
		}
		g.AddEdge(e.Source, e.Target)
	}

	return g, nil
}
