package graph

import (
	"github.com/Benny93/layerviz/internal/collections"
	"github.com/Benny93/layerviz/internal/layers"
	"github.com/Benny93/layerviz/internal/scheme"
)

// Styler assigns fill colors to graph nodes.
type Styler struct {
	Scheme scheme.ColorScheme
	Table  *layers.Table
}

// NodeStyle is the resolved style of one node.
type NodeStyle struct {
	NodeID   string
	Category scheme.Key
	Color    string
}

// Category returns the layer category of a module node, or "" when the
// node is not a module or its type is not classified.
func (s Styler) Category(node *Node) scheme.Key {
	if node.Kind != KindModule {
		return ""
	}
	category, _ := layers.Classify(s.Table, node.TypeName)
	return category
}

// FillColor returns the color node is drawn with. Tensor and function nodes
// use their kind's color. Module nodes use their category color when one is
// configured, and the module color otherwise.
func (s Styler) FillColor(node *Node) string {
	if category := s.Category(node); category != "" {
		if color := s.Scheme.Color(category); color != "" {
			return color
		}
	}
	return s.Scheme.Color(node.Kind.SchemeKey())
}

// Style resolves every node of g, keyed by node ID in graph order.
func (s Styler) Style(g *Graph) *collections.OrderedMap[string, NodeStyle] {
	styles := collections.NewOrderedMap[string, NodeStyle]()
	for _, node := range g.Nodes() {
		styles.Set(node.ID, NodeStyle{
			NodeID:   node.ID,
			Category: s.Category(node),
			Color:    s.FillColor(node),
		})
	}
	return styles
}
