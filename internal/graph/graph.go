package graph

import (
	"sync"

	"github.com/Benny93/layerviz/internal/collections"
)

// Graph is an in-memory directed computation graph.
//
// Nodes and edges are kept in insertion order so that every listing, and
// hence every rendering, is reproducible. Removing a node cascades to any
// edge where the node appears as source or target.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order *collections.OrderedSet[string]
	edges *collections.OrderedSet[Edge]

	// Secondary indexes, kept in sync by add/remove helpers.
	byKind   map[NodeKind]*collections.OrderedSet[string]
	outgoing map[string]*collections.OrderedSet[string]
	incoming map[string]*collections.OrderedSet[string]
}

// New creates a new empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		order:    collections.NewOrderedSet[string](),
		edges:    collections.NewOrderedSet[Edge](),
		byKind:   make(map[NodeKind]*collections.OrderedSet[string]),
		outgoing: make(map[string]*collections.OrderedSet[string]),
		incoming: make(map[string]*collections.OrderedSet[string]),
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges.Len()
}

// CountNodesByKind returns the count of nodes of the given kind.
func (g *Graph) CountNodesByKind(kind NodeKind) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if ids, ok := g.byKind[kind]; ok {
		return ids.Len()
	}
	return 0
}

// AddNode adds a node, replacing any existing node with the same ID.
// A replaced node keeps its position in the listing order.
func (g *Graph) AddNode(node *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.nodes[node.ID]; ok && old.Kind != node.Kind {
		g.byKind[old.Kind].Discard(node.ID)
	}

	g.nodes[node.ID] = node
	g.order.Add(node.ID)

	if g.byKind[node.Kind] == nil {
		g.byKind[node.Kind] = collections.NewOrderedSet[string]()
	}
	g.byKind[node.Kind].Add(node.ID)
}

// GetNode returns the node with the given ID, or nil if it does not exist.
func (g *Graph) GetNode(nodeID string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[nodeID]
}

// RemoveNode removes a node and cascade-deletes all edges that reference it.
// Returns true if the node existed and was removed, false otherwise.
func (g *Graph) RemoveNode(nodeID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[nodeID]
	if !ok {
		return false
	}

	delete(g.nodes, nodeID)
	g.order.Discard(nodeID)
	g.byKind[node.Kind].Discard(nodeID)

	g.cascadeEdgesForNode(nodeID)
	return true
}

// AddEdge adds a directed edge. Duplicate edges are ignored.
func (g *Graph) AddEdge(source, target string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges.Add(Edge{Source: source, Target: target})

	if g.outgoing[source] == nil {
		g.outgoing[source] = collections.NewOrderedSet[string]()
	}
	g.outgoing[source].Add(target)

	if g.incoming[target] == nil {
		g.incoming[target] = collections.NewOrderedSet[string]()
	}
	g.incoming[target].Add(source)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Node, 0, g.order.Len())
	for id := range g.order.All() {
		result = append(result, g.nodes[id])
	}
	return result
}

// NodesByKind returns all nodes of the given kind in insertion order.
func (g *Graph) NodesByKind(kind NodeKind) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids, ok := g.byKind[kind]
	if !ok {
		return nil
	}

	result := make([]*Node, 0, ids.Len())
	for id := range ids.All() {
		result = append(result, g.nodes[id])
	}
	return result
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges.Values()
}

// Successors returns the IDs of nodes the given node has edges to.
func (g *Graph) Successors(nodeID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if out, ok := g.outgoing[nodeID]; ok {
		return out.Values()
	}
	return nil
}

// Predecessors returns the IDs of nodes with edges to the given node.
func (g *Graph) Predecessors(nodeID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if in, ok := g.incoming[nodeID]; ok {
		return in.Values()
	}
	return nil
}

// Stats returns a summary of graph size.
func (g *Graph) Stats() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := map[string]int{
		"nodes": len(g.nodes),
		"edges": g.edges.Len(),
	}
	for kind, ids := range g.byKind {
		stats[string(kind)] = ids.Len()
	}
	return stats
}

// cascadeEdgesForNode removes all edges where the node is source or target.
// Must be called with the write lock held.
func (g *Graph) cascadeEdgesForNode(nodeID string) {
	if out, ok := g.outgoing[nodeID]; ok {
		for target := range out.All() {
			g.edges.Discard(Edge{Source: nodeID, Target: target})
			if in, ok := g.incoming[target]; ok {
				in.Discard(nodeID)
			}
		}
		delete(g.outgoing, nodeID)
	}

	if in, ok := g.incoming[nodeID]; ok {
		for source := range in.All() {
			g.edges.Discard(Edge{Source: source, Target: nodeID})
			if out, ok := g.outgoing[source]; ok {
				out.Discard(nodeID)
			}
		}
		delete(g.incoming, nodeID)
	}
}
