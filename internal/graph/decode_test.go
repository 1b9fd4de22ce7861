package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDescription = `
name: tiny
nodes:
  - {id: "tensor:input", kind: tensor, name: input}
  - {name: conv, type: Conv2d, depth: 1}
  - {kind: function, name: add}
  - {id: "tensor:output", kind: tensor, name: output, properties: {shape: [1, 8]}}
edges:
  - {source: "tensor:input", target: "module:conv"}
  - {source: "module:conv", target: "function:add"}
  - {source: "function:add", target: "tensor:output"}
`

func TestDecode(t *testing.T) {
	t.Parallel()

	g, err := Decode(strings.NewReader(sampleDescription))
	require.NoError(t, err)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t,
		[]string{"tensor:input", "module:conv", "function:add", "tensor:output"},
		nodeIDs(g.Nodes()))

	conv := g.GetNode("module:conv")
	require.NotNil(t, conv)
	assert.Equal(t, KindModule, conv.Kind)
	assert.Equal(t, "Conv2d", conv.TypeName)
	assert.Equal(t, 1, conv.Depth)

	out := g.GetNode("tensor:output")
	require.NotNil(t, out)
	assert.Contains(t, out.Properties, "shape")
}

func TestDecode_JSON(t *testing.T) {
	t.Parallel()

	g, err := Decode(strings.NewReader(`{"nodes": [{"name": "fc", "type": "Linear"}], "edges": []}`))
	require.NoError(t, err)
	assert.NotNil(t, g.GetNode("module:fc"))
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	g, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"UnknownKind", "nodes: [{name: x, kind: layer}]", "unknown kind"},
		{"MissingIDAndName", "nodes: [{kind: tensor}]", "id or name required"},
		{"UnknownSource", "nodes: [{name: a}]\nedges: [{source: 'module:z', target: 'module:a'}]", "unknown source"},
		{"UnknownTarget", "nodes: [{name: a}]\nedges: [{source: 'module:a', target: 'module:z'}]", "unknown target"},
		{"UnknownField", "nodes: [{name: a, colour: red}]", "decoding graph description"},
		{"Malformed", "nodes: [", "decoding graph description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
