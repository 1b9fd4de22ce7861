// Package mcp provides the MCP (Model Context Protocol) server for layerviz.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Benny93/layerviz/internal/config"
	"github.com/Benny93/layerviz/internal/layers"
	"github.com/Benny93/layerviz/internal/logger"
	"github.com/Benny93/layerviz/internal/scheme"
	"github.com/Benny93/layerviz/internal/storage"
)

// Server represents the MCP server.
type Server struct {
	cfg    *config.Config
	table  *layers.Table
	store  SchemeStore
	server *mcp.Server
}

// SchemeStore is the part of storage.Backend the server reads saved schemes from.
type SchemeStore interface {
	GetScheme(ctx context.Context, name string) (*storage.SchemeRecord, error)
	ListSchemes(ctx context.Context) ([]string, error)
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server. store may be nil, in which case only
// the built-in presets are available.
func NewServer(cfg *config.Config, store SchemeStore) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:   cfg,
		table: cfg.Table(),
		store: store,
	}

	// Create MCP server
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "layerviz",
		Version: "0.1.0",
	}, nil)

	// Register tools
	s.registerTools()

	// Register resources
	s.registerResources()

	return s
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "layerviz_classify",
			Description: "Classify a layer class name (e.g. Conv2d) into its layer category and return the color it is drawn with.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"name":  {Type: "string", Description: "Layer class name"},
					"theme": {Type: "string", Description: "Theme to color with (defaults to the configured theme)"},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        "layerviz_color",
			Description: "Look up the color of a node kind or layer category in a theme.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"key":      {Type: "string", Description: "Node kind or layer category"},
					"theme":    {Type: "string", Description: "Theme name"},
					"fallback": {Type: "string", Description: "Color returned when the key is unknown"},
				},
				Required: []string{"key"},
			},
		},
		{
			Name:        "layerviz_layers",
			Description: "List the known layer classes, optionally restricted to one category.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"category": {Type: "string", Description: "Layer category"},
				},
			},
		},
		{
			Name:        "layerviz_themes",
			Description: "Show every color of a theme, or list the available themes when none is given.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"theme": {Type: "string", Description: "Theme name"},
				},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "layerviz://categories",
			Name:        "Style Keys",
			Description: "Node kinds and layer categories known to layerviz",
			MimeType:    "text/plain",
		},
		{
			URI:         "layerviz://layers",
			Name:        "Layer Table",
			Description: "Every classified layer class and its category",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool with the given arguments.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	logger.Logger.Debugw("MCP tool call", "tool", name)

	switch name {
	case "layerviz_classify":
		className, _ := args["name"].(string)
		theme, _ := args["theme"].(string)
		return s.handleClassify(ctx, className, theme)
	case "layerviz_color":
		key, _ := args["key"].(string)
		theme, _ := args["theme"].(string)
		fallback, hasFallback := args["fallback"].(string)
		return s.handleColor(ctx, key, theme, fallback, hasFallback)
	case "layerviz_layers":
		category, _ := args["category"].(string)
		return s.handleLayers(category)
	case "layerviz_themes":
		theme, _ := args["theme"].(string)
		return s.handleThemes(ctx, theme)
	default:
		return "", errors.Newf("unknown tool: %s", name)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "layerviz://categories":
		return getCategories(), nil
	case "layerviz://layers":
		return getLayerTable(s.table), nil
	default:
		return "", errors.Newf("unknown resource: %s", uri)
	}
}

// Run serves line-delimited JSON-RPC requests from stdin until EOF or
// context cancellation.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return errors.New("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	encoder := json.NewEncoder(stdout)
	// Note: Do NOT use SetIndent - MCP protocol requires compact JSON (one line per message)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		// Parse JSON-RPC request
		var req map[string]any
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Logger.Debugw("Skipping malformed request", "error", err)
			continue
		}

		// Notifications carry no id and get no response.
		if _, hasID := req["id"]; !hasID {
			continue
		}

		resp := s.handleRequest(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}
}

// RunStdio serves the MCP protocol over stdio through the SDK transport.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleRequest(ctx context.Context, req map[string]any) map[string]any {
	method, _ := req["method"].(string)
	id := req["id"]

	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "tools/list":
		return s.handleToolsList(id)
	case "tools/call":
		return s.handleToolsCall(ctx, id, req)
	case "resources/list":
		return s.handleResourcesList(id)
	case "resources/read":
		return s.handleResourcesRead(ctx, id, req)
	default:
		return errorResponse(id, -32601, "Method not found: "+method)
	}
}

func (s *Server) handleInitialize(id any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]any{
				"name":    "layerviz",
				"version": "0.1.0",
			},
			"capabilities": map[string]any{
				"tools": map[string]any{
					"listChanged": false,
				},
				"resources": map[string]any{
					"listChanged": false,
				},
			},
		},
	}
}

func (s *Server) handleToolsList(id any) map[string]any {
	tools := s.ListTools()
	toolList := make([]map[string]any, len(tools))
	for i, tool := range tools {
		schema, _ := json.Marshal(tool.InputSchema)
		var schemaMap map[string]any
		_ = json.Unmarshal(schema, &schemaMap)

		toolList[i] = map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": schemaMap,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"tools": toolList,
		},
	}
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	result, err := s.CallTool(ctx, name, args)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"content": []map[string]any{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}
}

func (s *Server) handleResourcesList(id any) map[string]any {
	resources := s.ListResources()
	resourceList := make([]map[string]any, len(resources))
	for i, res := range resources {
		resourceList[i] = map[string]any{
			"uri":         res.URI,
			"name":        res.Name,
			"description": res.Description,
			"mimeType":    res.MimeType,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"resources": resourceList,
		},
	}
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	uri, _ := params["uri"].(string)

	content, err := s.ReadResource(ctx, uri)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"contents": []map[string]any{
				{
					"uri":      uri,
					"mimeType": "text/plain",
					"text":     content,
				},
			},
		},
	}
}

// Tool Handlers

// resolveScheme resolves theme through the configuration and the store.
func (s *Server) resolveScheme(ctx context.Context, theme string) (scheme.ColorScheme, error) {
	return s.cfg.ResolveScheme(ctx, s.store, theme)
}

func (s *Server) handleClassify(ctx context.Context, className, theme string) (string, error) {
	if className == "" {
		return "No layer name provided", nil
	}

	cs, err := s.resolveScheme(ctx, theme)
	if err != nil {
		return "", err
	}

	category, ok := s.table.Lookup(className)
	if !ok {
		return fmt.Sprintf("'%s' is not a known layer class. It is drawn as a plain module node.", className), nil
	}

	color := cs.Color(category)
	if color == "" {
		color = cs.ModuleNode + " (module default)"
	}

	return fmt.Sprintf("**%s** is a `%s` layer\nColor: %s", className, category, color), nil
}

func (s *Server) handleColor(ctx context.Context, key, theme, fallback string, hasFallback bool) (string, error) {
	cs, err := s.resolveScheme(ctx, theme)
	if err != nil {
		return "", err
	}

	if hasFallback {
		return cs.Get(key, fallback), nil
	}
	return cs.Lookup(key)
}

func (s *Server) handleLayers(category string) (string, error) {
	if category == "" {
		return getLayerTable(s.table), nil
	}

	k, err := scheme.ParseKeyFold(category)
	if err != nil {
		return "", err
	}

	names := s.table.ByCategory(k)
	if len(names) == 0 {
		return fmt.Sprintf("No layer classes in category '%s'", k), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s (%d)\n\n", k, len(names)))
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	return sb.String(), nil
}

func (s *Server) handleThemes(ctx context.Context, theme string) (string, error) {
	if theme == "" {
		var sb strings.Builder
		sb.WriteString("## Themes\n\n")
		for _, name := range scheme.Presets() {
			sb.WriteString(fmt.Sprintf("- %s (built-in)\n", name))
		}
		if s.store != nil {
			saved, err := s.store.ListSchemes(ctx)
			if err != nil {
				return "", err
			}
			for _, name := range saved {
				sb.WriteString(fmt.Sprintf("- %s\n", name))
			}
		}
		return sb.String(), nil
	}

	cs, err := s.resolveScheme(ctx, theme)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Theme: %s\n\n", theme))
	sb.WriteString("| Key | Color |\n")
	sb.WriteString("|-----|-------|\n")
	for k, color := range cs.Map().All() {
		if color == "" {
			color = "-"
		}
		sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", k, color))
	}
	return sb.String(), nil
}

// Resource Handlers

func getCategories() string {
	var sb strings.Builder
	sb.WriteString("# layerviz Style Keys\n\n")
	sb.WriteString("## Node Kinds\n\n")
	for _, k := range scheme.NodeKinds() {
		sb.WriteString(fmt.Sprintf("- %s\n", k))
	}
	sb.WriteString("\n## Layer Categories\n\n")
	for _, k := range scheme.Categories() {
		sb.WriteString(fmt.Sprintf("- %s\n", k))
	}
	return sb.String()
}

func getLayerTable(table *layers.Table) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Layer Table (%d classes)\n\n", table.Len()))
	if exts := table.Extensions(); len(exts) > 0 {
		sb.WriteString(fmt.Sprintf("Extensions: %s\n\n", strings.Join(exts, ", ")))
	}
	sb.WriteString("| Class | Category |\n")
	sb.WriteString("|-------|----------|\n")
	for name, category := range table.All() {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", name, category))
	}
	return sb.String()
}

// Helper functions

func errorResponse(id any, code int, message string) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}

// registerTools registers tools with the MCP server.
func (s *Server) registerTools() {
	for _, tool := range s.ListTools() {
		name := tool.Name
		s.server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args map[string]any
			if len(req.Params.Arguments) > 0 {
				if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
					return nil, errors.Wrap(err, "decoding arguments")
				}
			}

			text, err := s.CallTool(ctx, name, args)
			if err != nil {
				return &mcp.CallToolResult{
					IsError: true,
					Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				}, nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: text}},
			}, nil
		})
	}
}

// registerResources registers resources with the MCP server.
func (s *Server) registerResources() {
	for _, res := range s.ListResources() {
		s.server.AddResource(&mcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MimeType,
		}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			text, err := s.ReadResource(ctx, req.Params.URI)
			if err != nil {
				return nil, err
			}
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: req.Params.URI, MIMEType: "text/plain", Text: text},
				},
			}, nil
		})
	}
}
