// Package cmd provides CLI command implementations for layerviz.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/Benny93/layerviz/internal/config"
	"github.com/Benny93/layerviz/internal/graph"
	"github.com/Benny93/layerviz/internal/layers"
	"github.com/Benny93/layerviz/internal/logger"
	"github.com/Benny93/layerviz/internal/scheme"
	"github.com/Benny93/layerviz/internal/storage"
	"github.com/Benny93/layerviz/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// stdout is where command results are written. Tests swap it.
var stdout io.Writer = os.Stdout

// Globals holds flags shared by every command.
type Globals struct {
	Config   string `help:"Path to configuration file" type:"path"`
	Verbose  int    `short:"v" type:"counter" help:"Increase log verbosity (-v, -vv)"`
	JSONLogs bool   `help:"Emit logs as JSON"`
}

// load reads the configuration selected by the global flags and applies its
// log settings. Flags only raise verbosity or enable JSON, never lower them.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(max(g.Verbose, cfg.Log.Verbosity), g.JSONLogs || cfg.Log.JSON); err != nil {
		return nil, errors.Wrap(err, "initializing logger")
	}
	return cfg, nil
}

// openStore opens the saved scheme database. In read-only mode a missing
// database is not an error and yields a nil store.
func openStore(cfg *config.Config, readOnly bool) (*storage.BadgerBackend, error) {
	dbPath, err := filepath.Abs(cfg.Store.Path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving store path")
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		if readOnly {
			return nil, nil
		}
		if err := os.MkdirAll(dbPath, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating store directory")
		}
	}

	store := storage.NewBadgerBackend()
	if err := store.Initialize(dbPath, readOnly); err != nil {
		return nil, errors.Wrap(err, "initializing storage")
	}
	return store, nil
}

// resolveScheme resolves name through presets, saved schemes and overrides.
func resolveScheme(ctx context.Context, cfg *config.Config, name string) (scheme.ColorScheme, error) {
	store, err := openStore(cfg, true)
	if err != nil {
		return scheme.ColorScheme{}, err
	}
	if store == nil {
		return cfg.ResolveScheme(ctx, nil, name)
	}
	defer func() { _ = store.Close() }()

	return cfg.ResolveScheme(ctx, store, name)
}

// tableFor returns the layer table, enabling transformers when requested.
func tableFor(cfg *config.Config, transformers bool) *layers.Table {
	opts := cfg.TableOptions()
	if transformers {
		opts.Transformers = true
	}
	return layers.DefaultTable(opts)
}

func printScheme(name string, cs scheme.ColorScheme) {
	color.New(color.FgGreen, color.Bold).Fprintf(stdout, "Theme: %s\n", name)
	for k, c := range cs.Map().All() {
		if c == "" {
			c = "-"
		}
		fmt.Fprintf(stdout, "  %-16s %s\n", k, c)
	}
}

// ThemesCmd prints every color of a theme.
type ThemesCmd struct {
	Theme string `arg:"" optional:"" help:"Theme name (defaults to the configured theme)"`
}

// Run executes the themes command.
func (c *ThemesCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	name := c.Theme
	if name == "" {
		name = cfg.Theme
	}

	cs, err := resolveScheme(context.Background(), cfg, name)
	if err != nil {
		return errors.Wrap(err, "resolving theme")
	}

	printScheme(name, cs)
	return nil
}

// ColorCmd looks up a single color.
type ColorCmd struct {
	Key      string `arg:"" help:"Node kind or layer category"`
	Theme    string `short:"t" help:"Theme name"`
	Fallback string `help:"Color printed when the key is unknown"`
	Lenient  bool   `help:"Print the fallback (or nothing) instead of failing on unknown keys"`
}

// Run executes the color command.
func (c *ColorCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	cs, err := resolveScheme(context.Background(), cfg, c.Theme)
	if err != nil {
		return errors.Wrap(err, "resolving theme")
	}

	if c.Lenient || c.Fallback != "" {
		fmt.Fprintln(stdout, cs.Get(c.Key, c.Fallback))
		return nil
	}

	value, err := cs.Lookup(c.Key)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, value)
	return nil
}

// LayersCmd lists the layer classification table.
type LayersCmd struct {
	Category     string `short:"c" help:"Only list this category"`
	Transformers bool   `help:"Include Hugging Face transformers activations"`
	Format       string `help:"Output format (text|yaml|json)" enum:"text,yaml,json" default:"text"`
}

// Run executes the layers command.
func (c *LayersCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	if c.Category != "" {
		if _, err := scheme.ParseKey(c.Category); err != nil {
			return err
		}
	}

	table := tableFor(cfg, c.Transformers)

	grouped := make(map[string][]string)
	for _, category := range scheme.Categories() {
		if c.Category != "" && string(category) != c.Category {
			continue
		}
		if names := table.ByCategory(category); len(names) > 0 {
			grouped[string(category)] = names
		}
	}

	switch c.Format {
	case "yaml":
		out, err := yaml.Marshal(grouped)
		if err != nil {
			return errors.Wrap(err, "marshaling YAML")
		}
		_, err = stdout.Write(out)
		return err
	case "json":
		out, err := json.MarshalIndent(grouped, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshaling JSON")
		}
		fmt.Fprintln(stdout, string(out))
		return nil
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		names := grouped[category]
		color.New(color.FgCyan).Fprintf(stdout, "### %s (%d)\n", category, len(names))
		for _, name := range names {
			fmt.Fprintf(stdout, "  - %s\n", name)
		}
	}
	if exts := table.Extensions(); len(exts) > 0 {
		fmt.Fprintf(stdout, "\nExtensions: %v\n", exts)
	}
	return nil
}

// ClassifyCmd classifies layer class names.
type ClassifyCmd struct {
	Names        []string `arg:"" help:"Layer class names (e.g. Conv2d)"`
	Theme        string   `short:"t" help:"Theme name"`
	Transformers bool     `help:"Include Hugging Face transformers activations"`
}

// Run executes the classify command.
func (c *ClassifyCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	cs, err := resolveScheme(context.Background(), cfg, c.Theme)
	if err != nil {
		return errors.Wrap(err, "resolving theme")
	}
	styler := graph.Styler{Scheme: cs, Table: tableFor(cfg, c.Transformers)}

	for _, name := range c.Names {
		node := &graph.Node{Kind: graph.KindModule, Name: name, TypeName: name}
		category := styler.Category(node)
		if category == "" {
			fmt.Fprintf(stdout, "%-28s %-16s %s\n", name, "(unclassified)", styler.FillColor(node))
			continue
		}
		fmt.Fprintf(stdout, "%-28s %-16s %s\n", name, category, styler.FillColor(node))
	}
	return nil
}

// StyleCmd colors every node of a graph description, or of every
// description found under a directory.
type StyleCmd struct {
	Path         string `arg:"" help:"Graph description (YAML or JSON) or directory of descriptions" type:"path"`
	Theme        string `short:"t" help:"Theme name"`
	Transformers bool   `help:"Include Hugging Face transformers activations"`
	Format       string `help:"Output format (text|yaml)" enum:"text,yaml" default:"text"`
}

// Run executes the style command.
func (c *StyleCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	cs, err := resolveScheme(context.Background(), cfg, c.Theme)
	if err != nil {
		return errors.Wrap(err, "resolving theme")
	}
	styler := graph.Styler{Scheme: cs, Table: tableFor(cfg, c.Transformers)}

	info, err := os.Stat(c.Path)
	if err != nil {
		return errors.Wrapf(err, "accessing %s", c.Path)
	}
	if !info.IsDir() {
		gr, err := decodeFile(c.Path)
		if err != nil {
			return err
		}
		return c.print(styler, c.Path, gr)
	}

	files, err := graph.FindDescriptions(c.Path)
	if err != nil {
		return err
	}
	styled := 0
	for _, f := range files {
		gr, err := decodeFile(f.Path)
		if err != nil {
			logger.Logger.Warnw("Skipping file that is not a graph description", "path", f.RelPath, "error", err)
			continue
		}
		if c.Format == "yaml" {
			fmt.Fprintf(stdout, "# %s\n", f.RelPath)
		} else {
			color.New(color.FgCyan).Fprintf(stdout, "### %s\n", f.RelPath)
		}
		if err := c.print(styler, f.RelPath, gr); err != nil {
			return err
		}
		styled++
	}
	if styled == 0 {
		return errors.Newf("no graph descriptions found under %s", c.Path)
	}
	return nil
}

func (c *StyleCmd) print(styler graph.Styler, name string, gr *graph.Graph) error {
	styles := styler.Style(gr)
	logger.Logger.Infow("Styled graph", "path", name, "nodes", gr.NodeCount(), "edges", gr.EdgeCount())

	if c.Format == "yaml" {
		type entry struct {
			ID       string `yaml:"id"`
			Category string `yaml:"category,omitempty"`
			Color    string `yaml:"color"`
		}
		entries := make([]entry, 0, styles.Len())
		for _, st := range styles.All() {
			entries = append(entries, entry{ID: st.NodeID, Category: string(st.Category), Color: st.Color})
		}
		out, err := yaml.Marshal(entries)
		if err != nil {
			return errors.Wrap(err, "marshaling YAML")
		}
		_, err = stdout.Write(out)
		return err
	}

	for id, st := range styles.All() {
		category := string(st.Category)
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(stdout, "%-40s %-16s %s\n", id, category, st.Color)
	}
	return nil
}

func decodeFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	gr, err := graph.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return gr, nil
}

// SaveCmd stores a custom theme.
type SaveCmd struct {
	Name string            `arg:"" help:"Name of the new theme"`
	From string            `help:"Theme to start from" default:"light"`
	Set  map[string]string `help:"Colors to change (key=color)"`
}

// Run executes the save command.
func (c *SaveCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if err := storage.ValidateName(c.Name); err != nil {
		return err
	}

	store, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	base, err := cfg.ResolveScheme(ctx, store, c.From)
	if err != nil {
		return errors.Wrap(err, "resolving base theme")
	}

	cs, err := base.WithOverrides(c.Set)
	if err != nil {
		return err
	}

	if err := store.SaveScheme(ctx, &storage.SchemeRecord{Name: c.Name, Base: c.From, Scheme: cs}); err != nil {
		return errors.Wrap(err, "saving theme")
	}

	color.Green("✓ Saved theme %s", c.Name)
	return nil
}

// SavedCmd lists saved themes.
type SavedCmd struct{}

// Run executes the saved command.
func (c *SavedCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(stdout, "No saved themes")
		return nil
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	names, err := store.ListSchemes(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(stdout, "No saved themes")
		return nil
	}

	fmt.Fprintln(stdout, "Saved themes:")
	for _, name := range names {
		rec, err := store.GetScheme(ctx, name)
		if err != nil || rec == nil {
			continue
		}
		fmt.Fprintf(stdout, "  %s (from %s, saved %s)\n", name, rec.Base, rec.SavedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// DeleteCmd removes a saved theme.
type DeleteCmd struct {
	Name  string `arg:"" help:"Theme to delete"`
	Force bool   `short:"f" help:"Skip confirmation"`
}

// Run executes the delete command.
func (c *DeleteCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Store.Path); os.IsNotExist(err) {
		return errors.Newf("theme %q not found", c.Name)
	}

	if !c.Force {
		fmt.Fprintf(stdout, "Delete theme %s? [y/N] ", c.Name)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(stdout, "Aborted")
			return nil
		}
	}

	store, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	existed, err := store.DeleteScheme(context.Background(), c.Name)
	if err != nil {
		return err
	}
	if !existed {
		return errors.Newf("theme %q not found", c.Name)
	}

	color.Green("Deleted theme %s", c.Name)
	return nil
}

// WatchCmd re-prints the active theme whenever the configuration changes.
type WatchCmd struct{}

// Run executes the watch command.
func (c *WatchCmd) Run(g *Globals) error {
	path := g.Config
	if path == "" {
		path = "layerviz.toml"
	}
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "accessing %s", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
	go func() {
		<-osSignalChannel()
		cancel()
	}()

	show := func(cfg *config.Config) {
		cs, err := resolveScheme(ctx, cfg, "")
		if err != nil {
			color.Red("Invalid theme: %v", err)
			return
		}
		printScheme(cfg.Theme, cs)
	}

	show(cfg)
	fmt.Fprintf(stdout, "\nWatching %s for changes (Ctrl+C to stop)\n", path)

	err = config.Watch(ctx, path, show)
	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "watch error")
	}
	return nil
}

// MCPCmd starts the MCP server.
type MCPCmd struct {
	SDK bool `help:"Serve through the MCP SDK stdio transport"`
}

// Run executes the mcp command.
func (c *MCPCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	store, err := openStore(cfg, true)
	if err != nil {
		return err
	}

	var server *mcp.Server
	if store != nil {
		defer func() { _ = store.Close() }()
		server = mcp.NewServer(cfg, store)
	} else {
		server = mcp.NewServer(cfg, nil)
	}

	// Note: No output to stdout - MCP server uses stdio for JSON-RPC only
	if c.SDK {
		return server.RunStdio(ctx)
	}
	return server.Run(ctx, os.Stdin, os.Stdout)
}

// Helper functions

// osSignalChannel returns a channel that receives OS signals for graceful shutdown.
func osSignalChannel() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

// CLI is the root Kong command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version information"`

	// Commands
	Themes   ThemesCmd   `cmd:"" help:"Print every color of a theme"`
	Color    ColorCmd    `cmd:"" help:"Look up the color of a node kind or layer category"`
	Layers   LayersCmd   `cmd:"" help:"List the layer classification table"`
	Classify ClassifyCmd `cmd:"" help:"Classify layer class names"`
	Style    StyleCmd    `cmd:"" help:"Color every node of a graph description"`
	Save     SaveCmd     `cmd:"" help:"Save a custom theme"`
	Saved    SavedCmd    `cmd:"" help:"List saved themes"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a saved theme"`
	Watch    WatchCmd    `cmd:"" help:"Re-print the theme when the configuration changes"`
	MCP      MCPCmd      `cmd:"" help:"Start MCP server (stdio transport)"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("layerviz"),
		kong.Description("Layer categories and color schemes for neural-network graphs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := logger.Initialize(c.Verbose, c.JSONLogs); err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	defer logger.Sync()

	return kongCtx.Run(&c.Globals)
}
