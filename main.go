// fnctx extracts a function and everything it transitively calls into a
// single context document.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/fnctx/internal/assemble"
	"github.com/phobologic/fnctx/internal/config"
	"github.com/phobologic/fnctx/internal/diag"
	"github.com/phobologic/fnctx/internal/discover"
	"github.com/phobologic/fnctx/internal/extract"
	"github.com/phobologic/fnctx/internal/graph"
	"github.com/phobologic/fnctx/internal/index"
	"github.com/phobologic/fnctx/internal/model"
	"github.com/phobologic/fnctx/internal/selector"
)

var version = "dev"

var errUsage = errors.New("expected <project_root> <function_name> [preferred_module] [output_file]")

const longDescription = `fnctx collects the source of a function and of every function it calls,
recursively, into one document. Definitions and calls are found by text
pattern, so the result is a best-effort slice of the project.

When several functions share the requested name, preferred_module picks the
first whose module path contains it; otherwise the first one found is used.
The document goes to output_file, or to standard output when none is given.
A third argument without a path separator also names the output file when no
fourth argument is given.`

const examples = `  fnctx ./my-project main
  fnctx ./my-project process_queue transform_writer output.txt
  fnctx --parser treesitter -e 'target' ./my-project run -o ctx.txt`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	module        string
	output        string
	configPath    string
	parser        string
	workers       int
	maxBodyWindow int
	exclude       []string
	gitignore     bool
	verbose       bool
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	if errors.Is(err, errUsage) {
		_, _ = fmt.Fprint(stderr, cmd.UsageString())
	}
	return err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "fnctx <project_root> <function_name> [preferred_module] [output_file]",
		Short:   "Extract a function and its transitive callees into one document",
		Long:    longDescription,
		Example: examples,
		Version: version,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd, args, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("fnctx {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&opts.module, "module", "m", "", "preferred module when several functions share the name")
	f.StringVarP(&opts.output, "output", "o", "", "write the document to this file instead of stdout")
	f.StringVar(&opts.configPath, "config", "", "config file (default <project_root>/"+config.FileName+")")
	f.StringVar(&opts.parser, "parser", "", "extractor: pattern or treesitter")
	f.IntVar(&opts.workers, "workers", 0, "files extracted in parallel")
	f.IntVar(&opts.maxBodyWindow, "max-body-window", 0, "characters kept when a body has no closing delimiter")
	f.StringArrayVarP(&opts.exclude, "exclude", "e", nil, "glob of root-relative paths to skip (repeatable)")
	f.BoolVar(&opts.gitignore, "gitignore", false, "skip paths ignored by the root .gitignore")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-phase counts")
	f.BoolP("version", "V", false, "show version and exit")

	return cmd
}

// positional splits the positional arguments. A third argument without a
// path separator doubles as the output file when no fourth is given.
// Arguments past the fourth are ignored.
func positional(args []string) (root, name, module, output string) {
	root, name = args[0], args[1]
	if len(args) > 2 {
		module = args[2]
	}
	switch {
	case len(args) > 3:
		output = args[3]
	case len(args) > 2 && !strings.ContainsAny(args[2], `/\`):
		output = args[2]
	}
	return root, name, module, output
}

func loadConfig(cmd *cobra.Command, root string, opts options) (config.Config, error) {
	cfg, err := config.Discover(root, opts.configPath)
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("parser") {
		cfg.Parser = opts.parser
	}
	if f.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if f.Changed("max-body-window") {
		cfg.MaxBodyWindow = opts.maxBodyWindow
	}
	if f.Changed("gitignore") {
		cfg.Gitignore = opts.gitignore
	}
	cfg.Exclude = append(cfg.Exclude, opts.exclude...)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func analyze(cmd *cobra.Command, args []string, opts options, stdout, stderr io.Writer) error {
	root, name, module, output := positional(args)
	if opts.module != "" {
		module = opts.module
	}
	if cmd.Flags().Changed("output") {
		output = opts.output
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	rep := diag.New(stderr)

	cfg, err := loadConfig(cmd, root, opts)
	if err != nil {
		return err
	}
	logger.Debug("config", "extension", cfg.Extension, "parser", cfg.Parser, "workers", cfg.Workers)

	files, err := discover.Files(root, discover.Options{
		Extension: cfg.Extension,
		Exclude:   cfg.Exclude,
		Gitignore: cfg.Gitignore,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	rep.FileCount(len(files))

	ex, err := cfg.Extractor()
	if err != nil {
		return err
	}
	results, err := extractFiles(cmd.Context(), ex, files, cfg.Workers)
	if err != nil {
		return err
	}

	idx := index.Build(results)
	g := graph.BuildCallGraph(idx)
	logger.Debug("index built", "functions", idx.Len(), "types", idx.TypeCount(), "edges", g.EdgeCount())

	sel, err := selector.Select(idx, name, module)
	if err != nil {
		var nf *selector.NotFoundError
		if errors.As(err, &nf) {
			rep.NotFound(nf)
		}
		return err
	}
	rep.Selection(name, sel)

	doc := assemble.Context(idx, g, sel.Qualified)
	logger.Debug("context assembled", "start", sel.Qualified, "sections", len(doc.Sections))

	return writeDocument(doc, output, stdout)
}

// extractFiles runs the extractor over every file with at most workers in
// flight. Results keep discovery order so later merging is deterministic.
func extractFiles(ctx context.Context, ex extract.Extractor, files []discover.FileEntry, workers int) ([]model.FileResult, error) {
	results := make([]model.FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(f.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Path, err)
			}
			res, err := ex.Extract(source, f.Path, f.ModulePath)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeDocument(doc *assemble.Document, output string, stdout io.Writer) error {
	if output == "" {
		_, err := doc.WriteTo(stdout)
		return err
	}

	if err := os.WriteFile(output, []byte(doc.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	_, _ = fmt.Fprintf(stdout, "Output written to %s\n", output)
	return nil
}
