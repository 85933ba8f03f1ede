package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"grepast/internal/config"
	"grepast/internal/grep"
	"grepast/internal/language"
	"grepast/internal/parser"
	"grepast/internal/treectx"
	"grepast/internal/walker"
)

var log = commonlog.GetLogger("grepast")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "grepast:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := treectx.DefaultOptions()
	ignoreCase := false
	fuzzyThreshold := grep.DefaultFuzzyThreshold
	workers := runtime.NumCPU()
	configPath := ""

	cmd := &cobra.Command{
		Use:   "grepast PATTERN [PATH...]",
		Short: "Search source files and show matches within their code structure",
		Long: `grepast searches source files for a pattern and prints each match
inside a structure-aware excerpt: the headers of the enclosing
functions, classes and blocks stay visible while unrelated lines
collapse into gap markers.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.Discover()
			}
			if path != "" {
				cfg, err := config.Load(path)
				if err != nil {
					return err
				}
				mergeConfig(cmd, cfg, &opts, &ignoreCase, &fuzzyThreshold, &workers)
			}

			verbosity := 0
			if opts.Verbose {
				verbosity = 2
			}
			commonlog.Configure(verbosity, nil)

			paths := args[1:]
			if len(paths) == 0 {
				paths = []string{"."}
			}
			return run(args[0], paths, opts, ignoreCase, fuzzyThreshold, workers)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&ignoreCase, "ignore-case", "i", ignoreCase, "ignore case when matching")
	flags.BoolVar(&opts.Color, "color", opts.Color, "highlight matches and markers")
	flags.BoolVarP(&opts.LineNumber, "line-number", "n", opts.LineNumber, "show line numbers")
	flags.BoolVar(&opts.Verbose, "verbose", opts.Verbose, "trace indexing and traversal")
	flags.BoolVar(&opts.ParentContext, "parent-context", opts.ParentContext, "show headers of enclosing scopes")
	flags.BoolVar(&opts.ChildContext, "child-context", opts.ChildContext, "preview the structure of matched constructs")
	flags.BoolVar(&opts.LastLine, "last-line", opts.LastLine, "always show the closing line of the file")
	flags.IntVar(&opts.Margin, "margin", opts.Margin, "always show this many lines at the top of the file")
	flags.BoolVar(&opts.MarkLinesOfInterest, "mark-lois", opts.MarkLinesOfInterest, "mark matched lines in the output")
	flags.IntVar(&opts.HeaderMax, "header-max", opts.HeaderMax, "maximum lines in a scope header")
	flags.BoolVar(&opts.ShowTopOfFileParentScope, "top-of-file-parent-scope", opts.ShowTopOfFileParentScope, "show parent headers that start on the first line")
	flags.IntVar(&opts.LOIPad, "loi-pad", opts.LOIPad, "context lines around each matched line")
	flags.IntVar(&fuzzyThreshold, "fuzzy-threshold", fuzzyThreshold, "minimum similarity (0-100) for approximate matches, 0 disables")
	flags.IntVar(&workers, "workers", workers, "files processed in parallel")
	flags.StringVar(&configPath, "config", configPath, "config file (default "+config.FileName+" or the user config dir)")

	return cmd
}

// mergeConfig overlays config file values onto the options, then restores
// every flag the user set explicitly, so flags always win over the file.
func mergeConfig(cmd *cobra.Command, cfg *config.File, opts *treectx.Options, ignoreCase *bool, fuzzyThreshold, workers *int) {
	fromFlags := *opts
	cfg.Apply(opts)

	flags := cmd.Flags()
	if flags.Changed("color") {
		opts.Color = fromFlags.Color
	}
	if flags.Changed("line-number") {
		opts.LineNumber = fromFlags.LineNumber
	}
	if flags.Changed("verbose") {
		opts.Verbose = fromFlags.Verbose
	}
	if flags.Changed("parent-context") {
		opts.ParentContext = fromFlags.ParentContext
	}
	if flags.Changed("child-context") {
		opts.ChildContext = fromFlags.ChildContext
	}
	if flags.Changed("last-line") {
		opts.LastLine = fromFlags.LastLine
	}
	if flags.Changed("margin") {
		opts.Margin = fromFlags.Margin
	}
	if flags.Changed("mark-lois") {
		opts.MarkLinesOfInterest = fromFlags.MarkLinesOfInterest
	}
	if flags.Changed("header-max") {
		opts.HeaderMax = fromFlags.HeaderMax
	}
	if flags.Changed("top-of-file-parent-scope") {
		opts.ShowTopOfFileParentScope = fromFlags.ShowTopOfFileParentScope
	}
	if flags.Changed("loi-pad") {
		opts.LOIPad = fromFlags.LOIPad
	}
	if cfg.IgnoreCase != nil && !flags.Changed("ignore-case") {
		*ignoreCase = *cfg.IgnoreCase
	}
	if cfg.FuzzyThreshold != nil && !flags.Changed("fuzzy-threshold") {
		*fuzzyThreshold = *cfg.FuzzyThreshold
	}
	if cfg.Workers != nil && !flags.Changed("workers") {
		*workers = *cfg.Workers
	}
}

func run(pattern string, paths []string, opts treectx.Options, ignoreCase bool, fuzzyThreshold, workers int) error {
	matcher, err := grep.NewMatcher(pattern, ignoreCase, fuzzyThreshold)
	if err != nil {
		return err
	}

	files, err := walker.Collect(paths)
	if err != nil {
		return err
	}

	w := walker.New(workers, func(path string) (string, error) {
		return processFile(path, opts, matcher)
	})

	failed := false
	for _, result := range w.Run(files) {
		if result.Err != nil {
			if errors.Is(result.Err, language.ErrUnknownLanguage) && !result.Explicit {
				continue
			}
			log.Errorf("%s: %s", result.Path, result.Err.Error())
			failed = true
			continue
		}
		if result.Output != "" {
			fmt.Print(result.Output)
		}
	}
	if failed {
		return errors.New("some files could not be processed")
	}
	return nil
}

// processFile renders the structure-aware excerpt of one file, "" when the
// pattern does not match anything in it.
func processFile(path string, opts treectx.Options, matcher *grep.Matcher) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	p, err := parser.NewForPath(path)
	if err != nil {
		return "", err
	}
	defer p.Close()

	tree, err := p.Parse(context.Background(), content)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	code := string(content)
	lines := treectx.SplitLines(code)

	result := matcher.Search(lines)
	if len(result.Lines) == 0 {
		return "", nil
	}

	tc := treectx.New(path, code, tree.Root(), opts)
	tc.AddLinesOfInterest(result.Lines)
	tc.ExpandContext()

	if opts.Color {
		for i, spans := range result.Spans {
			tc.SetHighlightedLine(i, grep.Highlight(lines[i], spans))
		}
	}

	output := tc.Format()
	if output == "" {
		return "", nil
	}
	return tc.Filename() + ":\n" + output, nil
}
