// Package config loads optional YAML defaults for the command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"grepast/internal/treectx"
)

// FileName is the per-project config file looked up in the working
// directory before the user-level one.
const FileName = ".grepast.yaml"

// File mirrors every tunable option. Pointer fields distinguish "absent"
// from an explicit zero, so file values never clobber flag defaults.
type File struct {
	Color      *bool `yaml:"color"`
	LineNumber *bool `yaml:"line_number"`
	Verbose    *bool `yaml:"verbose"`

	ParentContext            *bool `yaml:"parent_context"`
	ChildContext             *bool `yaml:"child_context"`
	LastLine                 *bool `yaml:"last_line"`
	Margin                   *int  `yaml:"margin"`
	MarkLinesOfInterest      *bool `yaml:"mark_lines_of_interest"`
	HeaderMax                *int  `yaml:"header_max"`
	ShowTopOfFileParentScope *bool `yaml:"show_top_of_file_parent_scope"`
	LOIPad                   *int  `yaml:"loi_pad"`

	IgnoreCase     *bool `yaml:"ignore_case"`
	FuzzyThreshold *int  `yaml:"fuzzy_threshold"`
	Workers        *int  `yaml:"workers"`
}

// Discover returns the path of the config file to use: FileName in the
// working directory, else config.yaml under the user config directory.
// Returns "" when neither exists.
func Discover() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "grepast", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Load reads and parses one config file.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(content)
}

// Parse decodes config file content.
func Parse(content []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &f, nil
}

// Apply overlays the file's present values onto the options.
func (f *File) Apply(opts *treectx.Options) {
	setBool(&opts.Color, f.Color)
	setBool(&opts.LineNumber, f.LineNumber)
	setBool(&opts.Verbose, f.Verbose)
	setBool(&opts.ParentContext, f.ParentContext)
	setBool(&opts.ChildContext, f.ChildContext)
	setBool(&opts.LastLine, f.LastLine)
	setInt(&opts.Margin, f.Margin)
	setBool(&opts.MarkLinesOfInterest, f.MarkLinesOfInterest)
	setInt(&opts.HeaderMax, f.HeaderMax)
	setBool(&opts.ShowTopOfFileParentScope, f.ShowTopOfFileParentScope)
	setInt(&opts.LOIPad, f.LOIPad)
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
