// Package language maps file names to tree-sitter grammars.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/elixir"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// ErrUnknownLanguage is returned when no grammar is registered for a file.
var ErrUnknownLanguage = errors.New("unknown language")

type grammar struct {
	name string
	lang func() *sitter.Language
}

// byExtension registers every supported grammar keyed by file extension.
var byExtension = map[string]grammar{
	".go":   {"go", golang.GetLanguage},
	".py":   {"python", python.GetLanguage},
	".js":   {"javascript", javascript.GetLanguage},
	".mjs":  {"javascript", javascript.GetLanguage},
	".cjs":  {"javascript", javascript.GetLanguage},
	".jsx":  {"javascript", javascript.GetLanguage},
	".ts":   {"typescript", typescript.GetLanguage},
	".tsx":  {"tsx", tsx.GetLanguage},
	".rs":   {"rust", rust.GetLanguage},
	".java": {"java", java.GetLanguage},
	".c":    {"c", c.GetLanguage},
	".h":    {"c", c.GetLanguage},
	".cc":   {"cpp", cpp.GetLanguage},
	".cpp":  {"cpp", cpp.GetLanguage},
	".cxx":  {"cpp", cpp.GetLanguage},
	".hpp":  {"cpp", cpp.GetLanguage},
	".rb":   {"ruby", ruby.GetLanguage},
	".sh":   {"bash", bash.GetLanguage},
	".bash": {"bash", bash.GetLanguage},
	".html": {"html", html.GetLanguage},
	".htm":  {"html", html.GetLanguage},
	".css":  {"css", css.GetLanguage},
	".yaml": {"yaml", yaml.GetLanguage},
	".yml":  {"yaml", yaml.GetLanguage},
	".toml": {"toml", toml.GetLanguage},
	".lua":  {"lua", lua.GetLanguage},
	".ex":   {"elixir", elixir.GetLanguage},
	".exs":  {"elixir", elixir.GetLanguage},
	".kt":   {"kotlin", kotlin.GetLanguage},
	".kts":  {"kotlin", kotlin.GetLanguage},
}

// ForPath returns the grammar for a file, selected by extension, along with
// its name. Wraps ErrUnknownLanguage when the extension is not registered.
func ForPath(path string) (*sitter.Language, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	g, ok := byExtension[ext]
	if !ok {
		return nil, "", fmt.Errorf("%w for %s", ErrUnknownLanguage, path)
	}
	return g.lang(), g.name, nil
}

// SupportedPath reports whether a grammar is registered for the file.
func SupportedPath(path string) bool {
	_, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}
