// Package parser turns source text into the syntax tree view the context
// engine consumes, via tree-sitter.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"grepast/internal/language"
	"grepast/internal/treectx"
)

// Parser parses files of one language. It is not safe for concurrent use;
// give each worker its own instance.
type Parser struct {
	parser *sitter.Parser
	lang   *sitter.Language
	name   string
}

// New creates a parser for the given grammar.
func New(lang *sitter.Language, name string) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Parser{parser: p, lang: lang, name: name}
}

// NewForPath creates a parser for the grammar selected by the file name.
// Returns an error wrapping language.ErrUnknownLanguage when no grammar is
// registered for the file.
func NewForPath(path string) (*Parser, error) {
	lang, name, err := language.ForPath(path)
	if err != nil {
		return nil, err
	}
	return New(lang, name), nil
}

// Language returns the name of the grammar the parser was built with.
func (p *Parser) Language() string {
	return p.name
}

// Parse parses the content into a syntax tree. The returned tree keeps
// native resources; close it once the context engine is done with it.
func (p *Parser) Parse(ctx context.Context, content []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.name, err)
	}
	return &Tree{tree: tree}, nil
}

// Close releases the parser. The parser must not be used afterwards.
func (p *Parser) Close() {
	p.parser.Close()
}

// Tree owns one parsed syntax tree.
type Tree struct {
	tree *sitter.Tree
}

// Root returns the root node as the context engine's node view.
func (t *Tree) Root() treectx.Node {
	return node{n: t.tree.RootNode()}
}

// Close releases the tree. Nodes obtained from it must not be used
// afterwards.
func (t *Tree) Close() {
	t.tree.Close()
}

// node adapts a tree-sitter node to treectx.Node.
type node struct {
	n *sitter.Node
}

func (nd node) StartLine() int { return int(nd.n.StartPoint().Row) }
func (nd node) EndLine() int   { return int(nd.n.EndPoint().Row) }
func (nd node) IsNamed() bool  { return nd.n.IsNamed() }
func (nd node) Kind() string   { return nd.n.Type() }

func (nd node) ChildCount() int { return int(nd.n.ChildCount()) }

func (nd node) Child(i int) treectx.Node {
	return node{n: nd.n.Child(i)}
}
