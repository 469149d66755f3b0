package highlight

import (
	"context"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/kobzarvs/gapedit/internal/config"
	"github.com/kobzarvs/gapedit/internal/logger"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"
)

// Span covers the cells [StartCol, EndCol) of one line. Columns are cell
// indexes, not byte offsets.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

type grammar struct {
	lang  *sitter.Language
	query string
}

var grammars = map[string]grammar{
	"go":   {golang.GetLanguage(), goHighlightQuery},
	"yaml": {yaml.GetLanguage(), yamlHighlightQuery},
	"toml": {toml.GetLanguage(), tomlHighlightQuery},
	"bash": {bash.GetLanguage(), bashHighlightQuery},
}

type document struct {
	grammar string
	tree    *sitter.Tree
	source  []byte
}

type Engine struct {
	langs   config.Languages
	parsers map[string]*sitter.Parser
	queries map[string]*sitter.Query
	docs    map[string]*document
	mu      sync.Mutex
}

func New(langs config.Languages) *Engine {
	return &Engine{
		langs:   langs,
		parsers: make(map[string]*sitter.Parser),
		queries: make(map[string]*sitter.Query),
		docs:    make(map[string]*document),
	}
}

// Supported reports whether path maps to a grammar the engine can parse.
func (e *Engine) Supported(path string) bool {
	_, ok := e.grammarFor(path)
	return ok
}

func (e *Engine) grammarFor(path string) (string, bool) {
	lang := e.langs.Match(path)
	if lang == nil {
		return "", false
	}
	name := lang.GrammarName()
	_, ok := grammars[name]
	return name, ok
}

// Update reparses path with its full new text. It returns false when the
// file has no grammar or the parse failed.
func (e *Engine) Update(path string, text []byte) bool {
	name, ok := e.grammarFor(path)
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	parser, err := e.parserLocked(name)
	if err != nil {
		logger.Warn("highlight grammar unavailable", "grammar", name, "error", err)
		return false
	}
	source := append([]byte(nil), text...)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		logger.Debug("highlight parse failed", "path", path, "error", err)
		return false
	}
	if prev := e.docs[path]; prev != nil && prev.tree != nil {
		prev.tree.Close()
	}
	e.docs[path] = &document{grammar: name, tree: tree, source: source}
	return true
}

func (e *Engine) parserLocked(name string) (*sitter.Parser, error) {
	if p, ok := e.parsers[name]; ok {
		return p, nil
	}
	g := grammars[name]
	query, err := sitter.NewQuery([]byte(g.query), g.lang)
	if err != nil {
		return nil, err
	}
	p := sitter.NewParser()
	p.SetLanguage(g.lang)
	e.parsers[name] = p
	e.queries[name] = query
	return p, nil
}

// Forget drops the parse state of path.
func (e *Engine) Forget(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if doc := e.docs[path]; doc != nil && doc.tree != nil {
		doc.tree.Close()
	}
	delete(e.docs, path)
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for path, doc := range e.docs {
		if doc.tree != nil {
			doc.tree.Close()
		}
		delete(e.docs, path)
	}
	for name, q := range e.queries {
		q.Close()
		delete(e.queries, name)
	}
	for name, p := range e.parsers {
		p.Close()
		delete(e.parsers, name)
	}
	return nil
}

// Highlights returns spans keyed by 0-based line for lines in
// [startLine, endLine].
func (e *Engine) Highlights(path string, startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := e.docs[path]
	if doc == nil {
		return nil
	}
	return queryHighlights(e.queries[doc.grammar], doc.tree, doc.source, startLine, endLine)
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]Span {
	if query == nil || tree == nil {
		return nil
	}
	starts := lineStarts(source)
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			startRow := int(start.Row)
			endRow := int(end.Row)
			for row := startRow; row <= endRow; row++ {
				if row < startLine || row > endLine {
					continue
				}
				startCol := 0
				endCol := math.MaxInt32
				if row == startRow {
					startCol = cellColumn(source, starts, row, int(start.Column))
				}
				if row == endRow {
					endCol = cellColumn(source, starts, row, int(end.Column))
				}
				if endCol <= startCol {
					continue
				}
				out[row] = append(out[row], Span{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// cellColumn converts a tree-sitter byte column into a rune column.
func cellColumn(source []byte, starts []int, row, byteCol int) int {
	if row >= len(starts) {
		return byteCol
	}
	from := starts[row]
	to := from + byteCol
	if to > len(source) {
		to = len(source)
	}
	return utf8.RuneCount(source[from:to])
}

func priority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword":
		return 5
	case "constant", "builtin":
		return 4
	case "type", "function", "number", "parameter":
		return 3
	case "field", "variable":
		return 2
	case "operator", "punctuation":
		return 1
	default:
		return 0
	}
}

// KindAt picks the highest priority kind covering col.
func KindAt(spans []Span, col int) (string, bool) {
	bestKind := ""
	bestPriority := 0
	for _, span := range spans {
		if col < span.StartCol || col >= span.EndCol {
			continue
		}
		if p := priority(span.Kind); p > bestPriority {
			bestPriority = p
			bestKind = span.Kind
		}
	}
	return bestKind, bestKind != ""
}
