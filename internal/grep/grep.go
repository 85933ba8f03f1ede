// Package grep decides which source lines are of interest: exact regex
// matches unioned with approximate token matches. The context engine only
// ever sees the resulting line indices, never how they were found.
package grep

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"
)

// DefaultFuzzyThreshold is the minimum token similarity (0-100) counted as
// an approximate match.
const DefaultFuzzyThreshold = 80

var wordPattern = regexp.MustCompile(`\w+`)

var (
	exactStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	fuzzyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Span is a half-open byte range within one line to highlight. Fuzzy marks
// spans found by approximate matching rather than the regex.
type Span struct {
	Start int
	End   int
	Fuzzy bool
}

// Result lists the matched lines of one file, with per-line highlight spans.
type Result struct {
	Lines []int
	Spans map[int][]Span
}

// Matcher matches lines against one pattern.
type Matcher struct {
	re        *regexp.Regexp
	pattern   string
	threshold int
}

// NewMatcher compiles the pattern. A threshold of 0 or less disables
// approximate matching; DefaultFuzzyThreshold is the usual choice.
func NewMatcher(pattern string, ignoreCase bool, fuzzyThreshold int) (*Matcher, error) {
	expr := pattern
	if ignoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Matcher{re: re, pattern: pattern, threshold: fuzzyThreshold}, nil
}

// Search scans the lines and returns the matched indices, sorted, along
// with the byte spans that matched on each line.
func (m *Matcher) Search(lines []string) Result {
	result := Result{Spans: make(map[int][]Span)}

	for i, line := range lines {
		var spans []Span
		for _, loc := range m.re.FindAllStringIndex(line, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
		if m.threshold > 0 {
			for _, loc := range wordPattern.FindAllStringIndex(line, -1) {
				word := line[loc[0]:loc[1]]
				if Ratio(m.pattern, word) >= m.threshold {
					spans = append(spans, Span{Start: loc[0], End: loc[1], Fuzzy: true})
				}
			}
		}
		if len(spans) == 0 {
			continue
		}
		result.Lines = append(result.Lines, i)
		result.Spans[i] = mergeSpans(spans)
	}

	sort.Ints(result.Lines)
	return result
}

// Ratio is the similarity of two tokens on a 0-100 scale: the Levenshtein
// distance normalized by the longer token, case-insensitively.
func Ratio(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 100
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// mergeSpans sorts spans and drops any span overlapping an earlier one, so
// highlighting never nests. Exact spans win over fuzzy spans that start at
// the same offset.
func mergeSpans(spans []Span) []Span {
	sort.SliceStable(spans, func(a, b int) bool {
		if spans[a].Start != spans[b].Start {
			return spans[a].Start < spans[b].Start
		}
		return !spans[a].Fuzzy && spans[b].Fuzzy
	})

	merged := spans[:1]
	for _, s := range spans[1:] {
		if s.Start < merged[len(merged)-1].End {
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Highlight renders one line with its match spans styled: exact matches in
// bold red, approximate ones in yellow. Spans must be the merged output of
// Search.
func Highlight(line string, spans []Span) string {
	if len(spans) == 0 {
		return line
	}

	var out strings.Builder
	prev := 0
	for _, s := range spans {
		if s.Start > len(line) || s.End > len(line) || s.Start < prev {
			continue
		}
		out.WriteString(line[prev:s.Start])
		if s.Fuzzy {
			out.WriteString(fuzzyStyle.Render(line[s.Start:s.End]))
		} else {
			out.WriteString(exactStyle.Render(line[s.Start:s.End]))
		}
		prev = s.End
	}
	out.WriteString(line[prev:])
	return out.String()
}
