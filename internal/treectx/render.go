package treectx

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	gapMarker     = "⋮"
	loiMarker     = "█"
	contextMarker = "│"
)

var loiMarkerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

// SetHighlightedLine installs pre-styled replacement text for one rendered
// line, typically with match spans colored by the matcher. Only consulted
// when the line is actually shown.
func (tc *TreeContext) SetHighlightedLine(i int, text string) {
	if i < 0 || i >= len(tc.lines) {
		return
	}
	tc.highlighted[i] = text
}

// Format renders the current show set. Contiguous hidden regions collapse
// to a single gap marker; shown lines carry a marker distinguishing lines
// of interest from context. Returns "" while the show set is empty.
func (tc *TreeContext) Format() string {
	if len(tc.show) == 0 {
		return ""
	}

	var out strings.Builder
	if tc.opts.Color {
		out.WriteString("\x1b[0m\n")
	}

	// gap tracks whether the next hidden line still needs a marker.
	_, top := tc.show[0]
	gap := !top
	for i, line := range tc.lines {
		if _, ok := tc.show[i]; !ok {
			if gap {
				if tc.opts.LineNumber {
					fmt.Fprintf(&out, "%3d...%s...\n", i+1, gapMarker)
				} else {
					out.WriteString(gapMarker + "\n")
				}
				gap = false
			}
			continue
		}

		marker := contextMarker
		if _, loi := tc.loi[i]; loi && tc.opts.MarkLinesOfInterest {
			marker = loiMarker
			if tc.opts.Color {
				marker = loiMarkerStyle.Render(marker)
			}
		}

		text := line
		if styled, ok := tc.highlighted[i]; ok {
			text = styled
		}

		if tc.opts.LineNumber {
			fmt.Fprintf(&out, "%3d", i+1)
		}
		out.WriteString(marker)
		out.WriteString(text)
		out.WriteByte('\n')
		gap = true
	}

	return out.String()
}
