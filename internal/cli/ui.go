package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/hanoi/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, "  "+keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Result Display
// =============================================================================

// printResult prints a solve summary, and the final pegs for small towers.
func printResult(w io.Writer, res *pipeline.Result) {
	printSuccess(w, "Solved %s rings in %s moves",
		StyleNumber.Render(strconv.Itoa(res.Rings)),
		StyleNumber.Render(formatCount(res.Moves)))

	printKeyValue(w, "pegs", fmt.Sprintf("%d %s %d via %d", res.Source, iconArrow, res.Destination, res.Auxiliary))
	printKeyValue(w, "moves", fmt.Sprintf("%s (expected %s)", formatCount(res.Moves), formatCount(res.Expected)))
	printKeyValue(w, "elapsed", formatDuration(res.Duration))

	status, style := iconFresh, styleComputed
	if res.Cached {
		status, style = iconCached, styleCached
	}
	printKeyValue(w, "result", style.Render(status)+StyleDim.Render(" · "+res.ID))

	if res.Rings > 0 && res.Rings <= pipeline.MaxTableRings {
		fmt.Fprintln(w, renderPegs(res))
	}
}

// renderPegs draws one table row per peg with its role and rings.
func renderPegs(res *pipeline.Result) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(res.Final))
	for i, rings := range res.Final {
		rows[i] = []string{strconv.Itoa(i), pegRole(res, i), formatRings(rings)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Peg", "Role", "Rings (bottom → top)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row < len(res.Final) && row == res.Destination {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	return t.Render()
}

func pegRole(res *pipeline.Result, i int) string {
	switch i {
	case res.Source:
		return "source"
	case res.Destination:
		return "destination"
	case res.Auxiliary:
		return "auxiliary"
	default:
		return "—"
	}
}

func formatRings(rings []int) string {
	if len(rings) == 0 {
		return "—"
	}
	parts := make([]string, len(rings))
	for i, r := range rings {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, " ")
}

// formatCount renders n with thousands separators, e.g. 4,294,967,295.
func formatCount(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatDuration rounds d to a precision that suits its magnitude.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.String()
	}
}
