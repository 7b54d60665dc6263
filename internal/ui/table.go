package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows with an optional selection highlight.  Kept
// deliberately simple — the data sets here are a local roster and a stock
// ledger, not anything that needs virtual scrolling.
type Table struct {
	Headers  []string
	Rows     [][]string
	Selected int // -1 disables highlighting
}

func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Selected: -1}
}

func (t *Table) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// MoveSelection clamps the selection to the row range after a delta.
func (t *Table) MoveSelection(delta int) {
	if len(t.Rows) == 0 {
		t.Selected = -1
		return
	}
	t.Selected += delta
	if t.Selected < 0 {
		t.Selected = 0
	}
	if t.Selected >= len(t.Rows) {
		t.Selected = len(t.Rows) - 1
	}
}

func (t *Table) SelectedRow() []string {
	if t.Selected < 0 || t.Selected >= len(t.Rows) {
		return nil
	}
	return t.Rows[t.Selected]
}

func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return styles.Help.Render("(empty)")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var sb strings.Builder

	for i, h := range t.Headers {
		sb.WriteString(styles.Header.Render(pad(h, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")

	for ri, row := range t.Rows {
		style := styles.Cell
		if ri == t.Selected {
			style = styles.Selected
		}
		for ci, cell := range row {
			if ci < len(widths) {
				sb.WriteString(style.Render(pad(cell, widths[ci])))
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func pad(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
