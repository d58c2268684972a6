package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/mood2movie/internal/model"
)

// RenderList renders a titled bullet list.
func RenderList(title string, items []string) string {
	var b strings.Builder
	b.WriteString(FormatTitle(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("  • ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRecommendations renders a numbered batch with each explanation.
func RenderRecommendations(recs []model.Recommendation) string {
	if len(recs) == 0 {
		return FormatInfo("No recommendations yet.") + "\n"
	}

	lines := make([]string, 0, len(recs)*2)
	for i, rec := range recs {
		lines = append(lines,
			fmt.Sprintf("%d. %s", i+1, BoldStyle.Render(rec.Title)),
			"   "+SubtleStyle.Render(rec.Explanation))
	}
	header := fmt.Sprintf("%s Picks for a %s mood", PopcornIcon, recs[0].Mood)
	return RenderBox(header, strings.Join(lines, "\n")) + "\n"
}

var libraryColumns = []string{"Title", "Status", "Mood", "Added", "Notes"}

// RenderLibrary renders the library as a table sorted by title.
func RenderLibrary(lib model.Library) string {
	if len(lib) == 0 {
		return FormatInfo("Your library is empty.") + "\n"
	}

	rows := make([][]string, 0, len(lib))
	for _, title := range lib.Titles() {
		rec := lib[title]
		rows = append(rows, []string{
			title,
			string(rec.Status),
			rec.MoodContext,
			rec.AddedAt.String(),
			rec.Comments,
		})
	}

	widths := make([]int, len(libraryColumns))
	for i, col := range libraryColumns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	b.WriteString(renderRow(libraryColumns, widths, TableHeaderStyle))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(renderRow(row, widths, lipgloss.NewStyle()))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = style.Inherit(TableCellStyle).Width(widths[i] + 2).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
