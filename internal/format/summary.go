// Package format renders the end-of-run console summary: one table row per
// income group plus World, then the artifact paths.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wdireport/internal/domain"
)

// RenderSummary turns a run summary into the fixed-width text block printed
// to standard output after a successful run.
func RenderSummary(summary domain.RunSummary) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.SetTitle("Indicator %s", summary.Indicator)
	w.AppendHeader(table.Row{"Group", "Countries", "Observations", "Latest", "Mean"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, group := range summary.Groups {
		w.AppendRow(table.Row{
			group.Label,
			group.Countries,
			group.Observations,
			latestLabel(group),
			meanLabel(group),
		})
	}

	var b strings.Builder
	b.WriteString(w.Render())
	b.WriteString("\n")

	fmt.Fprintf(&b, "chart: %s\n", summary.ChartPath)
	for _, path := range summary.Artifacts {
		fmt.Fprintf(&b, "report: %s\n", path)
	}
	return b.String()
}

func latestLabel(group domain.GroupStat) string {
	if group.LatestDate.IsZero() {
		return "-"
	}
	return group.LatestDate.Format("2006")
}

func meanLabel(group domain.GroupStat) string {
	if group.LatestDate.IsZero() || math.IsNaN(group.LatestMean) {
		return "-"
	}
	return fmt.Sprintf("%.2f", group.LatestMean)
}
