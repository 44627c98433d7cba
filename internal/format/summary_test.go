package format

import (
	"math"
	"strings"
	"testing"
	"time"

	"wdireport/internal/domain"
)

func TestRenderSummaryListsGroupsAndArtifacts(t *testing.T) {
	t.Parallel()

	summary := domain.RunSummary{
		Indicator: "SH.STA.BASS.ZS",
		Groups: []domain.GroupStat{
			{Label: "High income", Countries: 54, Observations: 1100,
				LatestDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), LatestMean: 98.12},
			{Label: "World", Countries: 190, Observations: 4000,
				LatestDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), LatestMean: 74.5},
		},
		ChartPath: "out/plot.png",
		Artifacts: []string{"out/part1.pdf", "out/part1.html"},
	}

	got := RenderSummary(summary)

	for _, want := range []string{
		"SH.STA.BASS.ZS",
		"High income",
		"World",
		"98.12",
		"2020",
		"chart: out/plot.png",
		"report: out/part1.pdf",
		"report: out/part1.html",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestRenderSummaryEmptyRun(t *testing.T) {
	t.Parallel()

	summary := domain.RunSummary{
		Indicator: "SH.STA.BASS.ZS",
		Groups:    []domain.GroupStat{{Label: "World", LatestMean: math.NaN()}},
		ChartPath: "plot.png",
	}

	got := RenderSummary(summary)

	if !strings.Contains(got, "World") {
		t.Fatalf("World row missing:\n%s", got)
	}
	// A group with no data shows placeholders, not a NaN literal.
	if strings.Contains(got, "NaN") {
		t.Fatalf("NaN leaked into the summary:\n%s", got)
	}
}
