package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"wdireport/internal/domain"
)

func classified(country, level string, year int, value float64) domain.ClassifiedObservation {
	return domain.ClassifiedObservation{
		Country:     country,
		IncomeLevel: level,
		Date:        time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Value:       value,
	}
}

func TestBuildGroupSeriesAggregatesPerLevelAndDate(t *testing.T) {
	t.Parallel()

	rows := []domain.ClassifiedObservation{
		classified("A", domain.IncomeHigh, 2001, 10),
		classified("B", domain.IncomeHigh, 2001, 20),
		classified("A", domain.IncomeHigh, 2000, 30),
		classified("C", domain.IncomeLow, 2001, 7),
	}

	got := BuildGroupSeries(rows)

	want := []Series{
		{
			Label: domain.IncomeHigh,
			Points: []SeriesPoint{
				{Date: day(2000), Mean: 30, StdErr: 0, N: 1},
				{Date: day(2001), Mean: 15, StdErr: 5, N: 2},
			},
		},
		{
			Label: domain.IncomeLow,
			Points: []SeriesPoint{
				{Date: day(2001), Mean: 7, StdErr: 0, N: 1},
			},
		},
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGroupSeriesFollowsCanonicalOrder(t *testing.T) {
	t.Parallel()

	rows := []domain.ClassifiedObservation{
		classified("C", domain.IncomeLow, 2001, 1),
		classified("B", domain.IncomeLowerMiddle, 2001, 2),
		classified("A", domain.IncomeHigh, 2001, 3),
	}

	got := BuildGroupSeries(rows)

	labels := make([]string, 0, len(got))
	for _, s := range got {
		labels = append(labels, s.Label)
	}
	want := []string{domain.IncomeHigh, domain.IncomeLowerMiddle, domain.IncomeLow}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("label order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGroupSeriesSkipsMissingValues(t *testing.T) {
	t.Parallel()

	rows := []domain.ClassifiedObservation{
		classified("A", domain.IncomeHigh, 2001, math.NaN()),
		classified("B", domain.IncomeHigh, 2001, 40),
	}

	got := BuildGroupSeries(rows)

	if len(got) != 1 || len(got[0].Points) != 1 {
		t.Fatalf("unexpected series shape: %+v", got)
	}
	point := got[0].Points[0]
	if point.Mean != 40 || point.N != 1 {
		t.Fatalf("NaN leaked into aggregation: %+v", point)
	}
}

func TestBuildWorldSeriesIncludesEveryRow(t *testing.T) {
	t.Parallel()

	rows := []domain.ClassifiedObservation{
		classified("A", domain.IncomeHigh, 2001, 10),
		classified("B", "Not classified", 2001, 20),
	}

	world := BuildWorldSeries(rows)

	if world.Label != domain.WorldSeries {
		t.Fatalf("unexpected label: %s", world.Label)
	}
	if len(world.Points) != 1 || world.Points[0].N != 2 {
		t.Fatalf("world series must cover all rows: %+v", world.Points)
	}
	if world.Points[0].Mean != 15 {
		t.Fatalf("unexpected world mean: %v", world.Points[0].Mean)
	}

	// The unclassified row must not surface as its own group line.
	for _, s := range BuildGroupSeries(rows) {
		if s.Label == "Not classified" {
			t.Fatal("non-canonical level surfaced as a chart series")
		}
	}
}

func TestSummarizeCountsGroups(t *testing.T) {
	t.Parallel()

	rows := []domain.ClassifiedObservation{
		classified("A", domain.IncomeHigh, 2000, 10),
		classified("A", domain.IncomeHigh, 2001, 20),
		classified("B", domain.IncomeHigh, 2001, math.NaN()),
		classified("C", domain.IncomeLow, 2001, 5),
	}

	stats := Summarize(rows)

	if len(stats) != 3 {
		t.Fatalf("expected High, Low and World rows, got %+v", stats)
	}

	high := stats[0]
	if high.Label != domain.IncomeHigh || high.Countries != 2 || high.Observations != 2 {
		t.Fatalf("unexpected high-income stat: %+v", high)
	}
	if !high.LatestDate.Equal(day(2001)) || high.LatestMean != 20 {
		t.Fatalf("unexpected latest point: %+v", high)
	}

	world := stats[len(stats)-1]
	if world.Label != domain.WorldSeries || world.Countries != 3 || world.Observations != 3 {
		t.Fatalf("unexpected world stat: %+v", world)
	}
}

func TestSummarizeEmptyJoinKeepsWorldRow(t *testing.T) {
	t.Parallel()

	stats := Summarize(nil)

	if len(stats) != 1 || stats[0].Label != domain.WorldSeries {
		t.Fatalf("expected only the World row, got %+v", stats)
	}
	if stats[0].Countries != 0 || stats[0].Observations != 0 {
		t.Fatalf("world row must be zero-valued on empty join: %+v", stats[0])
	}
}
