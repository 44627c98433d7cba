package dataset

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"wdireport/internal/domain"
)

func day(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestJoinPairsByCountryPreservingLeftOrder(t *testing.T) {
	t.Parallel()

	observations := []domain.Observation{
		{Country: "A", Date: day(2019), Value: 20},
		{Country: "B", Date: day(2019), Value: 90},
	}
	reference := []domain.CountryInfo{
		{ID: "LIC", Country: "A", IncomeLevel: "Low income"},
		{ID: "HIC", Country: "B", IncomeLevel: "High income"},
	}

	got := JoinIncomeLevels(observations, reference)
	want := []domain.ClassifiedObservation{
		{Country: "A", Date: day(2019), Value: 20, IncomeLevelID: "LIC", IncomeLevel: "Low income"},
		{Country: "B", Date: day(2019), Value: 90, IncomeLevelID: "HIC", IncomeLevel: "High income"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("join mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinDropsUnmatchedRowsOnBothSides(t *testing.T) {
	t.Parallel()

	observations := []domain.Observation{
		{Country: "Matched", Date: day(2000), Value: 1},
		{Country: "NoReference", Date: day(2000), Value: 2},
	}
	reference := []domain.CountryInfo{
		{Country: "Matched", IncomeLevel: "High income"},
		{Country: "NoObservation", IncomeLevel: "Low income"},
	}

	got := JoinIncomeLevels(observations, reference)

	if len(got) != 1 {
		t.Fatalf("expected 1 joined row, got %d", len(got))
	}
	if got[0].Country != "Matched" {
		t.Fatalf("unexpected joined country: %s", got[0].Country)
	}
}

func TestJoinIsCaseSensitive(t *testing.T) {
	t.Parallel()

	got := JoinIncomeLevels(
		[]domain.Observation{{Country: "aruba", Date: day(2000), Value: 1}},
		[]domain.CountryInfo{{Country: "Aruba", IncomeLevel: "High income"}},
	)

	if len(got) != 0 {
		t.Fatalf("join must match names exactly, got %d rows", len(got))
	}
}

func TestJoinFansOutDuplicateKeys(t *testing.T) {
	t.Parallel()

	observations := []domain.Observation{
		{Country: "A", Date: day(2001), Value: 5},
		{Country: "A", Date: day(2002), Value: 6},
	}
	reference := []domain.CountryInfo{
		{ID: "LIC", Country: "A", IncomeLevel: "Low income"},
		{ID: "LMC", Country: "A", IncomeLevel: "Lower middle income"},
	}

	got := JoinIncomeLevels(observations, reference)

	if len(got) != 4 {
		t.Fatalf("expected 2x2 fan-out, got %d rows", len(got))
	}
	// Left order first, then reference insertion order within each key.
	if got[0].IncomeLevelID != "LIC" || got[1].IncomeLevelID != "LMC" {
		t.Fatalf("fan-out order not deterministic: %+v", got[:2])
	}
	if !got[0].Date.Equal(day(2001)) || !got[2].Date.Equal(day(2002)) {
		t.Fatalf("left row order not preserved: %+v", got)
	}
}

func TestJoinEmptyInputsProduceEmptyTable(t *testing.T) {
	t.Parallel()

	if got := JoinIncomeLevels(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty join, got %d rows", len(got))
	}
}
