package dataset

import "wdireport/internal/domain"

// JoinIncomeLevels inner-joins observations to the income-level reference
// table on exact country name. Only countries present on both sides
// survive. Output order follows the observation (left) side; duplicate
// names on either side fan out multiplicatively, matching relational join
// semantics.
func JoinIncomeLevels(observations []domain.Observation, reference []domain.CountryInfo) []domain.ClassifiedObservation {
	index := make(map[string][]domain.CountryInfo, len(reference))
	for _, ref := range reference {
		index[ref.Country] = append(index[ref.Country], ref)
	}

	joined := make([]domain.ClassifiedObservation, 0, len(observations))
	for _, obs := range observations {
		for _, ref := range index[obs.Country] {
			joined = append(joined, domain.ClassifiedObservation{
				Country:       obs.Country,
				Date:          obs.Date,
				Value:         obs.Value,
				IncomeLevelID: ref.ID,
				ISO2Code:      ref.ISO2Code,
				IncomeLevel:   ref.IncomeLevel,
			})
		}
	}
	return joined
}
