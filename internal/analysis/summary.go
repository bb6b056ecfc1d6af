// Package analysis computes descriptive statistics over a wage table.
package analysis

import (
	"sort"
	"wagescraper/models"

	"github.com/montanaflynn/stats"
)

// UnitSummary describes the countries that share one currency and period
// unit, such as "EUR/Month". Wage averages are only meaningful within a unit.
type UnitSummary struct {
	Unit       string
	Countries  int
	MeanOld    float64
	MeanNew    float64
	MedianNew  float64
	MaxNew     float64
	MaxCountry string
}

// Summary describes the whole table. The wage figures mix every unit in
// the table when MixedUnits is set; ByUnit holds the per-unit figures,
// largest group first. MeanIncreasePct averages the per-country change
// from the old to the current wage, skipping countries whose old wage is
// zero, and is comparable across units.
type Summary struct {
	Countries       int
	MeanOld         float64
	MeanNew         float64
	MedianNew       float64
	MaxNew          float64
	MaxCountry      string
	MeanIncreasePct float64
	MixedUnits      bool
	ByUnit          []UnitSummary
}

// Summarize returns the zero Summary for an empty table.
func Summarize(t *models.WageTable) Summary {
	if t.Len() == 0 {
		return Summary{}
	}

	all := describe(t.Rows())
	s := Summary{
		Countries:  all.Countries,
		MeanOld:    all.MeanOld,
		MeanNew:    all.MeanNew,
		MedianNew:  all.MedianNew,
		MaxNew:     all.MaxNew,
		MaxCountry: all.MaxCountry,
	}

	groups := make(map[string][]models.WageRecord)
	var units []string
	for _, r := range t.Rows() {
		if _, ok := groups[r.Currency]; !ok {
			units = append(units, r.Currency)
		}
		groups[r.Currency] = append(groups[r.Currency], r)
	}
	for _, unit := range units {
		u := describe(groups[unit])
		u.Unit = unit
		s.ByUnit = append(s.ByUnit, u)
	}
	sort.SliceStable(s.ByUnit, func(i, j int) bool {
		return s.ByUnit[i].Countries > s.ByUnit[j].Countries
	})
	s.MixedUnits = len(s.ByUnit) > 1

	var increases stats.Float64Data
	for _, r := range t.Rows() {
		if r.OldWage == 0 {
			continue
		}
		increases = append(increases, (r.NewWage-r.OldWage)/r.OldWage*100)
	}
	if len(increases) > 0 {
		mean, _ := increases.Mean()
		s.MeanIncreasePct, _ = stats.Round(mean, 2)
	}
	return s
}

// describe computes the wage figures of a non-empty set of records.
func describe(records []models.WageRecord) UnitSummary {
	oldWages := make(stats.Float64Data, 0, len(records))
	newWages := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		oldWages = append(oldWages, r.OldWage)
		newWages = append(newWages, r.NewWage)
	}

	u := UnitSummary{Countries: len(records)}
	u.MeanOld, _ = oldWages.Mean()
	u.MeanNew, _ = newWages.Mean()
	u.MedianNew, _ = newWages.Median()
	u.MaxNew, _ = newWages.Max()
	for _, r := range records {
		if r.NewWage == u.MaxNew {
			u.MaxCountry = r.Country
			break
		}
	}
	return u
}
