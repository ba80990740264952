package economics

import "sort"

const (
	classAThresholdPct = 80.0
	classBThresholdPct = 95.0
)

// ClassifyABC ranks products by estimated annual value (annual demand × price)
// and assigns Pareto tiers from the running cumulative share: A up to and
// including 80 %, B up to and including 95 %, C above. Equal values keep input
// order. An empty batch yields an empty result.
func ClassifyABC(products []ProductSnapshot, rules DemandHeuristicConfig) ABCResult {
	if len(products) == 0 {
		return ABCResult{Classes: map[string]ABCClass{}, Entries: []ABCEntry{}}
	}

	entries := make([]ABCEntry, 0, len(products))
	for _, p := range products {
		annual := AnnualDemand(EstimateDailyDemand(p, rules))
		entries = append(entries, ABCEntry{
			ProductID:   p.ProductID,
			AnnualValue: annual * p.UnitPrice,
		})
	}

	return RankABC(entries)
}

// RankABC assigns tiers to entries whose AnnualValue is already known.
// The slice is copied before sorting.
func RankABC(values []ABCEntry) ABCResult {
	result := ABCResult{
		Classes: make(map[string]ABCClass, len(values)),
		Entries: append(make([]ABCEntry, 0, len(values)), values...),
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].AnnualValue > result.Entries[j].AnnualValue
	})

	for _, e := range result.Entries {
		result.TotalAnnualValue += e.AnnualValue
	}

	var cumulative float64
	for i := range result.Entries {
		e := &result.Entries[i]
		cumulative += e.AnnualValue
		if result.TotalAnnualValue > 0 {
			e.CumulativePct = cumulative * 100 / result.TotalAnnualValue
		}

		switch {
		case e.CumulativePct <= classAThresholdPct:
			e.Class = ClassA
		case e.CumulativePct <= classBThresholdPct:
			e.Class = ClassB
		default:
			e.Class = ClassC
		}
		result.Classes[e.ProductID] = e.Class
	}

	return result
}

// ByClass groups entries by tier, preserving ranking order.
func (r ABCResult) ByClass() map[ABCClass][]ABCEntry {
	out := map[ABCClass][]ABCEntry{ClassA: nil, ClassB: nil, ClassC: nil}
	for _, e := range r.Entries {
		out[e.Class] = append(out[e.Class], e)
	}
	return out
}
