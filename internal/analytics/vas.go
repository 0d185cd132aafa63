package analytics

import (
	"sort"
	"strings"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

const unknownVasType = "Unknown"

type vasGroup struct {
	qty    int
	skus   map[string]struct{}
	brands map[string]struct{}
}

// SummarizeVas groups entries by vas type, ordered by total quantity
// descending (ties keep first-seen order), and computes the productivity
// averages over distinct operators and distinct dates.
func SummarizeVas(entries []domain.VasEntry) domain.VasSummary {
	groups := make(map[string]*vasGroup)
	order := make([]string, 0)
	operators := make(map[string]struct{})
	days := make(map[string]struct{})
	total := 0

	for _, v := range entries {
		vasType := v.VasType
		if vasType == "" {
			vasType = unknownVasType
		}
		g, ok := groups[vasType]
		if !ok {
			g = &vasGroup{skus: map[string]struct{}{}, brands: map[string]struct{}{}}
			groups[vasType] = g
			order = append(order, vasType)
		}

		qty := v.Qty.Int()
		g.qty += qty
		total += qty
		if sku := strings.ToLower(strings.TrimSpace(v.SKU)); sku != "" {
			g.skus[sku] = struct{}{}
		}
		if brand := strings.ToLower(strings.TrimSpace(v.Brand)); brand != "" {
			g.brands[brand] = struct{}{}
		}
		if op := strings.ToLower(strings.TrimSpace(v.Operator)); op != "" {
			operators[op] = struct{}{}
		}
		if d := strings.TrimSpace(v.Date); d != "" {
			days[d] = struct{}{}
		}
	}

	types := make([]domain.VasTypeSummary, 0, len(order))
	for _, name := range order {
		g := groups[name]
		types = append(types, domain.VasTypeSummary{
			VasType:    name,
			TotalQty:   g.qty,
			SKUCount:   len(g.skus),
			BrandCount: len(g.brands),
		})
	}
	sort.SliceStable(types, func(i, j int) bool {
		return types[i].TotalQty > types[j].TotalQty
	})

	out := domain.VasSummary{
		Types:     types,
		TotalQty:  total,
		Operators: len(operators),
		Days:      len(days),
	}
	if total > 0 {
		numOps := max(len(operators), 1)
		numDays := max(len(days), 1)
		perOpDay := roundHalfUp(float64(total) / float64(numOps) / float64(numDays))
		perDay := roundHalfUp(float64(total) / float64(numDays))
		out.AvgQtyPerOperatorDay = &perOpDay
		out.AvgQtyPerDay = &perDay
	}
	return out
}
