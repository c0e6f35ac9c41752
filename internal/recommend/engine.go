// Package recommend ranks cross-sell services and products for a booked
// appointment from the configured rules.
package recommend

import (
	"fmt"
	"sort"

	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/rules"
)

// Booking is the part of an appointment the engine reads.
type Booking struct {
	Services []string
	Products []string
}

// Dismissed holds item names already rejected for the appointment.
type Dismissed struct {
	Services []string
	Products []string
}

// Availability answers whether a catalog item may be recommended.
// *catalog.Snapshot satisfies it.
type Availability interface {
	IsServiceActive(name string) bool
	IsProductActive(name string) bool
}

// Recommendation is one ranked candidate.
type Recommendation struct {
	Name      string           `json:"name"`
	Reason    string           `json:"reason"`
	Type      catalog.ItemKind `json:"type"`
	RuleCount int              `json:"ruleCount"`
}

// Result carries both ranked lists.
type Result struct {
	ServiceRecommendations []Recommendation `json:"serviceRecommendations"`
	ProductRecommendations []Recommendation `json:"productRecommendations"`
}

type hit struct {
	reason  string
	trigger string
}

type accumulator struct {
	kind  catalog.ItemKind
	order []string
	hits  map[string][]hit
}

func newAccumulator(kind catalog.ItemKind) *accumulator {
	return &accumulator{kind: kind, hits: make(map[string][]hit)}
}

func (a *accumulator) add(name string, h hit) {
	if _, ok := a.hits[name]; !ok {
		a.order = append(a.order, name)
	}
	a.hits[name] = append(a.hits[name], h)
}

func (a *accumulator) ranked() []Recommendation {
	out := make([]Recommendation, 0, len(a.order))
	for _, name := range a.order {
		hits := a.hits[name]
		out = append(out, Recommendation{
			Name:      name,
			Reason:    a.reason(hits),
			Type:      a.kind,
			RuleCount: len(hits),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RuleCount > out[j].RuleCount
	})
	return out
}

func (a *accumulator) reason(hits []hit) string {
	if len(hits) > 1 {
		return fmt.Sprintf("Suggested by %d rules", len(hits))
	}
	h := hits[0]
	if h.reason != "" {
		return h.reason
	}
	if a.kind == catalog.KindService {
		return "Pairs well with " + h.trigger
	}
	return "Recommended after " + h.trigger
}

// Recommend walks booked services in booking order and, for each, the active
// rules triggered by it. A suggested item is skipped when it is already
// booked, dismissed or inactive in the catalog. Each list is stably sorted by
// the number of rules that suggested the item. Inputs are not modified.
func Recommend(b Booking, serviceRules, productRules []rules.Rule, dismissed Dismissed, avail Availability) Result {
	res := Result{
		ServiceRecommendations: []Recommendation{},
		ProductRecommendations: []Recommendation{},
	}
	if len(b.Services) == 0 {
		return res
	}

	services := newAccumulator(catalog.KindService)
	walk(b.Services, serviceRules, services, excluded(b.Services, dismissed.Services), avail.IsServiceActive)

	products := newAccumulator(catalog.KindProduct)
	walk(b.Services, productRules, products, excluded(b.Products, dismissed.Products), avail.IsProductActive)

	res.ServiceRecommendations = services.ranked()
	res.ProductRecommendations = products.ranked()
	return res
}

func walk(booked []string, rs []rules.Rule, acc *accumulator, skip map[string]struct{}, active func(string) bool) {
	byTrigger := make(map[string][]rules.Rule)
	for _, r := range rs {
		if !r.Active {
			continue
		}
		byTrigger[r.Trigger] = append(byTrigger[r.Trigger], r)
	}

	for _, trigger := range booked {
		for _, r := range byTrigger[trigger] {
			for _, name := range r.Suggestions {
				if _, ok := skip[name]; ok {
					continue
				}
				if !active(name) {
					continue
				}
				acc.add(name, hit{reason: r.Reason, trigger: trigger})
			}
		}
	}
}

func excluded(lists ...[]string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, l := range lists {
		for _, name := range l {
			out[name] = struct{}{}
		}
	}
	return out
}
