// Package analytics rolls completed visits up into revenue and cross-sell
// figures for the dashboard.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/tracking"
)

const (
	completedStatus = "Completed"
	maxCombos       = 8
	maxPerformance  = 10
	trendDays       = 14
)

// Visit is a live appointment or a history entry, reduced to what the
// report needs.
type Visit struct {
	Date     string
	Status   string
	Services []string
	Products []string
}

func (v Visit) crossSell() bool {
	return len(v.Products) > 0 || len(v.Services) > 1
}

// PriceLookup prices line items. Unknown names get a fallback.
type PriceLookup interface {
	ServicePrice(name string) float64
	ProductPrice(name string) float64
}

// Prices adapts a catalog snapshot with fallbacks to PriceLookup.
type Prices struct {
	Catalog         *catalog.Snapshot
	ServiceFallback float64
	ProductFallback float64
}

func (p Prices) ServicePrice(name string) float64 {
	if p.Catalog == nil {
		return p.ServiceFallback
	}
	return p.Catalog.ServicePrice(name, p.ServiceFallback)
}

func (p Prices) ProductPrice(name string) float64 {
	if p.Catalog == nil {
		return p.ProductFallback
	}
	return p.Catalog.ProductPrice(name, p.ProductFallback)
}

type KPIs struct {
	TotalRevenue          float64 `json:"totalRevenue"`
	ServiceRevenue        float64 `json:"serviceRevenue"`
	ProductRevenue        float64 `json:"productRevenue"`
	AverageTicket         int     `json:"averageTicket"`
	CrossSellRate         int     `json:"crossSellRate"`
	AcceptanceRate        int     `json:"acceptanceRate"`
	CompletedAppointments int     `json:"completedAppointments"`
}

type RevenueSplit struct {
	ServiceRevenue float64 `json:"serviceRevenue"`
	ProductRevenue float64 `json:"productRevenue"`
	ServicePercent int     `json:"servicePercent"`
	ProductPercent int     `json:"productPercent"`
}

// Combo is a retail (service → product) or add-on (service + service) pairing.
type Combo struct {
	Key     string           `json:"key"`
	Service string           `json:"service"`
	Product string           `json:"product,omitempty"`
	Addon   string           `json:"addon,omitempty"`
	Type    catalog.ItemKind `json:"type"`
	Count   int              `json:"count"`
	Revenue float64          `json:"revenue"`
}

type TrendDay struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}

type ItemPerformance struct {
	Name           string           `json:"name"`
	Type           catalog.ItemKind `json:"type"`
	Shown          int              `json:"shown"`
	Accepted       int              `json:"accepted"`
	Dismissed      int              `json:"dismissed"`
	AcceptanceRate int              `json:"acceptanceRate"`
}

// Report is the GET /api/analytics payload.
type Report struct {
	KPIs                      KPIs              `json:"kpis"`
	RevenueSplit              RevenueSplit      `json:"revenueSplit"`
	CrossSellCombos           []Combo           `json:"crossSellCombos"`
	CrossSellTrend            []TrendDay        `json:"crossSellTrend"`
	RecommendationPerformance []ItemPerformance `json:"recommendationPerformance"`
}

// Compute builds the report. Only Completed visits count towards revenue,
// combos and the trend.
func Compute(visits []Visit, counters map[string]tracking.Counter, prices PriceLookup, today time.Time) Report {
	completed := make([]Visit, 0, len(visits))
	for _, v := range visits {
		if v.Status == completedStatus {
			completed = append(completed, v)
		}
	}

	var serviceRevenue, productRevenue float64
	crossSells := 0
	for _, v := range completed {
		for _, s := range v.Services {
			serviceRevenue += prices.ServicePrice(s)
		}
		for _, p := range v.Products {
			productRevenue += prices.ProductPrice(p)
		}
		if v.crossSell() {
			crossSells++
		}
	}
	total := serviceRevenue + productRevenue

	var shown, accepted int
	for _, c := range counters {
		shown += c.Shown
		accepted += c.Accepted
	}

	return Report{
		KPIs: KPIs{
			TotalRevenue:          total,
			ServiceRevenue:        serviceRevenue,
			ProductRevenue:        productRevenue,
			AverageTicket:         ratioRound(total, float64(len(completed)), 1),
			CrossSellRate:         ratioRound(float64(crossSells), float64(len(completed)), 100),
			AcceptanceRate:        ratioRound(float64(accepted), float64(shown), 100),
			CompletedAppointments: len(completed),
		},
		RevenueSplit: RevenueSplit{
			ServiceRevenue: serviceRevenue,
			ProductRevenue: productRevenue,
			ServicePercent: ratioRound(serviceRevenue, total, 100),
			ProductPercent: ratioRound(productRevenue, total, 100),
		},
		CrossSellCombos:           combos(completed, prices),
		CrossSellTrend:            trend(completed, today),
		RecommendationPerformance: performance(counters),
	}
}

func ratioRound(num, den, scale float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(num / den * scale))
}

func combos(completed []Visit, prices PriceLookup) []Combo {
	var order []string
	byKey := make(map[string]*Combo)
	bump := func(c Combo, revenue float64) {
		existing, ok := byKey[c.Key]
		if !ok {
			existing = &c
			byKey[c.Key] = existing
			order = append(order, c.Key)
		}
		existing.Count++
		existing.Revenue += revenue
	}

	for _, v := range completed {
		for _, s := range v.Services {
			for _, p := range v.Products {
				bump(Combo{Key: s + " → " + p, Service: s, Product: p, Type: catalog.KindProduct}, prices.ProductPrice(p))
			}
		}
		for i := 0; i < len(v.Services); i++ {
			for j := i + 1; j < len(v.Services); j++ {
				s, addon := v.Services[i], v.Services[j]
				bump(Combo{Key: s + " + " + addon, Service: s, Addon: addon, Type: catalog.KindService}, prices.ServicePrice(addon))
			}
		}
	}

	out := make([]Combo, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > maxCombos {
		out = out[:maxCombos]
	}
	return out
}

func trend(completed []Visit, today time.Time) []TrendDay {
	byDate := make(map[string]*TrendDay, trendDays)
	out := make([]TrendDay, trendDays)
	for i := 0; i < trendDays; i++ {
		day := today.AddDate(0, 0, i-(trendDays-1))
		out[i] = TrendDay{Date: day.Format(time.DateOnly), Label: day.Format("Mon 2")}
		byDate[out[i].Date] = &out[i]
	}
	for _, v := range completed {
		d, ok := byDate[v.Date]
		if !ok {
			continue
		}
		d.Total++
		if v.crossSell() {
			d.Count++
		}
	}
	return out
}

func performance(counters map[string]tracking.Counter) []ItemPerformance {
	out := make([]ItemPerformance, 0, len(counters))
	for name, c := range counters {
		if c.Shown == 0 {
			continue
		}
		out = append(out, ItemPerformance{
			Name:           name,
			Type:           c.Type,
			Shown:          c.Shown,
			Accepted:       c.Accepted,
			Dismissed:      c.Dismissed,
			AcceptanceRate: c.AcceptanceRate(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shown != out[j].Shown {
			return out[i].Shown > out[j].Shown
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxPerformance {
		out = out[:maxPerformance]
	}
	return out
}
