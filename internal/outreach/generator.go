package outreach

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/wolfman30/salonassist/internal/clients"
)

// Picker picks one index out of n.
type Picker interface {
	Pick(n int) int
}

// Sampler picks k distinct indices out of n.
type Sampler interface {
	Sample(n, k int) []int
}

// RandomChooser is the production Picker and Sampler.
type RandomChooser struct{}

// Pick returns a uniform index in [0, n).
func (RandomChooser) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return rand.IntN(n)
}

// Sample returns k distinct indices in [0, n), capped at n.
func (RandomChooser) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	return rand.Perm(n)[:k]
}

// Input is the snapshot a generator run works from.
type Input struct {
	Clients  []clients.Client
	Pending  []Suggestion
	History  map[string]clients.VisitSummary
	Settings Settings
	Now      time.Time
}

// Generator synthesizes outreach drafts from the client roster.
type Generator struct {
	renderer   *Renderer
	picker     Picker
	sampler    Sampler
	sampleSize int
}

// NewGenerator wires a generator. Nil choosers fall back to RandomChooser.
func NewGenerator(renderer *Renderer, picker Picker, sampler Sampler) *Generator {
	if picker == nil {
		picker = RandomChooser{}
	}
	if sampler == nil {
		sampler = RandomChooser{}
	}
	return &Generator{renderer: renderer, picker: picker, sampler: sampler, sampleSize: seasonalSample}
}

// WithSampleSize caps how many clients one seasonal campaign reaches.
// Non-positive values keep the default of five.
func (g *Generator) WithSampleSize(n int) *Generator {
	if n > 0 {
		g.sampleSize = n
	}
	return g
}

type pass func(in Input, pending *PendingIndex) ([]Draft, error)

// Generate runs the win-back, product, seasonal, upgrade and loyalty passes
// in that order. Every pass is gated on the pending snapshot in the input,
// not on drafts produced earlier in the same run.
func (g *Generator) Generate(in Input) ([]Draft, error) {
	pending := NewPendingIndex(in.Pending)
	var out []Draft
	for _, p := range []pass{g.winBack, g.products, g.seasonal, g.upgrades, g.loyalty} {
		drafts, err := p(in, pending)
		if err != nil {
			return nil, err
		}
		out = append(out, drafts...)
	}
	return out, nil
}

// daysSince floors the elapsed time to whole days.
func daysSince(now, then time.Time) int {
	return int(math.Floor(now.Sub(then).Hours() / 24))
}

func (g *Generator) winBack(in Input, pending *PendingIndex) ([]Draft, error) {
	var out []Draft
	for _, c := range in.Clients {
		if pending.Has(c.ID, TypeWinBack) {
			continue
		}
		days, hasVisit := 0, c.LastVisit != nil
		if hasVisit {
			days = daysSince(in.Now, *c.LastVisit)
			if days < in.Settings.WinBackThresholdDays {
				continue
			}
		}

		offer := winBackOffers[g.picker.Pick(len(winBackOffers))]
		subject, body, err := g.renderer.Render(tplWinBack, map[string]any{
			"client_name":      c.Name,
			"has_visit":        hasVisit,
			"days_since_visit": days,
			"offer_discount":   offer.Discount,
			"offer_service":    offer.Service,
			"offer_code":       offer.Code,
			"valid_until":      germanDate(in.Now.Add(winBackValidity)),
		})
		if err != nil {
			return nil, err
		}
		reason := winBackReason(offer, days)
		if !hasVisit {
			reason = offer.Discount + " Rabatt - Noch kein Besuch"
		}
		out = append(out, Draft{ClientID: c.ID, Type: TypeWinBack, Reason: reason, Subject: subject, Content: body})
	}
	return out, nil
}

func (g *Generator) products(in Input, pending *PendingIndex) ([]Draft, error) {
	var out []Draft
	for _, c := range in.Clients {
		if pending.Has(c.ID, TypeProductRecommendation) {
			continue
		}
		offer, ok := productOfferFor(c.PrimaryInterest)
		if !ok {
			continue
		}
		subject, body, err := g.renderer.Render(tplProduct, map[string]any{
			"client_name":    c.Name,
			"interest":       offer.Interest,
			"products":       offer.Products,
			"offer_discount": offer.Discount,
			"discount_code":  offer.code(),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, Draft{ClientID: c.ID, Type: TypeProductRecommendation, Reason: offer.reason(), Subject: subject, Content: body})
	}
	return out, nil
}

// seasonal samples one batch per campaign. While any promotion of the current
// campaign is still pending the batch is considered sent.
func (g *Generator) seasonal(in Input, pending *PendingIndex) ([]Draft, error) {
	camp := campaignFor(in.Now.Month())
	if pending.HasCampaign(camp.Reason) {
		return nil, nil
	}
	eligible := make([]clients.Client, 0, len(in.Clients))
	for _, c := range in.Clients {
		if !pending.Has(c.ID, TypePromotion) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}
	sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	k := min(g.sampleSize, len(eligible))
	var out []Draft
	for _, i := range g.sampler.Sample(len(eligible), k) {
		if i < 0 || i >= len(eligible) {
			continue
		}
		c := eligible[i]
		subject, body, err := g.renderer.Render(tplSeasonal, map[string]any{
			"client_name":    c.Name,
			"campaign_name":  camp.Name,
			"campaign_offer": camp.Offer,
			"valid_until":    germanDate(in.Now.Add(seasonalValidity)),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, Draft{ClientID: c.ID, Type: TypePromotion, Reason: camp.Reason, Subject: subject, Content: body})
	}
	return out, nil
}

func (g *Generator) upgrades(in Input, pending *PendingIndex) ([]Draft, error) {
	var out []Draft
	for _, c := range in.Clients {
		if pending.HasUpgrade(c.ID) {
			continue
		}
		top, ok := in.History[c.ID].MostFrequentService()
		if !ok {
			continue
		}
		offer, ok := upgradeOfferFor(top)
		if !ok {
			continue
		}
		subject, body, err := g.renderer.Render(tplUpgrade, map[string]any{
			"client_name":  c.Name,
			"from_service": offer.From,
			"to_service":   offer.To,
			"savings":      offer.Savings,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, Draft{ClientID: c.ID, Type: TypePromotion, Reason: offer.Reason, Subject: subject, Content: body})
	}
	return out, nil
}

func (g *Generator) loyalty(in Input, pending *PendingIndex) ([]Draft, error) {
	var out []Draft
	for _, c := range in.Clients {
		if pending.HasLoyalty(c.ID) {
			continue
		}
		visits := in.History[c.ID].Visits
		if visits < loyaltyMinVisits {
			continue
		}
		subject, body, err := g.renderer.Render(tplLoyalty, map[string]any{
			"client_name": c.Name,
			"visit_count": visits,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, Draft{ClientID: c.ID, Type: TypePromotion, Reason: loyaltyReason(visits), Subject: subject, Content: body})
	}
	return out, nil
}
