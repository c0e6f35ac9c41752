package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salonassist/internal/catalog"
	"github.com/wolfman30/salonassist/internal/rules"
)

type allActive struct {
	inactive map[string]bool
}

func (a allActive) IsServiceActive(name string) bool { return !a.inactive[name] }
func (a allActive) IsProductActive(name string) bool { return !a.inactive[name] }

func rule(trigger, reason string, suggestions ...string) rules.Rule {
	return rules.Rule{Trigger: trigger, Reason: reason, Suggestions: suggestions, Active: true}
}

func names(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func TestRecommend_SingleRuleUsesItsReason(t *testing.T) {
	res := Recommend(
		Booking{Services: []string{"Haircut"}},
		[]rules.Rule{rule("Haircut", "Complete the look", "Blow Dry", "Deep Conditioning")},
		nil,
		Dismissed{},
		allActive{},
	)

	require.Len(t, res.ServiceRecommendations, 2)
	assert.Equal(t, Recommendation{Name: "Blow Dry", Reason: "Complete the look", Type: catalog.KindService, RuleCount: 1}, res.ServiceRecommendations[0])
	assert.Equal(t, Recommendation{Name: "Deep Conditioning", Reason: "Complete the look", Type: catalog.KindService, RuleCount: 1}, res.ServiceRecommendations[1])
	assert.Empty(t, res.ProductRecommendations)
}

func TestRecommend_MergesReasonsAndRanksByRuleCount(t *testing.T) {
	res := Recommend(
		Booking{Services: []string{"Haircut", "Color"}},
		[]rules.Rule{
			rule("Haircut", "Complete the look", "Blow Dry", "Deep Conditioning"),
			rule("Color", "Protect your color", "Deep Conditioning"),
		},
		nil,
		Dismissed{},
		allActive{},
	)

	require.Len(t, res.ServiceRecommendations, 2)
	first := res.ServiceRecommendations[0]
	assert.Equal(t, "Deep Conditioning", first.Name)
	assert.Equal(t, 2, first.RuleCount)
	assert.Equal(t, "Suggested by 2 rules", first.Reason)
	assert.Equal(t, "Blow Dry", res.ServiceRecommendations[1].Name)
}

func TestRecommend_ExcludesBookedDismissedAndInactive(t *testing.T) {
	res := Recommend(
		Booking{Services: []string{"Haircut", "Blow Dry"}, Products: []string{"Shampoo"}},
		[]rules.Rule{rule("Haircut", "", "Blow Dry", "Scalp Massage", "Gloss", "Deep Conditioning")},
		[]rules.Rule{rule("Haircut", "", "Shampoo", "Hair Mask", "Serum", "Hair Oil")},
		Dismissed{Services: []string{"Scalp Massage"}, Products: []string{"Hair Mask"}},
		allActive{inactive: map[string]bool{"Gloss": true, "Serum": true}},
	)

	assert.Equal(t, []string{"Deep Conditioning"}, names(res.ServiceRecommendations))
	assert.Equal(t, []string{"Hair Oil"}, names(res.ProductRecommendations))
}

func TestRecommend_DefaultReasons(t *testing.T) {
	res := Recommend(
		Booking{Services: []string{"Haircut"}},
		[]rules.Rule{rule("Haircut", "", "Blow Dry")},
		[]rules.Rule{rule("Haircut", "", "Shampoo")},
		Dismissed{},
		allActive{},
	)

	assert.Equal(t, "Pairs well with Haircut", res.ServiceRecommendations[0].Reason)
	assert.Equal(t, "Recommended after Haircut", res.ProductRecommendations[0].Reason)
	assert.Equal(t, catalog.KindProduct, res.ProductRecommendations[0].Type)
}

func TestRecommend_NoBookedServices(t *testing.T) {
	res := Recommend(
		Booking{Products: []string{"Shampoo"}},
		[]rules.Rule{rule("Haircut", "", "Blow Dry")},
		[]rules.Rule{rule("Haircut", "", "Hair Mask")},
		Dismissed{},
		allActive{},
	)
	assert.NotNil(t, res.ServiceRecommendations)
	assert.NotNil(t, res.ProductRecommendations)
	assert.Empty(t, res.ServiceRecommendations)
	assert.Empty(t, res.ProductRecommendations)
}

func TestRecommend_TiesKeepFirstAccumulationOrder(t *testing.T) {
	res := Recommend(
		Booking{Services: []string{"Color", "Haircut"}},
		[]rules.Rule{
			rule("Haircut", "", "A", "B"),
			rule("Color", "", "C", "B"),
			rule("Haircut", "", "C"),
		},
		nil,
		Dismissed{},
		allActive{},
	)

	// Color is booked first so C then B accumulate before A.
	assert.Equal(t, []string{"C", "B", "A"}, names(res.ServiceRecommendations))
	assert.Equal(t, []int{2, 2, 1}, []int{
		res.ServiceRecommendations[0].RuleCount,
		res.ServiceRecommendations[1].RuleCount,
		res.ServiceRecommendations[2].RuleCount,
	})
}

func TestRecommend_SkipsInactiveRules(t *testing.T) {
	r := rule("Haircut", "", "Blow Dry")
	r.Active = false
	res := Recommend(Booking{Services: []string{"Haircut"}}, []rules.Rule{r}, nil, Dismissed{}, allActive{})
	assert.Empty(t, res.ServiceRecommendations)
}

func TestRecommend_IsDeterministicAndPure(t *testing.T) {
	booking := Booking{Services: []string{"Haircut", "Color"}, Products: []string{"Shampoo"}}
	serviceRules := []rules.Rule{
		rule("Haircut", "x", "Blow Dry", "Deep Conditioning"),
		rule("Color", "", "Deep Conditioning", "Gloss"),
	}
	productRules := []rules.Rule{rule("Color", "", "Color Mask", "Shampoo")}
	dismissed := Dismissed{Services: []string{"Gloss"}}

	first := Recommend(booking, serviceRules, productRules, dismissed, allActive{})
	second := Recommend(booking, serviceRules, productRules, dismissed, allActive{})
	assert.Equal(t, first, second)

	assert.Equal(t, []string{"Haircut", "Color"}, booking.Services)
	assert.Equal(t, []string{"Blow Dry", "Deep Conditioning"}, serviceRules[0].Suggestions)
	assert.Equal(t, []string{"Gloss"}, dismissed.Services)
}

func TestRecommend_RankOrder(t *testing.T) {
	res := Recommend(
		Booking{Services: []string{"A", "B", "C"}},
		[]rules.Rule{
			rule("A", "", "X", "Y", "Z"),
			rule("B", "", "Z", "Y"),
			rule("C", "", "Z"),
		},
		nil,
		Dismissed{},
		allActive{},
	)
	for i := 1; i < len(res.ServiceRecommendations); i++ {
		assert.GreaterOrEqual(t, res.ServiceRecommendations[i-1].RuleCount, res.ServiceRecommendations[i].RuleCount)
	}
	assert.Equal(t, []string{"Z", "Y", "X"}, names(res.ServiceRecommendations))
	assert.Equal(t, "Suggested by 3 rules", res.ServiceRecommendations[0].Reason)
}
