package outreach

import (
	"fmt"
	"strings"
	"time"
)

const (
	winBackValidity  = 14 * 24 * time.Hour
	seasonalValidity = 30 * 24 * time.Hour

	loyaltyMinVisits = 5
	seasonalSample   = 5

	upgradeTag = "Upgrade"
	loyaltyTag = "Treue"
)

type winBackOffer struct {
	Discount string
	Service  string
	Code     string
}

var winBackOffers = []winBackOffer{
	{Discount: "15%", Service: "Ihren nächsten Service", Code: "COMEBACK15"},
	{Discount: "20%", Service: "eine Haarbehandlung", Code: "WELCOME20"},
	{Discount: "10€", Service: "Ihren nächsten Besuch", Code: "MISS10"},
}

func winBackReason(o winBackOffer, days int) string {
	return fmt.Sprintf("%s Rabatt - Letzter Besuch vor %d Tagen", o.Discount, days)
}

type productOffer struct {
	Interest string
	Products []string
	Discount string
}

func (o productOffer) code() string {
	return "CARE" + strings.TrimSuffix(o.Discount, "%")
}

func (o productOffer) reason() string {
	return fmt.Sprintf("%s Produkte - %s Rabatt", o.Interest, o.Discount)
}

var productOffers = []productOffer{
	{Interest: "Hair Styling", Products: []string{"Styling Pomade", "Sea Salt Spray", "Hair Wax"}, Discount: "10%"},
	{Interest: "Hair Color", Products: []string{"Color Protection Shampoo", "Color Mask", "Olaplex Treatment"}, Discount: "15%"},
	{Interest: "Beard Care", Products: []string{"Beard Oil", "Beard Balm", "Beard Brush Set"}, Discount: "20%"},
	{Interest: "Skincare", Products: []string{"Face Moisturizer", "Anti-Aging Serum", "SPF Sunscreen"}, Discount: "15%"},
	{Interest: "Scalp Care", Products: []string{"Scalp Treatment Oil", "Anti-Dandruff Shampoo", "Scalp Scrub"}, Discount: "10%"},
}

func productOfferFor(interest string) (productOffer, bool) {
	for _, o := range productOffers {
		if o.Interest == interest {
			return o, true
		}
	}
	return productOffer{}, false
}

type campaign struct {
	Months []time.Month
	Name   string
	Offer  string
	Reason string
}

// campaigns is ordered winter, spring, summer, autumn.
var campaigns = []campaign{
	{Months: []time.Month{time.December, time.January, time.February}, Name: "Winter Wellness", Offer: "Gratis Deep Conditioning bei jedem Haircut", Reason: "Winter Pflege Special"},
	{Months: []time.Month{time.March, time.April, time.May}, Name: "Frühlings-Frische", Offer: "20% auf alle Color Services", Reason: "Frühlings-Aktion"},
	{Months: []time.Month{time.June, time.July, time.August}, Name: "Summer Glow", Offer: "Gratis Scalp Treatment bei jedem Service über 50€", Reason: "Sommer Special"},
	{Months: []time.Month{time.September, time.October, time.November}, Name: "Herbst Verwöhn-Paket", Offer: "25% auf Facial Treatments", Reason: "Herbst Wellness"},
}

func campaignFor(m time.Month) campaign {
	for _, c := range campaigns {
		for _, cm := range c.Months {
			if cm == m {
				return c
			}
		}
	}
	return campaigns[0]
}

type upgradeOffer struct {
	From    string
	To      string
	Savings string
	Reason  string
}

var upgradeOffers = []upgradeOffer{
	{From: "Haircut", To: "Haircut + Deep Conditioning", Savings: "15€", Reason: "Upgrade: Haircut → Premium"},
	{From: "Beard Trim", To: "Beard Trim + Hot Towel Shave", Savings: "10€", Reason: "Upgrade: Beard → Luxus"},
	{From: "Manicure", To: "Manicure + Pedicure Kombi", Savings: "20€", Reason: "Upgrade: Nail Kombi-Angebot"},
	{From: "Facial Treatment", To: "Facial + Scalp Treatment", Savings: "25€", Reason: "Upgrade: Wellness Paket"},
}

func upgradeOfferFor(service string) (upgradeOffer, bool) {
	for _, o := range upgradeOffers {
		if o.From == service {
			return o, true
		}
	}
	return upgradeOffer{}, false
}

func loyaltyReason(visits int) string {
	return fmt.Sprintf("Treue-Bonus - %d Besuche", visits)
}

// germanDate renders dates the way the salon's customers expect, e.g. 2.1.2026.
func germanDate(t time.Time) string {
	return t.Format("2.1.2006")
}
