package outreach

import (
	"fmt"
	"sort"

	"github.com/osteele/liquid"
)

// Template is an entry in the built-in email template catalog.
type Template struct {
	Key             string `json:"-"`
	Name            string `json:"name"`
	Type            Type   `json:"type"`
	SubjectTemplate string `json:"subjectTemplate"`
	BodyTemplate    string `json:"bodyTemplate"`
	Active          bool   `json:"active"`
}

const (
	tplWinBack  = "win_back"
	tplProduct  = "product_recommendation"
	tplSeasonal = "seasonal_promotion"
	tplUpgrade  = "service_upgrade"
	tplLoyalty  = "loyalty_reward"
	tplReminder = "appointment_reminder"
)

const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

var builtinTemplates = []Template{
	{
		Key:             tplWinBack,
		Name:            "Win-Back Angebot",
		Type:            TypeWinBack,
		SubjectTemplate: "{{ client_name }}, wir vermissen Sie! {{ offer_discount }} Rabatt wartet auf Sie",
		BodyTemplate: `Hallo {{ client_name }},

{% if has_visit %}es ist schon {{ days_since_visit }} Tage her, seit wir Sie bei uns begrüßen durften.{% else %}wir haben Sie schon lange nicht mehr bei uns begrüßen dürfen.{% endif %} Wir vermissen Sie!

🎁 EXKLUSIVES ANGEBOT NUR FÜR SIE:
` + separator + `
{{ offer_discount }} Rabatt auf {{ offer_service }}
Gutscheincode: {{ offer_code }}
Gültig bis: {{ valid_until }}
` + separator + `

Buchen Sie jetzt Ihren Termin und lassen Sie sich von unserem Team verwöhnen!

Wir freuen uns auf Sie!

Herzliche Grüße,
Ihr {{ salon_name }} Team`,
		Active: true,
	},
	{
		Key:             tplProduct,
		Name:            "Produktempfehlung",
		Type:            TypeProductRecommendation,
		SubjectTemplate: "{{ client_name }}, neue Produkte für Ihre {{ interest }} Routine!",
		BodyTemplate: `Hallo {{ client_name }},

basierend auf Ihren Vorlieben haben wir die perfekten Produkte für Sie ausgewählt!

🛍️ EMPFOHLEN FÜR SIE ({{ interest }}):
` + separator + `
{% for p in products %}  • {{ p }}
{% endfor %}
💰 SPECIAL: {{ offer_discount }} RABATT
auf alle {{ interest }} Produkte mit dem Code: {{ discount_code }}

Diese Produkte ergänzen perfekt Ihre regelmäßigen Behandlungen und helfen Ihnen, die Ergebnisse zuhause zu erhalten.

Bestellen Sie online oder holen Sie die Produkte bei Ihrem nächsten Besuch ab!

Herzliche Grüße,
Ihr {{ salon_name }} Team`,
		Active: true,
	},
	{
		Key:             tplSeasonal,
		Name:            "Saison-Aktion",
		Type:            TypePromotion,
		SubjectTemplate: "🌟 {{ campaign_name }} Special für Sie, {{ client_name }}!",
		BodyTemplate: `Hallo {{ client_name }},

wir haben ein exklusives Angebot für Sie!

🌟 {{ campaign_name | upcase }} SPECIAL 🌟
` + separator + `
{{ campaign_offer }}
` + separator + `

Dieses Angebot gilt nur für kurze Zeit und ist exklusiv für unsere treuen Kunden wie Sie!

📅 Gültig bis: {{ valid_until }}

Buchen Sie jetzt Ihren Termin und profitieren Sie von diesem besonderen Angebot!

Wir freuen uns auf Sie!

Herzliche Grüße,
Ihr {{ salon_name }} Team`,
		Active: true,
	},
	{
		Key:             tplUpgrade,
		Name:            "Service-Upgrade",
		Type:            TypePromotion,
		SubjectTemplate: "{{ client_name }}, sparen Sie {{ savings }} beim Upgrade!",
		BodyTemplate: `Hallo {{ client_name }},

wir haben gesehen, dass Sie regelmäßig unseren {{ from_service }} Service nutzen. Danke für Ihre Treue!

💎 EXKLUSIVES UPGRADE-ANGEBOT:
` + separator + `
Statt: {{ from_service }}
Upgrade zu: {{ to_service }}

💰 SIE SPAREN: {{ savings }}
` + separator + `

Probieren Sie das erweiterte Erlebnis und genießen Sie die zusätzliche Verwöhnung!

Buchen Sie jetzt und nennen Sie einfach das Stichwort "UPGRADE" bei der Terminbuchung.

Herzliche Grüße,
Ihr {{ salon_name }} Team`,
		Active: true,
	},
	{
		Key:             tplLoyalty,
		Name:            "Treue-Bonus",
		Type:            TypePromotion,
		SubjectTemplate: "🏆 Danke für Ihre Treue, {{ client_name }}! Ein Geschenk wartet",
		BodyTemplate: `Hallo {{ client_name }},

WOW! Sie haben uns bereits {{ visit_count }} Mal besucht! 🎉

Als Dankeschön für Ihre Treue haben wir ein besonderes Geschenk für Sie:

🎁 IHR TREUE-BONUS:
` + separator + `
✓ GRATIS Produkt Ihrer Wahl (bis 25€ Wert)
  bei Ihrem nächsten Besuch

✓ PLUS: 10% Rabatt auf alle Services
  für die nächsten 3 Monate
` + separator + `

Zeigen Sie einfach diese E-Mail bei Ihrem nächsten Termin vor.

Vielen Dank, dass Sie Teil unserer {{ salon_name }} Familie sind!

Herzliche Grüße,
Ihr {{ salon_name }} Team`,
		Active: true,
	},
	{
		Key:             tplReminder,
		Name:            "Terminerinnerung",
		Type:            TypeAppointmentReminder,
		SubjectTemplate: "Erinnerung: Ihr Termin am {{ appointment_date }}",
		BodyTemplate: `Hallo {{ client_name }},

wir freuen uns auf Ihren Besuch am {{ appointment_date }} um {{ appointment_time }} Uhr.

Falls Sie den Termin nicht wahrnehmen können, geben Sie uns bitte rechtzeitig Bescheid.

Herzliche Grüße,
Ihr {{ salon_name }} Team`,
		Active: false,
	},
}

type compiled struct {
	subject *liquid.Template
	body    *liquid.Template
}

// Renderer holds the parsed template catalog.
type Renderer struct {
	salonName string
	catalog   []Template
	parsed    map[string]compiled
}

// NewRenderer parses every built-in template once.
func NewRenderer(salonName string) (*Renderer, error) {
	engine := liquid.NewEngine()
	r := &Renderer{
		salonName: salonName,
		catalog:   append([]Template(nil), builtinTemplates...),
		parsed:    make(map[string]compiled, len(builtinTemplates)),
	}
	for _, t := range r.catalog {
		subject, err := engine.ParseString(t.SubjectTemplate)
		if err != nil {
			return nil, fmt.Errorf("outreach: parse %s subject: %w", t.Key, err)
		}
		body, err := engine.ParseString(t.BodyTemplate)
		if err != nil {
			return nil, fmt.Errorf("outreach: parse %s body: %w", t.Key, err)
		}
		r.parsed[t.Key] = compiled{subject: subject, body: body}
	}
	sort.SliceStable(r.catalog, func(i, j int) bool { return r.catalog[i].Name < r.catalog[j].Name })
	return r, nil
}

// Templates returns the catalog ordered by name.
func (r *Renderer) Templates() []Template {
	return append([]Template(nil), r.catalog...)
}

// Render fills the named template. salon_name is always bound.
func (r *Renderer) Render(key string, vars map[string]any) (subject, body string, err error) {
	c, ok := r.parsed[key]
	if !ok {
		return "", "", fmt.Errorf("outreach: unknown template %q", key)
	}
	bindings := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		bindings[k] = v
	}
	bindings["salon_name"] = r.salonName

	subject, serr := c.subject.RenderString(bindings)
	if serr != nil {
		return "", "", fmt.Errorf("outreach: render %s subject: %w", key, serr)
	}
	body, berr := c.body.RenderString(bindings)
	if berr != nil {
		return "", "", fmt.Errorf("outreach: render %s body: %w", key, berr)
	}
	return subject, body, nil
}
