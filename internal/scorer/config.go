package scorer

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// KeywordScore awards points when any of its keywords appears in the
// matched text.
type KeywordScore struct {
	Keywords []string `yaml:"keywords"`
	Points   float64  `yaml:"points"`
}

// HubScore awards points when any of its match strings appears in a
// location. Hubs are evaluated in order and the first match wins.
type HubScore struct {
	Match  []string `yaml:"match"`
	Points float64  `yaml:"points"`
}

// RoleFitWeights scores job titles. Topics are combined max-of; the
// seniority table is first-match.
type RoleFitWeights struct {
	MaxPoints float64        `yaml:"max_points"`
	Topics    []KeywordScore `yaml:"topics"`
	Seniority []KeywordScore `yaml:"seniority"`
}

// CompanyIntentWeights scores funding signals.
type CompanyIntentWeights struct {
	MaxPoints        float64 `yaml:"max_points"`
	EarlyStageRecent float64 `yaml:"early_stage_recent"`
	LateStage        float64 `yaml:"late_stage"`
	NIHGrant         float64 `yaml:"nih_grant"`
	Bootstrapped     float64 `yaml:"bootstrapped"`
}

// TechnographicWeights scores technology signals from keywords and the
// company name.
type TechnographicWeights struct {
	MaxPoints         float64 `yaml:"max_points"`
	ModelsMention     float64 `yaml:"models_mention"`
	NAMsMention       float64 `yaml:"nams_mention"`
	LiverFocus        float64 `yaml:"liver_focus"`
	CompanyFocusBonus float64 `yaml:"company_focus_bonus"`
}

// LocationWeights scores geographic hubs. Other is the fallback for
// locations that match no hub.
type LocationWeights struct {
	MaxPoints float64    `yaml:"max_points"`
	Hubs      []HubScore `yaml:"hubs"`
	Other     float64    `yaml:"other"`
}

// ScientificIntentWeights scores publication and conference activity.
type ScientificIntentWeights struct {
	MaxPoints           float64  `yaml:"max_points"`
	PublicationRecent   float64  `yaml:"publication_recent"`
	PublicationOlder    float64  `yaml:"publication_older"`
	CulturePaper        float64  `yaml:"culture_paper"`
	CulturePaperTerms   []string `yaml:"culture_paper_terms"`
	ConferencePresenter float64  `yaml:"conference_presenter"`
}

// Weights holds every tunable scoring parameter.
type Weights struct {
	RoleFit          RoleFitWeights          `yaml:"role_fit"`
	CompanyIntent    CompanyIntentWeights    `yaml:"company_intent"`
	Technographic    TechnographicWeights    `yaml:"technographic"`
	Location         LocationWeights         `yaml:"location"`
	ScientificIntent ScientificIntentWeights `yaml:"scientific_intent"`
}

// TotalPossible returns the maximum raw score across all components,
// used to normalize totals to a 0-100 scale.
func (w Weights) TotalPossible() float64 {
	return w.RoleFit.MaxPoints +
		w.CompanyIntent.MaxPoints +
		w.Technographic.MaxPoints +
		w.Location.MaxPoints +
		w.ScientificIntent.MaxPoints
}

// DefaultWeights returns the built-in scoring model, tuned for
// preclinical liver-model vendors selling into biotech and pharma.
func DefaultWeights() Weights {
	return Weights{
		RoleFit: RoleFitWeights{
			MaxPoints: 30,
			Topics: []KeywordScore{
				{Keywords: []string{"toxicology", "toxicologist"}, Points: 30},
				{Keywords: []string{"safety"}, Points: 30},
				{Keywords: []string{"hepatic"}, Points: 25},
				{Keywords: []string{"liver"}, Points: 25},
				{Keywords: []string{"3d"}, Points: 30},
				{Keywords: []string{"in vitro", "in-vitro"}, Points: 30},
			},
			Seniority: []KeywordScore{
				{Keywords: []string{"director", "head", "vp", "vice president", "chief"}, Points: 20},
				{Keywords: []string{"principal"}, Points: 16},
				{Keywords: []string{"scientist"}, Points: 10},
			},
		},
		CompanyIntent: CompanyIntentWeights{
			MaxPoints:        20,
			EarlyStageRecent: 20,
			LateStage:        15,
			NIHGrant:         15,
			Bootstrapped:     5,
		},
		Technographic: TechnographicWeights{
			MaxPoints:         25,
			ModelsMention:     15,
			NAMsMention:       10,
			LiverFocus:        15,
			CompanyFocusBonus: 5,
		},
		Location: LocationWeights{
			MaxPoints: 10,
			Hubs: []HubScore{
				{Match: []string{"boston"}, Points: 10},
				{Match: []string{"cambridge, ma"}, Points: 10},
				{Match: []string{"san francisco", "sf", "palo alto", "bay area"}, Points: 10},
				{Match: []string{"basel"}, Points: 10},
				{Match: []string{"cambridge, uk"}, Points: 10},
				{Match: []string{"oxford"}, Points: 10},
				{Match: []string{"san diego"}, Points: 8},
				{Match: []string{"ma", "massachusetts"}, Points: 10},
			},
			Other: 3,
		},
		ScientificIntent: ScientificIntentWeights{
			MaxPoints:           40,
			PublicationRecent:   40,
			PublicationOlder:    25,
			CulturePaper:        30,
			CulturePaperTerms:   []string{"3d", "spheroid", "organoid", "organ-on-chip"},
			ConferencePresenter: 35,
		},
	}
}

// LoadWeights reads a YAML weights file layered over the defaults, so a
// file only needs to name the values it changes.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return w, eris.Wrapf(err, "scorer: read weights file %s", path)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, eris.Wrapf(err, "scorer: parse weights file %s", path)
	}
	return w, nil
}
