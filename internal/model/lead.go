package model

import "time"

// Publication is a single paper attributed to a lead.
type Publication struct {
	Title    string `json:"title"`
	Year     string `json:"year"`
	PubmedID string `json:"pubmed_id"`
}

// ScoreBreakdown holds the five bounded sub-scores and the normalized total.
// It is a pure function of a Lead's current fields and can be recomputed at
// any time; it never carries identity.
type ScoreBreakdown struct {
	RoleFit          float64 `json:"role_fit_score"`
	CompanyIntent    float64 `json:"company_intent_score"`
	Technographic    float64 `json:"technographic_score"`
	Location         float64 `json:"location_score"`
	ScientificIntent float64 `json:"scientific_intent_score"`
	Total            float64 `json:"total_score"`
}

// Lead is a candidate contact derived from a publication author.
type Lead struct {
	ID string `json:"id,omitempty"`

	// Personal
	Name        string `json:"name"`
	Title       string `json:"title"`
	Email       string `json:"email,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Phone       string `json:"phone,omitempty"`

	// Company
	Company       string `json:"company"`
	CompanySize   string `json:"company_size,omitempty"`
	FundingStage  string `json:"funding_stage,omitempty"`
	FundingAmount string `json:"funding_amount,omitempty"`
	FundingDate   string `json:"funding_date,omitempty"`

	// Location
	PersonLocation string `json:"person_location,omitempty"`
	CompanyHQ      string `json:"company_hq,omitempty"`

	// Scientific profile
	Publications            []Publication `json:"publications,omitempty"`
	RecentPublicationCount  int           `json:"recent_publication_count"`
	ConferenceParticipation string        `json:"conference_participation,omitempty"`

	// Technology signals
	TechKeywords []string `json:"tech_keywords,omitempty"`

	Scores ScoreBreakdown `json:"scores"`

	DataSource string    `json:"data_source,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ScoreCategory bands a total score into Hot/Warm/Cold.
func ScoreCategory(total float64) string {
	switch {
	case total >= 80:
		return "Hot Lead"
	case total >= 50:
		return "Warm Lead"
	default:
		return "Cold Lead"
	}
}
