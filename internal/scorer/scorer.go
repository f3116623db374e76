// Package scorer ranks leads by their likelihood of buying preclinical
// liver-model services. Five weighted components sum to a raw score
// which is normalized to 0-100.
package scorer

import (
	"strconv"
	"strings"
	"time"

	"github.com/lumen-bio/leadscout/internal/model"
)

// Scorer computes propensity scores. Scoring is a pure function of the
// lead and the configured weights; a Scorer is safe for concurrent use.
type Scorer struct {
	w       Weights
	refYear int
}

// New creates a Scorer. referenceYear anchors publication and funding
// recency; pass 0 to use the current UTC year.
func New(w Weights, referenceYear int) *Scorer {
	if referenceYear == 0 {
		referenceYear = time.Now().UTC().Year()
	}
	return &Scorer{w: w, refYear: referenceYear}
}

// containsAny reports whether text contains any of the needles.
func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// maxMatch returns the highest points among table entries whose keywords
// appear in text, or 0 when nothing matches.
func maxMatch(text string, table []KeywordScore) float64 {
	best := 0.0
	for _, entry := range table {
		if containsAny(text, entry.Keywords) && entry.Points > best {
			best = entry.Points
		}
	}
	return best
}

// firstMatch returns the points of the first table entry whose keywords
// appear in text, or 0 when nothing matches.
func firstMatch(text string, table []KeywordScore) float64 {
	for _, entry := range table {
		if containsAny(text, entry.Keywords) {
			return entry.Points
		}
	}
	return 0
}

func capAt(score, max float64) float64 {
	if score > max {
		return max
	}
	return score
}

// Score computes all component scores and the normalized total for a lead.
func (s *Scorer) Score(lead model.Lead) model.ScoreBreakdown {
	b := model.ScoreBreakdown{
		RoleFit:          s.roleFit(lead.Title),
		CompanyIntent:    s.companyIntent(lead),
		Technographic:    s.technographic(lead),
		Location:         s.location(lead.PersonLocation),
		ScientificIntent: s.scientificIntent(lead),
	}
	raw := b.RoleFit + b.CompanyIntent + b.Technographic + b.Location + b.ScientificIntent
	b.Total = capAt(raw/s.w.TotalPossible()*100, 100)
	return b
}

// roleFit scores the job title: the best topic match plus a seniority
// bonus, capped at the component maximum.
func (s *Scorer) roleFit(title string) float64 {
	if title == "" {
		return 0
	}
	t := strings.ToLower(title)
	score := maxMatch(t, s.w.RoleFit.Topics)
	score += firstMatch(t, s.w.RoleFit.Seniority)
	return capAt(score, s.w.RoleFit.MaxPoints)
}

var (
	earlyStages = []string{"series a", "series b"}
	lateStages  = []string{"series c", "series d", "series d+", "ipo", "public"}
)

// companyIntent scores funding stage, funding recency and grant mentions.
func (s *Scorer) companyIntent(lead model.Lead) float64 {
	score := 0.0
	stage := strings.ToLower(lead.FundingStage)

	switch {
	case stageIn(stage, earlyStages):
		if s.recentFunding(lead.FundingDate) {
			score += s.w.CompanyIntent.EarlyStageRecent
		} else {
			score += s.w.CompanyIntent.EarlyStageRecent * 0.5
		}
	case stageIn(stage, lateStages):
		score += s.w.CompanyIntent.LateStage
	case stage == "bootstrapped":
		score += s.w.CompanyIntent.Bootstrapped
	}

	notes := strings.ToLower(lead.Notes)
	if strings.Contains(notes, "nih") || strings.Contains(notes, "grant") {
		score += s.w.CompanyIntent.NIHGrant
	}

	return capAt(score, s.w.CompanyIntent.MaxPoints)
}

func stageIn(stage string, set []string) bool {
	for _, s := range set {
		if stage == s {
			return true
		}
	}
	return false
}

// recentFunding reports whether the funding date falls within a year of
// the reference year. Dates look like "2025" or "2025-06".
func (s *Scorer) recentFunding(fundingDate string) bool {
	if fundingDate == "" {
		return false
	}
	yearPart, _, _ := strings.Cut(fundingDate, "-")
	year, err := strconv.Atoi(strings.TrimSpace(yearPart))
	if err != nil {
		return false
	}
	return s.refYear-year <= 1
}

// technographic scores technology keywords and the company name.
func (s *Scorer) technographic(lead model.Lead) float64 {
	score := 0.0

	keywords := make([]string, 0, len(lead.TechKeywords))
	for _, k := range lead.TechKeywords {
		keywords = append(keywords, strings.ToLower(k))
	}

	if anyKeywordContains(keywords, "3d model", "3d cell") {
		score += s.w.Technographic.ModelsMention
	}
	if anyKeywordContains(keywords, "nam", "alternative method") {
		score += s.w.Technographic.NAMsMention
	}
	if anyKeywordContains(keywords, "liver", "hepat") {
		score += s.w.Technographic.LiverFocus
	}

	company := strings.ToLower(lead.Company)
	if containsAny(company, []string{"liver", "hepat", "organ", "organoid", "biotech"}) {
		score += s.w.Technographic.CompanyFocusBonus
	}

	return capAt(score, s.w.Technographic.MaxPoints)
}

func anyKeywordContains(keywords []string, needles ...string) bool {
	for _, k := range keywords {
		if containsAny(k, needles) {
			return true
		}
	}
	return false
}

// location scores geographic hubs in order; the first matching hub wins
// and unknown locations get the fallback score.
func (s *Scorer) location(location string) float64 {
	if location == "" {
		return s.w.Location.Other
	}
	loc := strings.ToLower(location)
	for _, hub := range s.w.Location.Hubs {
		if containsAny(loc, hub.Match) {
			return hub.Points
		}
	}
	return s.w.Location.Other
}

// scientificIntent scores publication recency, 3D-culture papers and
// conference participation. Recent and older publication bonuses are
// mutually exclusive; recent wins.
func (s *Scorer) scientificIntent(lead model.Lead) float64 {
	score := 0.0

	recent := 0
	older := 0
	hasCulturePaper := false

	for _, pub := range lead.Publications {
		title := strings.ToLower(pub.Title)
		if containsAny(title, s.w.ScientificIntent.CulturePaperTerms) {
			hasCulturePaper = true
		}

		year, err := strconv.Atoi(strings.TrimSpace(pub.Year))
		if err != nil || year <= 0 {
			continue
		}
		switch {
		case year >= s.refYear-1:
			recent++
		case year >= s.refYear-2:
			older++
		}
	}

	if recent > 0 {
		score += s.w.ScientificIntent.PublicationRecent
	} else if older > 0 {
		score += s.w.ScientificIntent.PublicationOlder
	}
	if hasCulturePaper {
		score += s.w.ScientificIntent.CulturePaper
	}
	if lead.ConferenceParticipation != "" {
		score += s.w.ScientificIntent.ConferencePresenter
	}

	return capAt(score, s.w.ScientificIntent.MaxPoints)
}
