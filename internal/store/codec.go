package store

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lumen-bio/leadscout/internal/model"
)

// leadColumns is the canonical column order shared by both backends.
const leadColumns = `id, name, title, email, linkedin_url, phone,
	company, company_size, funding_stage, funding_amount, funding_date,
	person_location, company_hq,
	publications, recent_publication_count, conference_participation, tech_keywords,
	role_fit_score, company_intent_score, technographic_score, location_score,
	scientific_intent_score, total_score,
	data_source, notes, created_at, updated_at`

func marshalPublications(pubs []model.Publication) (string, error) {
	if pubs == nil {
		pubs = []model.Publication{}
	}
	data, err := json.Marshal(pubs)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal publications")
	}
	return string(data), nil
}

func marshalKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal tech keywords")
	}
	return string(data), nil
}

// unmarshalPublications degrades malformed stored JSON to an empty slice
// so a single corrupt row cannot poison a whole search.
func unmarshalPublications(leadID, data string) []model.Publication {
	if data == "" {
		return nil
	}
	var pubs []model.Publication
	if err := json.Unmarshal([]byte(data), &pubs); err != nil {
		zap.L().Warn("store: malformed publications json, dropping",
			zap.String("lead_id", leadID),
			zap.Error(err),
		)
		return nil
	}
	return pubs
}

func unmarshalKeywords(leadID, data string) []string {
	if data == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(data), &keywords); err != nil {
		zap.L().Warn("store: malformed tech keywords json, dropping",
			zap.String("lead_id", leadID),
			zap.Error(err),
		)
		return nil
	}
	return keywords
}
