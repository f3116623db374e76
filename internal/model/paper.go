package model

// Author is one entry in a paper's author list.
type Author struct {
	Name            string `json:"name"`
	Affiliation     string `json:"affiliation,omitempty"`
	IsCorresponding bool   `json:"is_corresponding"`
}

// Paper is a normalized publication record. Immutable once parsed.
type Paper struct {
	Title    string   `json:"title"`
	Year     string   `json:"year"`
	Month    string   `json:"month"`
	Authors  []Author `json:"authors"`
	Abstract string   `json:"abstract,omitempty"`
	PubmedID string   `json:"pubmed_id"`
}
