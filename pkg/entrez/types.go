package entrez

import "encoding/xml"

// esearchResponse is the JSON envelope returned by esearch.fcgi.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// articleSet is the root element of an efetch XML response.
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []PubmedArticle `xml:"PubmedArticle"`
}

// PubmedArticle is one record from efetch. Fields mirror the subset of the
// PubMed DTD the pipeline consumes; everything else is ignored by the
// decoder.
type PubmedArticle struct {
	PMID    string  `xml:"MedlineCitation>PMID"`
	Article Article `xml:"MedlineCitation>Article"`
}

// Article holds the citation body.
type Article struct {
	Title         string        `xml:"ArticleTitle"`
	Journal       Journal       `xml:"Journal"`
	Authors       []AuthorEntry `xml:"AuthorList>Author"`
	AbstractTexts []string      `xml:"Abstract>AbstractText"`
}

// Journal carries the publication date.
type Journal struct {
	PubDate PubDate `xml:"JournalIssue>PubDate"`
}

// PubDate is the nested publication date. Year may be absent for
// ahead-of-print records.
type PubDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
}

// AuthorEntry is one author in the citation's author list.
type AuthorEntry struct {
	LastName     string            `xml:"LastName"`
	ForeName     string            `xml:"ForeName"`
	Affiliations []AffiliationInfo `xml:"AffiliationInfo"`
}

// AffiliationInfo wraps a free-text affiliation string.
type AffiliationInfo struct {
	Affiliation string `xml:"Affiliation"`
}
