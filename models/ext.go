package models

import (
	"net/http"
	"regexp"

	"linkrelay/enums"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Extractor struct {
	Name       string
	CodeName   string
	Service    enums.Service
	URLPattern *regexp.Regexp
	Host       []string

	Run func(*ResolveContext) (*ExtractorResponse, error)
}

type ExtractorResponse struct {
	Items []*ResolvedItem

	// Strategy is the name of the scraping strategy
	// that produced Items.
	Strategy enums.Strategy

	// FallbackPayload holds the pretty-printed upstream
	// API payload when an API fallback was used.
	FallbackPayload string
}

func (extractor *Extractor) NewItem(id string) *ResolvedItem {
	return &ResolvedItem{
		ID:                id,
		ExtractorCodeName: extractor.CodeName,
	}
}

// FindMatch returns the named groups of the leftmost match
// of the extractor pattern in text, or nil.
func (extractor *Extractor) FindMatch(text string) map[string]string {
	matches := extractor.URLPattern.FindStringSubmatch(text)
	if len(matches) == 0 {
		return nil
	}
	groups := make(map[string]string)
	for i, name := range extractor.URLPattern.SubexpNames() {
		if name != "" {
			groups[name] = matches[i]
		}
	}
	groups["match"] = matches[0]
	return groups
}
