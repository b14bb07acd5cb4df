package ext

import (
	"slices"

	"linkrelay/config"
	"linkrelay/models"
	"linkrelay/util"
)

// CtxByText finds the first supported link in a message.
// It returns nil when the text holds no supported link.
func CtxByText(text string) (*models.ResolveContext, error) {
	for _, extractor := range List {
		if config.IsExtractorDisabled(extractor.CodeName) {
			continue
		}
		groups := extractor.FindMatch(text)
		if groups == nil {
			continue
		}
		return &models.ResolveContext{
			MatchedContentID:  groups["id"],
			MatchedContentURL: groups["match"],
			MatchedGroups:     groups,
			Extractor:         extractor,
		}, nil
	}
	return nil, nil
}

// FindLinks returns every supported link in text, per extractor.
func FindLinks(text string) map[string][]string {
	links := make(map[string][]string)
	for _, extractor := range List {
		matches := extractor.URLPattern.FindAllString(text, -1)
		if len(matches) > 0 {
			links[extractor.CodeName] = matches
		}
	}
	return links
}

func ByCodeName(codeName string) *models.Extractor {
	for _, extractor := range List {
		if extractor.CodeName == codeName {
			return extractor
		}
	}
	return nil
}

// IsSupportedHost reports whether rawURL points to the site
// of any registered extractor.
func IsSupportedHost(rawURL string) bool {
	host, err := util.ExtractBaseHost(rawURL)
	if err != nil {
		return false
	}
	for _, extractor := range List {
		if slices.Contains(extractor.Host, host) {
			return true
		}
	}
	return false
}

func Resolve(ctx *models.ResolveContext) (*models.ExtractorResponse, error) {
	if config.IsExtractorDisabled(ctx.Extractor.CodeName) {
		return nil, util.ErrExtractorDisabled
	}
	return ctx.Extractor.Run(ctx)
}
