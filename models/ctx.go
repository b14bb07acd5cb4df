package models

import "context"

type ResolveContext struct {
	Context           context.Context
	MatchedContentID  string
	MatchedContentURL string
	MatchedGroups     map[string]string
	Extractor         *Extractor
}

// Ctx returns the request context, falling back to Background
// for contexts built outside a handler (tests, CLI).
func (ctx *ResolveContext) Ctx() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}
