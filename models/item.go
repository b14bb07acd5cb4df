package models

import "github.com/guregu/null/v6/zero"

type ResolvedItem struct {
	ID                string      `json:"file_id"`
	Title             zero.String `json:"title"`
	FileURL           string      `json:"file_url"`
	ThumbnailURL      string      `json:"thumbnail_url"`
	ExtractorCodeName string      `json:"-"`
}

func (item *ResolvedItem) SetTitle(title string) {
	if len(title) == 0 {
		return
	}
	item.Title = zero.StringFrom(title)
}
