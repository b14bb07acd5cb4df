package ext

import (
	"linkrelay/ext/pixeldrain"
	"linkrelay/ext/redgifs"
	"linkrelay/models"
)

// List is ordered by priority: when a message holds links
// of several services, the first extractor here wins.
var List = []*models.Extractor{
	pixeldrain.Extractor,
	redgifs.Extractor,
}
