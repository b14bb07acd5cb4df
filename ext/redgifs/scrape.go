package redgifs

import (
	"regexp"
	"strings"

	"linkrelay/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

const defaultTitle = "No Title"

var (
	headlinePattern   = regexp.MustCompile(`"headline":"(.*?)"`)
	contentURLPattern = regexp.MustCompile(`"contentUrl":"(.*?)"`)
	thumbnailPattern  = regexp.MustCompile(`"thumbnailUrl":"(.*?)"`)
)

// ParseWithRegex pulls the metadata straight out of the raw page
// markup. The silent variant of the video is swapped for the one
// with audio.
func ParseWithRegex(html string) *Media {
	media := &Media{Title: defaultTitle}
	if match := headlinePattern.FindStringSubmatch(html); match != nil {
		media.Title = util.UnescapeJSONString(match[1])
	}
	if match := contentURLPattern.FindStringSubmatch(html); match != nil {
		media.FileURL = stripSilent(util.UnescapeJSONString(match[1]))
	}
	if match := thumbnailPattern.FindStringSubmatch(html); match != nil {
		media.ThumbnailURL = util.UnescapeJSONString(match[1])
	}
	return media
}

// ParseJSONLD reads the schema.org VideoObject the watch page
// embeds in its ld+json script tags.
func ParseJSONLD(html string) *Media {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &Media{Title: defaultTitle}
	}
	var nodes []gjson.Result
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if !gjson.Valid(text) {
			return
		}
		nodes = append(nodes, flattenJSONLD(gjson.Parse(text))...)
	})
	for _, node := range nodes {
		contentURL := firstString(node, "video.contentUrl", "contentUrl")
		if contentURL == "" {
			continue
		}
		media := &Media{
			Title:        firstString(node, "headline", "name", "video.name"),
			FileURL:      stripSilent(contentURL),
			ThumbnailURL: firstString(node, "video.thumbnailUrl", "thumbnailUrl", "video.thumbnailUrl.0", "thumbnailUrl.0"),
		}
		if media.Title == "" {
			media.Title = defaultTitle
		}
		return media
	}
	return &Media{Title: defaultTitle}
}

func flattenJSONLD(root gjson.Result) []gjson.Result {
	var nodes []gjson.Result
	if root.IsArray() {
		root.ForEach(func(_, value gjson.Result) bool {
			nodes = append(nodes, flattenJSONLD(value)...)
			return true
		})
		return nodes
	}
	nodes = append(nodes, root)
	if graph := root.Get("@graph"); graph.IsArray() {
		nodes = append(nodes, flattenJSONLD(graph)...)
	}
	return nodes
}

func firstString(node gjson.Result, paths ...string) string {
	for _, path := range paths {
		value := node.Get(path)
		if value.Type == gjson.String && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func stripSilent(url string) string {
	return strings.ReplaceAll(url, "-silent", "")
}
