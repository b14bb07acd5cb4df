package pixeldrain

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

var fileInfoPattern = regexp.MustCompile(`/file/([A-Za-z0-9]{8})/info`)

const viewerDataMarker = "window.viewer_data"

// ExtractIDsFromHTML returns the file IDs referenced by
// /file/<id>/info paths, in order of first appearance.
func ExtractIDsFromHTML(html string) []string {
	var ids []string
	for _, match := range fileInfoPattern.FindAllStringSubmatch(html, -1) {
		ids = append(ids, match[1])
	}
	return dedupe(ids)
}

// ExtractIDsFromViewerData reads file IDs from the JSON object
// the list page assigns to window.viewer_data.
func ExtractIDsFromViewerData(html string) []string {
	data := findViewerData(html)
	if data == "" {
		return nil
	}
	var ids []string
	for _, id := range gjson.Get(data, "api_response.files.#.id").Array() {
		if id.String() != "" {
			ids = append(ids, id.String())
		}
	}
	return dedupe(ids)
}

func findViewerData(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var data string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, viewerDataMarker)
		if idx < 0 {
			return true
		}
		data = extractJSONObject(text[idx+len(viewerDataMarker):])
		return data == ""
	})
	return data
}

// extractJSONObject returns the first JSON object starting at
// the first brace in s, or "" when it is not valid JSON.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	obj := gjson.Parse(s[start:]).Raw
	if !gjson.Valid(obj) {
		return ""
	}
	return obj
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func fileIDs(files []*File) []string {
	var ids []string
	for _, file := range files {
		if file == nil || file.ID == "" {
			continue
		}
		ids = append(ids, file.ID)
	}
	return ids
}
