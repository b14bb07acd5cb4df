package util

import (
	"maps"
	"net/http"

	"linkrelay/config"
	"linkrelay/models"

	"go.uber.org/zap"
)

func GetExtractorCookies(extractor *models.Extractor) []*http.Cookie {
	cfg := config.GetExtractorConfig(extractor.CodeName)
	if cfg == nil || cfg.Cookies == "" {
		return nil
	}
	cookies, err := ParseCookieFile(cfg.Cookies)
	if err != nil {
		zap.S().Warnf("failed to load cookies for %s: %v", extractor.CodeName, err)
		return nil
	}
	return cookies
}

// GetExtractorHeaders returns base headers merged with the
// user agent override of the extractor, if any.
func GetExtractorHeaders(
	extractor *models.Extractor,
	base map[string]string,
) map[string]string {
	headers := make(map[string]string, len(base)+1)
	maps.Copy(headers, base)
	cfg := config.GetExtractorConfig(extractor.CodeName)
	if cfg != nil && cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	return headers
}
