package redgifs

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"regexp"
	"sync"

	"linkrelay/config"
	"linkrelay/enums"
	"linkrelay/logger"
	"linkrelay/metrics"
	"linkrelay/models"
	"linkrelay/util"
	"linkrelay/util/networking"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// swapped in tests
var (
	apiBase = "https://api.redgifs.com/v2/"
	pageURL = func(ctx *models.ResolveContext) string {
		return ctx.MatchedContentURL
	}
)

func tokenEndpoint() string { return apiBase + "auth/temporary" }
func videoEndpoint() string { return apiBase + "gifs/" }

var baseAPIHeaders = map[string]string{
	"Referer":      "https://www.redgifs.com/",
	"Origin":       "https://www.redgifs.com",
	"Content-Type": "application/json",
}

var errNoContentURL = errors.New("no content url found")

var Extractor = &models.Extractor{
	Name:       "RedGIFs",
	CodeName:   "redgifs",
	Service:    enums.ServiceRedGIFs,
	URLPattern: regexp.MustCompile(`https?://(?:www\.|v3\.)?redgifs\.com/watch/(?P<id>[A-Za-z0-9]+)`),
	Host:       []string{"redgifs"},

	Run: func(ctx *models.ResolveContext) (*models.ExtractorResponse, error) {
		return Resolve(ctx, Strategies())
	},
}

// Strategies returns the configured strategy order,
// unknown names are skipped.
func Strategies() []enums.Strategy {
	var strategies []enums.Strategy
	for _, name := range config.Env.RedGIFsStrategies {
		strategy, ok := enums.ParseStrategy(name)
		if !ok || !isRedGIFsStrategy(strategy) {
			zap.S().Warnf("[redgifs] unknown strategy %q, skipping", name)
			continue
		}
		strategies = append(strategies, strategy)
	}
	return strategies
}

func isRedGIFsStrategy(strategy enums.Strategy) bool {
	switch strategy {
	case enums.StrategyRegex, enums.StrategyJSONLD,
		enums.StrategyBrowser, enums.StrategyAPI:
		return true
	}
	return false
}

// Resolve runs the strategies in order, the first one that
// finds a content url wins.
func Resolve(
	ctx *models.ResolveContext,
	strategies []enums.Strategy,
) (*models.ExtractorResponse, error) {
	page := &pageLoader{ctx: ctx}
	for _, strategy := range strategies {
		media, err := runStrategy(ctx, page, strategy)
		if err == nil && media.FileURL == "" {
			err = errNoContentURL
		}
		if err != nil {
			zap.S().Debugf("[redgifs] %s failed for %s: %v", strategy, ctx.MatchedContentID, err)
			metrics.RecordStrategyFailure(ctx.Extractor.CodeName, string(strategy))
			continue
		}
		item := ctx.Extractor.NewItem(ctx.MatchedContentID)
		item.SetTitle(media.Title)
		item.FileURL = media.FileURL
		item.ThumbnailURL = media.ThumbnailURL
		return &models.ExtractorResponse{
			Items:    []*models.ResolvedItem{item},
			Strategy: strategy,
		}, nil
	}
	if page.err != nil {
		zap.S().Errorf("[redgifs] failed to fetch %s: %v", ctx.MatchedContentURL, page.err)
	}
	return &models.ExtractorResponse{Strategy: enums.StrategyNone}, nil
}

func runStrategy(
	ctx *models.ResolveContext,
	page *pageLoader,
	strategy enums.Strategy,
) (*Media, error) {
	switch strategy {
	case enums.StrategyRegex:
		html, err := page.Get()
		if err != nil {
			return nil, err
		}
		return ParseWithRegex(html), nil
	case enums.StrategyJSONLD:
		html, err := page.Get()
		if err != nil {
			return nil, err
		}
		return ParseJSONLD(html), nil
	case enums.StrategyBrowser:
		return MediaFromBrowser(ctx)
	case enums.StrategyAPI:
		return MediaFromAPI(ctx)
	}
	return nil, fmt.Errorf("unsupported strategy: %s", strategy)
}

// pageLoader fetches the watch page once for all the
// strategies that parse it.
type pageLoader struct {
	ctx  *models.ResolveContext
	once sync.Once
	html string
	err  error
}

func (p *pageLoader) Get() (string, error) {
	p.once.Do(func() {
		p.html, p.err = GetWatchPage(p.ctx)
	})
	return p.html, p.err
}

func GetWatchPage(ctx *models.ResolveContext) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx.Ctx(), config.Env.FetchTimeout)
	defer cancel()

	body, err := util.FetchBody(
		reqCtx,
		networking.GetExtractorHTTPClient(ctx.Extractor),
		pageURL(ctx),
		util.GetExtractorHeaders(ctx.Extractor, nil),
		util.GetExtractorCookies(ctx.Extractor),
	)
	if err != nil {
		return "", err
	}
	logger.WriteFile("redgifs_watch_page", body)
	return string(body), nil
}

func MediaFromBrowser(ctx *models.ResolveContext) (*Media, error) {
	renderCtx, cancel := context.WithTimeout(ctx.Ctx(), 2*config.Env.FetchTimeout)
	defer cancel()

	html, err := renderPage(renderCtx, pageURL(ctx))
	if err != nil {
		return nil, err
	}
	if media := ParseWithRegex(html); media.FileURL != "" {
		return media, nil
	}
	return ParseJSONLD(html), nil
}

func MediaFromAPI(ctx *models.ResolveContext) (*Media, error) {
	response, err := GetVideo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get from api: %w", err)
	}
	gif := response.Gif
	media := &Media{Title: gif.Description}
	if media.Title == "" {
		media.Title = defaultTitle
	}
	switch {
	case gif.Urls.Hd != "":
		media.FileURL = gif.Urls.Hd
	case gif.Urls.Sd != "":
		media.FileURL = gif.Urls.Sd
	}
	switch {
	case gif.Urls.Poster != "":
		media.ThumbnailURL = gif.Urls.Poster
	case gif.Urls.Thumbnail != "":
		media.ThumbnailURL = gif.Urls.Thumbnail
	}
	return media, nil
}

func GetVideo(ctx *models.ResolveContext) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx.Ctx(), config.Env.APITimeout)
	defer cancel()

	client := networking.GetExtractorHTTPClient(ctx.Extractor)
	cookies := util.GetExtractorCookies(ctx.Extractor)

	videoID := ctx.MatchedContentID
	url := videoEndpoint() + videoID + "?views=true"
	token, err := GetAccessToken(reqCtx, client, cookies)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}
	headers := map[string]string{
		"User-Agent":     token.Agent,
		"Authorization":  "Bearer " + token.AccessToken,
		"X-Customheader": "https://www.redgifs.com/watch/" + videoID,
	}
	maps.Copy(headers, baseAPIHeaders)
	resp, err := util.FetchPage(
		reqCtx,
		client,
		http.MethodGet,
		url,
		nil,
		headers,
		cookies,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// token revoked before its expiry
		resetAccessToken()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response: %s", resp.Status)
	}

	var response Response
	err = sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Gif == nil {
		return nil, util.ErrUnavailable
	}
	return &response, nil
}
