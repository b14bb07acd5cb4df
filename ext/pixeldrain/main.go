package pixeldrain

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"linkrelay/config"
	"linkrelay/enums"
	"linkrelay/logger"
	"linkrelay/metrics"
	"linkrelay/models"
	"linkrelay/util"
	"linkrelay/util/networking"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

const (
	fileEndpoint = "https://pixeldrain.com/api/file/"

	// max length of the API payload relayed to the chat
	maxFallbackPayload = 3500
)

// where pages and API calls are sent, swapped in tests
var (
	pageBase = "https://pixeldrain.com"
	apiBase  = "https://pixeldrain.com/api"
)

var Extractor = &models.Extractor{
	Name:       "Pixeldrain",
	CodeName:   "pixeldrain",
	Service:    enums.ServicePixeldrain,
	URLPattern: regexp.MustCompile(`https://pixeldrain\.com/(?P<type>l|u)/(?P<id>[A-Za-z0-9]+)`),
	Host:       []string{"pixeldrain"},

	Run: func(ctx *models.ResolveContext) (*models.ExtractorResponse, error) {
		linkType := enums.LinkType(ctx.MatchedGroups["type"])
		if linkType == enums.LinkTypeFile {
			return &models.ExtractorResponse{
				Items:    []*models.ResolvedItem{NewFileItem(ctx.Extractor, ctx.MatchedContentID)},
				Strategy: enums.StrategyDirect,
			}, nil
		}
		return ResolveList(ctx)
	},
}

func NewFileItem(extractor *models.Extractor, id string) *models.ResolvedItem {
	item := extractor.NewItem(id)
	item.FileURL = fileEndpoint + id
	item.ThumbnailURL = fileEndpoint + id + "/thumbnail"
	return item
}

// ResolveList scrapes the list page for file IDs and falls back
// to the list API when the page yields nothing.
func ResolveList(ctx *models.ResolveContext) (*models.ExtractorResponse, error) {
	listID := ctx.MatchedContentID

	html, err := GetListPage(ctx)
	if err != nil {
		zap.S().Errorf("[pixeldrain] failed to fetch list page %s: %v", listID, err)
	} else {
		if ids := ExtractIDsFromHTML(html); len(ids) > 0 {
			zap.S().Infof("[pixeldrain] html ok %s: %d files", listID, len(ids))
			return newListResponse(ctx, ids, enums.StrategyHTML), nil
		}
		metrics.RecordStrategyFailure(ctx.Extractor.CodeName, string(enums.StrategyHTML))

		if ids := ExtractIDsFromViewerData(html); len(ids) > 0 {
			zap.S().Infof("[pixeldrain] viewer data ok %s: %d files", listID, len(ids))
			return newListResponse(ctx, ids, enums.StrategyViewerData), nil
		}
		metrics.RecordStrategyFailure(ctx.Extractor.CodeName, string(enums.StrategyViewerData))
	}

	zap.S().Warnf("[pixeldrain] html failed %s, trying api", listID)

	list, payload, err := GetList(ctx)
	if err != nil {
		zap.S().Errorf("[pixeldrain] api error %s: %v", listID, err)
		metrics.RecordStrategyFailure(ctx.Extractor.CodeName, string(enums.StrategyAPI))
		return &models.ExtractorResponse{Strategy: enums.StrategyNone}, nil
	}

	ids := fileIDs(list.Files)
	if len(ids) == 0 {
		zap.S().Errorf("[pixeldrain] failed %s", listID)
		metrics.RecordStrategyFailure(ctx.Extractor.CodeName, string(enums.StrategyAPI))
		response := &models.ExtractorResponse{Strategy: enums.StrategyNone}
		response.FallbackPayload = payload
		return response, nil
	}

	var totalSize int64
	for _, file := range list.Files {
		totalSize += file.Size
	}
	zap.S().Infof(
		"[pixeldrain] api ok %s: %d files (%s)",
		listID, len(ids), humanize.Bytes(uint64(totalSize)),
	)
	response := newListResponse(ctx, ids, enums.StrategyAPI)
	response.FallbackPayload = payload
	return response, nil
}

func newListResponse(
	ctx *models.ResolveContext,
	ids []string,
	strategy enums.Strategy,
) *models.ExtractorResponse {
	items := make([]*models.ResolvedItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, NewFileItem(ctx.Extractor, id))
	}
	return &models.ExtractorResponse{
		Items:    items,
		Strategy: strategy,
	}
}

func GetListPage(ctx *models.ResolveContext) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx.Ctx(), config.Env.FetchTimeout)
	defer cancel()

	body, err := util.FetchBody(
		reqCtx,
		networking.GetExtractorHTTPClient(ctx.Extractor),
		pageBase+"/l/"+ctx.MatchedContentID,
		util.GetExtractorHeaders(ctx.Extractor, nil),
		util.GetExtractorCookies(ctx.Extractor),
	)
	if err != nil {
		return "", err
	}
	logger.WriteFile("pixeldrain_list_page", body)
	return string(body), nil
}

// GetList queries the list API. Along with the decoded list it
// returns the payload pretty-printed and cut to a chat-friendly size.
func GetList(ctx *models.ResolveContext) (*ListResponse, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx.Ctx(), config.Env.APITimeout)
	defer cancel()

	body, err := util.FetchBody(
		reqCtx,
		networking.GetExtractorHTTPClient(ctx.Extractor),
		apiBase+"/list/"+ctx.MatchedContentID,
		util.GetExtractorHeaders(ctx.Extractor, nil),
		util.GetExtractorCookies(ctx.Extractor),
	)
	if err != nil {
		return nil, "", err
	}
	logger.WriteFile("pixeldrain_api_response", body)

	var list ListResponse
	if err := sonic.Unmarshal(body, &list); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}
	return &list, prettyPayload(body), nil
}

// prettyPayload indents the API body keeping the upstream key
// order and string bytes, cut to maxFallbackPayload.
func prettyPayload(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	parsed := gjson.ParseBytes(body)
	if parsed.IsObject() && len(parsed.Map()) == 0 {
		return ""
	}
	indented := pretty.PrettyOptions(body, &pretty.Options{Indent: "  "})
	return util.Truncate(strings.TrimSuffix(string(indented), "\n"), maxFallbackPayload)
}
