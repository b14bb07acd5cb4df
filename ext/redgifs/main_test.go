package redgifs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkrelay/config"
	"linkrelay/enums"
	"linkrelay/models"
	"linkrelay/util/networking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchPage = `<!DOCTYPE html><html><head>
<script type="application/ld+json">{"@context":"http://schema.org","@type":"VideoObject","headline":"Sunset & waves","contentUrl":"https:\/\/media.redgifs.com\/SunsetWaves-silent.mp4","thumbnailUrl":"https:\/\/media.redgifs.com\/SunsetWaves-poster.jpg"}</script>
</head><body></body></html>`

const nestedLDPage = `<!DOCTYPE html><html><head>
<script type="application/ld+json">
[
  {"@type": "BreadcrumbList"},
  {
    "@type": "WebPage",
    "name": "Calm lake",
    "video": {
      "contentUrl": "https://media.redgifs.com/CalmLake.mp4",
      "thumbnailUrl": ["https://media.redgifs.com/CalmLake-poster.jpg"]
    }
  }
]
</script>
</head><body></body></html>`

func newCtx(id string) *models.ResolveContext {
	return &models.ResolveContext{
		MatchedContentID:  id,
		MatchedContentURL: "https://www.redgifs.com/watch/" + id,
		MatchedGroups:     map[string]string{"id": id},
		Extractor:         Extractor,
	}
}

func withUpstream(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	oldAPI, oldPageURL := apiBase, pageURL
	apiBase = server.URL + "/v2/"
	pageURL = func(ctx *models.ResolveContext) string {
		return server.URL + "/watch/" + ctx.MatchedContentID
	}
	networking.SetExtractorHTTPClient(Extractor.CodeName, server.Client())
	resetAccessToken()
	t.Cleanup(func() {
		server.Close()
		apiBase, pageURL = oldAPI, oldPageURL
		networking.SetExtractorHTTPClient(Extractor.CodeName, nil)
		resetAccessToken()
	})
}

func TestParseWithRegex(t *testing.T) {
	media := ParseWithRegex(watchPage)
	assert.Equal(t, "Sunset & waves", media.Title)
	assert.Equal(t, "https://media.redgifs.com/SunsetWaves.mp4", media.FileURL)
	assert.Equal(t, "https://media.redgifs.com/SunsetWaves-poster.jpg", media.ThumbnailURL)
}

func TestParseWithRegexDefaults(t *testing.T) {
	media := ParseWithRegex("<html></html>")
	assert.Equal(t, "No Title", media.Title)
	assert.Empty(t, media.FileURL)
	assert.Empty(t, media.ThumbnailURL)
}

func TestParseJSONLD(t *testing.T) {
	media := ParseJSONLD(watchPage)
	assert.Equal(t, "Sunset & waves", media.Title)
	assert.Equal(t, "https://media.redgifs.com/SunsetWaves.mp4", media.FileURL)

	media = ParseJSONLD(nestedLDPage)
	assert.Equal(t, "Calm lake", media.Title)
	assert.Equal(t, "https://media.redgifs.com/CalmLake.mp4", media.FileURL)
	assert.Equal(t, "https://media.redgifs.com/CalmLake-poster.jpg", media.ThumbnailURL)

	media = ParseJSONLD(`<script type="application/ld+json">not json</script>`)
	assert.Empty(t, media.FileURL)
	assert.Equal(t, "No Title", media.Title)
}

func TestStrategies(t *testing.T) {
	old := config.Env.RedGIFsStrategies
	t.Cleanup(func() { config.Env.RedGIFsStrategies = old })

	config.Env.RedGIFsStrategies = []string{"api", "bogus", "viewer_data", "regex"}
	assert.Equal(t, []enums.Strategy{enums.StrategyAPI, enums.StrategyRegex}, Strategies())
}

func TestResolveRegex(t *testing.T) {
	var pageHits int
	withUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/watch/SunsetWaves", r.URL.Path)
		pageHits++
		w.Write([]byte(watchPage))
	})

	response, err := Resolve(newCtx("SunsetWaves"), []enums.Strategy{enums.StrategyRegex, enums.StrategyJSONLD})
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, enums.StrategyRegex, response.Strategy)
	assert.Equal(t, "https://media.redgifs.com/SunsetWaves.mp4", response.Items[0].FileURL)
	assert.Equal(t, "Sunset & waves", response.Items[0].Title.String)
	assert.Equal(t, 1, pageHits)
}

func TestResolveSharesPageBetweenStrategies(t *testing.T) {
	var pageHits int
	withUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		pageHits++
		w.Write([]byte(nestedLDPage))
	})

	response, err := Resolve(newCtx("CalmLake"), []enums.Strategy{enums.StrategyRegex, enums.StrategyJSONLD})
	require.NoError(t, err)
	assert.Equal(t, enums.StrategyJSONLD, response.Strategy)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "https://media.redgifs.com/CalmLake.mp4", response.Items[0].FileURL)
	assert.Equal(t, 1, pageHits)
}

func TestResolveFallsBackToAPI(t *testing.T) {
	withUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch/QuietForest":
			w.WriteHeader(http.StatusForbidden)
		case "/v2/auth/temporary":
			w.Write([]byte(`{"token":"tkn","agent":"test-agent"}`))
		case "/v2/gifs/QuietForest":
			assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			assert.Equal(t, "true", r.URL.Query().Get("views"))
			w.Write([]byte(`{"gif":{"id":"quietforest","description":"Quiet forest","urls":{"sd":"https://media.redgifs.com/QuietForest-mobile.mp4","hd":"https://media.redgifs.com/QuietForest.mp4","poster":"https://media.redgifs.com/QuietForest-poster.jpg"}}}`))
		default:
			http.NotFound(w, r)
		}
	})

	response, err := Resolve(newCtx("QuietForest"), []enums.Strategy{enums.StrategyRegex, enums.StrategyAPI})
	require.NoError(t, err)
	assert.Equal(t, enums.StrategyAPI, response.Strategy)
	require.Len(t, response.Items, 1)
	item := response.Items[0]
	assert.Equal(t, "https://media.redgifs.com/QuietForest.mp4", item.FileURL)
	assert.Equal(t, "https://media.redgifs.com/QuietForest-poster.jpg", item.ThumbnailURL)
	assert.Equal(t, "Quiet forest", item.Title.String)
}

func TestResolveNothingFound(t *testing.T) {
	withUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	response, err := Resolve(newCtx("Gone"), []enums.Strategy{enums.StrategyRegex, enums.StrategyJSONLD, enums.StrategyAPI})
	require.NoError(t, err)
	assert.Empty(t, response.Items)
	assert.Equal(t, enums.StrategyNone, response.Strategy)
}

func TestResolveBrowser(t *testing.T) {
	old := renderPage
	t.Cleanup(func() { renderPage = old })

	renderPage = func(_ context.Context, url string) (string, error) {
		assert.Equal(t, "https://www.redgifs.com/watch/CalmLake", url)
		return nestedLDPage, nil
	}
	response, err := Resolve(newCtx("CalmLake"), []enums.Strategy{enums.StrategyBrowser})
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, enums.StrategyBrowser, response.Strategy)
	assert.Equal(t, "https://media.redgifs.com/CalmLake.mp4", response.Items[0].FileURL)

	renderPage = func(context.Context, string) (string, error) {
		return "", errors.New("chrome not found")
	}
	response, err = Resolve(newCtx("CalmLake"), []enums.Strategy{enums.StrategyBrowser})
	require.NoError(t, err)
	assert.Empty(t, response.Items)
}

func TestAccessTokenIsCached(t *testing.T) {
	var tokenHits int
	withUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/auth/temporary":
			tokenHits++
			w.Write([]byte(`{"token":"tkn","agent":"a"}`))
		default:
			w.Write([]byte(`{"gif":{"urls":{"sd":"https://media.redgifs.com/x.mp4"}}}`))
		}
	})

	for range 3 {
		media, err := MediaFromAPI(newCtx("Anything"))
		require.NoError(t, err)
		assert.Equal(t, "https://media.redgifs.com/x.mp4", media.FileURL)
		assert.Equal(t, "No Title", media.Title)
	}
	assert.Equal(t, 1, tokenHits)
}
