package ext

import (
	"os"
	"path/filepath"
	"testing"

	"linkrelay/config"
	"linkrelay/models"
	"linkrelay/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxByTextPixeldrain(t *testing.T) {
	ctx, err := CtxByText("look https://pixeldrain.com/l/AbC123 and https://pixeldrain.com/u/zzz")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "pixeldrain", ctx.Extractor.CodeName)
	assert.Equal(t, "AbC123", ctx.MatchedContentID)
	assert.Equal(t, "l", ctx.MatchedGroups["type"])
	assert.Equal(t, "https://pixeldrain.com/l/AbC123", ctx.MatchedContentURL)
}

func TestCtxByTextPixeldrainWins(t *testing.T) {
	text := "https://www.redgifs.com/watch/first then https://pixeldrain.com/u/second"
	ctx, err := CtxByText(text)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "pixeldrain", ctx.Extractor.CodeName)
	assert.Equal(t, "second", ctx.MatchedContentID)
	assert.Equal(t, "u", ctx.MatchedGroups["type"])
}

func TestCtxByTextRedGIFs(t *testing.T) {
	cases := map[string]string{
		"https://www.redgifs.com/watch/SunsetWaves":  "SunsetWaves",
		"http://redgifs.com/watch/abc":               "abc",
		"see https://v3.redgifs.com/watch/xyz?x=1 !": "xyz",
	}
	for text, id := range cases {
		ctx, err := CtxByText(text)
		require.NoError(t, err)
		require.NotNil(t, ctx, text)
		assert.Equal(t, "redgifs", ctx.Extractor.CodeName)
		assert.Equal(t, id, ctx.MatchedContentID)
	}
}

func TestCtxByTextNoMatch(t *testing.T) {
	for _, text := range []string{
		"",
		"hello there",
		"http://pixeldrain.com/u/abc",
		"https://pixeldrain.com/x/abc",
		"https://m.redgifs.com/watch/abc",
		"https://www.redgifs.com/users/someone",
	} {
		ctx, err := CtxByText(text)
		require.NoError(t, err)
		assert.Nil(t, ctx, text)
	}
}

func TestFindLinks(t *testing.T) {
	links := FindLinks("https://pixeldrain.com/u/a https://pixeldrain.com/l/b https://redgifs.com/watch/c")
	assert.Equal(t, []string{"https://pixeldrain.com/u/a", "https://pixeldrain.com/l/b"}, links["pixeldrain"])
	assert.Equal(t, []string{"https://redgifs.com/watch/c"}, links["redgifs"])
	assert.Empty(t, FindLinks("nothing"))
}

func TestByCodeName(t *testing.T) {
	assert.Equal(t, "RedGIFs", ByCodeName("redgifs").Name)
	assert.Nil(t, ByCodeName("tiktok"))
}

func TestIsSupportedHost(t *testing.T) {
	assert.True(t, IsSupportedHost("https://pixeldrain.com/l/x"))
	assert.True(t, IsSupportedHost("https://v3.redgifs.com/watch/x"))
	assert.False(t, IsSupportedHost("https://example.com"))
	assert.False(t, IsSupportedHost("not a url"))
}

func disableExtractors(t *testing.T, codeNames ...string) {
	t.Helper()
	var data []byte
	for _, codeName := range codeNames {
		data = append(data, codeName+":\n  disabled: true\n"...)
	}
	path := filepath.Join(t.TempDir(), "ext-cfg.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	oldPath := config.ExtractorConfigPath
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	config.ExtractorConfigPath = path
	t.Cleanup(func() {
		config.ExtractorConfigPath = missing
		_ = config.LoadExtractorConfigs()
		config.ExtractorConfigPath = oldPath
	})
	require.NoError(t, config.LoadExtractorConfigs())
}

func TestCtxByTextSkipsDisabledExtractor(t *testing.T) {
	disableExtractors(t, "pixeldrain")

	ctx, err := CtxByText("https://pixeldrain.com/u/first then https://www.redgifs.com/watch/second")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, "redgifs", ctx.Extractor.CodeName)
	assert.Equal(t, "second", ctx.MatchedContentID)

	ctx, err = CtxByText("https://pixeldrain.com/u/only")
	require.NoError(t, err)
	assert.Nil(t, ctx)
}

func TestResolveDisabledExtractor(t *testing.T) {
	disableExtractors(t, "redgifs")

	_, err := Resolve(&models.ResolveContext{Extractor: ByCodeName("redgifs")})
	assert.ErrorIs(t, err, util.ErrExtractorDisabled)
}
