package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestResolvePixeldrainFile(t *testing.T) {
	out := runCommand(t, "resolve", "see", "https://pixeldrain.com/u/abc123XY")
	assert.Equal(t,
		"1. ID: abc123XY\nhttps://pixeldrain.com/api/file/abc123XY\nhttps://pixeldrain.com/api/file/abc123XY/thumbnail\n\n\n",
		out,
	)
}

func TestResolveWithoutLink(t *testing.T) {
	out := runCommand(t, "resolve", "hello")
	assert.Equal(t, "Send a Pixeldrain or RedGIFs link\n", out)
}
