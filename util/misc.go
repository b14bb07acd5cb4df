package util

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/aki237/nscjar"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
)

var (
	cookiesCache   = make(map[string][]*http.Cookie)
	cookiesCacheMu sync.Mutex
	CookiesDir     = "cookies"
)

func GetLastError(err error) error {
	var lastErr = err
	for {
		unwrapped := errors.Unwrap(lastErr)
		if unwrapped == nil {
			break
		}
		lastErr = unwrapped
	}
	return lastErr
}

func ParseCookieFile(fileName string) ([]*http.Cookie, error) {
	cookiesCacheMu.Lock()
	defer cookiesCacheMu.Unlock()

	cachedCookies, ok := cookiesCache[fileName]
	if ok {
		return cachedCookies, nil
	}
	cookiePath := filepath.Join(CookiesDir, fileName)
	cookieFile, err := os.Open(cookiePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer cookieFile.Close()

	var parser nscjar.Parser
	cookies, err := parser.Unmarshal(cookieFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}
	cookiesCache[fileName] = cookies
	return cookies, nil
}

// UnescapeJSONString decodes escape sequences of a raw
// JSON string body (without quotes), such as \u00e9, \/ or
// surrogate pairs. Invalid input is returned as is.
func UnescapeJSONString(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	quoted := `"` + raw + `"`
	if !gjson.Valid(quoted) {
		return raw
	}
	return gjson.Parse(quoted).String()
}

func ExtractBaseHost(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	host := parsedURL.Hostname()
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("failed to get eTLD+1: %w", err)
	}
	parts := strings.Split(etld, ".")
	if len(parts) == 0 {
		return "", errors.New("invalid domain structure")
	}
	return parts[0], nil
}

// ChunkText splits text into chunks of at most size bytes,
// never cutting a multi-byte rune in half.
func ChunkText(text string, size int) []string {
	if size <= 0 || len(text) <= size {
		if text == "" {
			return nil
		}
		return []string{text}
	}
	var chunks []string
	for len(text) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			// single rune wider than size
			_, width := utf8.DecodeRuneInString(text)
			cut = width
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// Truncate cuts text to at most size bytes on a rune boundary.
func Truncate(text string, size int) string {
	if len(text) <= size {
		return text
	}
	return ChunkText(text, size)[0]
}
