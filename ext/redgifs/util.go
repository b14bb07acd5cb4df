package redgifs

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"linkrelay/models"
	"linkrelay/util"

	"github.com/bytedance/sonic"
)

var (
	accessToken   *Token
	accessTokenMu sync.Mutex
)

func GetAccessToken(
	ctx context.Context,
	client models.HTTPClient,
	cookies []*http.Cookie,
) (*Token, error) {
	accessTokenMu.Lock()
	defer accessTokenMu.Unlock()

	if accessToken == nil || time.Now().Unix() >= accessToken.ExpiresIn {
		if err := refreshAccessToken(ctx, client, cookies); err != nil {
			return nil, err
		}
	}
	return accessToken, nil
}

func refreshAccessToken(
	ctx context.Context,
	client models.HTTPClient,
	cookies []*http.Cookie,
) error {
	resp, err := util.FetchPage(
		ctx,
		client,
		http.MethodGet,
		tokenEndpoint(),
		nil,
		nil,
		cookies,
	)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to get access token: %s", resp.Status)
	}
	var token Token
	err = sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&token)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	token.ExpiresIn = time.Now().Add(23 * time.Hour).Unix()
	accessToken = &token
	return nil
}

func resetAccessToken() {
	accessTokenMu.Lock()
	defer accessTokenMu.Unlock()
	accessToken = nil
}
