package networking

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"linkrelay/metrics"
	"linkrelay/models"
	"linkrelay/util"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var errServerError = errors.New("upstream server error")

// BreakerClient trips after repeated transport failures or 5xx
// answers from an upstream site, so a dead site fails fast
// instead of holding every update for the full fetch timeout.
type BreakerClient struct {
	name    string
	client  models.HTTPClient
	breaker *gobreaker.CircuitBreaker
}

type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

func NewBreakerClient(name string, client models.HTTPClient) *BreakerClient {
	return NewBreakerClientWithConfig(name, client, DefaultBreakerConfig())
}

func NewBreakerClientWithConfig(
	name string,
	client models.HTTPClient,
	cfg BreakerConfig,
) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			zap.S().Warnf("circuit breaker %s changed from %s to %s", name, from, to)
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	}
	return &BreakerClient{
		name:    name,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *BreakerClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			// counted as a failure, still handed to the caller
			return resp, errServerError
		}
		return resp, nil
	})
	if errors.Is(err, errServerError) {
		resp := result.(*http.Response)
		metrics.RecordUpstreamRequest(c.name, strconv.Itoa(resp.StatusCode))
		return resp, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordUpstreamRequest(c.name, "rejected")
		return nil, fmt.Errorf("%w: %s: %w", util.ErrUpstreamUnavailable, c.name, err)
	}
	if err != nil {
		metrics.RecordUpstreamRequest(c.name, "error")
		return nil, err
	}
	resp := result.(*http.Response)
	metrics.RecordUpstreamRequest(c.name, strconv.Itoa(resp.StatusCode))
	return resp, nil
}

func (c *BreakerClient) State() gobreaker.State {
	return c.breaker.State()
}
