package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/i474232898/radar-overlay/internal/radar"
)

// DefaultJMAFeedURL lists the available high-resolution precipitation nowcast frames.
const DefaultJMAFeedURL = "https://www.jma.go.jp/bosai/jmatile/data/nowc/targetTimes_N1.json"

var validate = validator.New()

// targetTime is one raw feed entry. Other fields (elements, etc.) are ignored.
type targetTime struct {
	BaseTime  string `json:"basetime" validate:"required,len=14,numeric"`
	ValidTime string `json:"validtime" validate:"required,len=14,numeric"`
}

// JMAProvider implements radar.FeedProvider for the Japan Meteorological Agency nowcast feed.
type JMAProvider struct {
	name    string
	feedURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var _ radar.FeedProvider = (*JMAProvider)(nil)

// NewJMAProvider creates a feed client. An empty feedURL uses DefaultJMAFeedURL.
func NewJMAProvider(client *http.Client, feedURL string) *JMAProvider {
	if feedURL == "" {
		feedURL = DefaultJMAFeedURL
	}
	return &JMAProvider{
		name:    "jma-nowcast",
		feedURL: feedURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newBreaker("jma-nowcast"),
	}
}

// WithBackoff replaces the retry policy.
func (p *JMAProvider) WithBackoff(b BackoffConfig) *JMAProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *JMAProvider) Name() string {
	return p.name
}

// FetchTargetTimes downloads and parses the feed. Transport failures are
// radar.ErrFeedUnavailable; decode and schema failures are radar.ErrFeedMalformed.
func (p *JMAProvider) FetchTargetTimes(ctx context.Context) (radar.Feed, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, p.feedURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", radar.ErrFeedUnavailable, p.name, err)
	}
	defer resp.Body.Close()

	var payload []targetTime
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", radar.ErrFeedMalformed, p.name, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: %s: expected a JSON array, got null", radar.ErrFeedMalformed, p.name)
	}

	return parseTargetTimes(payload)
}

func parseTargetTimes(payload []targetTime) (radar.Feed, error) {
	feed := make(radar.Feed, 0, len(payload))
	for i, entry := range payload {
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", radar.ErrFeedMalformed, i, err)
		}

		base, err := radar.ParseTimestamp(entry.BaseTime)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", radar.ErrFeedMalformed, i, err)
		}
		valid, err := radar.ParseTimestamp(entry.ValidTime)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", radar.ErrFeedMalformed, i, err)
		}

		feed = append(feed, radar.Snapshot{BaseTime: base, ValidTime: valid})
	}
	return feed, nil
}
