// Package lezec is a client for the public pages of lezec.cz, the
// Czech route database. The site predates most web conventions: pages
// are served in windows-1250, user identifiers travel hex-encoded in
// query strings and the interesting data hides in one of many layout
// tables.
package lezec

import (
	"net/url"
	"time"

	"karst-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("karst.lib.scrapers.lezec")

const DefaultBaseURL = "https://www.lezec.cz"

// DefaultDelay is the politeness delay between consecutive requests
// to the site. It is a courtesy to the server, not a correctness
// requirement; tests set it to zero.
const DefaultDelay = time.Second

const requestTimeout = 30 * time.Second

type Client struct {
	http    *resty.Client
	baseURL *url.URL
	dump    *pageDump

	// Delay is observed by callers between consecutive fetches.
	Delay time.Duration
}

func NewClient(baseURL string, delay time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	http := resty.New().SetTimeout(requestTimeout)
	telemetry.InstrumentResty(http, "karst.lib.scrapers.lezec")

	return &Client{
		http:    http,
		baseURL: parsed,
		Delay:   delay,
	}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}
