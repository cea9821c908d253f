package zendesk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/benjaminestes/robots"
)

// ErrRobotsDisallowed is returned for URLs the help center's robots.txt
// forbids for our user agent.
var ErrRobotsDisallowed = errors.New("zendesk: disallowed by robots.txt")

// ClientConfig configures page fetching.
type ClientConfig struct {
	UserAgent string
	// IgnoreRobots skips the robots.txt check before fetching.
	IgnoreRobots bool
	// Timeout applies only when NewClient builds its own http.Client.
	Timeout time.Duration
}

// Client fetches help-center pages over plain HTTP. The *http.Client is
// owned by the caller so one session (timeouts, transport, cookies) can be
// shared across the scraper, the freshness fetcher and the workers.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	ignoreRobots bool

	mu          sync.Mutex
	robotsCache map[string]*robots.Robots
}

func NewClient(httpClient *http.Client, cfg ClientConfig) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient:   httpClient,
		userAgent:    cfg.UserAgent,
		ignoreRobots: cfg.IgnoreRobots,
		robotsCache:  make(map[string]*robots.Robots),
	}
}

// Get fetches one page, honoring robots.txt unless the client was
// configured to ignore it.
func (c *Client) Get(ctx context.Context, pageURL string) ([]byte, error) {
	if !c.ignoreRobots && !c.allowed(pageURL) {
		return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zendesk: get %s: status %d", pageURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// allowed consults robots.txt for the page's host, caching one parsed
// policy per robots URL. Unreachable or unparsable policies allow the
// fetch.
func (c *Client) allowed(pageURL string) bool {
	robotsURL, err := robots.Locate(pageURL)
	if err != nil {
		return true
	}

	c.mu.Lock()
	r, ok := c.robotsCache[robotsURL]
	c.mu.Unlock()
	if !ok {
		r, err = c.fetchRobots(robotsURL)
		if err != nil {
			slog.Warn("failed to fetch robots.txt, assuming allowed", "url", robotsURL, "error", err)
			r = nil
		}
		c.mu.Lock()
		c.robotsCache[robotsURL] = r
		c.mu.Unlock()
	}
	if r == nil {
		return true
	}
	return r.Test(c.userAgent, pageURL)
}

func (c *Client) fetchRobots(robotsURL string) (*robots.Robots, error) {
	resp, err := c.httpClient.Get(robotsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return robots.From(resp.StatusCode, bytes.NewReader(body))
}

// Normalize canonicalizes article URLs so the visited set and the cached
// article lookup agree on one spelling.
func Normalize(rawURL string) (string, error) {
	flags := purell.FlagLowercaseScheme |
		purell.FlagLowercaseHost |
		purell.FlagRemoveDefaultPort |
		purell.FlagRemoveFragment |
		purell.FlagDecodeUnnecessaryEscapes |
		purell.FlagSortQuery |
		purell.FlagRemoveDuplicateSlashes |
		purell.FlagRemoveDotSegments

	return purell.NormalizeURLString(rawURL, flags)
}
