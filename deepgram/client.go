package deepgram

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const DefaultURL = "https://api.deepgram.com"

var schemeRegexp = regexp.MustCompile(`(?i)^https?://`)

type ClientOptions struct {
	// On-prem and other environments, a missing scheme means https
	URL     string            `env:"URL"`
	Headers map[string]string `env:"HEADERS"`
	// Defaults to http.DefaultClient
	Fetch Fetch
}

type ClientOption func(*Client)

func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		c.log = log.Named("deepgram")
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.rawFetch = client.Do
	}
}

// Client holds configuration shared by the service clients. It is not
// modified after NewClient returns.
type Client struct {
	log *zap.Logger

	apiKey   string
	url      *url.URL
	headers  http.Header
	rawFetch Fetch
	fetch    Fetch
}

func applyDefaults(options ClientOptions) ClientOptions {
	if options.URL == "" {
		options.URL = DefaultURL
	}
	headers := make(map[string]string, len(options.Headers))
	for k, v := range options.Headers {
		headers[k] = v
	}
	options.Headers = headers
	if options.Fetch == nil {
		options.Fetch = DefaultFetch()
	}
	return options
}

func NewClient(apiKey string, options ClientOptions, extraOptions ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	settings := applyDefaults(options)

	baseURL, err := normalizeURL(settings.URL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		log:      zap.NewNop(),
		apiKey:   apiKey,
		url:      baseURL,
		headers:  make(http.Header, len(settings.Headers)),
		rawFetch: settings.Fetch,
	}
	for k, v := range settings.Headers {
		c.headers.Set(k, v)
	}
	for _, option := range extraOptions {
		option(c)
	}

	c.fetch = FetchWithAuth(apiKey, c.rawFetch)

	c.log.Debug("client created", zap.String("url", c.url.String()))

	return c, nil
}

func normalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingURL
	}

	if !schemeRegexp.MatchString(raw) {
		raw = "https://" + raw
	}
	raw = strings.TrimSuffix(raw, "/")

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}

	return u, nil
}

// URL returns a copy of the normalized base URL.
func (c *Client) URL() *url.URL {
	u := *c.url
	return &u
}

func (c *Client) Headers() http.Header {
	return c.headers.Clone()
}

// Listen returns a new transcription client. Calling it repeatedly is cheap.
func (c *Client) Listen() *ListenClient {
	return &ListenClient{
		log:     c.log.Named("listen"),
		apiKey:  c.apiKey,
		url:     c.url,
		headers: c.headers,
		fetch:   c.fetch,
	}
}
