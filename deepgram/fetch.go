package deepgram

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// Fetch sends a single request. *http.Client.Do satisfies it.
type Fetch func(req *http.Request) (*http.Response, error)

func DefaultFetch() Fetch {
	return http.DefaultClient.Do
}

// FetchWithAuth wraps fetch so that requests without an Authorization header
// get one derived from apiKey. A caller supplied Authorization header is left alone.
func FetchWithAuth(apiKey string, fetch Fetch) Fetch {
	if fetch == nil {
		fetch = DefaultFetch()
	}

	return func(req *http.Request) (*http.Response, error) {
		if !hasAuthorization(req.Header) {
			req = req.Clone(req.Context())
			if req.Header == nil {
				req.Header = make(http.Header)
			}
			req.Header.Set("Authorization", authorization(apiKey))
		}

		return fetch(req)
	}
}

// hasAuthorization reports whether the header is present at all, an empty value
// set by the caller still counts.
func hasAuthorization(h http.Header) bool {
	_, ok := h[http.CanonicalHeaderKey("Authorization")]
	return ok
}

// authorization keeps pre-formed bearer tokens as is, everything else uses
// the API's native Token scheme.
func authorization(apiKey string) string {
	if strings.HasPrefix(apiKey, bearerPrefix) {
		return apiKey
	}
	return "Token " + apiKey
}
