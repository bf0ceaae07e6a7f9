// Package translate provides best-effort machine translation of contact
// messages into Korean via the MyMemory API.
package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// FailureSentinel is returned in place of a translation whenever the
// provider is unreachable or returns an unusable result. It signals
// "translation unavailable" without failing the surrounding operation.
const FailureSentinel = "(자동 번역 실패 - 원문 확인)"

const defaultBaseURL = "https://api.mymemory.translated.net"

// Client calls the MyMemory translation API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a translation client with default timeouts.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

type translateResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// ToKorean translates text into Korean. Korean or empty input is returned
// as-is. Every failure mode returns FailureSentinel; this function never
// fails the caller's operation.
func (c *Client) ToKorean(ctx context.Context, text, fromLang string) string {
	if fromLang == "ko" || text == "" {
		return text
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", fromLang+"|ko")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return FailureSentinel
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return FailureSentinel
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailureSentinel
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return FailureSentinel
	}

	translated := out.ResponseData.TranslatedText
	if translated == "" || translated == text {
		return FailureSentinel
	}
	return translated
}
