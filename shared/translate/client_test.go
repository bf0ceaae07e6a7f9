package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func translateServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithBaseURL(server.URL)
}

func TestToKoreanSuccess(t *testing.T) {
	client := translateServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Hello", r.URL.Query().Get("q"))
		assert.Equal(t, "en|ko", r.URL.Query().Get("langpair"))
		w.Write([]byte(`{"responseData":{"translatedText":"안녕하세요"}}`))
	})

	out := client.ToKorean(context.Background(), "Hello", "en")
	assert.Equal(t, "안녕하세요", out)
}

func TestToKoreanPassthrough(t *testing.T) {
	client := NewClientWithBaseURL("http://127.0.0.1:1") // must not be called

	assert.Equal(t, "안녕", client.ToKorean(context.Background(), "안녕", "ko"))
	assert.Equal(t, "", client.ToKorean(context.Background(), "", "en"))
}

func TestToKoreanFailuresReturnSentinel(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClientWithBaseURL("http://127.0.0.1:1")
		assert.Equal(t, FailureSentinel, client.ToKorean(context.Background(), "Hello", "en"))
	})

	t.Run("non-2xx", func(t *testing.T) {
		client := translateServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		assert.Equal(t, FailureSentinel, client.ToKorean(context.Background(), "Hello", "en"))
	})

	t.Run("malformed body", func(t *testing.T) {
		client := translateServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})
		assert.Equal(t, FailureSentinel, client.ToKorean(context.Background(), "Hello", "en"))
	})

	t.Run("empty result", func(t *testing.T) {
		client := translateServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"responseData":{"translatedText":""}}`))
		})
		assert.Equal(t, FailureSentinel, client.ToKorean(context.Background(), "Hello", "en"))
	})

	t.Run("unchanged result", func(t *testing.T) {
		client := translateServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"responseData":{"translatedText":"Hello"}}`))
		})
		assert.Equal(t, FailureSentinel, client.ToKorean(context.Background(), "Hello", "en"))
	})
}
