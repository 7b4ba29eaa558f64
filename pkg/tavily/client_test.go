package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makingkaiser/exa-fraud/pkg/search"
)

func TestSearchMapsRequestAndResults(t *testing.T) {
	var gotReq SearchRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Results: []SearchResult{
				{Title: "t1", URL: "https://example.com/1", Content: "snippet", RawContent: "full page text"},
				{Title: "t2", URL: "https://example.com/2", Content: "snippet only"},
			},
		})
	}))
	defer ts.Close()

	c := NewClient("test-key")
	c.baseURL = ts.URL

	resp, err := c.Search(context.Background(), &search.Request{Query: "acme", NumResults: 7, Text: true})
	require.NoError(t, err)

	assert.Equal(t, "acme", gotReq.Query)
	assert.Equal(t, 7, gotReq.MaxResults)
	assert.True(t, gotReq.IncludeRawContent)

	require.Len(t, resp.Results, 2)
	// raw_content 优先，缺失时回退 content
	assert.Equal(t, "full page text", resp.Results[0].Text)
	assert.Equal(t, "snippet only", resp.Results[1].Text)
}

func TestSearchAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer ts.Close()

	c := NewClient("test-key")
	c.baseURL = ts.URL

	_, err := c.Search(context.Background(), &search.Request{Query: "acme"})
	assert.ErrorContains(t, err, "tavily api error (status 429)")
}
