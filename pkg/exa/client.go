package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/makingkaiser/exa-fraud/pkg/search"
)

const defaultBaseURL = "https://api.exa.ai/search"

// Client Exa API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Exa 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	exaReq := SearchRequest{
		Query:         req.Query,
		NumResults:    req.NumResults,
		UseAutoprompt: req.UseAutoprompt,
	}
	if req.Text {
		exaReq.Contents = &ContentsRequest{Text: true}
	}

	resp, err := c.doSearch(ctx, exaReq)
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, search.Result{
			URL:           r.URL,
			Title:         r.Title,
			Author:        r.Author,
			Text:          r.Text,
			PublishedDate: r.PublishedDate,
			Score:         r.Score,
		})
	}

	return &search.Response{Results: results}, nil
}

// SearchRequest Exa 搜索请求参数
type SearchRequest struct {
	Query         string           `json:"query"`
	NumResults    int              `json:"numResults,omitempty"`
	UseAutoprompt bool             `json:"useAutoprompt,omitempty"`
	Type          string           `json:"type,omitempty"` // neural, keyword or auto
	Contents      *ContentsRequest `json:"contents,omitempty"`
}

// ContentsRequest 控制是否返回页面正文
type ContentsRequest struct {
	Text bool `json:"text,omitempty"`
}

// SearchResponse Exa 搜索响应
type SearchResponse struct {
	Results          []SearchResult `json:"results"`
	AutopromptString string         `json:"autopromptString,omitempty"`
}

// SearchResult 单个搜索结果
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Author        string  `json:"author"`
	Text          string  `json:"text"`
	PublishedDate string  `json:"publishedDate"`
	Score         float64 `json:"score"`
}

// doSearch 执行搜索 (Internal)
func (c *Client) doSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Add("x-api-key", c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	return &searchResp, nil
}
