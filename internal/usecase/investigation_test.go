package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makingkaiser/exa-fraud/pkg/model"
	"github.com/makingkaiser/exa-fraud/pkg/search"
)

// mockSearcher 记录全部检索请求，按查询内容分发预设结果
type mockSearcher struct {
	mu       sync.Mutex
	requests []*search.Request
	results  map[string][]search.Result // 按查询子串匹配
	err      error
}

func (m *mockSearcher) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for key, results := range m.results {
		if strings.Contains(req.Query, key) {
			return &search.Response{Results: results}, nil
		}
	}
	return &search.Response{Results: []search.Result{}}, nil
}

func (m *mockSearcher) findRequest(t *testing.T, substr string) *search.Request {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.requests {
		if strings.Contains(req.Query, substr) {
			return req
		}
	}
	t.Fatalf("no request containing %q", substr)
	return nil
}

type mockGenerator struct {
	report       *model.RiskReport
	err          error
	calls        int
	carrierName  string
	websiteURL   string
	registration []search.Result
	reputation   []search.Result
	website      []search.Result
}

func (m *mockGenerator) GenerateReport(ctx context.Context, carrierName, websiteURL string, registration, reputation, website []search.Result) (*model.RiskReport, error) {
	m.calls++
	m.carrierName = carrierName
	m.websiteURL = websiteURL
	m.registration = registration
	m.reputation = reputation
	m.website = website
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func validReport() *model.RiskReport {
	return &model.RiskReport{
		RiskScore: 40,
		RiskLevel: model.SeverityMedium,
		Summary:   []model.SummaryItem{{Heading: "📋 Registration Status", Text: "Registered."}},
	}
}

func newTestUseCase(s search.Searcher, g ReportGenerator) *InvestigationUseCase {
	return NewInvestigationUseCase(s, g, log.NewStdLogger(new(strings.Builder)))
}

func TestInvestigateMissingCarrierName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		searcher := &mockSearcher{}
		generator := &mockGenerator{report: validReport()}
		uc := newTestUseCase(searcher, generator)

		_, err := uc.Investigate(context.Background(), name, "acme.com")
		assert.ErrorIs(t, err, ErrCarrierNameRequired)
		// 参数校验失败时不得发起任何外部调用
		assert.Empty(t, searcher.requests)
		assert.Zero(t, generator.calls)
	}
}

func TestInvestigateWithoutWebsite(t *testing.T) {
	searcher := &mockSearcher{
		results: map[string][]search.Result{
			"FMCSA":      {{URL: "https://fmcsa.example.com/acme", Title: "registration"}},
			"reputation": {{URL: "https://forum.example.com/1", Title: "do not load"}},
		},
	}
	generator := &mockGenerator{report: validReport()}
	uc := newTestUseCase(searcher, generator)

	result, err := uc.Investigate(context.Background(), "Acme Logistics", "")
	require.NoError(t, err)

	// 没有网址时只有两路检索
	assert.Len(t, searcher.requests, 2)

	reg := searcher.findRequest(t, "FMCSA")
	assert.Equal(t, "Acme Logistics trucking carrier business registration safety rating history FMCSA records", reg.Query)
	assert.Equal(t, 10, reg.NumResults)
	assert.True(t, reg.Text)
	assert.True(t, reg.UseAutoprompt)

	rep := searcher.findRequest(t, "reputation")
	assert.Equal(t, "Acme Logistics carrier reputation reviews complaints suspicious activity cargo theft logistics industry forums", rep.Query)
	assert.Equal(t, 10, rep.NumResults)

	assert.Equal(t, 1, generator.calls)
	assert.Equal(t, "Acme Logistics", generator.carrierName)
	assert.Empty(t, generator.website)

	// relatedIncidents 原样透传声誉检索结果
	require.Len(t, result.RelatedIncidents, 1)
	assert.Equal(t, "https://forum.example.com/1", result.RelatedIncidents[0].URL)
	assert.Same(t, generator.report, result.Report)
}

func TestInvestigateWithWebsite(t *testing.T) {
	orig := fetchReadable
	fetchReadable = func(ctx context.Context, pageURL string) (string, error) {
		return strings.Repeat("page text ", 100), nil
	}
	defer func() { fetchReadable = orig }()

	searcher := &mockSearcher{
		results: map[string][]search.Result{
			"site:": {{URL: "https://acme.com/contact", Title: "Contact", Text: "short"}},
		},
	}
	generator := &mockGenerator{report: validReport()}
	uc := newTestUseCase(searcher, generator)

	_, err := uc.Investigate(context.Background(), "Acme Logistics", "acme.com")
	require.NoError(t, err)

	assert.Len(t, searcher.requests, 3)

	web := searcher.findRequest(t, "site:")
	assert.Equal(t, "site:acme.com contact information address phone number about us", web.Query)
	assert.Equal(t, 3, web.NumResults)
	assert.True(t, web.Text)
	assert.False(t, web.UseAutoprompt)

	// 过短的正文被补抓替换
	require.Len(t, generator.website, 1)
	assert.Contains(t, generator.website[0].Text, "page text")
	assert.Equal(t, "acme.com", generator.websiteURL)
}

func TestInvestigateSearchFailure(t *testing.T) {
	searcher := &mockSearcher{err: errors.New("exa api error (status 500)")}
	generator := &mockGenerator{report: validReport()}
	uc := newTestUseCase(searcher, generator)

	_, err := uc.Investigate(context.Background(), "Acme Logistics", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exa api error (status 500)")
	// 检索失败后不再调用生成
	assert.Zero(t, generator.calls)
}

func TestInvestigateGeneratorFailure(t *testing.T) {
	searcher := &mockSearcher{}
	generator := &mockGenerator{err: errors.New("report validation: riskScore 150 out of range")}
	uc := newTestUseCase(searcher, generator)

	_, err := uc.Investigate(context.Background(), "Acme Logistics", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate report")
	assert.Contains(t, err.Error(), "report validation")
}

func TestInvestigateEmptyReputationResults(t *testing.T) {
	searcher := &mockSearcher{}
	generator := &mockGenerator{report: validReport()}
	uc := newTestUseCase(searcher, generator)

	result, err := uc.Investigate(context.Background(), "Acme Logistics", "")
	require.NoError(t, err)
	// 无结果时返回空数组而非 null
	require.NotNil(t, result.RelatedIncidents)
	assert.Empty(t, result.RelatedIncidents)
}

func TestEnrichResults(t *testing.T) {
	orig := fetchReadable
	defer func() { fetchReadable = orig }()

	t.Run("refetches short text", func(t *testing.T) {
		fetchReadable = func(ctx context.Context, pageURL string) (string, error) {
			assert.Equal(t, "https://acme.com", pageURL)
			return strings.Repeat("a", 1000), nil
		}
		got := enrichResults(context.Background(), []search.Result{{URL: "https://acme.com", Text: "tiny"}})
		assert.Len(t, got[0].Text, 1000)
	})

	t.Run("keeps original on fetch error", func(t *testing.T) {
		fetchReadable = func(ctx context.Context, pageURL string) (string, error) {
			return "", errors.New("timeout")
		}
		got := enrichResults(context.Background(), []search.Result{{URL: "https://acme.com", Text: "tiny"}})
		assert.Equal(t, "tiny", got[0].Text)
	})

	t.Run("truncates long text", func(t *testing.T) {
		fetchReadable = func(ctx context.Context, pageURL string) (string, error) {
			t.Fatal("must not refetch long text")
			return "", nil
		}
		got := enrichResults(context.Background(), []search.Result{{URL: "https://acme.com", Text: strings.Repeat("b", maxTextLen+100)}})
		assert.Len(t, got[0].Text, maxTextLen)
	})

	t.Run("forwards caller context", func(t *testing.T) {
		type key struct{}
		fetchReadable = func(ctx context.Context, pageURL string) (string, error) {
			assert.Equal(t, "v", ctx.Value(key{}))
			return strings.Repeat("a", 1000), nil
		}
		ctx := context.WithValue(context.Background(), key{}, "v")
		enrichResults(ctx, []search.Result{{URL: "https://acme.com", Text: "tiny"}})
	})
}

func TestFetchReadableHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetchReadable(ctx, "http://127.0.0.1:0/none")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
