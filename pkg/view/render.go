package view

import (
	"html/template"
	"io"

	dm "github.com/makingkaiser/exa-fraud/pkg/model"
	"github.com/makingkaiser/exa-fraud/pkg/search"
)

// Page 报告页渲染数据
type Page struct {
	CarrierName string
	Report      *dm.RiskReport
	Incidents   []search.Result
}

var reportTpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"splitHeading": SplitHeading,
	"scoreColor":   ScoreColor,
	"levelColor":   LevelColor,
	"domain":       ExtractDomain,
}).Parse(reportHTML))

// RenderReport 渲染完整的报告页面。指标在渲染前重新排序。
func RenderReport(w io.Writer, page Page) error {
	sorted := *page.Report
	sorted.RiskIndicators = SortIndicators(page.Report.RiskIndicators)
	page.Report = &sorted
	return reportTpl.Execute(w, page)
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Carrier Fraud Investigator | {{.CarrierName}}</title>
    <style>
        :root {
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { margin-bottom: 40px; padding: 20px 0; }
        h1 { font-size: 2rem; margin: 0 0 10px 0; }
        h2 { font-size: 1.4rem; margin: 40px 0 16px 0; font-weight: 500; }
        .card {
            background: var(--card-bg);
            border: 1px solid var(--border-color);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
        }
        .overview { display: flex; justify-content: space-between; align-items: center; flex-wrap: wrap; gap: 20px; }
        .badge {
            display: inline-block; padding: 4px 14px; border-radius: 20px;
            font-weight: bold; font-size: 0.9rem; border: 1px solid;
        }
        .badge-green  { color: #166534; background: #dcfce7; border-color: #bbf7d0; }
        .badge-yellow { color: #854d0e; background: #fef9c3; border-color: #fef08a; }
        .badge-orange { color: #9a3412; background: #ffedd5; border-color: #fed7aa; }
        .badge-red    { color: #991b1b; background: #fee2e2; border-color: #fecaca; }
        .badge-gray   { color: #334155; background: #f1f5f9; border-color: #e2e8f0; }
        .score-wrap { text-align: center; }
        .score-num { font-size: 2rem; font-weight: 800; }
        .score-bar { width: 160px; height: 10px; background: #f1f5f9; border-radius: 5px; overflow: hidden; }
        .score-fill { height: 100%; }
        .fill-green  { background: #22c55e; }
        .fill-yellow { background: #eab308; }
        .fill-orange { background: #f97316; }
        .fill-red    { background: #ef4444; }
        .caption { font-size: 0.7rem; color: var(--text-secondary); text-transform: uppercase; letter-spacing: 0.08em; font-weight: bold; }
        .summary-item { padding: 14px 0; border-bottom: 1px solid #f1f5f9; display: flex; gap: 12px; }
        .summary-item:last-child { border-bottom: none; }
        .glyph { font-size: 1.5rem; flex-shrink: 0; }
        .summary-heading { font-weight: 600; margin-bottom: 4px; }
        .summary-text { color: #334155; font-size: 0.95rem; }
        .grid { display: grid; gap: 16px; grid-template-columns: 1fr; }
        @media (min-width: 700px) { .grid { grid-template-columns: 1fr 1fr; } .grid-3 { grid-template-columns: 1fr 1fr 1fr; } }
        .indicator { border-left: 4px solid var(--border-color); }
        .indicator-red    { border-left-color: #ef4444; background: #fef2f2; }
        .indicator-orange { border-left-color: #f97316; background: #fff7ed; }
        .indicator-yellow { border-left-color: #eab308; background: #fefce8; }
        .indicator-green  { border-left-color: #22c55e; background: #f0fdf4; }
        .indicator-head { display: flex; justify-content: space-between; align-items: center; margin-bottom: 8px; }
        .indicator-name { font-weight: 600; }
        .incident { display: block; text-decoration: none; color: inherit; }
        .incident:hover { border-color: #94a3b8; }
        .incident-title { font-weight: 500; margin-bottom: 8px; }
        .incident-meta { display: flex; justify-content: space-between; font-size: 0.8rem; color: var(--text-secondary); }
        .principal { padding: 10px 0; border-bottom: 1px solid #f1f5f9; }
        .principal:last-child { border-bottom: none; }
        .role { color: var(--text-secondary); font-size: 0.9rem; }
        .back { color: #2563eb; text-decoration: none; font-size: 0.9rem; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <a class="back" href="/">&larr; New investigation</a>
            <h1>Fraud Risk Assessment</h1>
            <div class="caption">Carrier: {{.CarrierName}} &middot; Based on official records and industry intelligence</div>
        </header>

        <div class="card overview">
            <div>
                <span class="badge badge-{{levelColor .Report.RiskLevel}}">{{.Report.RiskLevel}} Risk</span>
                <div class="caption" style="margin-top:8px">Risk Level</div>
            </div>
            <div class="score-wrap">
                <div class="score-num">{{.Report.RiskScore}}</div>
                <div class="score-bar"><div class="score-fill fill-{{scoreColor .Report.RiskScore}}" style="width: {{.Report.RiskScore}}%"></div></div>
                <div class="caption" style="margin-top:8px">Risk Score</div>
            </div>
        </div>

        <h2>Investigation Summary</h2>
        <div class="card">
            {{range .Report.Summary}}{{$h := splitHeading .Heading}}
            <div class="summary-item">
                {{if $h.Glyph}}<span class="glyph">{{$h.Glyph}}</span>{{end}}
                <div>
                    <div class="summary-heading">{{$h.Text}}</div>
                    <div class="summary-text">{{.Text}}</div>
                </div>
            </div>
            {{end}}
        </div>

        <h2>Red Flags &amp; Warning Indicators</h2>
        <div class="grid">
            {{range .Report.RiskIndicators}}
            <div class="card indicator indicator-{{levelColor .Severity}}">
                <div class="indicator-head">
                    <span class="indicator-name">{{.Indicator}}</span>
                    <span class="badge badge-{{levelColor .Severity}}">{{.Severity}}</span>
                </div>
                <div class="summary-text">{{.Description}}</div>
            </div>
            {{end}}
        </div>

        {{if .Report.Principals}}
        <h2>Key Personnel</h2>
        <div class="card">
            {{range .Report.Principals}}
            <div class="principal">
                {{if .LinkedInURL}}<a href="{{.LinkedInURL}}" target="_blank" rel="noopener noreferrer">{{.Name}}</a>{{else}}{{.Name}}{{end}}
                <span class="role">&middot; {{.Role}}</span>
            </div>
            {{end}}
        </div>
        {{end}}

        {{if .Incidents}}
        <h2>Related Intelligence &amp; Alerts</h2>
        <div class="grid grid-3">
            {{range .Incidents}}
            <a class="card incident" href="{{.URL}}" target="_blank" rel="noopener noreferrer">
                <div class="incident-title">{{.Title}}</div>
                <div class="incident-meta">
                    <span>{{domain .URL}}</span>
                    {{if .Author}}<span>via {{.Author}}</span>{{end}}
                </div>
            </a>
            {{end}}
        </div>
        {{end}}
    </div>
</body>
</html>
`
