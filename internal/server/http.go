package server

import (
	"embed"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/makingkaiser/exa-fraud/internal/conf"
	"github.com/makingkaiser/exa-fraud/internal/service"
	"github.com/makingkaiser/exa-fraud/internal/usecase"
	"github.com/makingkaiser/exa-fraud/pkg/view"
)

//go:embed assets/*
var assets embed.FS

// errorBody 错误响应体
type errorBody struct {
	Error string `json:"error"`
}

// NewHTTPServer 创建 HTTP 服务
func NewHTTPServer(c *conf.Server, svc *service.FraudService, logger log.Logger) *http.Server {
	helper := log.NewHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	srv.HandleFunc("/api/fraud/detect", detectHandler(svc, helper))
	srv.HandleFunc("/investigate", investigateHandler(svc, helper))
	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve Static Assets (HTML)
	srv.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/" {
			nethttp.NotFound(w, r)
			return
		}
		content, _ := assets.ReadFile("assets/index.html")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(content)
	})

	return srv
}

// detectHandler JSON API：POST /api/fraud/detect
func detectHandler(svc *service.FraudService, helper *log.Helper) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeJSON(w, nethttp.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
			return
		}

		var req service.DetectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, nethttp.StatusBadRequest, errorBody{Error: "invalid request body"})
			return
		}

		result, err := svc.Detect(r.Context(), &req)
		if err != nil {
			writeDetectError(w, helper, err)
			return
		}

		writeJSON(w, nethttp.StatusOK, result)
	}
}

// investigateHandler 浏览器表单入口：POST /investigate，渲染完整报告页
func investigateHandler(svc *service.FraudService, helper *log.Helper) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			nethttp.Redirect(w, r, "/", nethttp.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			nethttp.Error(w, "invalid form", nethttp.StatusBadRequest)
			return
		}

		req := &service.DetectRequest{
			CarrierName: r.FormValue("carrierName"),
			WebsiteURL:  r.FormValue("websiteUrl"),
		}

		result, err := svc.Detect(r.Context(), req)
		if err != nil {
			if errors.Is(err, usecase.ErrCarrierNameRequired) {
				nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
				return
			}
			helper.Errorf("Fraud Detection failed: %v", err)
			nethttp.Error(w, "Fraud Detection API Failed | "+err.Error(), nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := view.RenderReport(w, view.Page{
			CarrierName: req.CarrierName,
			Report:      result.Report,
			Incidents:   result.RelatedIncidents,
		}); err != nil {
			helper.Errorf("render report page: %v", err)
		}
	}
}

// writeDetectError 按错误类别映射状态码：客户端输入错误 400，其余一律 500
func writeDetectError(w nethttp.ResponseWriter, helper *log.Helper, err error) {
	if errors.Is(err, usecase.ErrCarrierNameRequired) {
		writeJSON(w, nethttp.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	helper.Errorf("Fraud Detection API error: %v", err)
	writeJSON(w, nethttp.StatusInternalServerError, errorBody{Error: "Fraud Detection API Failed | " + err.Error()})
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
