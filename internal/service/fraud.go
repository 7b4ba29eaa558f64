package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/makingkaiser/exa-fraud/pkg/model"
)

// Investigator 调查业务逻辑接口，由使用方定义
type Investigator interface {
	Investigate(ctx context.Context, carrierName, websiteURL string) (*model.InvestigationResult, error)
}

// DetectRequest 欺诈检测请求体
type DetectRequest struct {
	CarrierName string `json:"carrierName"`
	WebsiteURL  string `json:"websiteUrl,omitempty"`
}

// FraudService 欺诈检测对外服务
type FraudService struct {
	uc  Investigator
	log *log.Helper
}

// NewFraudService 创建欺诈检测服务实例
func NewFraudService(uc Investigator, logger log.Logger) *FraudService {
	return &FraudService{uc: uc, log: log.NewHelper(logger)}
}

// Detect 执行一次欺诈调查
func (s *FraudService) Detect(ctx context.Context, req *DetectRequest) (*model.InvestigationResult, error) {
	return s.uc.Investigate(ctx, req.CarrierName, req.WebsiteURL)
}
