package web

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 请求体结构。所有路由都带 dealerType，由注册表解析成会话。

type dealerRequest struct {
	DealerType string `json:"dealerType" binding:"required"`
}

type symbolRequest struct {
	DealerType string `json:"dealerType" binding:"required"`
	Symbol     string `json:"symbol" binding:"required"`
}

// 数值字段不挂 required：binding 的 required 会把合法的零值当缺失拒掉
// （count=0、dateFrom=0、stopLossValue=0 清止损都是合法输入）。

type updateStopLossRequest struct {
	DealerType    string  `json:"dealerType" binding:"required"`
	Identifier    int64   `json:"identifier" binding:"required"`
	StopLossValue float64 `json:"stopLossValue"`
}

type openPositionRequest struct {
	DealerType string  `json:"dealerType" binding:"required"`
	Symbol     string  `json:"symbol" binding:"required"`
	Action     string  `json:"action" binding:"required"`
	Volume     float64 `json:"volume" binding:"required"`
	StopLoss   float64 `json:"stopLoss"`
}

type lastQuotesRequest struct {
	DealerType string   `json:"dealerType" binding:"required"`
	Symbols    []string `json:"symbols" binding:"required"`
	Timeframe  string   `json:"timeframe" binding:"required"`
	Count      int      `json:"count"`
}

type quotesRequest struct {
	DealerType string `json:"dealerType" binding:"required"`
	Symbol     string `json:"symbol" binding:"required"`
	Timeframe  string `json:"timeframe" binding:"required"`
	Count      int    `json:"count"`
}

type rangeQuotesRequest struct {
	DealerType string `json:"dealerType" binding:"required"`
	Symbol     string `json:"symbol" binding:"required"`
	Timeframe  string `json:"timeframe" binding:"required"`
	DateFrom   int64  `json:"dateFrom"`
	DateTo     int64  `json:"dateTo"`
}

type calcProfitRequest struct {
	DealerType string  `json:"dealerType" binding:"required"`
	Symbol     string  `json:"symbol" binding:"required"`
	Action     string  `json:"action" binding:"required"`
	Volume     float64 `json:"volume" binding:"required"`
	PriceOpen  float64 `json:"priceOpen" binding:"required"`
	PriceClose float64 `json:"priceClose" binding:"required"`
}

type calcMarginRequest struct {
	DealerType string  `json:"dealerType" binding:"required"`
	Symbol     string  `json:"symbol" binding:"required"`
	Action     string  `json:"action" binding:"required"`
	Volume     float64 `json:"volume" binding:"required"`
	PriceOpen  float64 `json:"priceOpen" binding:"required"`
}

type orderCheckRequest struct {
	DealerType string  `json:"dealerType" binding:"required"`
	Symbol     string  `json:"symbol" binding:"required"`
	Action     string  `json:"action" binding:"required"`
	Volume     float64 `json:"volume" binding:"required"`
	StopLoss   float64 `json:"stopLoss"`
}

type historyRequest struct {
	DealerType string `json:"dealerType" binding:"required"`
	DateFrom   int64  `json:"dateFrom"`
}

// volumeStep 最小手数步长，边界侧的基本合法性检查（具体品种的限制由终端校验）
var volumeStep = decimal.NewFromFloat(0.01)

func validateVolume(v float64) error {
	vol := decimal.NewFromFloat(v)
	if vol.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("volume must be positive, got %v", v)
	}
	if !vol.Mod(volumeStep).IsZero() {
		return fmt.Errorf("volume %v is not a multiple of %s", v, volumeStep)
	}
	return nil
}
