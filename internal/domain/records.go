package domain

import (
	"time"

	"github.com/betbot/mt5gate/internal/terminal"
	"github.com/betbot/mt5gate/pkg/mttime"
)

// 领域快照：在调用瞬间从终端元组逐字段翻译而来，之后与连接再无关系。
// 时间字段一律经 mttime 修正成真实 UTC。

// OpenPosition 持仓快照
type OpenPosition struct {
	Ticket       int64     `json:"ticket"`
	Time         time.Time `json:"time"`
	TimeUpdate   time.Time `json:"timeUpdate"`
	Type         int       `json:"type"`
	Magic        int64     `json:"magic"`
	Identifier   int64     `json:"identifier"`
	Reason       int       `json:"reason"`
	Volume       float64   `json:"volume"`
	PriceOpen    float64   `json:"priceOpen"`
	StopLoss     float64   `json:"stopLoss"`
	TakeProfit   float64   `json:"takeProfit"`
	PriceCurrent float64   `json:"priceCurrent"`
	Swap         float64   `json:"swap"`
	Profit       float64   `json:"profit"`
	Symbol       string    `json:"symbol"`
	Comment      string    `json:"comment"`
	ExternalID   string    `json:"externalId"`
}

// NewOpenPosition 从持仓元组构造快照
func NewOpenPosition(p terminal.PositionData) OpenPosition {
	return OpenPosition{
		Ticket:       p.Ticket,
		Time:         mttime.TerminalToUTC(p.Time),
		TimeUpdate:   mttime.TerminalToUTC(p.TimeUpdate),
		Type:         p.Type,
		Magic:        p.Magic,
		Identifier:   p.Identifier,
		Reason:       p.Reason,
		Volume:       p.Volume,
		PriceOpen:    p.PriceOpen,
		StopLoss:     p.SL,
		TakeProfit:   p.TP,
		PriceCurrent: p.PriceCurrent,
		Swap:         p.Swap,
		Profit:       p.Profit,
		Symbol:       p.Symbol,
		Comment:      p.Comment,
		ExternalID:   p.ExternalID,
	}
}

// NewOpenPositions 批量构造持仓快照
func NewOpenPositions(ps []terminal.PositionData) []OpenPosition {
	out := make([]OpenPosition, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewOpenPosition(p))
	}
	return out
}

// Deal 成交快照
type Deal struct {
	Ticket     int64     `json:"ticket"`
	Order      int64     `json:"order"`
	Time       time.Time `json:"time"`
	Type       int       `json:"type"`
	Entry      int       `json:"entry"`
	Magic      int64     `json:"magic"`
	Reason     int       `json:"reason"`
	PositionID int64     `json:"positionId"`
	Volume     float64   `json:"volume"`
	Price      float64   `json:"price"`
	Commission float64   `json:"commission"`
	Swap       float64   `json:"swap"`
	Profit     float64   `json:"profit"`
	Fee        float64   `json:"fee"`
	Symbol     string    `json:"symbol"`
	Comment    string    `json:"comment"`
	ExternalID string    `json:"externalId"`
}

// NewDeal 从成交元组构造快照
func NewDeal(d terminal.DealData) Deal {
	return Deal{
		Ticket:     d.Ticket,
		Order:      d.Order,
		Time:       mttime.TerminalToUTC(d.Time),
		Type:       d.Type,
		Entry:      d.Entry,
		Magic:      d.Magic,
		Reason:     d.Reason,
		PositionID: d.PositionID,
		Volume:     d.Volume,
		Price:      d.Price,
		Commission: d.Commission,
		Swap:       d.Swap,
		Profit:     d.Profit,
		Fee:        d.Fee,
		Symbol:     d.Symbol,
		Comment:    d.Comment,
		ExternalID: d.ExternalID,
	}
}

// NewDeals 批量构造成交快照
func NewDeals(ds []terminal.DealData) []Deal {
	out := make([]Deal, 0, len(ds))
	for _, d := range ds {
		out = append(out, NewDeal(d))
	}
	return out
}

// Quote 行情快照（只保留 OHLC）
type Quote struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// NewQuote 从 K 线构造行情快照
func NewQuote(r terminal.Rate) Quote {
	return Quote{
		Date:  mttime.TerminalToUTC(r.Time),
		Open:  r.Open,
		High:  r.High,
		Low:   r.Low,
		Close: r.Close,
	}
}

// NewQuotes 批量构造行情快照，保持终端返回的顺序（最新在前），不重排
func NewQuotes(rs []terminal.Rate) []Quote {
	out := make([]Quote, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewQuote(r))
	}
	return out
}
