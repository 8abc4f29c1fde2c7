package terminal

// 终端返回的原始元组结构。字段名保持终端的 lower_snake 约定，
// 对外暴露前由 internal/domain 逐字段翻译成领域快照。

// Version 终端版本
type Version struct {
	MTVersion   int    `json:"mt_version"`
	Build       int    `json:"build"`
	ReleaseDate string `json:"release_date"`
}

// Rate 一根 K 线：time/open/high/low/close + 量价附加字段
type Rate struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	TickVolume int64   `json:"tick_volume"`
	Spread     int     `json:"spread"`
	RealVolume int64   `json:"real_volume"`
}

// PositionData 持仓元组
type PositionData struct {
	Ticket       int64   `json:"ticket"`
	Time         int64   `json:"time"`
	TimeUpdate   int64   `json:"time_update"`
	Type         int     `json:"type"`
	Magic        int64   `json:"magic"`
	Identifier   int64   `json:"identifier"`
	Reason       int     `json:"reason"`
	Volume       float64 `json:"volume"`
	PriceOpen    float64 `json:"price_open"`
	SL           float64 `json:"sl"`
	TP           float64 `json:"tp"`
	PriceCurrent float64 `json:"price_current"`
	Swap         float64 `json:"swap"`
	Profit       float64 `json:"profit"`
	Symbol       string  `json:"symbol"`
	Comment      string  `json:"comment"`
	ExternalID   string  `json:"external_id"`
}

// DealData 成交元组
type DealData struct {
	Ticket     int64   `json:"ticket"`
	Order      int64   `json:"order"`
	Time       int64   `json:"time"`
	Type       int     `json:"type"`
	Entry      int     `json:"entry"`
	Magic      int64   `json:"magic"`
	Reason     int     `json:"reason"`
	PositionID int64   `json:"position_id"`
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`
	Profit     float64 `json:"profit"`
	Fee        float64 `json:"fee"`
	Symbol     string  `json:"symbol"`
	Comment    string  `json:"comment"`
	ExternalID string  `json:"external_id"`
}

// 交易请求动作
const (
	TradeActionDeal = 1 // 市价成交
	TradeActionSLTP = 6 // 修改持仓的止损/止盈
)

// 订单执行方式
const (
	OrderFillingFOK    = 0
	OrderFillingIOC    = 1
	OrderFillingReturn = 2
)

// TradeRetcodeDone 交易请求完成
const TradeRetcodeDone = 10009

// OrderRequest 交易请求
type OrderRequest struct {
	Action    int     `json:"action"`
	Symbol    string  `json:"symbol"`
	Volume    float64 `json:"volume,omitempty"`
	Type      int     `json:"type"`
	Position  int64   `json:"position,omitempty"`
	Price     float64 `json:"price,omitempty"`
	SL        float64 `json:"sl,omitempty"`
	TP        float64 `json:"tp,omitempty"`
	Deviation int     `json:"deviation,omitempty"`
	Filling   int     `json:"type_filling,omitempty"`
}
