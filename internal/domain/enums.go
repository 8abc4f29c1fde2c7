package domain

import "fmt"

// OrderType 终端订单类型
type OrderType int

const (
	OrderTypeBuy           OrderType = 0 // 市价买入
	OrderTypeSell          OrderType = 1 // 市价卖出
	OrderTypeBuyLimit      OrderType = 2
	OrderTypeSellLimit     OrderType = 3
	OrderTypeBuyStop       OrderType = 4
	OrderTypeSellStop      OrderType = 5
	OrderTypeBuyStopLimit  OrderType = 6
	OrderTypeSellStopLimit OrderType = 7
	OrderTypeCloseBy       OrderType = 8
)

var orderTypeNames = map[string]OrderType{
	"ORDER_TYPE_BUY":             OrderTypeBuy,
	"ORDER_TYPE_SELL":            OrderTypeSell,
	"ORDER_TYPE_BUY_LIMIT":       OrderTypeBuyLimit,
	"ORDER_TYPE_SELL_LIMIT":      OrderTypeSellLimit,
	"ORDER_TYPE_BUY_STOP":        OrderTypeBuyStop,
	"ORDER_TYPE_SELL_STOP":       OrderTypeSellStop,
	"ORDER_TYPE_BUY_STOP_LIMIT":  OrderTypeBuyStopLimit,
	"ORDER_TYPE_SELL_STOP_LIMIT": OrderTypeSellStopLimit,
	"ORDER_TYPE_CLOSE_BY":        OrderTypeCloseBy,
}

// ParseOrderType 按终端枚举名解析订单类型
func ParseOrderType(name string) (OrderType, error) {
	t, ok := orderTypeNames[name]
	if !ok {
		return 0, fmt.Errorf("未知的订单类型 %q", name)
	}
	return t, nil
}

// Timeframe 行情周期
type Timeframe int

// 终端的周期常量：分钟级直接用分钟数，小时级以上带标志位
const (
	TimeframeM1  Timeframe = 1
	TimeframeM2  Timeframe = 2
	TimeframeM3  Timeframe = 3
	TimeframeM4  Timeframe = 4
	TimeframeM5  Timeframe = 5
	TimeframeM6  Timeframe = 6
	TimeframeM10 Timeframe = 10
	TimeframeM12 Timeframe = 12
	TimeframeM15 Timeframe = 15
	TimeframeM20 Timeframe = 20
	TimeframeM30 Timeframe = 30
	TimeframeH1  Timeframe = 16385
	TimeframeH2  Timeframe = 16386
	TimeframeH3  Timeframe = 16387
	TimeframeH4  Timeframe = 16388
	TimeframeH6  Timeframe = 16390
	TimeframeH8  Timeframe = 16392
	TimeframeH12 Timeframe = 16396
	TimeframeD1  Timeframe = 16408
	TimeframeW1  Timeframe = 32769
	TimeframeMN1 Timeframe = 49153
)

var timeframeNames = map[string]Timeframe{
	"M1":  TimeframeM1,
	"M2":  TimeframeM2,
	"M3":  TimeframeM3,
	"M4":  TimeframeM4,
	"M5":  TimeframeM5,
	"M6":  TimeframeM6,
	"M10": TimeframeM10,
	"M12": TimeframeM12,
	"M15": TimeframeM15,
	"M20": TimeframeM20,
	"M30": TimeframeM30,
	"H1":  TimeframeH1,
	"H2":  TimeframeH2,
	"H3":  TimeframeH3,
	"H4":  TimeframeH4,
	"H6":  TimeframeH6,
	"H8":  TimeframeH8,
	"H12": TimeframeH12,
	"D1":  TimeframeD1,
	"W1":  TimeframeW1,
	"MN1": TimeframeMN1,
}

// ParseTimeframe 按名称（M1/M5/H1/D1...）解析行情周期
func ParseTimeframe(name string) (Timeframe, error) {
	tf, ok := timeframeNames[name]
	if !ok {
		return 0, fmt.Errorf("未知的行情周期 %q", name)
	}
	return tf, nil
}
