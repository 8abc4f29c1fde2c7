package terminal

import "fmt"

// API 是终端 SDK 的调用面。它是外部的、同步阻塞的、单句柄的：
// 任何调用都可能返回缺失结果，此时通过 LastError 这个旁路通道取诊断信息。
// 这里不重新实现 SDK，只约定边界。
type API interface {
	// Initialize 连接指定路径的终端实例，失败返回 false（诊断走 LastError）
	Initialize(path string) bool
	// Shutdown 断开当前连接
	Shutdown()

	// Version 终端版本信息，nil 表示调用失败
	Version() *Version
	// TerminalInfo 终端状态快照（lower_snake 键）
	TerminalInfo() map[string]any
	// AccountInfo 账户状态快照（lower_snake 键）
	AccountInfo() map[string]any

	// PositionsGet 当前全部持仓，nil 表示调用失败（空切片表示无持仓）
	PositionsGet() []PositionData
	// SymbolsGet 全部交易品种（lower_snake 键）
	SymbolsGet() []map[string]any
	// SymbolInfo 单个品种信息（lower_snake 键）
	SymbolInfo(symbol string) map[string]any

	// CopyRatesFromPos 按位置取历史行情，最新在前；单次调用最多返回 MaxRatesPerCall 条
	CopyRatesFromPos(symbol string, timeframe, start, count int) []Rate
	// CopyRatesRange 按终端时间范围取历史行情
	CopyRatesRange(symbol string, timeframe int, dateFrom, dateTo int64) []Rate

	// OrderSend 发送交易请求，nil 表示调用失败（lower_snake 键）
	OrderSend(req OrderRequest) map[string]any
	// OrderCheck 校验交易请求（lower_snake 键）
	OrderCheck(req OrderRequest) map[string]any
	// OrderCalcProfit 估算平仓收益，第二个返回值为 false 表示调用失败
	OrderCalcProfit(orderType int, symbol string, volume, priceOpen, priceClose float64) (float64, bool)
	// OrderCalcMargin 估算开仓保证金
	OrderCalcMargin(orderType int, symbol string, volume, price float64) (float64, bool)

	// HistoryDealsGet 按终端时间范围取成交历史，nil 表示调用失败
	HistoryDealsGet(dateFrom, dateTo int64) []DealData
	// HistoryOrdersGet 按终端时间范围取委托历史（lower_snake 键）
	HistoryOrdersGet(dateFrom, dateTo int64) []map[string]any

	// LastError 最近一次调用失败的诊断 (code, message)
	LastError() (int, string)
}

// MaxRatesPerCall 终端单次行情调用的硬上限
const MaxRatesPerCall = 5000

// ErrCodeNotConnected 终端「未连接」哨兵错误码。
// 碰到这个码说明终端进程不可达，需要走断开重连路径；其它错误码一律原样上抛。
const ErrCodeNotConnected = -10001

// Error 终端诊断错误
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error - %s (code:%d)", e.Message, e.Code)
}

// LastErrorOf 把 LastError 通道的内容包成 *Error
func LastErrorOf(api API) *Error {
	code, msg := api.LastError()
	return &Error{Code: code, Message: msg}
}
