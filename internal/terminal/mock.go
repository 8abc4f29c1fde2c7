package terminal

import "sync"

// MockAPI 测试用终端：记录调用次数，支持按方法注入一串失败。
// 失败队列里的每个元素对应该方法的一次调用：非 nil 表示这次调用失败并把
// 诊断写入 LastError，nil 表示这次调用成功。队列耗尽后全部成功。
type MockAPI struct {
	mu sync.Mutex

	// 调用计数
	Calls map[string]int

	// 按方法注入的失败序列
	FailQueue map[string][]*Error

	// 响应数据
	InitOK         bool
	VersionResp    *Version
	TerminalResp   map[string]any
	AccountResp    map[string]any
	PositionsResp  []PositionData
	SymbolsResp    []map[string]any
	SymbolInfoResp map[string]any
	RatesResp      map[string][]Rate // symbol -> 全量历史（最新在前），分页切片从这里取
	OrderSendResp  map[string]any
	OrderCheckResp map[string]any
	ProfitResp     float64
	MarginResp     float64
	DealsResp      []DealData
	HistOrdersResp []map[string]any

	lastErrCode int
	lastErrMsg  string
}

// NewMockAPI 创建默认全部成功的 mock 终端
func NewMockAPI() *MockAPI {
	return &MockAPI{
		Calls:     make(map[string]int),
		FailQueue: make(map[string][]*Error),
		InitOK:    true,
	}
}

// FailNext 给方法追加一次注入失败
func (m *MockAPI) FailNext(method string, err *Error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailQueue[method] = append(m.FailQueue[method], err)
}

// FailNTimes 给方法追加 n 次相同的注入失败
func (m *MockAPI) FailNTimes(method string, err *Error, n int) {
	for i := 0; i < n; i++ {
		m.FailNext(method, err)
	}
}

// CallCount 返回方法的调用次数
func (m *MockAPI) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// TotalCalls 返回所有方法的调用总数
func (m *MockAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

// track 记录一次调用并弹出失败队列头部；返回 true 表示这次调用应当失败
func (m *MockAPI) track(method string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
	queue := m.FailQueue[method]
	if len(queue) == 0 {
		return false
	}
	head := queue[0]
	m.FailQueue[method] = queue[1:]
	if head == nil {
		return false
	}
	m.lastErrCode = head.Code
	m.lastErrMsg = head.Message
	return true
}

func (m *MockAPI) Initialize(path string) bool {
	if m.track("Initialize") {
		return false
	}
	return m.InitOK
}

func (m *MockAPI) Shutdown() {
	m.track("Shutdown")
}

func (m *MockAPI) Version() *Version {
	if m.track("Version") {
		return nil
	}
	if m.VersionResp != nil {
		return m.VersionResp
	}
	return &Version{MTVersion: 500, Build: 4620, ReleaseDate: "7 Jun 2024"}
}

func (m *MockAPI) TerminalInfo() map[string]any {
	if m.track("TerminalInfo") {
		return nil
	}
	if m.TerminalResp != nil {
		return m.TerminalResp
	}
	return map[string]any{"community_account": false, "connected": true}
}

func (m *MockAPI) AccountInfo() map[string]any {
	if m.track("AccountInfo") {
		return nil
	}
	if m.AccountResp != nil {
		return m.AccountResp
	}
	return map[string]any{"account_balance": 100.0, "margin_free": 50.0}
}

func (m *MockAPI) PositionsGet() []PositionData {
	if m.track("PositionsGet") {
		return nil
	}
	if m.PositionsResp != nil {
		return m.PositionsResp
	}
	return []PositionData{}
}

func (m *MockAPI) SymbolsGet() []map[string]any {
	if m.track("SymbolsGet") {
		return nil
	}
	if m.SymbolsResp != nil {
		return m.SymbolsResp
	}
	return []map[string]any{{"symbol_name": "EURUSD"}}
}

func (m *MockAPI) SymbolInfo(symbol string) map[string]any {
	if m.track("SymbolInfo") {
		return nil
	}
	if m.SymbolInfoResp != nil {
		return m.SymbolInfoResp
	}
	return map[string]any{"symbol_name": symbol, "trade_mode": 4}
}

func (m *MockAPI) CopyRatesFromPos(symbol string, timeframe, start, count int) []Rate {
	if m.track("CopyRatesFromPos") {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.RatesResp[symbol]
	if start >= len(all) {
		return []Rate{}
	}
	end := start + count
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (m *MockAPI) CopyRatesRange(symbol string, timeframe int, dateFrom, dateTo int64) []Rate {
	if m.track("CopyRatesRange") {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Rate{}
	for _, r := range m.RatesResp[symbol] {
		if r.Time >= dateFrom && r.Time <= dateTo {
			out = append(out, r)
		}
	}
	return out
}

func (m *MockAPI) OrderSend(req OrderRequest) map[string]any {
	if m.track("OrderSend") {
		return nil
	}
	if m.OrderSendResp != nil {
		return m.OrderSendResp
	}
	return map[string]any{"retcode": float64(TradeRetcodeDone), "order_ticket": float64(1)}
}

func (m *MockAPI) OrderCheck(req OrderRequest) map[string]any {
	if m.track("OrderCheck") {
		return nil
	}
	if m.OrderCheckResp != nil {
		return m.OrderCheckResp
	}
	return map[string]any{"retcode": float64(0), "margin_free": 100.0}
}

func (m *MockAPI) OrderCalcProfit(orderType int, symbol string, volume, priceOpen, priceClose float64) (float64, bool) {
	if m.track("OrderCalcProfit") {
		return 0, false
	}
	return m.ProfitResp, true
}

func (m *MockAPI) OrderCalcMargin(orderType int, symbol string, volume, price float64) (float64, bool) {
	if m.track("OrderCalcMargin") {
		return 0, false
	}
	return m.MarginResp, true
}

func (m *MockAPI) HistoryDealsGet(dateFrom, dateTo int64) []DealData {
	if m.track("HistoryDealsGet") {
		return nil
	}
	if m.DealsResp != nil {
		return m.DealsResp
	}
	return []DealData{}
}

func (m *MockAPI) HistoryOrdersGet(dateFrom, dateTo int64) []map[string]any {
	if m.track("HistoryOrdersGet") {
		return nil
	}
	if m.HistOrdersResp != nil {
		return m.HistOrdersResp
	}
	return []map[string]any{}
}

func (m *MockAPI) LastError() (int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErrCode, m.lastErrMsg
}

// SetLastError 直接设置 LastError 通道内容
func (m *MockAPI) SetLastError(code int, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErrCode = code
	m.lastErrMsg = msg
}
