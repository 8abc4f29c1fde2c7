package bridge

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/mt5gate/internal/terminal"
)

// Client 通过本地 RPC 桥进程访问终端，实现 terminal.API。
// 桥进程和终端实例一对一，桥不可达等价于终端不可达，所以传输层失败
// 统一映射成「未连接」哨兵码，交给会话层的重连路径处理。
// 注意：这里不开 resty 自带的重试，整个系统只有会话层一条重试路径。
type Client struct {
	http *resty.Client
	log  *logrus.Entry

	mu          sync.Mutex
	lastErrCode int
	lastErrMsg  string
}

var _ terminal.API = (*Client)(nil)

// NewClient 创建桥客户端
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http: httpClient,
		log:  logrus.WithField("component", "bridge"),
	}
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) setLastError(code int, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErrCode = code
	c.lastErrMsg = msg
}

// call 发起一次 RPC。out 为 nil 时忽略结果体；返回 false 表示调用失败，
// 诊断已写入 LastError 通道。
func (c *Client) call(method string, params any, out any) bool {
	req := c.http.R().SetHeader("Content-Type", "application/json")
	if params != nil {
		req.SetBody(params)
	}

	resp, err := req.Post("/rpc/" + method)
	if err != nil {
		// 桥进程不可达 == 终端不可达
		c.setLastError(terminal.ErrCodeNotConnected, errors.Wrap(err, "bridge unreachable").Error())
		return false
	}
	if resp.StatusCode() != 200 {
		c.setLastError(terminal.ErrCodeNotConnected, "bridge status "+resp.Status())
		return false
	}

	var body rpcResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		c.setLastError(-1, errors.Wrapf(err, "decode %s response", method).Error())
		return false
	}
	if body.Error != nil {
		c.setLastError(body.Error.Code, body.Error.Message)
		return false
	}
	if out != nil && len(body.Result) > 0 {
		if err := json.Unmarshal(body.Result, out); err != nil {
			c.setLastError(-1, errors.Wrapf(err, "decode %s result", method).Error())
			return false
		}
	}
	return true
}

func (c *Client) Initialize(path string) bool {
	var ok bool
	if !c.call("initialize", map[string]any{"path": path}, &ok) {
		return false
	}
	return ok
}

func (c *Client) Shutdown() {
	if !c.call("shutdown", nil, nil) {
		c.log.Warnf("终端 shutdown 调用失败（忽略）")
	}
}

func (c *Client) Version() *terminal.Version {
	var v terminal.Version
	if !c.call("version", nil, &v) {
		return nil
	}
	return &v
}

func (c *Client) TerminalInfo() map[string]any {
	var info map[string]any
	if !c.call("terminal_info", nil, &info) {
		return nil
	}
	return info
}

func (c *Client) AccountInfo() map[string]any {
	var info map[string]any
	if !c.call("account_info", nil, &info) {
		return nil
	}
	return info
}

func (c *Client) PositionsGet() []terminal.PositionData {
	positions := []terminal.PositionData{}
	if !c.call("positions_get", nil, &positions) {
		return nil
	}
	return positions
}

func (c *Client) SymbolsGet() []map[string]any {
	symbols := []map[string]any{}
	if !c.call("symbols_get", nil, &symbols) {
		return nil
	}
	return symbols
}

func (c *Client) SymbolInfo(symbol string) map[string]any {
	var info map[string]any
	if !c.call("symbol_info", map[string]any{"symbol": symbol}, &info) {
		return nil
	}
	return info
}

func (c *Client) CopyRatesFromPos(symbol string, timeframe, start, count int) []terminal.Rate {
	rates := []terminal.Rate{}
	params := map[string]any{
		"symbol":    symbol,
		"timeframe": timeframe,
		"start_pos": start,
		"count":     count,
	}
	if !c.call("copy_rates_from_pos", params, &rates) {
		return nil
	}
	return rates
}

func (c *Client) CopyRatesRange(symbol string, timeframe int, dateFrom, dateTo int64) []terminal.Rate {
	rates := []terminal.Rate{}
	params := map[string]any{
		"symbol":    symbol,
		"timeframe": timeframe,
		"date_from": dateFrom,
		"date_to":   dateTo,
	}
	if !c.call("copy_rates_range", params, &rates) {
		return nil
	}
	return rates
}

func (c *Client) OrderSend(req terminal.OrderRequest) map[string]any {
	var result map[string]any
	if !c.call("order_send", req, &result) {
		return nil
	}
	return result
}

func (c *Client) OrderCheck(req terminal.OrderRequest) map[string]any {
	var result map[string]any
	if !c.call("order_check", req, &result) {
		return nil
	}
	return result
}

func (c *Client) OrderCalcProfit(orderType int, symbol string, volume, priceOpen, priceClose float64) (float64, bool) {
	var profit float64
	params := map[string]any{
		"action":      orderType,
		"symbol":      symbol,
		"volume":      volume,
		"price_open":  priceOpen,
		"price_close": priceClose,
	}
	if !c.call("order_calc_profit", params, &profit) {
		return 0, false
	}
	return profit, true
}

func (c *Client) OrderCalcMargin(orderType int, symbol string, volume, price float64) (float64, bool) {
	var margin float64
	params := map[string]any{
		"action": orderType,
		"symbol": symbol,
		"volume": volume,
		"price":  price,
	}
	if !c.call("order_calc_margin", params, &margin) {
		return 0, false
	}
	return margin, true
}

func (c *Client) HistoryDealsGet(dateFrom, dateTo int64) []terminal.DealData {
	deals := []terminal.DealData{}
	params := map[string]any{"date_from": dateFrom, "date_to": dateTo}
	if !c.call("history_deals_get", params, &deals) {
		return nil
	}
	return deals
}

func (c *Client) HistoryOrdersGet(dateFrom, dateTo int64) []map[string]any {
	orders := []map[string]any{}
	params := map[string]any{"date_from": dateFrom, "date_to": dateTo}
	if !c.call("history_orders_get", params, &orders) {
		return nil
	}
	return orders
}

func (c *Client) LastError() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErrCode, c.lastErrMsg
}
