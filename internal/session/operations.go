package session

import (
	"fmt"
	"time"

	"github.com/betbot/mt5gate/internal/domain"
	"github.com/betbot/mt5gate/internal/terminal"
	"github.com/betbot/mt5gate/pkg/mttime"
)

// 会话的全部业务操作。每个操作都是一个 thunk，统一从 run 的弹性路径经过。

// Version 终端版本信息
func (s *Session) Version() (*terminal.Version, error) {
	return run(s, "version", func() (*terminal.Version, error) {
		v := s.api.Version()
		if v == nil {
			return nil, s.callErr()
		}
		return v, nil
	})
}

// TerminalInfo 终端状态快照（lower_snake 键，由边界层转 lowerCamel）
func (s *Session) TerminalInfo() (map[string]any, error) {
	return run(s, "terminal_info", func() (map[string]any, error) {
		info := s.api.TerminalInfo()
		if info == nil {
			return nil, s.callErr()
		}
		return info, nil
	})
}

// AccountInfo 账户状态快照
func (s *Session) AccountInfo() (map[string]any, error) {
	return run(s, "account_info", func() (map[string]any, error) {
		info := s.api.AccountInfo()
		if info == nil {
			return nil, s.callErr()
		}
		return info, nil
	})
}

// OpenedPositions 当前全部持仓
func (s *Session) OpenedPositions() ([]domain.OpenPosition, error) {
	return run(s, "positions_get", func() ([]domain.OpenPosition, error) {
		positions := s.api.PositionsGet()
		if positions == nil {
			return nil, s.callErr()
		}
		return domain.NewOpenPositions(positions), nil
	})
}

// Symbols 全部交易品种
func (s *Session) Symbols() ([]map[string]any, error) {
	return run(s, "symbols_get", func() ([]map[string]any, error) {
		symbols := s.api.SymbolsGet()
		if symbols == nil {
			return nil, s.callErr()
		}
		return symbols, nil
	})
}

// SymbolInfo 单个品种信息
func (s *Session) SymbolInfo(symbol string) (map[string]any, error) {
	return run(s, "symbol_info", func() (map[string]any, error) {
		info := s.api.SymbolInfo(symbol)
		if info == nil {
			return nil, s.callErr()
		}
		return info, nil
	})
}

// OpenPosition 市价开仓。只支持市价买卖两种类型，挂单类型拒绝。
func (s *Session) OpenPosition(orderType domain.OrderType, symbol string, volume, stopLoss float64) (map[string]any, error) {
	if orderType != domain.OrderTypeBuy && orderType != domain.OrderTypeSell {
		return nil, &ValidationError{Message: fmt.Sprintf("order type %d is not supported", orderType)}
	}
	return run(s, "open_position", func() (map[string]any, error) {
		req := terminal.OrderRequest{
			Action:  terminal.TradeActionDeal,
			Symbol:  symbol,
			Volume:  volume,
			Type:    int(orderType),
			SL:      stopLoss,
			Filling: terminal.OrderFillingIOC,
		}
		result := s.api.OrderSend(req)
		if result == nil {
			return nil, s.callErr()
		}
		if rc := retcodeOf(result); rc != terminal.TradeRetcodeDone {
			return nil, fmt.Errorf("order_send rejected with retcode %d", rc)
		}
		return result, nil
	})
}

// ClosePosition 按品种市价平掉全部持仓
func (s *Session) ClosePosition(symbol string) error {
	_, err := run(s, "close_position", func() (struct{}, error) {
		positions := s.api.PositionsGet()
		if positions == nil {
			return struct{}{}, s.callErr()
		}
		matched := make([]terminal.PositionData, 0, 1)
		for _, p := range positions {
			if p.Symbol == symbol {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			return struct{}{}, &ValidationError{Message: fmt.Sprintf("no open position for symbol %s", symbol)}
		}
		for _, p := range matched {
			// 反向市价单平仓
			closeType := domain.OrderTypeSell
			if p.Type == int(domain.OrderTypeSell) {
				closeType = domain.OrderTypeBuy
			}
			req := terminal.OrderRequest{
				Action:   terminal.TradeActionDeal,
				Symbol:   p.Symbol,
				Volume:   p.Volume,
				Type:     int(closeType),
				Position: p.Ticket,
				Filling:  terminal.OrderFillingIOC,
			}
			result := s.api.OrderSend(req)
			if result == nil {
				return struct{}{}, s.callErr()
			}
			if rc := retcodeOf(result); rc != terminal.TradeRetcodeDone {
				return struct{}{}, fmt.Errorf("close of ticket %d rejected with retcode %d", p.Ticket, rc)
			}
		}
		return struct{}{}, nil
	})
	return err
}

// UpdateStopLoss 按持仓标识修改止损。标识必须唯一命中一笔持仓。
func (s *Session) UpdateStopLoss(identifier int64, stopLoss float64) (map[string]any, error) {
	return run(s, "update_stop_loss", func() (map[string]any, error) {
		positions := s.api.PositionsGet()
		if positions == nil {
			return nil, s.callErr()
		}
		matched := make([]terminal.PositionData, 0, 1)
		for _, p := range positions {
			if p.Identifier == identifier {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("no open position with identifier %d", identifier)}
		}
		if len(matched) > 1 {
			return nil, &ValidationError{Message: fmt.Sprintf("more than one open position with identifier %d", identifier)}
		}
		req := terminal.OrderRequest{
			Action:   terminal.TradeActionSLTP,
			Symbol:   matched[0].Symbol,
			Volume:   matched[0].Volume,
			Position: identifier,
			SL:       stopLoss,
			Filling:  terminal.OrderFillingReturn,
		}
		result := s.api.OrderSend(req)
		if result == nil {
			return nil, s.callErr()
		}
		if rc := retcodeOf(result); rc != terminal.TradeRetcodeDone {
			return nil, fmt.Errorf("order_send rejected with retcode %d", rc)
		}
		return result, nil
	})
}

// OrderCheck 校验一笔市价交易请求（保证金是否足够等）
func (s *Session) OrderCheck(orderType domain.OrderType, symbol string, volume, stopLoss float64) (map[string]any, error) {
	return run(s, "order_check", func() (map[string]any, error) {
		req := terminal.OrderRequest{
			Action:  terminal.TradeActionDeal,
			Symbol:  symbol,
			Volume:  volume,
			Type:    int(orderType),
			SL:      stopLoss,
			Filling: terminal.OrderFillingIOC,
		}
		result := s.api.OrderCheck(req)
		if result == nil {
			return nil, s.callErr()
		}
		return result, nil
	})
}

// OrderCalcProfit 估算平仓收益
func (s *Session) OrderCalcProfit(orderType domain.OrderType, symbol string, volume, priceOpen, priceClose float64) (float64, error) {
	return run(s, "order_calc_profit", func() (float64, error) {
		profit, ok := s.api.OrderCalcProfit(int(orderType), symbol, volume, priceOpen, priceClose)
		if !ok {
			return 0, s.callErr()
		}
		return profit, nil
	})
}

// OrderCalcMargin 估算开仓保证金
func (s *Session) OrderCalcMargin(orderType domain.OrderType, symbol string, volume, price float64) (float64, error) {
	return run(s, "order_calc_margin", func() (float64, error) {
		margin, ok := s.api.OrderCalcMargin(int(orderType), symbol, volume, price)
		if !ok {
			return 0, s.callErr()
		}
		return margin, nil
	})
}

// HistoryDeals 从指定时刻（真实 UTC unix 秒）到现在的成交历史
func (s *Session) HistoryDeals(dateFromUTC int64) ([]domain.Deal, error) {
	return run(s, "history_deals_get", func() ([]domain.Deal, error) {
		from := mttime.UTCUnixToTerminal(dateFromUTC)
		to := mttime.UTCUnixToTerminal(time.Now().UTC().Unix())
		deals := s.api.HistoryDealsGet(from, to)
		if deals == nil {
			return nil, s.callErr()
		}
		return domain.NewDeals(deals), nil
	})
}

// HistoryOrders 从指定时刻（真实 UTC unix 秒）到现在的委托历史
func (s *Session) HistoryOrders(dateFromUTC int64) ([]map[string]any, error) {
	return run(s, "history_orders_get", func() ([]map[string]any, error) {
		from := mttime.UTCUnixToTerminal(dateFromUTC)
		to := mttime.UTCUnixToTerminal(time.Now().UTC().Unix())
		orders := s.api.HistoryOrdersGet(from, to)
		if orders == nil {
			return nil, s.callErr()
		}
		return orders, nil
	})
}

// retcodeOf 从 order_send/order_check 结果里取 retcode（JSON 数字解码成 float64）
func retcodeOf(result map[string]any) int {
	switch v := result["retcode"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
