package session

import (
	"errors"

	"github.com/betbot/mt5gate/internal/domain"
	"github.com/betbot/mt5gate/internal/terminal"
	"github.com/betbot/mt5gate/pkg/mttime"
)

// 行情获取。终端单次调用最多返回 terminal.MaxRatesPerCall 条，
// 超出的请求量必须分块翻页。

// GetQuotes 分块取最近 requestedCount 条行情，最新在前（保持终端顺序，不重排）。
// 从偏移 0 开始每次取 min(剩余, 5000)，偏移量按实收条数推进；取够了或者
// 碰到短块（终端历史见底）就停，不再多打一次终端。任何一块失败都会整体
// 作废：宁可返回空，也不能把半截数据当完整结果交出去。
func (s *Session) GetQuotes(symbol string, tf domain.Timeframe, requestedCount int) ([]domain.Quote, error) {
	if requestedCount <= 0 {
		return []domain.Quote{}, nil
	}

	quotes, err := run(s, "get_quotes", func() ([]domain.Quote, error) {
		var rates []terminal.Rate
		offset := 0
		remaining := requestedCount
		for remaining > 0 {
			chunkSize := remaining
			if chunkSize > terminal.MaxRatesPerCall {
				chunkSize = terminal.MaxRatesPerCall
			}
			chunk := s.api.CopyRatesFromPos(symbol, int(tf), offset, chunkSize)
			if chunk == nil {
				return nil, s.callErr()
			}
			rates = append(rates, chunk...)
			offset += len(chunk)
			remaining -= len(chunk)
			// 短块说明历史已经见底，再要也要不到了
			if len(chunk) < chunkSize {
				break
			}
		}
		return domain.NewQuotes(rates), nil
	})
	if err != nil {
		// 未连接的会话照常走失败信封；取数中途的失败则整体作废返回空
		var notConnected *NotConnectedError
		if errors.As(err, &notConnected) {
			return nil, err
		}
		s.log.Errorf("获取 %s 行情失败，丢弃已累积结果 - %v", symbol, err)
		return []domain.Quote{}, nil
	}
	return quotes, nil
}

// GetLastQuotes 对一组品种各做一次单块获取（不翻页，封顶 5000）。
// 单个品种失败只记为该品种的空结果，不中断其余品种。
func (s *Session) GetLastQuotes(symbols []string, tf domain.Timeframe, requestedCount int) (map[string][]domain.Quote, error) {
	count := requestedCount
	if count > terminal.MaxRatesPerCall {
		count = terminal.MaxRatesPerCall
	}
	if count <= 0 {
		result := make(map[string][]domain.Quote, len(symbols))
		for _, symbol := range symbols {
			result[symbol] = []domain.Quote{}
		}
		return result, nil
	}

	return run(s, "get_last_quotes", func() (map[string][]domain.Quote, error) {
		result := make(map[string][]domain.Quote, len(symbols))
		for _, symbol := range symbols {
			rates := s.api.CopyRatesFromPos(symbol, int(tf), 0, count)
			if rates == nil {
				s.log.Errorf("获取 %s 行情失败 - %v", symbol, s.callErr())
				result[symbol] = []domain.Quote{}
				continue
			}
			result[symbol] = domain.NewQuotes(rates)
		}
		return result, nil
	})
}

// GetRangeQuotes 按真实 UTC unix 秒的闭区间取行情，边界转成终端时间再下发
func (s *Session) GetRangeQuotes(symbol string, tf domain.Timeframe, dateFromUTC, dateToUTC int64) ([]domain.Quote, error) {
	return run(s, "get_range_quotes", func() ([]domain.Quote, error) {
		from := mttime.UTCUnixToTerminal(dateFromUTC)
		to := mttime.UTCUnixToTerminal(dateToUTC)
		rates := s.api.CopyRatesRange(symbol, int(tf), from, to)
		if rates == nil {
			return nil, s.callErr()
		}
		return domain.NewQuotes(rates), nil
	})
}
