package web

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/betbot/mt5gate/internal/domain"
	"github.com/betbot/mt5gate/internal/session"
	"github.com/betbot/mt5gate/pkg/envelope"
)

// marshal 把载荷序列化成嵌入信封的 JSON 文本
func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "serialize payload")
	}
	return string(b), nil
}

// resolve 解析 dealerType 对应的会话
func (s *Server) resolve(c *gin.Context, dealer string) (*session.Session, bool) {
	sess, err := s.registry.Get(dealer)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleVersion(c *gin.Context) {
	var req dealerRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		v, err := sess.Version()
		if err != nil {
			return "", err
		}
		return marshal(map[string]any{
			"mtVersion":   v.MTVersion,
			"build":       v.Build,
			"releaseDate": v.ReleaseDate,
		})
	})
}

func (s *Server) handleTerminalInfo(c *gin.Context) {
	var req dealerRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		info, err := sess.TerminalInfo()
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeys(info))
	})
}

func (s *Server) handleAccountInfo(c *gin.Context) {
	var req dealerRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		info, err := sess.AccountInfo()
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeys(info))
	})
}

func (s *Server) handleOpenedPositions(c *gin.Context) {
	var req dealerRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		positions, err := sess.OpenedPositions()
		if err != nil {
			return "", err
		}
		return marshal(positions)
	})
}

func (s *Server) handleSymbols(c *gin.Context) {
	var req dealerRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		symbols, err := sess.Symbols()
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeysSlice(symbols))
	})
}

func (s *Server) handleSymbolInfo(c *gin.Context) {
	var req symbolRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		info, err := sess.SymbolInfo(req.Symbol)
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeys(info))
	})
}

func (s *Server) handleUpdateStopLoss(c *gin.Context) {
	var req updateStopLossRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		result, err := sess.UpdateStopLoss(req.Identifier, req.StopLossValue)
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeys(result))
	})
}

func (s *Server) handleClosePosition(c *gin.Context) {
	var req symbolRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		if err := sess.ClosePosition(req.Symbol); err != nil {
			return "", err
		}
		return "{ }", nil
	})
}

func (s *Server) handleOpenPosition(c *gin.Context) {
	var req openPositionRequest
	if !s.bind(c, &req) {
		return
	}
	orderType, err := domain.ParseOrderType(req.Action)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	if err := validateVolume(req.Volume); err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		result, err := sess.OpenPosition(orderType, req.Symbol, req.Volume, req.StopLoss)
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeys(result))
	})
}

func (s *Server) handleLastQuotes(c *gin.Context) {
	var req lastQuotesRequest
	if !s.bind(c, &req) {
		return
	}
	tf, err := domain.ParseTimeframe(req.Timeframe)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		result, err := sess.GetLastQuotes(req.Symbols, tf, req.Count)
		if err != nil {
			return "", err
		}
		return marshal(result)
	})
}

func (s *Server) handleQuotes(c *gin.Context) {
	var req quotesRequest
	if !s.bind(c, &req) {
		return
	}
	tf, err := domain.ParseTimeframe(req.Timeframe)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		quotes, err := sess.GetQuotes(req.Symbol, tf, req.Count)
		if err != nil {
			return "", err
		}
		return marshal(quotes)
	})
}

func (s *Server) handleRangeQuotes(c *gin.Context) {
	var req rangeQuotesRequest
	if !s.bind(c, &req) {
		return
	}
	tf, err := domain.ParseTimeframe(req.Timeframe)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		quotes, err := sess.GetRangeQuotes(req.Symbol, tf, req.DateFrom, req.DateTo)
		if err != nil {
			return "", err
		}
		return marshal(quotes)
	})
}

func (s *Server) handleOrderCalcProfit(c *gin.Context) {
	var req calcProfitRequest
	if !s.bind(c, &req) {
		return
	}
	orderType, err := domain.ParseOrderType(req.Action)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		profit, err := sess.OrderCalcProfit(orderType, req.Symbol, req.Volume, req.PriceOpen, req.PriceClose)
		if err != nil {
			return "", err
		}
		return marshal(profit)
	})
}

func (s *Server) handleOrderCalcMargin(c *gin.Context) {
	var req calcMarginRequest
	if !s.bind(c, &req) {
		return
	}
	orderType, err := domain.ParseOrderType(req.Action)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		margin, err := sess.OrderCalcMargin(orderType, req.Symbol, req.Volume, req.PriceOpen)
		if err != nil {
			return "", err
		}
		return marshal(margin)
	})
}

func (s *Server) handleOrderCheck(c *gin.Context) {
	var req orderCheckRequest
	if !s.bind(c, &req) {
		return
	}
	orderType, err := domain.ParseOrderType(req.Action)
	if err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	if err := validateVolume(req.Volume); err != nil {
		s.respond(c, envelope.Failure(err))
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		result, err := sess.OrderCheck(orderType, req.Symbol, req.Volume, req.StopLoss)
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeys(result))
	})
}

func (s *Server) handleHistoryDeals(c *gin.Context) {
	var req historyRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		deals, err := sess.HistoryDeals(req.DateFrom)
		if err != nil {
			return "", err
		}
		return marshal(deals)
	})
}

func (s *Server) handleHistoryOrders(c *gin.Context) {
	var req historyRequest
	if !s.bind(c, &req) {
		return
	}
	sess, ok := s.resolve(c, req.DealerType)
	if !ok {
		return
	}
	s.runOp(c, func() (string, error) {
		orders, err := sess.HistoryOrders(req.DateFrom)
		if err != nil {
			return "", err
		}
		return marshal(envelope.NormalizeKeysSlice(orders))
	})
}
