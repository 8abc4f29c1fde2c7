package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/betbot/mt5gate/internal/dealers"
	"github.com/betbot/mt5gate/pkg/config"
	"github.com/betbot/mt5gate/pkg/envelope"
)

// Server HTTP 边界。每个路由解析一次 dealerType、调用恰好一个核心操作，
// 把信封作为响应体返回。HTTP 状态码恒为 200，成败在信封里。
type Server struct {
	registry *dealers.Registry
	timeout  time.Duration
	inflight chan struct{}
	log      *logrus.Entry
}

// New 创建 HTTP 边界
func New(registry *dealers.Registry, cfg config.TerminalConfig) *Server {
	return &Server{
		registry: registry,
		timeout:  time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		inflight: make(chan struct{}, cfg.MaxInFlight),
		log:      logrus.WithField("component", "web"),
	}
}

// Router 组装路由，分组和路径沿用既有客户端依赖的形状
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", s.handleHealthz)

	terminalInfo := r.Group("/terminal-info")
	terminalInfo.POST("/version", s.handleVersion)
	terminalInfo.POST("/get", s.handleTerminalInfo)

	accountInfo := r.Group("/account-info")
	accountInfo.POST("/get", s.handleAccountInfo)

	openedPositions := r.Group("/opened-positions")
	openedPositions.POST("/get", s.handleOpenedPositions)

	symbolInfo := r.Group("/symbol-info")
	symbolInfo.POST("/get-symbols", s.handleSymbols)
	symbolInfo.POST("/get-symbol-info", s.handleSymbolInfo)

	positionManagement := r.Group("/position_management")
	positionManagement.POST("/update-stop-loss", s.handleUpdateStopLoss)
	positionManagement.POST("/close-position", s.handleClosePosition)
	positionManagement.POST("/open-position", s.handleOpenPosition)

	quotes := r.Group("/quotes")
	quotes.POST("/get-last-quotes", s.handleLastQuotes)
	quotes.POST("/get-quotes", s.handleQuotes)
	quotes.POST("/get-range-quotes", s.handleRangeQuotes)

	orderCheck := r.Group("/order-check")
	orderCheck.POST("/order-calc-profit", s.handleOrderCalcProfit)
	orderCheck.POST("/order-calc-margin", s.handleOrderCalcMargin)
	orderCheck.POST("/order-check", s.handleOrderCheck)

	history := r.Group("/get-history")
	history.POST("/get-history-deals", s.handleHistoryDeals)
	history.POST("/get-history-orders", s.handleHistoryOrders)

	return r
}

// accessLog 给每个请求配一个 requestId 并记录访问日志
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestId", requestID)
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"requestId": requestID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"elapsed":   time.Since(start).String(),
		}).Debug("请求完成")
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dealers": s.registry.Names()})
}

// respond 写出信封，状态码恒为 200
func (s *Server) respond(c *gin.Context, body string) {
	c.Data(http.StatusOK, "application/json", []byte(body))
}

// bind 解析请求体；解析失败直接写失败信封并返回 false
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.respond(c, envelope.Failure(fmt.Errorf("invalid request body: %s", err)))
		return false
	}
	return true
}

// runOp 在超时和在途额度的约束下执行核心操作。
//
// 超时只是放弃等待：在途的终端调用没法被打断（SDK 没有取消能力），
// 它会继续占着会话锁和一个在途名额直到自己返回。这是已知的资源泄漏
// 风险，靠 inflight 上限兜底；额度占满时新请求直接吃失败信封。
func (s *Server) runOp(c *gin.Context, op func() (string, error)) {
	select {
	case s.inflight <- struct{}{}:
	default:
		s.respond(c, envelope.Failure(fmt.Errorf("too many in-flight requests")))
		return
	}

	done := make(chan string, 1)
	go func() {
		defer func() { <-s.inflight }()
		done <- envelope.Execute(op)
	}()

	select {
	case body := <-done:
		s.respond(c, body)
	case <-time.After(s.timeout):
		s.log.Warnf("请求超时（%s），放弃等待在途终端调用", s.timeout)
		s.respond(c, envelope.Failure(fmt.Errorf("request timed out after %s", s.timeout)))
	}
}
