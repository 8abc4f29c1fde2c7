package session

import (
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"

	"github.com/betbot/mt5gate/internal/terminal"
)

// Session 管理到一个终端实例的长连接。进程启动时按券商各建一个，
// 断线时原地重连，进程退出前不销毁。终端句柄不允许并发调用，
// 所有操作经 mu 串行；不同券商的 Session 之间互不相干、完全并行。
type Session struct {
	name string
	path string
	api  terminal.API
	log  *logrus.Entry

	maxRetries       int
	notConnectedCode int

	mu        sync.Mutex
	connected bool
	lastErr   *terminal.Error
}

// Options 会话可调参数
type Options struct {
	// MaxRetries 断线重连的重试上限（0 取默认值 3）
	MaxRetries int
	// NotConnectedCode 「未连接」哨兵错误码（0 取默认值 terminal.ErrCodeNotConnected）
	NotConnectedCode int
}

// New 创建会话并立即尝试建立连接。连接失败不让进程退出：
// 会话留在未连接状态，之后的每次操作都会先走一次重连。
func New(name, path string, api terminal.API, opts Options) *Session {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.NotConnectedCode == 0 {
		opts.NotConnectedCode = terminal.ErrCodeNotConnected
	}
	s := &Session{
		name:             name,
		path:             path,
		api:              api,
		maxRetries:       opts.MaxRetries,
		notConnectedCode: opts.NotConnectedCode,
		log:              logrus.WithFields(logrus.Fields{"component": "session", "dealer": name}),
	}
	s.mu.Lock()
	s.initLocked()
	s.mu.Unlock()
	return s
}

// Name 会话对应的券商标识
func (s *Session) Name() string {
	return s.name
}

// Connected 当前连接状态
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Close 断开终端连接。进程退出前调用，之后的操作都会吃 NotConnectedError。
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		s.api.Shutdown()
		s.connected = false
		s.log.Info("终端连接已断开")
	}
}

// initLocked 尝试终端初始化，调用方必须已持有 mu
func (s *Session) initLocked() bool {
	if s.api.Initialize(s.path) {
		s.connected = true
		s.lastErr = nil
		s.log.Infof("终端连接已建立 (%s)", s.path)
		return true
	}
	s.connected = false
	s.lastErr = terminal.LastErrorOf(s.api)
	s.log.Errorf("终端连接失败 (%s) - %v", s.path, s.lastErr)
	return false
}

// run 是会话里唯一的弹性机制：所有终端操作都作为 thunk 从这里经过，
// 不存在任何按操作各搞一套的重试逻辑。
//
// 未连接的会话直接用存量诊断短路。thunk 失败时看诊断码：命中「未连接」
// 哨兵就断开重连再试（有界循环 + 本地计数器，不做递归）；其它错误码
// 一律记日志后原样上抛，盲目重试会把逻辑错误伪装成瞬时故障。
func run[T any](s *Session, op string, thunk func() (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return zero, &NotConnectedError{Diag: s.lastErr}
	}

	wait := backoff.NewExponentialBackOff()
	wait.InitialInterval = 200 * time.Millisecond
	wait.MaxInterval = 2 * time.Second

	for attempt := 0; ; attempt++ {
		result, err := thunk()
		if err == nil {
			return result, nil
		}

		var diag *terminal.Error
		if errors.As(err, &diag) && diag.Code == s.notConnectedCode && attempt < s.maxRetries {
			// 终端进程没了（被杀/重启）：断开重连后重试
			s.log.Warnf("终端未连接，断开重连（第 %d/%d 次）- %v", attempt+1, s.maxRetries, diag)
			if d := wait.NextBackOff(); d != backoff.Stop {
				time.Sleep(d)
			}
			s.api.Shutdown()
			s.initLocked()
			continue
		}

		lastCode, lastMsg := s.api.LastError()
		s.log.Errorf("调用终端 %s 失败 - %v (last_error: %d %s)", op, err, lastCode, lastMsg)
		return zero, err
	}
}

// callErr 把 LastError 通道的内容取出来作为本次调用的失败原因
func (s *Session) callErr() *terminal.Error {
	return terminal.LastErrorOf(s.api)
}
