package dealers

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/betbot/mt5gate/internal/session"
	"github.com/betbot/mt5gate/internal/terminal"
	"github.com/betbot/mt5gate/pkg/config"
)

// 已知券商是一个封闭枚举：配置只能从这里面选，请求也只能命中这里面的值。
const (
	AlfaForex = "AlfaForex"
	Finam     = "Finam"
)

var knownDealers = map[string]bool{
	AlfaForex: true,
	Finam:     true,
}

// ConfigurationError 券商标识不在已知枚举里，或配置与枚举不一致
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Registry 券商标识到会话的映射。构造后不可变：所有会话在启动时一次性
// 建好（连接失败的也留着，只是处于未连接状态），让连接问题在启动阶段
// 就暴露出来，而不是拖到第一个请求才炸。
type Registry struct {
	sessions map[string]*session.Session
	log      *logrus.Entry
}

// APIFactory 按桥地址构造终端调用面（测试时注入 mock）
type APIFactory func(bridgeURL string) terminal.API

// NewRegistry 按配置为每个券商建一个会话
func NewRegistry(cfg *config.Config, newAPI APIFactory) (*Registry, error) {
	r := &Registry{
		sessions: make(map[string]*session.Session, len(cfg.Dealers)),
		log:      logrus.WithField("component", "dealers"),
	}
	opts := session.Options{
		MaxRetries:       cfg.Terminal.MaxRetries,
		NotConnectedCode: cfg.Terminal.NotConnectedCode,
	}
	for _, d := range cfg.Dealers {
		if !knownDealers[d.Name] {
			return nil, &ConfigurationError{Message: fmt.Sprintf("unknown dealer %q in config", d.Name)}
		}
		r.sessions[d.Name] = session.New(d.Name, d.TerminalPath, newAPI(d.BridgeURL), opts)
	}
	r.log.Infof("已为 %d 个券商建立会话", len(r.sessions))
	return r, nil
}

// Get 按券商标识取会话。未知标识记日志后报配置错误，绝不临时新建会话。
func (r *Registry) Get(dealer string) (*session.Session, error) {
	s, ok := r.sessions[dealer]
	if !ok {
		r.log.Errorf("请求了未知的券商标识 %q", dealer)
		return nil, &ConfigurationError{Message: fmt.Sprintf("unknown dealer %q", dealer)}
	}
	return s, nil
}

// Close 断开全部会话，进程退出前调用
func (r *Registry) Close() {
	for _, s := range r.sessions {
		s.Close()
	}
}

// Names 已注册的券商标识（便于健康检查展示）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	return names
}
