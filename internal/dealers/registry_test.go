package dealers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/mt5gate/internal/terminal"
	"github.com/betbot/mt5gate/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Terminal: config.TerminalConfig{MaxRetries: 3, NotConnectedCode: -10001},
		Dealers: []config.DealerConfig{
			{Name: AlfaForex, TerminalPath: `C:\terminals\alfa\terminal64.exe`, BridgeURL: "http://127.0.0.1:18812"},
			{Name: Finam, TerminalPath: `C:\terminals\finam\terminal64.exe`, BridgeURL: "http://127.0.0.1:18813"},
		},
	}
}

func TestNewRegistry_BuildsAllSessionsEagerly(t *testing.T) {
	built := 0
	r, err := NewRegistry(testConfig(), func(bridgeURL string) terminal.API {
		built++
		return terminal.NewMockAPI()
	})
	require.NoError(t, err)
	assert.Equal(t, 2, built)

	for _, name := range []string{AlfaForex, Finam} {
		s, err := r.Get(name)
		require.NoError(t, err)
		assert.True(t, s.Connected())
	}
}

func TestNewRegistry_RejectsUnknownDealerInConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Dealers[0].Name = "Exness"

	_, err := NewRegistry(cfg, func(string) terminal.API { return terminal.NewMockAPI() })
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestGet_UnknownDealerNeverBuildsSession(t *testing.T) {
	built := 0
	r, err := NewRegistry(testConfig(), func(string) terminal.API {
		built++
		return terminal.NewMockAPI()
	})
	require.NoError(t, err)
	require.Equal(t, 2, built)

	_, err = r.Get("Exness")
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Contains(t, confErr.Error(), "Exness")
	// 查找失败不会偷偷新建会话
	assert.Equal(t, 2, built)
}

func TestNewRegistry_DeadConnectionStillRegistered(t *testing.T) {
	r, err := NewRegistry(testConfig(), func(string) terminal.API {
		mock := terminal.NewMockAPI()
		mock.InitOK = false
		return mock
	})
	require.NoError(t, err)

	// 连接失败的会话照样注册，后续请求吃 NotConnectedError
	s, err := r.Get(AlfaForex)
	require.NoError(t, err)
	assert.False(t, s.Connected())
}
