package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/mt5gate/internal/domain"
	"github.com/betbot/mt5gate/internal/terminal"
)

// makeRates 生成 n 根 K 线，最新在前
func makeRates(n int) []terminal.Rate {
	rates := make([]terminal.Rate, n)
	for i := 0; i < n; i++ {
		rates[i] = terminal.Rate{
			Time:  int64(1700000000 - i*60),
			Open:  1.05,
			High:  1.06,
			Low:   1.04,
			Close: 1.055,
		}
	}
	return rates
}

func TestGetQuotes_NonPositiveCountSkipsTerminal(t *testing.T) {
	mock := terminal.NewMockAPI()
	s := newTestSession(t, mock)

	for _, count := range []int{0, -1, -5000} {
		quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM5, count)
		require.NoError(t, err)
		assert.Empty(t, quotes)
	}
	assert.Equal(t, 0, mock.CallCount("CopyRatesFromPos"))
}

func TestGetQuotes_SingleChunk(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": makeRates(100)}
	s := newTestSession(t, mock)

	quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM5, 50)
	require.NoError(t, err)
	assert.Len(t, quotes, 50)
	assert.Equal(t, 1, mock.CallCount("CopyRatesFromPos"))
	// 保持终端顺序：最新在前
	assert.True(t, quotes[0].Date.After(quotes[1].Date))
}

func TestGetQuotes_PaginatesAtCap(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": makeRates(12000)}
	s := newTestSession(t, mock)

	quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM1, 12000)
	require.NoError(t, err)
	assert.Len(t, quotes, 12000)
	// ceil(12000/5000) = 3 块：5000 + 5000 + 2000
	assert.Equal(t, 3, mock.CallCount("CopyRatesFromPos"))
}

func TestGetQuotes_StopsOnShortChunk(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": makeRates(6200)}
	s := newTestSession(t, mock)

	quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM1, 20000)
	require.NoError(t, err)
	// 终端只有 6200 条：5000 整块 + 1200 短块，短块后不再多打一次
	assert.Len(t, quotes, 6200)
	assert.Equal(t, 2, mock.CallCount("CopyRatesFromPos"))
}

func TestGetQuotes_CallCountNeverExceedsChunkCeiling(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": makeRates(6200)}
	s := newTestSession(t, mock)

	quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM1, 10000)
	require.NoError(t, err)
	assert.Len(t, quotes, 6200)
	// ceil(10000/5000) = 2 是调用次数上限
	assert.Equal(t, 2, mock.CallCount("CopyRatesFromPos"))
}

func TestGetQuotes_EmptyHistory(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": {}}
	s := newTestSession(t, mock)

	quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM1, 100)
	require.NoError(t, err)
	assert.Empty(t, quotes)
	assert.Equal(t, 1, mock.CallCount("CopyRatesFromPos"))
}

func TestGetQuotes_ChunkFailureDiscardsEverything(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": makeRates(12000)}
	s := newTestSession(t, mock)

	// 第一块成功，第二块失败（非哨兵错误）
	mock.FailQueue["CopyRatesFromPos"] = []*terminal.Error{nil, {Code: -2, Message: "history sync failed"}}

	quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM1, 12000)
	require.NoError(t, err)
	// 绝不返回半截前缀
	assert.Empty(t, quotes)
}

func TestGetQuotes_SentinelFailureRecoversViaReconnect(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": makeRates(300)}
	s := newTestSession(t, mock)

	mock.FailNext("CopyRatesFromPos", notConnectedErr())

	quotes, err := s.GetQuotes("EURUSD", domain.TimeframeM5, 300)
	require.NoError(t, err)
	assert.Len(t, quotes, 300)
	assert.Equal(t, 1, mock.CallCount("Shutdown"))
}

func TestGetQuotes_DisconnectedSessionFails(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.InitOK = false
	s := newTestSession(t, mock)

	_, err := s.GetQuotes("EURUSD", domain.TimeframeM5, 10)
	var notConnected *NotConnectedError
	require.ErrorAs(t, err, &notConnected)
	assert.Equal(t, 0, mock.CallCount("CopyRatesFromPos"))
}

func TestGetLastQuotes_FailureIsolatedPerSymbol(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{
		"EURUSD": makeRates(10),
		"GBPUSD": makeRates(20),
	}
	s := newTestSession(t, mock)

	// 第一个品种的调用失败，后续品种不受影响
	mock.FailNext("CopyRatesFromPos", &terminal.Error{Code: -2, Message: "history sync failed"})

	result, err := s.GetLastQuotes([]string{"EURUSD", "GBPUSD"}, domain.TimeframeM5, 50)
	require.NoError(t, err)
	assert.Empty(t, result["EURUSD"])
	assert.Len(t, result["GBPUSD"], 20)
}

func TestGetLastQuotes_CapsCountAtSingleCall(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": makeRates(7000)}
	s := newTestSession(t, mock)

	result, err := s.GetLastQuotes([]string{"EURUSD"}, domain.TimeframeM1, 20000)
	require.NoError(t, err)
	// 不翻页：单次调用封顶 5000
	assert.Len(t, result["EURUSD"], 5000)
	assert.Equal(t, 1, mock.CallCount("CopyRatesFromPos"))
}

func TestGetRangeQuotes_ConvertsBoundsToTerminalTime(t *testing.T) {
	mock := terminal.NewMockAPI()
	// 终端时间戳 10800 == 真实 UTC 0
	mock.RatesResp = map[string][]terminal.Rate{"EURUSD": {{Time: 10800, Close: 1.05}}}
	s := newTestSession(t, mock)

	quotes, err := s.GetRangeQuotes("EURUSD", domain.TimeframeH1, 0, 60)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, int64(0), quotes[0].Date.Unix())
}
