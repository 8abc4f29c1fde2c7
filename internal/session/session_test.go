package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/mt5gate/internal/terminal"
)

func newTestSession(t *testing.T, mock *terminal.MockAPI) *Session {
	t.Helper()
	return New("AlfaForex", `C:\terminals\alfa\terminal64.exe`, mock, Options{MaxRetries: 3})
}

func notConnectedErr() *terminal.Error {
	return &terminal.Error{Code: terminal.ErrCodeNotConnected, Message: "IPC timeout"}
}

func TestNew_ConnectsEagerly(t *testing.T) {
	mock := terminal.NewMockAPI()
	s := newTestSession(t, mock)

	assert.True(t, s.Connected())
	assert.Equal(t, 1, mock.CallCount("Initialize"))
}

func TestNew_InitFailureKeepsSessionUsableForRetry(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.InitOK = false
	mock.SetLastError(-6, "authorization failed")

	s := newTestSession(t, mock)
	// 构造失败不退出进程，会话留在未连接状态
	assert.False(t, s.Connected())
}

func TestDisconnected_ShortCircuitsWithoutTerminalCall(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.InitOK = false
	mock.SetLastError(-6, "authorization failed")
	s := newTestSession(t, mock)

	_, err := s.AccountInfo()

	var notConnected *NotConnectedError
	require.ErrorAs(t, err, &notConnected)
	assert.Contains(t, notConnected.Error(), "authorization failed")
	assert.Contains(t, notConnected.Error(), "code:-6")
	// 完全没碰终端
	assert.Equal(t, 0, mock.CallCount("AccountInfo"))
}

func TestRetry_RecoversWithinCeiling(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.AccountResp = map[string]any{"account_balance": 100.0}
	s := newTestSession(t, mock)

	// 前两次命中「未连接」哨兵，第三次成功
	mock.FailNTimes("AccountInfo", notConnectedErr(), 2)

	info, err := s.AccountInfo()
	require.NoError(t, err)
	assert.Equal(t, 100.0, info["account_balance"])

	assert.Equal(t, 3, mock.CallCount("AccountInfo"))
	// 每次失败都走了一轮断开+重连
	assert.Equal(t, 2, mock.CallCount("Shutdown"))
	assert.Equal(t, 3, mock.CallCount("Initialize")) // 构造 1 次 + 重连 2 次
}

func TestRetry_CeilingExhaustedCitesDiagnostic(t *testing.T) {
	mock := terminal.NewMockAPI()
	s := newTestSession(t, mock)

	mock.FailNTimes("AccountInfo", notConnectedErr(), 10)

	_, err := s.AccountInfo()
	require.Error(t, err)

	var diag *terminal.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, terminal.ErrCodeNotConnected, diag.Code)
	assert.Equal(t, "Error - IPC timeout (code:-10001)", err.Error())
	// 首次 + 重试上限 3 次
	assert.Equal(t, 4, mock.CallCount("AccountInfo"))
}

func TestRetry_NonSentinelErrorNotRetried(t *testing.T) {
	mock := terminal.NewMockAPI()
	s := newTestSession(t, mock)

	mock.FailNext("AccountInfo", &terminal.Error{Code: -2, Message: "invalid params"})

	_, err := s.AccountInfo()
	require.Error(t, err)
	// 非哨兵错误不触发重连，也不重试
	assert.Equal(t, 1, mock.CallCount("AccountInfo"))
	assert.Equal(t, 0, mock.CallCount("Shutdown"))
	assert.Equal(t, 1, mock.CallCount("Initialize"))
}

func TestCustomSentinelCode(t *testing.T) {
	mock := terminal.NewMockAPI()
	s := New("Finam", `C:\terminals\finam\terminal64.exe`, mock, Options{
		MaxRetries:       2,
		NotConnectedCode: -20001,
	})

	mock.FailNext("Version", &terminal.Error{Code: -20001, Message: "gone"})

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, 500, v.MTVersion)
	assert.Equal(t, 2, mock.CallCount("Version"))
}

func TestUpdateStopLoss(t *testing.T) {
	pos := terminal.PositionData{
		Ticket:     42,
		Identifier: 42,
		Symbol:     "EURUSD",
		Volume:     0.5,
		Type:       0,
	}

	t.Run("exactly one match", func(t *testing.T) {
		mock := terminal.NewMockAPI()
		mock.PositionsResp = []terminal.PositionData{pos}
		s := newTestSession(t, mock)

		result, err := s.UpdateStopLoss(42, 1.0850)
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, 1, mock.CallCount("OrderSend"))
	})

	t.Run("no match", func(t *testing.T) {
		mock := terminal.NewMockAPI()
		s := newTestSession(t, mock)

		_, err := s.UpdateStopLoss(99, 1.0850)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, 0, mock.CallCount("OrderSend"))
	})

	t.Run("ambiguous match", func(t *testing.T) {
		mock := terminal.NewMockAPI()
		mock.PositionsResp = []terminal.PositionData{pos, pos}
		s := newTestSession(t, mock)

		_, err := s.UpdateStopLoss(42, 1.0850)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, 0, mock.CallCount("OrderSend"))
	})
}

func TestOpenPosition_RejectsPendingTypes(t *testing.T) {
	mock := terminal.NewMockAPI()
	s := newTestSession(t, mock)

	_, err := s.OpenPosition(2 /* BUY_LIMIT */, "EURUSD", 0.1, 0)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, mock.CallCount("OrderSend"))
}

func TestOpenPosition_RejectedRetcode(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.OrderSendResp = map[string]any{"retcode": float64(10019)} // no money
	s := newTestSession(t, mock)

	_, err := s.OpenPosition(0, "EURUSD", 0.1, 1.05)
	require.Error(t, err)
	assert.False(t, errors.As(err, new(*terminal.Error)))
	assert.Contains(t, err.Error(), "10019")
}

func TestClosePosition(t *testing.T) {
	mock := terminal.NewMockAPI()
	mock.PositionsResp = []terminal.PositionData{
		{Ticket: 1, Identifier: 1, Symbol: "EURUSD", Volume: 0.2, Type: 0},
		{Ticket: 2, Identifier: 2, Symbol: "EURUSD", Volume: 0.3, Type: 1},
		{Ticket: 3, Identifier: 3, Symbol: "GBPUSD", Volume: 0.1, Type: 0},
	}
	s := newTestSession(t, mock)

	require.NoError(t, s.ClosePosition("EURUSD"))
	// 只平 EURUSD 的两笔
	assert.Equal(t, 2, mock.CallCount("OrderSend"))

	var validation *ValidationError
	require.ErrorAs(t, s.ClosePosition("USDJPY"), &validation)
}

func TestHistoryDeals_ConvertsTimes(t *testing.T) {
	mock := terminal.NewMockAPI()
	// 终端时间 = 真实 UTC + 3h
	mock.DealsResp = []terminal.DealData{{Ticket: 7, Time: 10800, Symbol: "EURUSD"}}
	s := newTestSession(t, mock)

	deals, err := s.HistoryDeals(0)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, int64(0), deals[0].Time.Unix())
}
