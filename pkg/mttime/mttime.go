package mttime

import (
	"fmt"
	"time"
)

// 终端本地时区固定配置为 UTC+3，返回的 unix 时间戳整体带 3 小时偏移。
// 这不是参数，是终端的固有怪癖：所有进出终端的时间字段都必须经过这里修正。
const terminalOffset = 3 * time.Hour

// TerminalToUTC 把终端返回的 unix 秒修正为真实的 UTC 时刻
func TerminalToUTC(unixTime int64) time.Time {
	return time.Unix(unixTime, 0).UTC().Add(-terminalOffset)
}

// UTCToTerminal 把真实的 UTC 时刻转成终端期望的 unix 秒。
// 入参必须显式携带 UTC 语义，否则拒绝转换（避免本地时区悄悄混进来）。
func UTCToTerminal(t time.Time) (int64, error) {
	if t.Location() != time.UTC {
		return 0, fmt.Errorf("%s 不是 UTC 时间", t)
	}
	return t.Add(terminalOffset).Unix(), nil
}

// UTCUnixToTerminal 同 UTCToTerminal，但入参是 unix 秒（unix 秒本身就是 UTC 语义）
func UTCUnixToTerminal(unixTime int64) int64 {
	return unixTime + int64(terminalOffset/time.Second)
}
