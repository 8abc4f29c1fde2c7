package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderType(t *testing.T) {
	got, err := ParseOrderType("ORDER_TYPE_BUY")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeBuy, got)

	got, err = ParseOrderType("ORDER_TYPE_SELL_STOP_LIMIT")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeSellStopLimit, got)

	_, err = ParseOrderType("ORDER_TYPE_TELEPORT")
	assert.Error(t, err)
}

func TestParseTimeframe(t *testing.T) {
	// 小时级以上的周期常量带标志位，不等于分钟数
	cases := map[string]Timeframe{
		"M1":  1,
		"M30": 30,
		"H1":  16385,
		"D1":  16408,
		"W1":  32769,
		"MN1": 49153,
	}
	for name, want := range cases {
		got, err := ParseTimeframe(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseTimeframe("H5")
	assert.Error(t, err)
}
