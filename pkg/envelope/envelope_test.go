package envelope

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess_EmbedsRawPayload(t *testing.T) {
	got := Success(`{"balance": 100.5}`)

	var parsed struct {
		IsSuccess bool `json:"isSuccess"`
		Payload   struct {
			Balance float64 `json:"balance"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.True(t, parsed.IsSuccess)
	assert.Equal(t, 100.5, parsed.Payload.Balance)
}

func TestFailure_Shape(t *testing.T) {
	got := Failure(errors.New(`symbol "EURUSD" not found`))

	var parsed struct {
		IsSuccess    bool   `json:"isSuccess"`
		ErrorMessage string `json:"errorMessage"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.False(t, parsed.IsSuccess)
	assert.Equal(t, `symbol "EURUSD" not found`, parsed.ErrorMessage)
}

func TestExecute(t *testing.T) {
	ok := Execute(func() (string, error) { return `[1,2,3]`, nil })
	assert.Equal(t, `{"isSuccess": true, "payload": [1,2,3]}`, ok)

	bad := Execute(func() (string, error) { return "", errors.New("boom") })
	assert.JSONEq(t, `{"isSuccess": false, "errorMessage": "boom"}`, bad)
}

func TestSnakeToLowerCamel(t *testing.T) {
	cases := map[string]string{
		"account_balance":  "accountBalance",
		"margin_free":      "marginFree",
		"sl":               "sl",
		"time_update_msc":  "timeUpdateMsc",
		"external_id":      "externalId",
		"trade_mode":       "tradeMode",
		"alreadyCamel":     "alreadyCamel",
		"trailing_":        "trailing",
	}
	for in, want := range cases {
		if got := SnakeToLowerCamel(in); got != want {
			t.Fatalf("SnakeToLowerCamel(%q) got=%q want=%q", in, got, want)
		}
	}
}

func TestNormalizeKeys(t *testing.T) {
	got := NormalizeKeys(map[string]any{"account_balance": 100, "margin_free": 50})
	assert.Equal(t, map[string]any{"accountBalance": 100, "marginFree": 50}, got)

	assert.Nil(t, NormalizeKeys(nil))
}

func TestNormalizeKeysSlice(t *testing.T) {
	got := NormalizeKeysSlice([]map[string]any{
		{"price_open": 1.1},
		{"price_current": 1.2},
	})
	require.Len(t, got, 2)
	assert.Equal(t, 1.1, got[0]["priceOpen"])
	assert.Equal(t, 1.2, got[1]["priceCurrent"])
}
