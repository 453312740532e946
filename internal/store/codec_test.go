package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleekspend/sleekspend/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleExpenses() []model.Expense {
	return []model.Expense{
		{ID: "b", Amount: dec("12.50"), Description: "Coffee", Category: "Food", Date: time.Date(2025, 6, 2, 8, 15, 30, 123456789, time.Local)},
		{ID: "a", Amount: dec("0.1"), Description: "Gum", Category: "Other", Date: time.Date(2025, 6, 1, 23, 59, 0, 0, time.Local)},
	}
}

func assertSameExpenses(t *testing.T, want, got []model.Expense) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "amount %s != %s", want[i].Amount, got[i].Amount)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.True(t, want[i].Date.Equal(got[i].Date), "date %s != %s", want[i].Date, got[i].Date)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data, err := Encode(sampleExpenses())
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assertSameExpenses(t, sampleExpenses(), got)
}

func TestEncodeFormat(t *testing.T) {
	data, err := Encode(sampleExpenses()[:1])
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "b", raw[0]["id"])
	assert.Equal(t, 12.5, raw[0]["amount"], "amount is a JSON number")
	assert.Equal(t, "Coffee", raw[0]["description"])
	assert.Equal(t, "Food", raw[0]["category"])

	date, ok := raw[0]["date"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339Nano, date)
	assert.NoError(t, err)
}

func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestDecodeBrowserSnapshot(t *testing.T) {
	data := []byte(`[
		{"id":"4f1c","amount":12.5,"description":"Coffee","category":"Food","date":"2025-06-01T07:30:00.000Z"},
		{"id":"9a0e","amount":"3","description":"Bus","category":"Transportation","date":"Sun Jun 01 2025 09:30:00 GMT+0200 (Central European Summer Time)"}
	]`)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)
	assert.True(t, got[0].Date.Equal(want))
	assert.True(t, got[1].Date.Equal(want))
	assert.True(t, got[1].Amount.Equal(dec("3")))
}

func TestDecodeBlank(t *testing.T) {
	for _, input := range []string{"", "  \n", "null", "[]"} {
		got, err := Decode([]byte(input))
		require.NoError(t, err, "input: %q", input)
		assert.Empty(t, got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing id", `[{"amount":1,"date":"2025-06-01T00:00:00Z"}]`, "id"},
		{"bad amount", `[{"id":"x","amount":"lots","date":"2025-06-01T00:00:00Z"}]`, "amount"},
		{"negative amount", `[{"id":"x","amount":-1,"date":"2025-06-01T00:00:00Z"}]`, "amount"},
		{"bad date", `[{"id":"x","amount":1,"date":"yesterday"}]`, "date"},
		{"missing date", `[{"id":"x","amount":1}]`, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, 0, de.Index)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestDecodeOneBadEntryAbortsAll(t *testing.T) {
	data := []byte(`[
		{"id":"ok","amount":1,"date":"2025-06-01T00:00:00Z"},
		{"id":"bad","amount":1,"date":"not a date"}
	]`)

	got, err := Decode(data)
	require.Error(t, err)
	assert.Nil(t, got)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, de.Index)
}

func TestDecodeNotJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"id":"x"}`))
	assert.Error(t, err, "an object is not a snapshot")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-06-01T09:30:00+02:00", time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)},
		{"2025-06-01T09:30:00", time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)},
		{"2025-06-01 09:30:00", time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)},
		{"2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		require.NoError(t, err, "input: %q", tt.input)
		assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %s", tt.input, got)
		assert.Equal(t, time.Local, got.Location())
	}
}
