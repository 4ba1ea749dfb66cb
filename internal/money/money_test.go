package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squareupapp/squareup-server/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    money.Amount
		wantErr bool
	}{
		{name: "WholeDollars", in: "30", want: 3000},
		{name: "Cents", in: "12.34", want: 1234},
		{name: "SingleDecimal", in: "0.5", want: 50},
		{name: "Negative", in: "-5.25", want: -525},
		{name: "SubCentPrecision", in: "1.005", wantErr: true},
		{name: "NotANumber", in: "ten", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, money.ErrInvalidAmount)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "12.34", money.Amount(1234).String())
	assert.Equal(t, "0.05", money.Amount(5).String())
	assert.Equal(t, "-3.00", money.Amount(-300).String())
	assert.Equal(t, "0.00", money.Amount(0).String())
}

func TestAmount_JSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(money.Amount(1999))
	require.NoError(t, err)
	assert.Equal(t, `"19.99"`, string(out))

	var back money.Amount
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, money.Amount(1999), back)
}

func TestAmount_UnmarshalLegacyNumber(t *testing.T) {
	// Older clients send raw JSON numbers; the literal digits are parsed
	// exactly, never through a float.
	var a money.Amount
	require.NoError(t, json.Unmarshal([]byte(`15.15`), &a))
	assert.Equal(t, money.Amount(1515), a)

	require.Error(t, json.Unmarshal([]byte(`1.005`), &a))
}
