package money_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mycredit/lending-engine/pkg/money"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5327.605", "5327.61"},
		{"5327.604", "5327.60"},
		{"5327.615", "5327.62"},
		{"100", "100"},
		{"0.005", "0.01"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := money.Round(decimal.RequireFromString(tc.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"Round(%s) = %s, want %s", tc.in, got, tc.want)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.True(t, money.Clamp(decimal.RequireFromString("-0.01")).IsZero())
	assert.True(t, money.Clamp(decimal.Zero).IsZero())

	positive := decimal.RequireFromString("42.50")
	assert.True(t, money.Clamp(positive).Equal(positive))
}

func TestReferenceNo(t *testing.T) {
	loanID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ref := money.ReferenceNo(loanID, at)

	assert.True(t, strings.HasPrefix(ref, "REL-a1b2c3d4-"))
	assert.Equal(t, ref, strings.ToUpper(ref))

	// References at distinct instants never collide.
	other := money.ReferenceNo(loanID, at.Add(time.Millisecond))
	assert.NotEqual(t, ref, other)
}
