package discount

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestShouldIssue(t *testing.T) {
	for n := -3; n <= 12; n++ {
		want := n > 0 && n%3 == 0
		assert.Equal(t, want, ShouldIssue(n), "order %d", n)
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		orderNumber int
		want        string
	}{
		{3, "SAVE10_003"},
		{6, "SAVE10_006"},
		{42, "SAVE10_042"},
		{999, "SAVE10_999"},
		{1002, "SAVE10_1002"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeFor(tt.orderNumber))
	}
}

func TestGenerate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	c := Generate(3, now)

	assert.Equal(t, "SAVE10_003", c.Code)
	assert.True(t, decimal.RequireFromString("0.1").Equal(c.Rate))
	assert.False(t, c.Used)
	assert.Nil(t, c.UsedAt)
	assert.Equal(t, 3, c.CreatedForOrderNumber)
	assert.Equal(t, now, c.CreatedAt)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		rate     string
		want     string
	}{
		{name: "whole dollars", subtotal: "999", rate: "0.1", want: "99.9"},
		{name: "macbook", subtotal: "1299", rate: "0.1", want: "129.9"},
		{name: "rounds half up", subtotal: "0.05", rate: "0.1", want: "0.01"},
		{name: "rounds down", subtotal: "12.34", rate: "0.1", want: "1.23"},
		{name: "rounds up", subtotal: "12.36", rate: "0.1", want: "1.24"},
		{name: "zero subtotal", subtotal: "0", rate: "0.1", want: "0"},
		{name: "negative clamps to zero", subtotal: "-10", rate: "0.1", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amount(decimal.RequireFromString(tt.subtotal), decimal.RequireFromString(tt.rate))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"expected %s, got %s", tt.want, got)
		})
	}
}
