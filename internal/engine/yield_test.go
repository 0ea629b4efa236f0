package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/vaultsim/internal/model"
)

func TestEarnedYield(t *testing.T) {
	apy := model.APYRange{6, 10}

	tests := []struct {
		name    string
		amount  float64
		elapsed int64
		want    float64
	}{
		{"one year", 10_000, months(12), 800},
		{"fifteen months", 10_000, months(15), 1_000},
		{"half month", 1_200, month / 2, 4},
		{"not started", 10_000, 0, 0},
		{"negative elapsed", 10_000, -month, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EarnedYield(tt.amount, apy, tt.elapsed).InexactFloat64()
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestProjectYield(t *testing.T) {
	vault := model.Vault{CompositeAPY: model.APYRange{5, 15}}

	low, high := ProjectYield(vault, 12_000, 6)
	assert.InDelta(t, 300.0, low, 1e-9)
	assert.InDelta(t, 900.0, high, 1e-9)

	low, high = ProjectYield(vault, 0, 6)
	assert.Zero(t, low)
	assert.Zero(t, high)
}
