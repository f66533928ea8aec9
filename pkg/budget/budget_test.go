package budget

import (
	"testing"

	"github.com/spendwise/spendwise/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestPercentageUsed(t *testing.T) {
	tests := []struct {
		name  string
		spent money.Money
		limit money.Money
		want  int
	}{
		{name: "zero limit yields zero", spent: 100000, limit: 0, want: 0},
		{name: "zero spent", spent: 0, limit: 500000, want: 0},
		{name: "rounds half up", spent: 4200_00, limit: 5000_00, want: 84},
		{name: "rounds to nearest", spent: 1234_56, limit: 5000_00, want: 25},
		{name: "exactly full", spent: 5000_00, limit: 5000_00, want: 100},
		{name: "capped at 100", spent: 6000_00, limit: 5000_00, want: 100},
		{name: "far over still 100", spent: 50000_00, limit: 5000_00, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentageUsed(tt.spent, tt.limit))
		})
	}
}

func TestPercentageUsed_Monotonic(t *testing.T) {
	limit := money.Money(5000_00)
	previous := 0
	for spent := money.Money(0); spent <= 7000_00; spent += 100_00 {
		current := PercentageUsed(spent, limit)
		assert.GreaterOrEqual(t, current, previous)
		assert.LessOrEqual(t, current, 100)
		previous = current
	}
}

func TestRemaining_ClampedAtZero(t *testing.T) {
	assert.Equal(t, money.Money(800_00), Remaining(4200_00, 5000_00))
	assert.Equal(t, money.Money(0), Remaining(5000_00, 5000_00))
	assert.Equal(t, money.Money(0), Remaining(6000_00, 5000_00))
}

func TestStatusOf_Boundaries(t *testing.T) {
	tests := []struct {
		percentage int
		want       Status
	}{
		{percentage: 0, want: StatusOK},
		{percentage: 79, want: StatusOK},
		{percentage: 80, want: StatusWarning},
		{percentage: 99, want: StatusWarning},
		{percentage: 100, want: StatusExceeded},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.percentage))
	}
}
