package allocation

import (
	"math"
	"testing"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/shopspring/decimal"
)

func mustPercent(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	value, err := ParsePercent(s)
	if err != nil {
		t.Fatalf("ParsePercent(%q) failed: %v", s, err)
	}
	return value
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: "0"},
		{input: "0", want: "0"},
		{input: "60", want: "60"},
		{input: "33.33", want: "33.33"},
		{input: "0.5", want: "0.5"},
		{input: "100", want: "100"},
		{input: "100.01", wantErr: true},
		{input: "101", wantErr: true},
		{input: "12.345", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "60%", wantErr: true},
	}

	for _, tc := range cases {
		value, err := ParsePercent(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePercent(%q): expected error, got %s", tc.input, value)
			} else if !apperr.IsValidation(err) {
				t.Errorf("ParsePercent(%q): expected validation error, got %v", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePercent(%q): unexpected error %v", tc.input, err)
			continue
		}
		if !value.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParsePercent(%q) = %s, want %s", tc.input, value, tc.want)
		}
	}
}

func TestComputeHoldings(t *testing.T) {
	lines := []Line{
		{Symbol: "AAPL", Price: 150, Allocation: mustPercent(t, "60")},
		{Symbol: "MSFT", Price: 300, Allocation: mustPercent(t, "40")},
	}

	result, err := ComputeHoldings(lines, 100000)
	if err != nil {
		t.Fatalf("ComputeHoldings failed: %v", err)
	}

	if len(result.Holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(result.Holdings))
	}
	if got := result.Holdings[0].Quantity; math.Abs(got-400) > 1e-9 {
		t.Errorf("AAPL quantity = %f, want 400", got)
	}
	if got := result.Holdings[1].Quantity; math.Abs(got-133.3333333) > 1e-3 {
		t.Errorf("MSFT quantity = %f, want ~133.33", got)
	}
	if math.Abs(result.Invested-100000) > 1e-9 {
		t.Errorf("invested = %f, want 100000", result.Invested)
	}
	if math.Abs(result.RemainingCash) > 1e-9 {
		t.Errorf("remaining cash = %f, want 0", result.RemainingCash)
	}
}

// The converted holdings plus the residual cash must always reconstruct the
// budget: quantity*price per line sums back to invested, invested plus
// remaining equals budget.
func TestComputeHoldingsReconciliation(t *testing.T) {
	lines := []Line{
		{Symbol: "AAPL", Price: 173.21, Allocation: mustPercent(t, "33.33")},
		{Symbol: "MSFT", Price: 411.07, Allocation: mustPercent(t, "33.33")},
		{Symbol: "NVDA", Price: 902.5, Allocation: mustPercent(t, "33.34")},
	}
	budget := 250000.0

	result, err := ComputeHoldings(lines, budget)
	if err != nil {
		t.Fatalf("ComputeHoldings failed: %v", err)
	}

	reconstructed := result.RemainingCash
	for _, holding := range result.Holdings {
		reconstructed += holding.Quantity * holding.AvgPrice
	}
	if math.Abs(reconstructed-budget) > 1e-6 {
		t.Errorf("reconstructed budget = %f, want %f", reconstructed, budget)
	}
}

func TestComputeHoldingsSumTolerance(t *testing.T) {
	cases := []struct {
		name    string
		allocs  []string
		wantErr bool
	}{
		{name: "exact", allocs: []string{"60", "40"}},
		{name: "just inside low", allocs: []string{"60", "39.95"}},
		{name: "just inside high", allocs: []string{"60", "40.05"}},
		{name: "under", allocs: []string{"60", "39.8"}, wantErr: true},
		{name: "over", allocs: []string{"60", "40.2"}, wantErr: true},
		{name: "empty draft", allocs: []string{}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := make([]Line, 0, len(tc.allocs))
			for i, alloc := range tc.allocs {
				lines = append(lines, Line{
					Symbol:     string(rune('A' + i)),
					Price:      100,
					Allocation: mustPercent(t, alloc),
				})
			}

			_, err := ComputeHoldings(lines, 10000)
			if tc.wantErr {
				if !apperr.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestComputeHoldingsBadPriceAborts(t *testing.T) {
	lines := []Line{
		{Symbol: "AAPL", Price: 150, Allocation: mustPercent(t, "50")},
		{Symbol: "GHST", Price: 0, Allocation: mustPercent(t, "50")},
	}

	result, err := ComputeHoldings(lines, 10000)
	if !apperr.IsPriceUnavailable(err) {
		t.Fatalf("expected price-unavailable error, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected no partial result, got %+v", result)
	}
}

func TestComputeHoldingsZeroAllocationLine(t *testing.T) {
	lines := []Line{
		{Symbol: "AAPL", Price: 150, Allocation: mustPercent(t, "100")},
		{Symbol: "MSFT", Price: 300, Allocation: mustPercent(t, "")},
	}

	result, err := ComputeHoldings(lines, 10000)
	if err != nil {
		t.Fatalf("ComputeHoldings failed: %v", err)
	}
	if got := result.Holdings[1].Quantity; got != 0 {
		t.Errorf("zero-allocation quantity = %f, want 0", got)
	}
}
