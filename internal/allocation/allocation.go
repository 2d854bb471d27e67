/**
 * @description
 * Allocation Engine: converts a draft of (symbol, price, percentage) lines plus
 * a budget into concrete share quantities and a residual cash balance.
 * Pure computation; persistence of the result is the caller's responsibility.
 *
 * @dependencies
 * - github.com/shopspring/decimal: exact percentage and cash arithmetic
 * - github.com/PandaBuilds/stock-league/internal/apperr
 *
 * @notes
 * - The 100% sum check runs in decimal so "33.33 + 33.33 + 33.34" passes exactly
 *   instead of depending on float accumulation order.
 * - Atomic: a single non-positive price fails the whole computation.
 */

package allocation

import (
	"regexp"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/shopspring/decimal"
)

var (
	// percentPattern accepts numeric strings with up to two decimal places.
	// The same rule applies wherever allocations are entered, otherwise the
	// 100% invariant stops being meaningful.
	percentPattern = regexp.MustCompile(`^\d*\.?\d{0,2}$`)

	hundred = decimal.NewFromInt(100)

	// SumTolerance is the absolute tolerance, in percentage points, allowed
	// on the total allocation.
	SumTolerance = decimal.NewFromFloat(0.1)
)

// Line is one draft allocation: a chosen stock, its quoted price and the
// percentage of the budget assigned to it.
type Line struct {
	Symbol     string
	Name       string
	Price      float64
	Allocation decimal.Decimal // percent, 0-100
}

// ComputedHolding is the concrete result of converting one line.
type ComputedHolding struct {
	Symbol   string
	Quantity float64
	AvgPrice float64
}

// Result is the full outcome of a draft conversion.
type Result struct {
	Holdings []ComputedHolding
	Invested float64
	// RemainingCash is the raw signed residual (budget minus invested). The
	// ±0.1 sum tolerance means it can be slightly negative; callers clamp for
	// display but the engine keeps the signed value for auditability.
	RemainingCash float64
}

// ParsePercent parses a user-entered allocation percentage.
// Empty input normalizes to 0; values above 100 are rejected; only numeric
// strings with up to two decimal places are accepted.
func ParsePercent(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if !percentPattern.MatchString(s) {
		return decimal.Zero, apperr.Validationf("allocation %q is not a valid percentage", s)
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validationf("allocation %q is not a valid percentage", s)
	}
	if value.GreaterThan(hundred) {
		return decimal.Zero, apperr.Validationf("allocation %s%% exceeds 100%%", value.String())
	}

	return value, nil
}

// ComputeHoldings converts draft lines into holdings against a budget.
// The allocation percentages must sum to 100 within SumTolerance, and every
// line must carry a strictly positive price. Either all lines convert or none do.
func ComputeHoldings(lines []Line, budget float64) (*Result, error) {
	total := decimal.Zero
	for _, line := range lines {
		if line.Allocation.IsNegative() || line.Allocation.GreaterThan(hundred) {
			return nil, apperr.Validationf("allocation for %s must be between 0 and 100", line.Symbol)
		}
		total = total.Add(line.Allocation)
	}

	if total.Sub(hundred).Abs().GreaterThan(SumTolerance) {
		return nil, apperr.Validationf("total allocation must be 100%%, currently %s%%", total.StringFixed(1))
	}

	budgetDec := decimal.NewFromFloat(budget)
	invested := decimal.Zero
	holdings := make([]ComputedHolding, 0, len(lines))

	for _, line := range lines {
		if line.Price <= 0 {
			return nil, &apperr.PriceUnavailableError{Symbol: line.Symbol}
		}

		allocated := budgetDec.Mul(line.Allocation).Div(hundred)
		quantity := allocated.Div(decimal.NewFromFloat(line.Price))
		invested = invested.Add(allocated)

		holdings = append(holdings, ComputedHolding{
			Symbol:   line.Symbol,
			Quantity: quantity.InexactFloat64(),
			AvgPrice: line.Price,
		})
	}

	remaining := budgetDec.Sub(invested)

	return &Result{
		Holdings:      holdings,
		Invested:      invested.InexactFloat64(),
		RemainingCash: remaining.InexactFloat64(),
	}, nil
}
