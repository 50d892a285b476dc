package loanbook

import "github.com/etnz/loanbook/date"

// PresentValue discounts the series back to the start date at the given
// annual rate. Year offsets are actual/actual: day counts are split at
// calendar-year boundaries and each segment is divided by its own year
// length, so leap years discount slightly differently.
func PresentValue(series CashFlowSeries, rate float64, comp Compounding, start date.Date) (float64, error) {
	if err := series.validate(start); err != nil {
		return 0, err
	}
	var pv float64
	for _, f := range series {
		df, err := comp.factor(rate, date.YearsBetween(start, f.On))
		if err != nil {
			return 0, err
		}
		pv += f.Amount * df
	}
	return pv, nil
}
