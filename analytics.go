package goalfolio

import (
	"math"

	"github.com/etnz/goalfolio/date"
	"gonum.org/v1/gonum/stat"
)

// Concentration thresholds: above them the largest holding is a Medium or High risk.
const (
	HighConcentration   Percent = 25
	MediumConcentration Percent = 15
)

// PeriodBucket groups holdings by how long they have been held.
type PeriodBucket struct {
	Label   string
	MaxDays int // inclusive upper bound, -1 for unbounded
	Count   int
	// AverageReturn is the mean PnL percent of the priced holdings of the bucket.
	AverageReturn Percent
}

// holdingPeriods are the bucket bounds, in days.
var holdingPeriods = []PeriodBucket{
	{Label: "< 1 Month", MaxDays: 30},
	{Label: "1-3 Months", MaxDays: 90},
	{Label: "3-6 Months", MaxDays: 180},
	{Label: "6-12 Months", MaxDays: 365},
	{Label: "> 1 Year", MaxDays: -1},
}

// ClassBreakdown sums the holdings of one asset class.
type ClassBreakdown struct {
	Class         AssetClass
	Count         int
	Invested      Money
	Current       Money
	PnL           Money
	AverageReturn Percent
}

// Analytics are the statistics of a valued portfolio.
//
// Return based statistics (Volatility, AverageReturn, WinRate and the buckets'
// averages) use priced holdings only, a stale row has no known return.
type Analytics struct {
	Priced            int // number of holdings with a price
	Volatility        Percent
	AverageReturn     Percent
	WinRate           Percent
	Concentration     Percent // weight of the largest holding
	Largest           string  // name of the largest holding
	ConcentrationRisk RiskLevel
	Periods           []PeriodBucket
	Classes           []ClassBreakdown
}

// ComputeAnalytics computes the statistics of m as of 'on'.
//
// Volatility is the population standard deviation of the holdings' PnL
// percent, a dispersion across holdings rather than over time.
func ComputeAnalytics(m PortfolioMetrics, on date.Date) Analytics {
	var a Analytics
	var returns []float64
	wins := 0
	for _, row := range m.Holdings {
		if row.Stale {
			continue
		}
		returns = append(returns, float64(row.PnLPercent))
		if row.PnLPercent > 0 {
			wins++
		}
	}
	a.Priced = len(returns)
	if len(returns) > 0 {
		mean, std := stat.PopMeanStdDev(returns, nil)
		a.AverageReturn = Percent(mean)
		a.Volatility = Percent(std)
		a.WinRate = Percent(100 * float64(wins) / float64(len(returns)))
	}

	a.Concentration, a.Largest = concentration(m)
	a.ConcentrationRisk = concentrationRisk(a.Concentration)
	a.Periods = periodBuckets(m, on)
	a.Classes = classBreakdown(m)
	return a
}

// concentration returns the weight of the largest holding and its name.
func concentration(m PortfolioMetrics) (Percent, string) {
	if !m.TotalCurrent.IsPositive() {
		return 0, ""
	}
	var largest HoldingMetrics
	for i, row := range m.Holdings {
		if i == 0 || row.CurrentValue.GreaterThan(largest.CurrentValue) {
			largest = row
		}
	}
	return largest.CurrentValue.Percent(m.TotalCurrent), largest.Holding.Name
}

func concentrationRisk(c Percent) RiskLevel {
	switch {
	case c > HighConcentration:
		return High
	case c > MediumConcentration:
		return Medium
	}
	return Low
}

// periodBuckets always returns every bucket, in order.
func periodBuckets(m PortfolioMetrics, on date.Date) []PeriodBucket {
	buckets := make([]PeriodBucket, len(holdingPeriods))
	copy(buckets, holdingPeriods)
	returns := make([][]float64, len(buckets))
	for _, row := range m.Holdings {
		days := max(on.Sub(row.Holding.DateAdded), 0)
		i := bucketIndex(days)
		buckets[i].Count++
		if !row.Stale {
			returns[i] = append(returns[i], float64(row.PnLPercent))
		}
	}
	for i := range buckets {
		buckets[i].AverageReturn = mean(returns[i])
	}
	return buckets
}

func bucketIndex(days int) int {
	for i, b := range holdingPeriods {
		if b.MaxDays < 0 || days <= b.MaxDays {
			return i
		}
	}
	return len(holdingPeriods) - 1
}

// classBreakdown returns one row per asset class present, in AssetClasses order.
func classBreakdown(m PortfolioMetrics) []ClassBreakdown {
	var rows []ClassBreakdown
	for _, class := range AssetClasses {
		row := ClassBreakdown{Class: class}
		var returns []float64
		for _, h := range m.Holdings {
			if h.Holding.Class != class {
				continue
			}
			row.Count++
			row.Invested = row.Invested.Add(h.Holding.Amount)
			row.Current = row.Current.Add(h.CurrentValue)
			if !h.Stale {
				returns = append(returns, float64(h.PnLPercent))
			}
		}
		if row.Count == 0 {
			continue
		}
		row.PnL = row.Current.Sub(row.Invested)
		row.AverageReturn = mean(returns)
		rows = append(rows, row)
	}
	return rows
}

// mean is 0 for an empty list.
func mean(x []float64) Percent {
	if len(x) == 0 {
		return 0
	}
	v := stat.Mean(x, nil)
	if math.IsNaN(v) {
		return 0
	}
	return Percent(v)
}
