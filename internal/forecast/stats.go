package forecast

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"ttportal/internal/money"
)

// FieldStats are the descriptive statistics of one field across the records
// of a single calendar date.
type FieldStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
}

// UsageDayStats is the most recent date's row of per-day usage statistics.
type UsageDayStats struct {
	Date         time.Time  `json:"date"`
	CallsMinutes FieldStats `json:"callsMinutes"`
	SMSCount     FieldStats `json:"smsCount"`
	DataUsageMB  FieldStats `json:"dataUsageMB"`
}

// RechargeDayStats is the most recent date's row of per-day recharge
// statistics.
type RechargeDayStats struct {
	Date           time.Time  `json:"date"`
	RechargeAmount FieldStats `json:"rechargeAmount"`
	DataAddedMB    FieldStats `json:"dataAddedMB"`
}

func usageStats(points []UsagePoint) *UsageDayStats {
	if len(points) == 0 {
		return nil
	}
	latest := civilDate(points[0].Timestamp)
	for _, p := range points[1:] {
		if day := civilDate(p.Timestamp); day.After(latest) {
			latest = day
		}
	}
	var calls, sms, data []float64
	for _, p := range points {
		if civilDate(p.Timestamp).Equal(latest) {
			calls = append(calls, p.CallsMinutes)
			sms = append(sms, p.SMSCount)
			data = append(data, p.DataUsageMB)
		}
	}
	return &UsageDayStats{
		Date:         latest,
		CallsMinutes: describe(calls),
		SMSCount:     describe(sms),
		DataUsageMB:  describe(data),
	}
}

func rechargeStats(points []RechargePoint) *RechargeDayStats {
	if len(points) == 0 {
		return nil
	}
	latest := civilDate(points[0].Date)
	for _, p := range points[1:] {
		if day := civilDate(p.Date); day.After(latest) {
			latest = day
		}
	}
	var amounts, data []float64
	for _, p := range points {
		if civilDate(p.Date).Equal(latest) {
			amounts = append(amounts, p.RechargeAmount)
			data = append(data, p.DataAddedMB)
		}
	}
	return &RechargeDayStats{
		Date:           latest,
		RechargeAmount: describe(amounts),
		DataAddedMB:    describe(data),
	}
}

func describe(values []float64) FieldStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	stats := FieldStats{
		Mean:   money.Round3(stat.Mean(sorted, nil)),
		Median: money.Round3(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
	}
	mode, _ := stat.Mode(sorted, nil)
	stats.Mode = money.Round3(mode)
	if len(sorted) > 1 {
		stats.StdDev = money.Round3(stat.StdDev(sorted, nil))
	}
	return stats
}

// civilDate truncates a timestamp to its calendar date in UTC.
func civilDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
