package forecast

import (
	"math"
	"testing"
	"time"
)

func day(offset int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func approx(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestForecastEmptyUsageIsTerminal(t *testing.T) {
	result, err := NewEngine().Forecast(Input{})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if result.Message != MsgNoUsageHistory {
		t.Fatalf("expected %q, got %q", MsgNoUsageHistory, result.Message)
	}
	if result.Usage != nil || result.Recharge != nil || result.Balance != nil {
		t.Fatal("a terminal result must carry no predictions")
	}
}

func TestForecastNoRechargeHistoryIsTerminal(t *testing.T) {
	input := Input{
		Usage: []UsagePoint{
			{Timestamp: day(0), CallsMinutes: 10, SMSCount: 4, DataUsageMB: 100},
			{Timestamp: day(1), CallsMinutes: 12, SMSCount: 6, DataUsageMB: 110},
		},
	}
	result, err := NewEngine().Forecast(input)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if result.Message != MsgNoRechargeHistory {
		t.Fatalf("expected %q, got %q", MsgNoRechargeHistory, result.Message)
	}
	if result.Usage == nil {
		t.Fatal("usage predictions must still be populated")
	}
}

func TestForecastNoBalanceIsTerminal(t *testing.T) {
	input := Input{
		Usage: []UsagePoint{
			{Timestamp: day(0), CallsMinutes: 10, SMSCount: 4, DataUsageMB: 100},
			{Timestamp: day(1), CallsMinutes: 12, SMSCount: 6, DataUsageMB: 110},
		},
		Recharges: []RechargePoint{
			{Date: day(0), RechargeAmount: 5},
			{Date: day(3), RechargeAmount: 10},
		},
		BonusMultiplier: 2,
	}
	result, err := NewEngine().Forecast(input)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if result.Message != MsgBalanceUnavailable {
		t.Fatalf("expected %q, got %q", MsgBalanceUnavailable, result.Message)
	}
	if result.Usage == nil || result.Recharge == nil {
		t.Fatal("usage and recharge predictions must still be populated")
	}
	if result.Balance != nil || result.Weekly != nil {
		t.Fatal("no projection without a balance row")
	}
}

func TestForecastFullPipeline(t *testing.T) {
	input := Input{
		Usage: []UsagePoint{
			{Timestamp: day(0), CallsMinutes: 10, SMSCount: 4, DataUsageMB: 100},
			{Timestamp: day(1), CallsMinutes: 12, SMSCount: 6, DataUsageMB: 110},
			{Timestamp: day(2), CallsMinutes: 14, SMSCount: 8, DataUsageMB: 120},
		},
		Recharges: []RechargePoint{
			{Date: day(0), RechargeAmount: 5, DataAddedMB: 0},
			{Date: day(5), RechargeAmount: 5, DataAddedMB: 0},
		},
		Balance:         &BalanceSnapshot{Monetary: 10, Bonus: 2, DataMB: 500},
		BonusMultiplier: 3,
		MonetaryPlans: []MonetaryPlanOption{
			{ID: "m1", Price: 1, RechargeAmount: 0.95},
			{ID: "m2", Price: 2, RechargeAmount: 1.8},
		},
		DataPlans: []DataPlanOption{
			{ID: "d1", Price: 2.3, DataAmountMB: 500},
			{ID: "d2", Price: 4, DataAmountMB: 800},
		},
	}
	result, err := NewEngine().Forecast(input)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if result.Message != "" {
		t.Fatalf("unexpected terminal message %q", result.Message)
	}
	// perfectly linear usage history: next day continues the line
	approx(t, result.Usage.CallsMinutes, 16, 1e-9)
	approx(t, result.Usage.SMSCount, 10, 1e-9)
	approx(t, result.Usage.DataUsageMB, 130, 1e-9)
	// constant recharge series: the forest predicts the constant
	approx(t, result.Recharge.MonetaryAmount, 5, 1e-9)
	approx(t, result.Recharge.BonusAmount, 15, 1e-9)
	if result.Weekly == nil || result.MonetaryPlan == nil {
		t.Fatal("expected a weekly projection and a plan recommendation")
	}
	approx(t, result.Weekly.CallsMinutes, 112, 1e-9)
	if result.UsageStats == nil || result.RechargeStats == nil {
		t.Fatal("expected the daily statistics rows")
	}
}

func TestForecastIsDeterministic(t *testing.T) {
	input := Input{
		Usage: []UsagePoint{
			{Timestamp: day(0), CallsMinutes: 3, SMSCount: 1, DataUsageMB: 80},
			{Timestamp: day(2), CallsMinutes: 9, SMSCount: 5, DataUsageMB: 140},
			{Timestamp: day(4), CallsMinutes: 6, SMSCount: 2, DataUsageMB: 95},
		},
		Recharges: []RechargePoint{
			{Date: day(0), RechargeAmount: 5, DataAddedMB: 100},
			{Date: day(2), RechargeAmount: 12, DataAddedMB: 700},
			{Date: day(5), RechargeAmount: 7, DataAddedMB: 250},
		},
		Balance:         &BalanceSnapshot{Monetary: 4, Bonus: 1, DataMB: 200},
		BonusMultiplier: 2,
	}
	first, err := NewEngine().Forecast(input)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	second, err := NewEngine().Forecast(input)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if *first.Recharge != *second.Recharge || *first.Balance != *second.Balance {
		t.Fatal("the same history must always produce the same forecast")
	}
}

func TestProjectBalanceBonusCoversPartOfCost(t *testing.T) {
	// cost 1.5 against bonus 1.0 and monetary 5.0: bonus drains, the
	// shortfall of 0.5 comes out of monetary
	usage := UsageForecast{SMSCount: 60} // 60 x 0.025 = 1.5
	projection := projectBalance(BalanceSnapshot{Monetary: 5, Bonus: 1}, usage, RechargeForecast{})
	approx(t, projection.Bonus, 0, 1e-9)
	approx(t, projection.Monetary, 4.5, 1e-9)
}

func TestProjectBalanceInsufficientFundsFloorsAtZero(t *testing.T) {
	// cost 1.0 against bonus 0.2 and monetary 0.1: both floor to zero
	usage := UsageForecast{SMSCount: 40} // 40 x 0.025 = 1.0
	projection := projectBalance(BalanceSnapshot{Monetary: 0.1, Bonus: 0.2}, usage, RechargeForecast{})
	approx(t, projection.Bonus, 0, 1e-9)
	approx(t, projection.Monetary, 0, 1e-9)
}

func TestProjectBalanceDataMayGoNegative(t *testing.T) {
	usage := UsageForecast{DataUsageMB: 25}
	projection := projectBalance(BalanceSnapshot{DataMB: 10}, usage, RechargeForecast{})
	approx(t, projection.DataMB, -15, 1e-9)
}

func TestProjectBalanceAddsPredictedRecharge(t *testing.T) {
	recharge := RechargeForecast{MonetaryAmount: 5, BonusAmount: 10, DataAmountMB: 500}
	projection := projectBalance(BalanceSnapshot{Monetary: 1, Bonus: 0, DataMB: 100}, UsageForecast{}, recharge)
	approx(t, projection.Monetary, 6, 1e-9)
	approx(t, projection.Bonus, 10, 1e-9)
	approx(t, projection.DataMB, 600, 1e-9)
}

func TestWeeklyProjectionScalesBySeven(t *testing.T) {
	weekly := weeklyProjection(UsageForecast{CallsMinutes: 10, SMSCount: 4, DataUsageMB: 100})
	approx(t, weekly.CallsMinutes, 70, 1e-9)
	approx(t, weekly.SMSCount, 28, 1e-9)
	approx(t, weekly.DataUsageMB, 700, 1e-9)
	approx(t, weekly.Cost, money3(10*CallUnitPrice+4*SMSUnitPrice)*7, 1e-9)
}

func money3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func TestRecommendMonetaryPlanCheapestSufficient(t *testing.T) {
	plans := []MonetaryPlanOption{
		{ID: "m1", RechargeAmount: 0.95},
		{ID: "m2", RechargeAmount: 1.8},
		{ID: "m3", RechargeAmount: 4.385},
		{ID: "m4", RechargeAmount: 8.77},
	}
	best := recommendMonetaryPlan(plans, 1.5)
	if best == nil || best.RechargeAmount != 1.8 {
		t.Fatalf("expected the 1.8 plan, got %+v", best)
	}
}

func TestRecommendMonetaryPlanNoneSufficient(t *testing.T) {
	plans := []MonetaryPlanOption{{ID: "m1", RechargeAmount: 0.95}}
	if best := recommendMonetaryPlan(plans, 50); best != nil {
		t.Fatalf("expected no recommendation, got %+v", best)
	}
}

func TestRecommendMonetaryPlanTieBreaksOnID(t *testing.T) {
	plans := []MonetaryPlanOption{
		{ID: "m2", RechargeAmount: 2},
		{ID: "m1", RechargeAmount: 2},
	}
	best := recommendMonetaryPlan(plans, 1)
	if best == nil || best.ID != "m1" {
		t.Fatalf("expected plan m1, got %+v", best)
	}
}

func TestRecommendDataPlanCheapestSufficient(t *testing.T) {
	plans := []DataPlanOption{
		{ID: "d1", DataAmountMB: 75},
		{ID: "d2", DataAmountMB: 500},
		{ID: "d3", DataAmountMB: 800},
	}
	best := recommendDataPlan(plans, 300)
	if best == nil || best.DataAmountMB != 500 {
		t.Fatalf("expected the 500 MB plan, got %+v", best)
	}
}

func TestFitLinearPerfectLine(t *testing.T) {
	model, err := FitLinear([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	approx(t, model.Predict(10), 21, 1e-9)
}

func TestFitLinearSingleDayPredictsMean(t *testing.T) {
	model, err := FitLinear([]float64{0, 0, 0}, []float64{2, 4, 6})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	approx(t, model.Predict(5), 4, 1e-9)
}

func TestFitLinearNoSamples(t *testing.T) {
	if _, err := FitLinear(nil, nil); err == nil {
		t.Fatal("expected an error for an empty series")
	}
}

func TestFitBaggedTreesConstantSeries(t *testing.T) {
	fit := FitBaggedTrees(DefaultEstimators)
	model, err := fit([]float64{0, 1, 2, 3}, []float64{5, 5, 5, 5})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	approx(t, model.Predict(4), 5, 1e-9)
}

func TestFitBaggedTreesReproducible(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{2, 9, 4, 12, 6, 3}
	fit := FitBaggedTrees(50)
	first, err := fit(xs, ys)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	second, err := fit(xs, ys)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	approx(t, first.Predict(6), second.Predict(6), 0)
}

func TestUsageStatsLatestDateOnly(t *testing.T) {
	points := []UsagePoint{
		{Timestamp: day(0), CallsMinutes: 100},
		{Timestamp: day(1), CallsMinutes: 2},
		{Timestamp: day(1), CallsMinutes: 4},
		{Timestamp: day(1), CallsMinutes: 6},
	}
	stats := usageStats(points)
	if !stats.Date.Equal(day(1)) {
		t.Fatalf("expected the latest date, got %v", stats.Date)
	}
	approx(t, stats.CallsMinutes.Mean, 4, 1e-9)
	approx(t, stats.CallsMinutes.Median, 4, 1e-9)
	approx(t, stats.CallsMinutes.StdDev, 2, 1e-9)
}

func TestUsageStatsSingleSampleStdDevZero(t *testing.T) {
	stats := usageStats([]UsagePoint{{Timestamp: day(0), CallsMinutes: 7}})
	approx(t, stats.CallsMinutes.StdDev, 0, 1e-9)
	approx(t, stats.CallsMinutes.Mean, 7, 1e-9)
}

func TestDayOffsetIgnoresTimeOfDay(t *testing.T) {
	earliest := time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)
	later := time.Date(2025, 1, 3, 1, 0, 0, 0, time.UTC)
	approx(t, dayOffset(earliest, later), 2, 1e-9)
}
