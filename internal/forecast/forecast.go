package forecast

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ttportal/internal/money"
)

// Per-unit prices in dinars, fixed by the operator's tariff.
const (
	SMSUnitPrice  = 0.025
	CallUnitPrice = 0.035
)

const (
	MsgNoUsageHistory     = "no usage history for this account"
	MsgNoRechargeHistory  = "no recharge history for this account"
	MsgBalanceUnavailable = "no balance available for this account"
)

type UsagePoint struct {
	Timestamp    time.Time
	CallsMinutes float64
	SMSCount     float64
	DataUsageMB  float64
}

type RechargePoint struct {
	Date           time.Time
	RechargeAmount float64
	DataAddedMB    float64
}

type BalanceSnapshot struct {
	Monetary float64
	Bonus    float64
	DataMB   float64
}

type MonetaryPlanOption struct {
	ID             string  `json:"id"`
	Price          float64 `json:"price"`
	RechargeAmount float64 `json:"rechargeAmount"`
}

type DataPlanOption struct {
	ID           string  `json:"id"`
	Price        float64 `json:"price"`
	DataAmountMB float64 `json:"dataAmountMB"`
}

type Input struct {
	Usage           []UsagePoint
	Recharges       []RechargePoint
	Balance         *BalanceSnapshot
	BonusMultiplier int
	MonetaryPlans   []MonetaryPlanOption
	DataPlans       []DataPlanOption
}

// UsageForecast is the predicted next-day usage.
type UsageForecast struct {
	CallsMinutes float64 `json:"callsMinutes"`
	SMSCount     float64 `json:"smsCount"`
	DataUsageMB  float64 `json:"dataUsageMB"`
}

// RechargeForecast is the predicted next recharge behaviour.
type RechargeForecast struct {
	MonetaryAmount float64 `json:"monetaryAmount"`
	BonusAmount    float64 `json:"bonusAmount"`
	DataAmountMB   float64 `json:"dataAmountMB"`
}

// BalanceProjection is the balance after one predicted day of usage and the
// predicted recharges.
type BalanceProjection struct {
	Monetary float64 `json:"monetaryBalance"`
	Bonus    float64 `json:"bonusBalance"`
	DataMB   float64 `json:"dataBalanceMB"`
}

// WeeklyProjection scales the daily usage prediction to one week.
type WeeklyProjection struct {
	CallsMinutes float64 `json:"callsMinutes"`
	SMSCount     float64 `json:"smsCount"`
	DataUsageMB  float64 `json:"dataUsageMB"`
	Cost         float64 `json:"cost"`
}

// Result is the forecast outcome. Message is set on every terminal
// insufficient-data branch; the remaining fields are populated as far as the
// computation got. The computation itself never fails on well-formed data.
type Result struct {
	Message       string              `json:"message,omitempty"`
	Usage         *UsageForecast      `json:"usage,omitempty"`
	Recharge      *RechargeForecast   `json:"recharge,omitempty"`
	Balance       *BalanceProjection  `json:"projectedBalance,omitempty"`
	Weekly        *WeeklyProjection   `json:"weekly,omitempty"`
	MonetaryPlan  *MonetaryPlanOption `json:"recommendedMonetaryPlan,omitempty"`
	DataPlan      *DataPlanOption     `json:"recommendedDataPlan,omitempty"`
	UsageStats    *UsageDayStats      `json:"usageStats,omitempty"`
	RechargeStats *RechargeDayStats   `json:"rechargeStats,omitempty"`
}

// Engine holds the two injected model fitters: a linear fit for usage series
// and a bagged-tree ensemble for recharge series.
type Engine struct {
	FitUsage    Fitter
	FitRecharge Fitter
}

func NewEngine() *Engine {
	return &Engine{
		FitUsage:    FitLinear,
		FitRecharge: FitBaggedTrees(DefaultEstimators),
	}
}

// Forecast runs the full projection pipeline over one subscriber's history.
func (e *Engine) Forecast(input Input) (Result, error) {
	if len(input.Usage) == 0 {
		return Result{Message: MsgNoUsageHistory}, nil
	}

	usage, err := e.predictUsage(input.Usage)
	if err != nil {
		return Result{}, err
	}
	result := Result{Usage: usage}

	if len(input.Recharges) == 0 {
		result.Message = MsgNoRechargeHistory
		return result, nil
	}
	recharge, err := e.predictRecharge(input.Recharges, input.BonusMultiplier)
	if err != nil {
		return Result{}, err
	}
	result.Recharge = recharge

	if input.Balance == nil {
		result.Message = MsgBalanceUnavailable
		return result, nil
	}
	result.Balance = projectBalance(*input.Balance, *usage, *recharge)

	weekly := weeklyProjection(*usage)
	result.Weekly = &weekly
	result.MonetaryPlan = recommendMonetaryPlan(input.MonetaryPlans, weekly.Cost)
	result.DataPlan = recommendDataPlan(input.DataPlans, weekly.DataUsageMB)

	result.UsageStats = usageStats(input.Usage)
	result.RechargeStats = rechargeStats(input.Recharges)
	return result, nil
}

func (e *Engine) predictUsage(points []UsagePoint) (*UsageForecast, error) {
	earliest := points[0].Timestamp
	for _, p := range points[1:] {
		if p.Timestamp.Before(earliest) {
			earliest = p.Timestamp
		}
	}
	offsets := make([]float64, len(points))
	calls := make([]float64, len(points))
	sms := make([]float64, len(points))
	data := make([]float64, len(points))
	maxOffset := 0.0
	for i, p := range points {
		offsets[i] = dayOffset(earliest, p.Timestamp)
		if offsets[i] > maxOffset {
			maxOffset = offsets[i]
		}
		calls[i] = p.CallsMinutes
		sms[i] = p.SMSCount
		data[i] = p.DataUsageMB
	}
	next := maxOffset + 1

	forecast := &UsageForecast{}
	for _, target := range []struct {
		ys   []float64
		dest *float64
	}{
		{calls, &forecast.CallsMinutes},
		{sms, &forecast.SMSCount},
		{data, &forecast.DataUsageMB},
	} {
		model, err := e.FitUsage(offsets, target.ys)
		if err != nil {
			return nil, fmt.Errorf("fit usage model: %w", err)
		}
		*target.dest = money.Round3(model.Predict(next))
	}
	return forecast, nil
}

func (e *Engine) predictRecharge(points []RechargePoint, bonusMultiplier int) (*RechargeForecast, error) {
	earliest := points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(earliest) {
			earliest = p.Date
		}
	}
	offsets := make([]float64, len(points))
	amounts := make([]float64, len(points))
	data := make([]float64, len(points))
	maxOffset := 0.0
	for i, p := range points {
		offsets[i] = dayOffset(earliest, p.Date)
		if offsets[i] > maxOffset {
			maxOffset = offsets[i]
		}
		amounts[i] = p.RechargeAmount
		data[i] = p.DataAddedMB
	}
	next := maxOffset + 1

	forecast := &RechargeForecast{}
	for _, target := range []struct {
		ys   []float64
		dest *float64
	}{
		{amounts, &forecast.MonetaryAmount},
		{data, &forecast.DataAmountMB},
	} {
		model, err := e.FitRecharge(offsets, target.ys)
		if err != nil {
			return nil, fmt.Errorf("fit recharge model: %w", err)
		}
		*target.dest = money.Round3(model.Predict(next))
	}
	forecast.BonusAmount = money.Round3(forecast.MonetaryAmount * float64(bonusMultiplier))
	return forecast, nil
}

// projectBalance applies one predicted day of usage to the balance under the
// tiered debit policy, then adds the predicted recharges. Bonus and monetary
// balances floor at zero; the data balance is decremented unconditionally
// and may go negative (observed behaviour, kept as is).
func projectBalance(balance BalanceSnapshot, usage UsageForecast, recharge RechargeForecast) *BalanceProjection {
	cost := decimal.NewFromFloat(usage.SMSCount).Mul(decimal.NewFromFloat(SMSUnitPrice)).
		Add(decimal.NewFromFloat(usage.CallsMinutes).Mul(decimal.NewFromFloat(CallUnitPrice)))
	bonus := decimal.NewFromFloat(balance.Bonus)
	monetary := decimal.NewFromFloat(balance.Monetary)
	switch {
	case bonus.GreaterThanOrEqual(cost):
		bonus = bonus.Sub(cost)
	default:
		remainder := cost.Sub(bonus)
		bonus = decimal.Zero
		if monetary.GreaterThanOrEqual(remainder) {
			monetary = monetary.Sub(remainder)
		} else {
			monetary = decimal.Zero
		}
	}
	data := decimal.NewFromFloat(balance.DataMB).Sub(decimal.NewFromFloat(usage.DataUsageMB))

	monetary = monetary.Add(decimal.NewFromFloat(recharge.MonetaryAmount))
	bonus = bonus.Add(decimal.NewFromFloat(recharge.BonusAmount))
	data = data.Add(decimal.NewFromFloat(recharge.DataAmountMB))

	return &BalanceProjection{
		Monetary: round3Decimal(monetary),
		Bonus:    round3Decimal(bonus),
		DataMB:   round3Decimal(data),
	}
}

func weeklyProjection(usage UsageForecast) WeeklyProjection {
	dailyCost := usage.SMSCount*SMSUnitPrice + usage.CallsMinutes*CallUnitPrice
	return WeeklyProjection{
		CallsMinutes: money.Round3(usage.CallsMinutes * 7),
		SMSCount:     money.Round3(usage.SMSCount * 7),
		DataUsageMB:  money.Round3(usage.DataUsageMB * 7),
		Cost:         money.Round3(dailyCost * 7),
	}
}

// recommendMonetaryPlan picks the plan granting the smallest recharge amount
// that still covers the weekly cost. Candidates tie-break on id; nil when no
// plan suffices.
func recommendMonetaryPlan(plans []MonetaryPlanOption, weeklyCost float64) *MonetaryPlanOption {
	var best *MonetaryPlanOption
	for i := range plans {
		plan := plans[i]
		if plan.RechargeAmount < weeklyCost {
			continue
		}
		if best == nil || plan.RechargeAmount < best.RechargeAmount ||
			(plan.RechargeAmount == best.RechargeAmount && plan.ID < best.ID) {
			best = &plan
		}
	}
	return best
}

func recommendDataPlan(plans []DataPlanOption, weeklyDataMB float64) *DataPlanOption {
	var best *DataPlanOption
	for i := range plans {
		plan := plans[i]
		if plan.DataAmountMB < weeklyDataMB {
			continue
		}
		if best == nil || plan.DataAmountMB < best.DataAmountMB ||
			(plan.DataAmountMB == best.DataAmountMB && plan.ID < best.ID) {
			best = &plan
		}
	}
	return best
}

// dayOffset is the whole-day distance between two calendar dates.
func dayOffset(earliest, t time.Time) float64 {
	return float64(int(civilDate(t).Sub(civilDate(earliest)).Hours() / 24))
}

func round3Decimal(value decimal.Decimal) float64 {
	rounded, _ := value.Round(3).Float64()
	return rounded
}
