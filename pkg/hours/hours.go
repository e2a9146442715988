// Package hours implements the MOM hour calculator: a pure, side-effect-free
// decomposition of one worked shift into gross/lunch/normal/overtime/
// rest-day-pay hours under one of three selectable accounting methods.
package hours

import (
	"time"

	apperrors "github.com/paiban/momroster/pkg/errors"
	"github.com/paiban/momroster/pkg/model"
)

// Input carries everything the calculator needs for one employee-shift-day.
// All counters are the running totals *before* this shift is applied.
type Input struct {
	Start     time.Time
	End       time.Time
	Overnight bool

	Scheme    model.Scheme
	IsAPGDD10 bool
	Date      string

	Method model.AccountingMethod
	Rule   model.MonthlyHourLimitRule

	// PatternWorkDaysPerWeek drives the pattern-aware normal-hour override
	// under weeklyThreshold (§4.1); 0 means "no override, plain weekly cap".
	PatternWorkDaysPerWeek int
	// IsSixthConsecutiveDay marks the sixth day of a 6-work-day pattern,
	// which is entirely rest-day-pay under weeklyThreshold.
	IsSixthConsecutiveDay bool

	IsPublicHoliday          bool
	ScheduledToWorkPatternDay bool

	WeekNormalHoursSoFar  float64 // Σ normal hours already booked this ISO week
	MonthNormalHoursSoFar float64 // Σ normal hours already booked this month (monthlyCumulative)

	DaysInMonth            int // for dailyProrated's per-day threshold
	PlannedWorkDaysInMonth int
}

// weeklyCapHours is the hard ISO-week normal-hours cap under weeklyThreshold.
const weeklyCapHours = 44.0

// defaultMonthlyOTCapHours is the hard monthly overtime ceiling absent an
// overriding MonthlyHourLimitRule.
const defaultMonthlyOTCapHours = 72.0

// Calculate decomposes one shift into gross/lunch/normal/overtime/
// rest-day-pay/paid hours. It never clamps silently: malformed input
// produces a structured *errors.AppError instead of a best-effort guess.
func Calculate(in Input) (model.HourBreakdown, error) {
	gross := in.End.Sub(in.Start).Hours()
	if !in.Overnight && gross <= 0 {
		return model.HourBreakdown{}, apperrors.InvalidInput("shift_end", "end must be after start for a non-overnight shift")
	}
	if gross <= 0 {
		return model.HourBreakdown{}, apperrors.InvalidInput("shift_hours", "gross hours must be positive")
	}

	lunch := lunchDeduction(gross)
	net := gross - lunch
	if net < 0 {
		net = 0
	}

	if in.IsPublicHoliday && !in.ScheduledToWorkPatternDay {
		return model.HourBreakdown{
			Gross:      gross,
			Lunch:      lunch,
			RestDayPay: net,
			Paid:       net,
		}, nil
	}

	method := model.NormalizeAccountingMethod(string(in.Method))
	if in.IsSixthConsecutiveDay && method == model.MethodWeeklyThreshold {
		return model.HourBreakdown{
			Gross:      gross,
			Lunch:      lunch,
			RestDayPay: net,
			Paid:       net,
		}, nil
	}

	var normal, overtime float64
	switch method {
	case model.MethodWeeklyThreshold:
		normal, overtime = splitWeeklyThreshold(in, net)
	case model.MethodDailyProrated:
		normal, overtime = splitDailyProrated(in, net)
	case model.MethodMonthlyCumulative:
		normal, overtime = splitMonthlyCumulative(in, net)
	default:
		return model.HourBreakdown{}, apperrors.InvalidInput("accounting_method", "unrecognised accounting method: "+string(in.Method))
	}

	return model.HourBreakdown{
		Gross:    gross,
		Lunch:    lunch,
		Normal:   normal,
		Overtime: overtime,
		Paid:     normal + overtime,
	}, nil
}

// lunchDeduction implements the universal three-tier lunch rule. The
// earlier scheme-P-specific rule is removed (§4.1).
func lunchDeduction(gross float64) float64 {
	switch {
	case gross > 8:
		return 1.0
	case gross > 6:
		return 0.75
	default:
		return 0
	}
}

// patternNormalCap returns the per-shift normal-hour ceiling implied by the
// employee's weekly work-day count under the pattern-aware override; a
// negative cap means "no override, use the weekly budget only".
func patternNormalCap(workDaysPerWeek int) float64 {
	switch workDaysPerWeek {
	case 4:
		return 11.0
	case 5, 6:
		return 8.8
	default:
		return -1
	}
}

func splitWeeklyThreshold(in Input, net float64) (normal, overtime float64) {
	normalCap := patternNormalCap(in.PatternWorkDaysPerWeek)
	tentativeNormal := net
	if normalCap >= 0 && net > normalCap {
		tentativeNormal = normalCap
	}
	tentativeOT := net - tentativeNormal

	if in.IsAPGDD10 {
		// APGD-D10 is exempt from the weekly 44h cap (C2); bounded instead
		// by the monthly totalMaxHours ceiling, enforced at model level.
		return tentativeNormal, tentativeOT
	}

	remainingWeekBudget := weeklyCapHours - in.WeekNormalHoursSoFar
	if remainingWeekBudget < 0 {
		remainingWeekBudget = 0
	}
	actualNormal := tentativeNormal
	if actualNormal > remainingWeekBudget {
		actualNormal = remainingWeekBudget
	}
	spillover := tentativeNormal - actualNormal
	return actualNormal, tentativeOT + spillover
}

func splitDailyProrated(in Input, net float64) (normal, overtime float64) {
	if in.PlannedWorkDaysInMonth <= 0 {
		return 0, net
	}
	values, ok := in.Rule.ValuesFor(in.DaysInMonth)
	if !ok {
		return 0, net
	}
	threshold := values.MinimumContractualHours / float64(in.PlannedWorkDaysInMonth)
	if net <= threshold {
		return net, 0
	}
	return threshold, net - threshold
}

func splitMonthlyCumulative(in Input, net float64) (normal, overtime float64) {
	values, ok := in.Rule.ValuesFor(in.DaysInMonth)
	minContractual := 0.0
	if ok {
		minContractual = values.MinimumContractualHours
	}
	remainingBank := minContractual - in.MonthNormalHoursSoFar
	if remainingBank < 0 {
		remainingBank = 0
	}
	if net <= remainingBank {
		return net, 0
	}
	return remainingBank, net - remainingBank
}

// MonthlyOvertimeCap resolves the hard monthly OT ceiling for a rule,
// falling back to the 72h default when the rule carries no override.
func MonthlyOvertimeCap(rule model.MonthlyHourLimitRule, daysInMonth int) float64 {
	if values, ok := rule.ValuesFor(daysInMonth); ok && values.MaxOvertimeHours > 0 {
		return values.MaxOvertimeHours
	}
	return defaultMonthlyOTCapHours
}

// TotalMaxHours resolves the optional monthly gross-hours ceiling; 0 means
// "not set".
func TotalMaxHours(rule model.MonthlyHourLimitRule, daysInMonth int) float64 {
	if values, ok := rule.ValuesFor(daysInMonth); ok {
		return values.TotalMaxHours
	}
	return 0
}

// CalculateForEmployee resolves in.Rule from rules by (scheme,
// productType, rank) before delegating to Calculate — the §4.1 rule
// resolution step, with 'All' wildcards and fallback to whichever rule in
// the table carries no narrower predicate. A total miss leaves in.Rule at
// its zero value, same as calling Calculate directly.
func CalculateForEmployee(in Input, rules model.MonthlyHourLimitRules, productType, rank string) (model.HourBreakdown, error) {
	if rule, ok := rules.Resolve(in.Scheme, productType, rank); ok {
		in.Rule = rule
	}
	return Calculate(in)
}
