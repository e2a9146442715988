package hours

import (
	"math"
	"testing"
	"time"

	"github.com/paiban/momroster/pkg/model"
)

func shiftOn(date, start, end string) (time.Time, time.Time) {
	s, _ := time.Parse("2006-01-02 15:04", date+" "+start)
	e, _ := time.Parse("2006-01-02 15:04", date+" "+end)
	return s, e
}

func TestCalculate_LunchTiers(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantLunch  float64
	}{
		{"9小时班次", "08:00", "17:00", 1.0},
		{"7小时班次", "08:00", "15:00", 0.75},
		{"5小时班次", "08:00", "13:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := shiftOn("2026-01-05", tt.start, tt.end)
			out, err := Calculate(Input{
				Start:  start,
				End:    end,
				Scheme: model.SchemeB,
				Method: model.MethodWeeklyThreshold,
			})
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if out.Lunch != tt.wantLunch {
				t.Errorf("Lunch = %v, want %v", out.Lunch, tt.wantLunch)
			}
		})
	}
}

func TestCalculate_EndBeforeStartIsError(t *testing.T) {
	start, end := shiftOn("2026-01-05", "17:00", "09:00")
	_, err := Calculate(Input{Start: start, End: end, Scheme: model.SchemeA, Method: model.MethodWeeklyThreshold})
	if err == nil {
		t.Fatal("expected error for non-overnight end <= start")
	}
}

func TestCalculate_WeeklyThresholdSplitsAtRemainingBudget(t *testing.T) {
	start, end := shiftOn("2026-01-05", "08:00", "18:00") // 10h gross, 1h lunch, 9h net
	out, err := Calculate(Input{
		Start:                start,
		End:                  end,
		Scheme:               model.SchemeB,
		Method:               model.MethodWeeklyThreshold,
		WeekNormalHoursSoFar: 40,
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if out.Normal != 4 {
		t.Errorf("Normal = %v, want 4 (remaining weekly budget)", out.Normal)
	}
	if out.Overtime != 5 {
		t.Errorf("Overtime = %v, want 5", out.Overtime)
	}
}

// Scenario 7: scheme A + APO employee (APGD-D10), 6-day pattern, 12h shift,
// weeklyThreshold method. Days 1-5: normal 8.8h; day 6: 0h normal/OT + rest-day-pay.
func TestCalculate_APGDD10SixDayPattern(t *testing.T) {
	start, end := shiftOn("2026-01-05", "07:00", "19:00") // 12h gross, 1h lunch, 11h net

	dayOne, err := Calculate(Input{
		Start:                   start,
		End:                     end,
		Scheme:                  model.SchemeA,
		IsAPGDD10:               true,
		Method:                  model.MethodWeeklyThreshold,
		PatternWorkDaysPerWeek:  6,
		WeekNormalHoursSoFar:    44, // would exhaust a non-exempt weekly budget
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if dayOne.Normal != 8.8 {
		t.Errorf("day 1 normal = %v, want 8.8 (weekly cap exemption must not clip it)", dayOne.Normal)
	}
	if math.Abs(dayOne.Overtime-2.2) > 1e-9 {
		t.Errorf("day 1 overtime = %v, want 2.2", dayOne.Overtime)
	}

	daySix, err := Calculate(Input{
		Start:                  start,
		End:                    end,
		Scheme:                 model.SchemeA,
		IsAPGDD10:              true,
		Method:                 model.MethodWeeklyThreshold,
		PatternWorkDaysPerWeek: 6,
		IsSixthConsecutiveDay:  true,
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if daySix.Normal != 0 || daySix.Overtime != 0 {
		t.Errorf("day 6 normal/overtime = %v/%v, want 0/0", daySix.Normal, daySix.Overtime)
	}
	if daySix.RestDayPay != 11 {
		t.Errorf("day 6 rest-day-pay = %v, want 11", daySix.RestDayPay)
	}
}

func TestCalculate_PublicHolidayNotScheduled(t *testing.T) {
	start, end := shiftOn("2026-02-16", "08:00", "17:00")
	out, err := Calculate(Input{
		Start:                     start,
		End:                       end,
		Scheme:                    model.SchemeB,
		Method:                    model.MethodWeeklyThreshold,
		IsPublicHoliday:           true,
		ScheduledToWorkPatternDay: false,
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if out.Normal != 0 || out.Overtime != 0 {
		t.Errorf("public holiday off-pattern day should have no normal/OT, got normal=%v overtime=%v", out.Normal, out.Overtime)
	}
	if out.RestDayPay != 8 {
		t.Errorf("RestDayPay = %v, want 8", out.RestDayPay)
	}
}

func TestCalculate_MonthlyCumulativeBanksThenOvertimes(t *testing.T) {
	start, end := shiftOn("2026-03-10", "08:00", "18:00") // 10h gross, 1h lunch, 9h net
	rule := model.MonthlyHourLimitRule{
		Method: model.MethodMonthlyCumulative,
		ValuesByMonthLength: map[int]model.MonthlyHourLimitValues{
			31: {MinimumContractualHours: 180},
		},
	}
	out, err := Calculate(Input{
		Start:                 start,
		End:                   end,
		Scheme:                model.SchemeB,
		Method:                model.MethodMonthlyCumulative,
		Rule:                  rule,
		DaysInMonth:           31,
		MonthNormalHoursSoFar: 176,
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if out.Normal != 4 {
		t.Errorf("Normal = %v, want 4 (remaining bank before crossing 180h)", out.Normal)
	}
	if out.Overtime != 5 {
		t.Errorf("Overtime = %v, want 5", out.Overtime)
	}
}

func TestMonthlyOvertimeCap_DefaultsTo72(t *testing.T) {
	if got := MonthlyOvertimeCap(model.MonthlyHourLimitRule{}, 30); got != 72 {
		t.Errorf("MonthlyOvertimeCap() = %v, want 72", got)
	}
}

func TestCalculateForEmployee_ResolvesMostSpecificRuleFirst(t *testing.T) {
	rules := model.MonthlyHourLimitRules{
		{
			Schemes:      []model.Scheme{model.SchemeB},
			ProductTypes: []string{"APO"},
			Ranks:        []string{"All"},
			Method:       model.MethodMonthlyCumulative,
			ValuesByMonthLength: map[int]model.MonthlyHourLimitValues{
				31: {MinimumContractualHours: 160},
			},
		},
		{
			Method: model.MethodMonthlyCumulative, // bare fallback, applies to all
			ValuesByMonthLength: map[int]model.MonthlyHourLimitValues{
				31: {MinimumContractualHours: 180},
			},
		},
	}

	start, end := shiftOn("2026-03-10", "08:00", "18:00") // 10h gross, 1h lunch, 9h net
	in := Input{
		Start:                 start,
		End:                   end,
		Scheme:                model.SchemeB,
		Method:                model.MethodMonthlyCumulative,
		DaysInMonth:           31,
		MonthNormalHoursSoFar: 158,
	}

	out, err := CalculateForEmployee(in, rules, "APO", "Staff Nurse")
	if err != nil {
		t.Fatalf("CalculateForEmployee() error = %v", err)
	}
	if out.Normal != 2 {
		t.Errorf("Normal = %v, want 2 (remaining bank before crossing the scheme-B/APO 160h rule)", out.Normal)
	}
	if out.Overtime != 7 {
		t.Errorf("Overtime = %v, want 7", out.Overtime)
	}

	// A different product type skips the specific rule and falls back to
	// the bare 180h rule instead.
	fallback, err := CalculateForEmployee(in, rules, "SO", "Staff Nurse")
	if err != nil {
		t.Fatalf("CalculateForEmployee() error = %v", err)
	}
	if fallback.Normal != 9 || fallback.Overtime != 0 {
		t.Errorf("fallback Normal/Overtime = %v/%v, want 9/0 (180h bank not yet exhausted)", fallback.Normal, fallback.Overtime)
	}
}

func TestMonthlyHourLimitRules_ResolveMissReturnsFalse(t *testing.T) {
	rules := model.MonthlyHourLimitRules{
		{Schemes: []model.Scheme{model.SchemeA}},
	}
	if _, ok := rules.Resolve(model.SchemeP, "", ""); ok {
		t.Error("expected no rule to match scheme P against a scheme-A-only table")
	}
}
