// Package patternvalidator runs the upfront MOM feasibility check of a
// work pattern (§4.2), before any slot or constraint-model construction.
// A structural infeasibility here aborts the solve: per-day incremental
// feedback from the constraint model cannot surface it and would instead
// generate silently-unassigned days.
package patternvalidator

import (
	"fmt"
	"time"

	"github.com/paiban/momroster/pkg/hours"
	"github.com/paiban/momroster/pkg/model"
)

// EligibleGroup is one (scheme, APGD-D10 status) combination represented
// among the employees eligible for a requirement.
type EligibleGroup struct {
	Scheme    model.Scheme
	IsAPGDD10 bool
}

// SchemeViolation collects the human-readable messages produced for one
// eligible group.
type SchemeViolation struct {
	Scheme    model.Scheme
	IsAPGDD10 bool
	Messages  []string
}

// Result is the outcome of validating one requirement's pattern.
type Result struct {
	Feasible     bool
	Violations   []SchemeViolation
	Alternatives []model.WorkPattern
}

// Validator holds the resolved constraint parameters the validator checks
// against; it is stateless otherwise and safe to reuse across requirements.
type Validator struct {
	Params model.ConstraintParameterTable
}

// New creates a pattern validator over the given parameter table. A nil
// table resolves every lookup to its compiled default.
func New(params model.ConstraintParameterTable) *Validator {
	if params == nil {
		params = model.ConstraintParameterTable{}
	}
	return &Validator{Params: params}
}

func defaultMaxConsecutiveDays(scheme model.Scheme, isAPGDD10 bool) float64 {
	if scheme == model.SchemeA && isAPGDD10 {
		return 8
	}
	return 12
}

const (
	defaultMinOffDaysPerWeek = 1
	defaultWeeklyCapHours    = 44
	defaultMonthlyOTCapHours = 72
)

// Validate projects req.Pattern for every represented eligible group and
// checks the five rules of §4.2. shiftDefs resolves pattern cell codes
// (other than 'O'/'U') to their gross-hours/lunch definition.
func (v *Validator) Validate(req model.Requirement, groups []EligibleGroup, shiftDefs map[string]model.ShiftDefinition) *Result {
	result := &Result{Feasible: true}

	for _, g := range groups {
		msgs := v.checkGroup(req, g, shiftDefs)
		if len(msgs) > 0 {
			result.Feasible = false
			result.Violations = append(result.Violations, SchemeViolation{
				Scheme:    g.Scheme,
				IsAPGDD10: g.IsAPGDD10,
				Messages:  msgs,
			})
		}
	}

	if !result.Feasible {
		result.Alternatives = suggestAlternatives()
	}
	return result
}

func (v *Validator) checkGroup(req model.Requirement, g EligibleGroup, shiftDefs map[string]model.ShiftDefinition) []string {
	var msgs []string
	pattern := req.Pattern
	L := pattern.Length()
	if L == 0 {
		return []string{"pattern has zero length"}
	}

	minOffDays := defaultMinOffDaysPerWeek
	if g.IsAPGDD10 {
		minOffDays = 0
	} else {
		minOffDays = int(v.Params.Resolve("C5", "minOffDaysPerWeek", g.Scheme, g.IsAPGDD10, float64(minOffDays)))
	}
	if minOffDays > 0 {
		if worst := worstCaseOffDaysInAnyWeek(pattern, L); worst < minOffDays {
			msgs = append(msgs, fmt.Sprintf("no off-days: a 7-day rolling window has only %d off-day(s), need >= %d", worst, minOffDays))
		}
	}

	maxConsecutive := v.Params.Resolve("C3", "maxConsecutiveDays", g.Scheme, g.IsAPGDD10, defaultMaxConsecutiveDays(g.Scheme, g.IsAPGDD10))
	if longest := pattern.LongestConsecutiveWorkRun(); float64(longest) > maxConsecutive {
		msgs = append(msgs, fmt.Sprintf("consecutive work-days %d exceed limit %.0f for scheme %s", longest, maxConsecutive, g.Scheme))
	}

	dailyCap := v.Params.Resolve("C1", "dailyCapHours", g.Scheme, g.IsAPGDD10, g.Scheme.DailyCapHours())
	for _, code := range distinctWorkCodes(pattern) {
		def, ok := shiftDefs[code]
		if !ok {
			continue
		}
		if def.GrossHours > dailyCap {
			msgs = append(msgs, fmt.Sprintf("shift %s gross hours %.1f exceed scheme %s daily cap %.1f", code, def.GrossHours, g.Scheme, dailyCap))
		}
	}

	var totalNormal, totalOT float64
	for _, code := range pattern.Codes {
		if code == model.CellOff || code == model.CellUnassigned {
			continue
		}
		def, ok := shiftDefs[code]
		if !ok {
			continue
		}
		shiftStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		out, err := hours.Calculate(hours.Input{
			Start:                  shiftStart,
			End:                    shiftStart.Add(time.Duration(def.GrossHours * float64(time.Hour))),
			Overnight:              def.Overnight,
			Scheme:                 g.Scheme,
			IsAPGDD10:              g.IsAPGDD10,
			Method:                 model.MethodWeeklyThreshold,
			PatternWorkDaysPerWeek: projectedWorkDaysPerWeek(pattern),
		})
		if err != nil {
			continue
		}
		totalNormal += out.Normal
		totalOT += out.Overtime
	}

	weeklyCap := v.Params.Resolve("C2", "weeklyCapHours", g.Scheme, g.IsAPGDD10, defaultWeeklyCapHours)
	weeklyProjection := totalNormal * (7.0 / float64(L))
	if !g.IsAPGDD10 && weeklyProjection > weeklyCap {
		msgs = append(msgs, fmt.Sprintf("weekly normal %.1fh > %.0fh", weeklyProjection, weeklyCap))
	}

	monthlyOTCap := v.Params.Resolve("C17", "monthlyOTCapHours", g.Scheme, g.IsAPGDD10, defaultMonthlyOTCapHours)
	monthlyProjection := totalOT * (30.0 / float64(L))
	if monthlyProjection > monthlyOTCap {
		msgs = append(msgs, fmt.Sprintf("monthly overtime %.1fh > %.0fh", monthlyProjection, monthlyOTCap))
	}

	return msgs
}

// worstCaseOffDaysInAnyWeek scans every 7-day window of the pattern taken
// cyclically and returns the minimum off-day count found.
func worstCaseOffDaysInAnyWeek(p model.WorkPattern, L int) int {
	doubled := append(append([]string{}, p.Codes...), p.Codes...)
	worst := 7
	for start := 0; start < L; start++ {
		count := 0
		for i := start; i < start+7; i++ {
			if doubled[i%len(doubled)] == model.CellOff {
				count++
			}
		}
		if count < worst {
			worst = count
		}
	}
	return worst
}

func distinctWorkCodes(p model.WorkPattern) []string {
	seen := map[string]bool{}
	var codes []string
	for _, c := range p.Codes {
		if c == model.CellOff || c == model.CellUnassigned {
			continue
		}
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	return codes
}

// projectedWorkDaysPerWeek rounds the pattern's work-day density to the
// nearest integer so the pattern-aware normal-hour override (4/5/6-day)
// in pkg/hours can apply during projection.
func projectedWorkDaysPerWeek(p model.WorkPattern) int {
	L := p.Length()
	if L == 0 {
		return 0
	}
	density := float64(p.WorkDayCount()) * 7.0 / float64(L)
	rounded := int(density + 0.5)
	if rounded < 1 {
		rounded = 1
	}
	if rounded > 7 {
		rounded = 7
	}
	return rounded
}

func suggestAlternatives() []model.WorkPattern {
	return []model.WorkPattern{
		{Codes: []string{"D", "D", "D", "D", "O", "O", "O"}},
		{Codes: []string{"D", "D", "D", "D", "D", "O", "O"}},
		{Codes: []string{"D", "D", "D", "D", "D", "D", "O", "O", "D", "D", "D", "D", "D", "O"}},
	}
}
