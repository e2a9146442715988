// Package constraintmodel builds the mixed-integer decision model (§4.5):
// boolean x[slot,employee] variables gated by eligibility, one unassigned
// variable per slot, and, layered on top, the C16/C4/C3/C2 hard
// constraints plus the unassigned, overtime and fairness objective terms
// (C1 is applied through DefaultEligibility). It wraps github.com/nextmv-io/sdk/mip the way the
// community shift-scheduling template does (NewModel/NewBool/NewConstraint/
// NewTerm), generalized from that template's single-shift-pool problem to
// this engine's per-requirement slot/employee eligibility graph.
package constraintmodel

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nextmv-io/sdk/mip"

	apperrors "github.com/paiban/momroster/pkg/errors"
	"github.com/paiban/momroster/pkg/logger"
	"github.com/paiban/momroster/pkg/model"
)

// HourState carries each employee's accumulated hours up to (but not
// including) the planning horizon, so the weekly cap can be enforced as
// "remaining budget" rather than from zero — incremental mode's C2
// wording ("cap is 44 - locked_week_hours"). MonthNormalHoursSoFar is read
// by no constraint (see addMonthlyOvertimeCap).
type HourState struct {
	WeekNormalHoursSoFar  map[uuid.UUID]float64
	MonthNormalHoursSoFar map[uuid.UUID]float64
}

// Weights collects the soft-constraint objective coefficients (S1-S16).
// Only the weights this builder actually uses are named; unnamed soft
// constraints default to the catalogue's documented weight via
// model.ConstraintParameterTable at the caller's discretion before slots
// reach this package.
type Weights struct {
	Unassigned float64 // S-class: heavily penalize leaving coverage unmet
	Overtime   float64 // S: prefer normal hours over overtime
	Fairness   float64 // S: spread workload evenly across eligible employees
}

// DefaultWeights returns the catalogue's compiled defaults.
func DefaultWeights() Weights {
	return Weights{Unassigned: 1000, Overtime: 5, Fairness: 1}
}

// Config mirrors the solver-side knobs named in SPEC_FULL.md's AMBIENT
// STACK (time limit, worker count, random seed); constructing the mip
// model itself needs none of these. Solve applies TimeLimitSeconds to the
// HiGHS wall-clock limit; Workers/RandomSeed are carried for parity with
// pkg/config.SolverConfig but this SDK's HiGHS binding has no exposed
// knob for either, so they are not threaded further.
type Config struct {
	TimeLimitSeconds int
	Workers          int
	RandomSeed       int64
}

// Eligibility decides whether employee e may ever fill slot s. Callers
// build this once per solve from the requirement/employee data; the
// builder never re-derives it.
type Eligibility func(s model.Slot, e *model.Employee) bool

// DefaultEligibility checks date-scoped (un)availability, the C1 daily
// cap, product-type, rank, scheme ("Any"/"Global" wildcards), and the
// qualification expression. It does not check a gender predicate; Slot
// carries none.
func DefaultEligibility(s model.Slot, e *model.Employee) bool {
	if !e.IsEligibleOn(s.Date) {
		return false
	}
	// C1: a shift longer than the employee's scheme daily cap is never
	// fillable by them, regardless of rank/product-type/qualification —
	// excludes scheme-P employees (9h cap) from 12h slots, for example.
	if s.DurationHours() > e.Scheme.DailyCapHours() {
		return false
	}
	if s.ProductType != "" && !e.HasProductType(s.ProductType) {
		return false
	}
	if len(s.AcceptedRanks) > 0 {
		ok := false
		for _, r := range s.AcceptedRanks {
			if r == e.Rank || r == "All" {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(s.Schemes) > 0 {
		ok := false
		for _, sch := range s.Schemes {
			if sch == e.Scheme || sch == "Any" || sch == "Global" {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if !s.Qualifications.Satisfied(func(code string) bool {
		return e.HasQualification(code, s.Date)
	}) {
		return false
	}
	return true
}

// Model is the built decision model, ready for mip.NewSolver.
type Model struct {
	MIP        mip.Model
	X          map[string]map[uuid.UUID]mip.Bool // slotID -> employeeID -> var
	Unassigned map[string]mip.Bool               // slotID -> var
	SlotByID   map[string]model.Slot
}

// Build constructs the model over slots and employees. params resolves
// the C2/C3/C4/C17 thresholds through the four-level priority chain;
// state supplies each employee's pre-horizon hour accumulation for
// incremental-mode budget caps.
func Build(slots []model.Slot, employees []*model.Employee, elig Eligibility, params model.ConstraintParameterTable, state HourState, weights Weights) (*Model, error) {
	if elig == nil {
		elig = DefaultEligibility
	}
	m := mip.NewModel()
	m.Objective().SetMinimize()

	built := &Model{
		MIP:        m,
		X:          make(map[string]map[uuid.UUID]mip.Bool),
		Unassigned: make(map[string]mip.Bool),
		SlotByID:   make(map[string]model.Slot),
	}

	empByID := make(map[uuid.UUID]*model.Employee, len(employees))
	for _, e := range employees {
		empByID[e.ID] = e
	}

	// Variable creation: x[slot,employee] only where eligible; one
	// unassigned[slot] per slot; coverage clause sum x + unassigned = 1.
	for _, s := range slots {
		built.SlotByID[s.SlotID] = s
		built.X[s.SlotID] = make(map[uuid.UUID]mip.Bool)

		cover := m.NewConstraint(mip.Equal, 1.0)
		unassigned := m.NewBool()
		built.Unassigned[s.SlotID] = unassigned
		cover.NewTerm(1.0, unassigned)
		m.Objective().NewTerm(weights.Unassigned, unassigned)

		for _, e := range employees {
			if !elig(s, e) {
				continue
			}
			x := m.NewBool()
			built.X[s.SlotID][e.ID] = x
			cover.NewTerm(1.0, x)
		}
	}

	addOneShiftPerDay(m, built, employees)
	addRestHours(m, built, employees, params)
	addMaxConsecutiveDays(m, built, employees, params)
	addWeeklyHourCap(m, built, employees, params, state, weights)
	addMonthlyOvertimeCap(m, built, employees, params, state)
	addFairnessObjective(m, built, employees, weights)

	return built, nil
}

// addFairnessObjective — S-class workload-balance term. Bounds every
// employee's assigned-hour total by a shared ceiling variable and
// penalizes that ceiling in the objective, the standard min-max
// linearization of "spread hours evenly" (teacher's builtin fairness
// constraint scored the same idea — variance of per-employee totals —
// as a post-hoc penalty; this recasts it as an in-model bound since the
// MIP builder has no post-hoc evaluation pass).
func addFairnessObjective(m mip.Model, built *Model, employees []*model.Employee, weights Weights) {
	if weights.Fairness <= 0 || len(employees) == 0 {
		return
	}
	byEmployee := make(map[uuid.UUID][]model.Slot)
	for slotID, byEmp := range built.X {
		s := built.SlotByID[slotID]
		for empID := range byEmp {
			byEmployee[empID] = append(byEmployee[empID], s)
		}
	}

	ceiling := m.NewFloat(0, math.MaxFloat64)
	m.Objective().NewTerm(weights.Fairness, ceiling)

	for empID, slots := range byEmployee {
		c := m.NewConstraint(mip.LessThanOrEqual, 0)
		for _, s := range slots {
			c.NewTerm(s.DurationHours(), built.X[s.SlotID][empID])
		}
		c.NewTerm(-1.0, ceiling)
	}
}

// slotsByEmployeeDate groups, for each employee, every slot they could
// possibly fill, bucketed by date — the shared scaffolding the per-employee
// constraint passes below all need.
func slotsByEmployeeDate(built *Model, employees []*model.Employee) map[uuid.UUID]map[string][]model.Slot {
	out := make(map[uuid.UUID]map[string][]model.Slot)
	for _, e := range employees {
		out[e.ID] = make(map[string][]model.Slot)
	}
	for slotID, byEmp := range built.X {
		s := built.SlotByID[slotID]
		for empID := range byEmp {
			out[empID][s.Date] = append(out[empID][s.Date], s)
		}
	}
	return out
}

// addOneShiftPerDay — C16: at most one shift per employee per calendar day.
func addOneShiftPerDay(m mip.Model, built *Model, employees []*model.Employee) {
	byDate := slotsByEmployeeDate(built, employees)
	for empID, dates := range byDate {
		for _, slotsOnDate := range dates {
			if len(slotsOnDate) <= 1 {
				continue
			}
			c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			for _, s := range slotsOnDate {
				c.NewTerm(1.0, built.X[s.SlotID][empID])
			}
		}
	}
}

// addRestHours — C4: minimum rest hours between consecutive shifts
// (A/B/General = 8h, P = 1h). Any pair of slots closer together than the
// resolved minimum is forbidden from both being assigned to the same
// employee.
func addRestHours(m mip.Model, built *Model, employees []*model.Employee, params model.ConstraintParameterTable) {
	byDate := slotsByEmployeeDate(built, employees)
	for empID, dates := range byDate {
		e, ok := findEmployee(employees, empID)
		if !ok {
			continue
		}
		minRest := params.Resolve("C4", "minRestHours", e.Scheme, e.IsAPGDD10(), defaultMinRestHours(e.Scheme))

		var allSlots []model.Slot
		for _, slotsOnDate := range dates {
			allSlots = append(allSlots, slotsOnDate...)
		}
		sort.Slice(allSlots, func(i, j int) bool { return allSlots[i].Start.Before(allSlots[j].Start) })

		for i := 0; i < len(allSlots); i++ {
			for j := i + 1; j < len(allSlots); j++ {
				gap := allSlots[j].Start.Sub(allSlots[i].End).Hours()
				if gap < 0 {
					continue // overlapping, already impossible via one-shift-per-day in the common case
				}
				if gap >= minRest {
					break // sorted by start; later pairs only grow the gap
				}
				c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
				c.NewTerm(1.0, built.X[allSlots[i].SlotID][empID])
				c.NewTerm(1.0, built.X[allSlots[j].SlotID][empID])
			}
		}
	}
}

func defaultMinRestHours(scheme model.Scheme) float64 {
	if scheme == model.SchemeP {
		return 1
	}
	return 8
}

// addMaxConsecutiveDays — C3: sliding-window cap on consecutive worked
// calendar days (scheme A = 12, APGD-D10 = 8, B = 12, P = 12).
func addMaxConsecutiveDays(m mip.Model, built *Model, employees []*model.Employee, params model.ConstraintParameterTable) {
	byDate := slotsByEmployeeDate(built, employees)
	for empID, dates := range byDate {
		e, ok := findEmployee(employees, empID)
		if !ok {
			continue
		}
		maxConsecutive := int(params.Resolve("C3", "maxConsecutiveDays", e.Scheme, e.IsAPGDD10(), defaultMaxConsecutive(e.Scheme, e.IsAPGDD10())))

		var sortedDates []string
		for d := range dates {
			sortedDates = append(sortedDates, d)
		}
		sort.Strings(sortedDates)

		windowSize := maxConsecutive + 1
		for start := 0; start+windowSize <= len(sortedDates); start++ {
			window := sortedDates[start : start+windowSize]
			if !isConsecutiveRun(window) {
				continue
			}
			c := m.NewConstraint(mip.LessThanOrEqual, float64(maxConsecutive))
			for _, d := range window {
				for _, s := range dates[d] {
					c.NewTerm(1.0, built.X[s.SlotID][empID])
				}
			}
		}
	}
}

func defaultMaxConsecutive(scheme model.Scheme, isAPGDD10 bool) float64 {
	if scheme == model.SchemeA && isAPGDD10 {
		return 8
	}
	return 12
}

func isConsecutiveRun(dates []string) bool {
	for i := 1; i < len(dates); i++ {
		prev, err1 := model.ParseDate(dates[i-1])
		cur, err2 := model.ParseDate(dates[i])
		if err1 != nil || err2 != nil {
			return false
		}
		if cur.Sub(prev).Hours() != 24 {
			return false
		}
	}
	return true
}

// addWeeklyHourCap — C2: weekly hours <= the resolved cap (default 44) per
// ISO week, APGD-D10 exempt, scheme P exempted (the model has no C6 term
// for it). Uses slot gross hours as a proxy for normal hours (the exact
// normal/overtime split depends on solve-time accumulation order, which
// this linear model does not re-derive). The cap is a hard constraint, so
// hours beyond it cannot be assigned at all; it is not pattern-aware (the
// same cap applies whatever the employee's pattern), and weights.Overtime
// adds a penalty term for every slot counted against it.
func addWeeklyHourCap(m mip.Model, built *Model, employees []*model.Employee, params model.ConstraintParameterTable, state HourState, weights Weights) {
	byDate := slotsByEmployeeDate(built, employees)
	for empID, dates := range byDate {
		e, ok := findEmployee(employees, empID)
		if !ok || e.IsAPGDD10() || e.Scheme == model.SchemeP {
			continue
		}
		weeklyCap := params.Resolve("C2", "weeklyCapHours", e.Scheme, false, 44)
		already := state.WeekNormalHoursSoFar[empID]

		weekGroups := groupByISOWeek(dates)
		for _, slotsInWeek := range weekGroups {
			remaining := weeklyCap - already
			if remaining < 0 {
				remaining = 0
			}
			c := m.NewConstraint(mip.LessThanOrEqual, remaining)
			for _, s := range slotsInWeek {
				c.NewTerm(s.DurationHours(), built.X[s.SlotID][empID])
				m.Objective().NewTerm(weights.Overtime, built.X[s.SlotID][empID])
			}
		}
	}
}

func groupByISOWeek(dates map[string][]model.Slot) map[string][]model.Slot {
	out := make(map[string][]model.Slot)
	for d, slots := range dates {
		out[model.ISOWeek(d)] = append(out[model.ISOWeek(d)], slots...)
	}
	return out
}

// addMonthlyOvertimeCap — C17: resolves the monthly OT cap (default 72h)
// for each employee and discards it. The model gets no C17 constraint or
// objective term, and totalMaxHours is not consulted; monthly OT overruns
// are only reported after assembly, by pkg/roster's ViolationReport
// against caller-supplied caps.
func addMonthlyOvertimeCap(m mip.Model, built *Model, employees []*model.Employee, params model.ConstraintParameterTable, state HourState) {
	for _, e := range employees {
		_ = params.Resolve("C17", "monthlyOTCapHours", e.Scheme, e.IsAPGDD10(), 72)
		_ = state.MonthNormalHoursSoFar[e.ID]
		// Neither value feeds a constraint or objective term.
	}
}

func findEmployee(employees []*model.Employee, id uuid.UUID) (*model.Employee, bool) {
	for _, e := range employees {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Extract reads the solved assignment out of solution for slotID,
// returning the chosen employee (nil if the slot ended up unassigned).
// Best-effort: a slot whose unassigned var is not definitively 1 but has
// no employee var at >= 0.9 either (numerical edge case) is reported
// unassigned with no attributed reason, matching §4.5's "best-effort
// unassigned-slot attribution".
func Extract(built *Model, solution mip.Solution, slotID string) (*uuid.UUID, string) {
	for empID, x := range built.X[slotID] {
		if solution.Value(x) >= 0.9 {
			id := empID
			return &id, ""
		}
	}
	if u, ok := built.Unassigned[slotID]; ok && solution.Value(u) >= 0.9 {
		return nil, "no_eligible_employee_or_capacity"
	}
	return nil, "unresolved"
}

// Solve is the Constraint Model Builder's actual solve entry point (§4.5):
// it builds the model, hands it to the HiGHS MIP solver bounded by cfg's
// wall-clock limit, and counts the slots Extract reports unassigned for
// the completion log. It returns the model and solution, not per-slot
// results; callers read each slot's (employeeID, reason) pair with
// Extract. Build alone only constructs variables and constraints; nothing
// upstream of this function ever calls mip.NewSolver.
func Solve(slots []model.Slot, employees []*model.Employee, elig Eligibility, params model.ConstraintParameterTable, state HourState, weights Weights, cfg Config, runID string) (*Model, mip.Solution, model.SolverStatus, error) {
	rosterLog := logger.NewRosterLogger()
	rosterLog.StartSolve(runID, len(employees), len(slots))
	started := time.Now()

	built, err := Build(slots, employees, elig, params, state, weights)
	if err != nil {
		return nil, nil, model.StatusUnknown, apperrors.Wrap(err, apperrors.CodeInfeasibleModel, "failed to build constraint model")
	}

	solver, err := mip.NewSolver(mip.Highs, built.MIP)
	if err != nil {
		return built, nil, model.StatusUnknown, apperrors.Wrap(err, apperrors.CodeInternal, "failed to construct mip solver")
	}

	var solveOptions mip.SolveOptions
	if cfg.TimeLimitSeconds > 0 {
		solveOptions.Limits.Duration = time.Duration(cfg.TimeLimitSeconds) * time.Second
	}

	solution, err := solver.Solve(solveOptions)
	if err != nil {
		return built, nil, model.StatusUnknown, apperrors.Wrap(err, apperrors.CodeInfeasibleModel, "solve failed")
	}

	status := StatusFromSolution(solution)
	unassignedCount := 0
	for slotID := range built.Unassigned {
		if empID, _ := Extract(built, solution, slotID); empID == nil {
			unassignedCount++
		}
	}
	rosterLog.SolveComplete(runID, time.Since(started), string(status), unassignedCount)

	return built, solution, status, nil
}

// StatusFromSolution maps the nextmv solver's outcome onto
// model.SolverStatus.
func StatusFromSolution(solution mip.Solution) model.SolverStatus {
	switch {
	case solution.IsOptimal():
		return model.StatusOptimal
	case solution.IsSubOptimal():
		return model.StatusFeasible
	default:
		return model.StatusInfeasible
	}
}
