package constraintmodel

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/momroster/pkg/model"
)

func TestDefaultEligibility_RejectsWrongScheme(t *testing.T) {
	slot := model.Slot{Date: "2026-01-05", Schemes: []model.Scheme{model.SchemeB}}
	emp := &model.Employee{Scheme: model.SchemeA}
	if DefaultEligibility(slot, emp) {
		t.Error("expected scheme mismatch to reject eligibility")
	}
}

func TestDefaultEligibility_AnySchemeAccepts(t *testing.T) {
	slot := model.Slot{Date: "2026-01-05", Schemes: []model.Scheme{"Any"}}
	emp := &model.Employee{Scheme: model.SchemeP}
	if !DefaultEligibility(slot, emp) {
		t.Error("expected 'Any' scheme wildcard to accept")
	}
}

func TestDefaultEligibility_RejectsUnavailableEmployee(t *testing.T) {
	slot := model.Slot{Date: "2026-01-10"}
	emp := &model.Employee{
		Unavailable: []model.UnavailableWindow{{StartDate: "2026-01-08", EndDate: "2026-01-12"}},
	}
	if DefaultEligibility(slot, emp) {
		t.Error("expected unavailable-window date to reject eligibility")
	}
}

func TestDefaultEligibility_RejectsShiftLongerThanSchemeDailyCap(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	slot := model.Slot{Date: "2026-01-05", Start: start, End: start.Add(12 * time.Hour)}
	schemeP := &model.Employee{Scheme: model.SchemeP}   // 9h daily cap
	schemeA := &model.Employee{Scheme: model.SchemeA}   // 14h daily cap

	if DefaultEligibility(slot, schemeP) {
		t.Error("expected a 12h slot to exceed scheme P's 9h daily cap and reject eligibility")
	}
	if !DefaultEligibility(slot, schemeA) {
		t.Error("expected a 12h slot to fit within scheme A's 14h daily cap")
	}
}

func TestDefaultEligibility_RequiresQualification(t *testing.T) {
	slot := model.Slot{
		Date:           "2026-01-05",
		Qualifications: model.QualificationGroup{Codes: []string{"CERT-A"}, Mode: model.MatchAll},
	}
	unqualified := &model.Employee{}
	qualified := &model.Employee{Qualifications: []model.Qualification{{Code: "CERT-A", ValidFrom: "2025-01-01"}}}

	if DefaultEligibility(slot, unqualified) {
		t.Error("expected missing qualification to reject eligibility")
	}
	if !DefaultEligibility(slot, qualified) {
		t.Error("expected valid qualification to accept eligibility")
	}
}

func TestIsConsecutiveRun(t *testing.T) {
	if !isConsecutiveRun([]string{"2026-01-05", "2026-01-06", "2026-01-07"}) {
		t.Error("expected consecutive dates to be recognized as a run")
	}
	if isConsecutiveRun([]string{"2026-01-05", "2026-01-07"}) {
		t.Error("expected a gap to break the consecutive run")
	}
}

func TestGroupByISOWeek_SameWeekGrouped(t *testing.T) {
	dates := map[string][]model.Slot{
		"2026-01-05": {{SlotID: "a", Date: "2026-01-05"}},
		"2026-01-06": {{SlotID: "b", Date: "2026-01-06"}},
	}
	grouped := groupByISOWeek(dates)
	if len(grouped) != 1 {
		t.Fatalf("expected both dates in the same ISO week, got %d groups", len(grouped))
	}
	for _, slots := range grouped {
		if len(slots) != 2 {
			t.Errorf("expected 2 slots in the shared week group, got %d", len(slots))
		}
	}
}

func TestBuild_CreatesVariableOnlyForEligibleEmployee(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	slot := model.Slot{
		SlotID:  "slot-1",
		Date:    "2026-01-05",
		Start:   start,
		End:     start.Add(8 * time.Hour),
		Schemes: []model.Scheme{model.SchemeA},
	}
	eligible := &model.Employee{BaseModel: model.NewBaseModel(), Scheme: model.SchemeA}
	ineligible := &model.Employee{BaseModel: model.NewBaseModel(), Scheme: model.SchemeB}

	built, err := Build(
		[]model.Slot{slot},
		[]*model.Employee{eligible, ineligible},
		DefaultEligibility,
		model.ConstraintParameterTable{},
		HourState{WeekNormalHoursSoFar: map[uuid.UUID]float64{}, MonthNormalHoursSoFar: map[uuid.UUID]float64{}},
		DefaultWeights(),
	)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	vars := built.X["slot-1"]
	if len(vars) != 1 {
		t.Fatalf("expected exactly 1 eligible variable, got %d", len(vars))
	}
	if _, ok := vars[eligible.ID]; !ok {
		t.Error("expected the eligible employee's variable to be present")
	}
	if _, ok := built.Unassigned["slot-1"]; !ok {
		t.Error("expected an unassigned variable for the slot")
	}
}

func TestBuild_ZeroFairnessWeightSkipsCeilingVariable(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	slot := model.Slot{SlotID: "slot-1", Date: "2026-01-05", Start: start, End: start.Add(8 * time.Hour)}
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Scheme: model.SchemeA}

	built, err := Build(
		[]model.Slot{slot},
		[]*model.Employee{emp},
		DefaultEligibility,
		model.ConstraintParameterTable{},
		HourState{WeekNormalHoursSoFar: map[uuid.UUID]float64{}, MonthNormalHoursSoFar: map[uuid.UUID]float64{}},
		Weights{Unassigned: 1000, Overtime: 5, Fairness: 0},
	)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// No direct way to inspect objective terms through the mip SDK's public
	// surface; this just asserts the zero-weight path still builds a valid
	// model (the skip is a pure no-op, not a different variable graph).
	if _, ok := built.X["slot-1"][emp.ID]; !ok {
		t.Error("expected the employee's decision variable to still exist")
	}
}

func TestSolve_SingleSlotSingleEmployeeSolvesToOptimalAssigned(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	slot := model.Slot{SlotID: "slot-1", Date: "2026-01-05", Start: start, End: start.Add(8 * time.Hour)}
	emp := &model.Employee{BaseModel: model.NewBaseModel(), Scheme: model.SchemeA}

	built, solution, status, err := Solve(
		[]model.Slot{slot},
		[]*model.Employee{emp},
		DefaultEligibility,
		model.ConstraintParameterTable{},
		HourState{WeekNormalHoursSoFar: map[uuid.UUID]float64{}, MonthNormalHoursSoFar: map[uuid.UUID]float64{}},
		DefaultWeights(),
		Config{TimeLimitSeconds: 5},
		"test-run-1",
	)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if status != model.StatusOptimal && status != model.StatusFeasible {
		t.Fatalf("status = %v, want OPTIMAL or FEASIBLE for a trivially satisfiable model", status)
	}

	empID, reason := Extract(built, solution, "slot-1")
	if empID == nil {
		t.Fatalf("expected slot-1 to be assigned to the only eligible employee, got unassigned (%s)", reason)
	}
	if *empID != emp.ID {
		t.Errorf("assigned employee = %s, want %s", empID, emp.ID)
	}
}
