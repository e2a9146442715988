// Package incremental holds the bookkeeping for re-solving only a trailing
// window of a roster (§4.6), keeping everything at or before a cutoff date
// locked: window validation, assignment partitioning, employee-pool and
// locked-context computation, and merging. It does not generate slots or
// run the solver itself; those steps are left to the caller.
package incremental

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/momroster/pkg/errors"
	"github.com/paiban/momroster/pkg/logger"
	"github.com/paiban/momroster/pkg/model"
)

// Window is the temporal scope of an incremental re-solve.
type Window struct {
	CutoffDate    string
	SolveFromDate string
	SolveToDate   string
}

// Validate enforces cutoffDate < solveFromDate <= solveToDate.
func (w Window) Validate() error {
	cutoff, err := model.ParseDate(w.CutoffDate)
	if err != nil {
		return errors.IncrementalWindow("invalid cutoffDate")
	}
	from, err := model.ParseDate(w.SolveFromDate)
	if err != nil {
		return errors.IncrementalWindow("invalid solveFromDate")
	}
	to, err := model.ParseDate(w.SolveToDate)
	if err != nil {
		return errors.IncrementalWindow("invalid solveToDate")
	}
	if !cutoff.Before(from) {
		return errors.IncrementalWindow("cutoffDate must be strictly before solveFromDate")
	}
	if to.Before(from) {
		return errors.IncrementalWindow("solveToDate must not precede solveFromDate")
	}
	return nil
}

// EmployeeChanges captures the joiner/departure/long-leave deltas applied
// on top of the previous run's employee pool.
type EmployeeChanges struct {
	NewJoiners []*model.Employee
	// Departed maps an existing employee id to their notAvailableFrom date.
	Departed map[uuid.UUID]string
	// LongLeave maps an existing employee id to additional unavailable
	// windows to merge onto their record.
	LongLeave map[uuid.UUID][]model.UnavailableWindow
}

// PartitionAssignments splits prior assignments into LOCKED (date <=
// cutoff and not freed by an employee change) and FREED (released back to
// the solvable set — e.g. a locked assignment for an employee who has
// since departed before that date).
func PartitionAssignments(prior []model.Assignment, w Window, changes EmployeeChanges) (locked, freed []model.Assignment) {
	for _, a := range prior {
		if a.Date > w.CutoffDate {
			continue // falls inside the solvable window, not this partition's concern
		}
		if freedByChange(a, changes) {
			freed = append(freed, a)
			continue
		}
		locked = append(locked, a)
	}
	return locked, freed
}

func freedByChange(a model.Assignment, changes EmployeeChanges) bool {
	if a.EmployeeID == nil {
		return false
	}
	if notAvailableFrom, ok := changes.Departed[*a.EmployeeID]; ok && a.Date >= notAvailableFrom {
		return true
	}
	for _, w := range changes.LongLeave[*a.EmployeeID] {
		if w.Contains(a.Date) {
			return true
		}
	}
	return false
}

// BuildEmployeePool computes previous ∪ new-joiners − departed-before-cutoff,
// applying long-leave windows as additional unavailability on the kept
// records (§4.6 step 3).
func BuildEmployeePool(previous []*model.Employee, w Window, changes EmployeeChanges) []*model.Employee {
	var pool []*model.Employee
	for _, e := range previous {
		if notAvailableFrom, ok := changes.Departed[e.ID]; ok {
			if notAvailableFrom <= w.CutoffDate {
				continue
			}
			// Departure falls inside the solvable window: kept in the
			// pool (their locked assignments survive unchanged) but
			// stamped with NotAvailableFrom so IsEligibleOn excludes
			// them from new slots on or after that date.
			e.NotAvailableFrom = notAvailableFrom
		}
		if windows, ok := changes.LongLeave[e.ID]; ok {
			e.Unavailable = append(e.Unavailable, windows...)
		}
		pool = append(pool, e)
	}
	pool = append(pool, changes.NewJoiners...)
	return pool
}

// LockedContext is the set of pre-horizon accumulations derived from the
// locked assignments for C2/C3/C4. The Constraint Model Builder takes only
// weekly hours (constraintmodel.HourState, one value per employee); it has
// no input for ConsecutiveDays or LastShiftEnd.
type LockedContext struct {
	WeeklyHours     map[uuid.UUID]map[string]float64 // employee -> iso-week -> normal hours
	ConsecutiveDays map[uuid.UUID]int                // run ending exactly on cutoffDate
	LastShiftEnd    map[uuid.UUID]*time.Time
}

// ComputeLockedContext implements §4.6 step 4. When basis is outcomeBased,
// consecutive-day tracking is skipped (template-based rosters have no
// continuous pattern) but weekly hours are still computed since C2 needs
// them regardless of mode.
func ComputeLockedContext(locked []model.Assignment, cutoffDate string, basis model.RosteringBasis) LockedContext {
	ctx := LockedContext{
		WeeklyHours:     make(map[uuid.UUID]map[string]float64),
		ConsecutiveDays: make(map[uuid.UUID]int),
		LastShiftEnd:    make(map[uuid.UUID]*time.Time),
	}

	byEmployee := make(map[uuid.UUID][]model.Assignment)
	for _, a := range locked {
		if a.EmployeeID == nil || !a.IsWorked() {
			continue
		}
		byEmployee[*a.EmployeeID] = append(byEmployee[*a.EmployeeID], a)

		if ctx.WeeklyHours[*a.EmployeeID] == nil {
			ctx.WeeklyHours[*a.EmployeeID] = make(map[string]float64)
		}
		ctx.WeeklyHours[*a.EmployeeID][model.ISOWeek(a.Date)] += a.Hours.Normal

		end, err := model.ParseDate(a.Date)
		if err == nil {
			end = end.Add(time.Duration(a.Hours.Gross) * time.Hour)
			if cur := ctx.LastShiftEnd[*a.EmployeeID]; cur == nil || end.After(*cur) {
				ctx.LastShiftEnd[*a.EmployeeID] = &end
			}
		}
	}

	if basis == model.BasisOutcomeBased {
		return ctx
	}

	for empID, assignments := range byEmployee {
		ctx.ConsecutiveDays[empID] = consecutiveRunEndingOn(assignments, cutoffDate)
	}
	return ctx
}

// consecutiveRunEndingOn counts the worked-day streak ending exactly on
// cutoffDate; 0 if the cutoff day itself has no worked assignment.
func consecutiveRunEndingOn(assignments []model.Assignment, cutoffDate string) int {
	worked := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		worked[a.Date] = true
	}
	if !worked[cutoffDate] {
		return 0
	}
	run := 0
	date, err := model.ParseDate(cutoffDate)
	if err != nil {
		return 0
	}
	for {
		key := model.FormatDate(date)
		if !worked[key] {
			break
		}
		run++
		date = date.AddDate(0, 0, -1)
		if run > 366 {
			break // defensive bound, mirrors the teacher's own loop guards
		}
	}
	return run
}

// DetectMode reads rosteringBasis from the first demand item, defaulting
// to demandBased when absent (§4.6 step 5).
func DetectMode(basisHints []model.RosteringBasis) model.RosteringBasis {
	if len(basisHints) == 0 || basisHints[0] == "" {
		return model.BasisDemandBased
	}
	return basisHints[0]
}

// Merge combines locked assignments (re-stamped source=locked, unchanged)
// with newly solved assignments (source=incremental, previousJobID
// attached), re-sorted by (date, employee) per §4.6 step 7.
func Merge(locked, resolved []model.Assignment, runID, previousJobID string) []model.Assignment {
	unresolved := 0
	for _, a := range resolved {
		if a.Status == model.StatusUnassigned {
			unresolved++
		}
	}
	logger.NewRosterLogger().IncrementalMerge(runID, len(locked), len(resolved)-unresolved, unresolved)

	out := make([]model.Assignment, 0, len(locked)+len(resolved))
	for _, a := range locked {
		a.Audit.Source = model.SourceLocked
		out = append(out, a)
	}
	for _, a := range resolved {
		a.Audit.Source = model.SourceIncremental
		a.Audit.SolverRunID = runID
		a.Audit.PreviousJobID = previousJobID
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return employeeKey(out[i].EmployeeID) < employeeKey(out[j].EmployeeID)
	})
	return out
}

func employeeKey(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
