// Package roster assembles the final output bundle (§4.7): a canonical
// one-record-per-(date,employee) assignment array, with the per-employee
// daily-status projection and the roster summary both derived from that
// same array so the three views can never disagree with each other.
package roster

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/paiban/momroster/pkg/model"
)

// EmployeeRoster is one employee's projection: a daily status line plus
// weekly/monthly hour rollups, both computed from the canonical
// assignment array — never tracked independently.
type EmployeeRoster struct {
	EmployeeID   uuid.UUID                         `json:"employee_id"`
	DailyStatus  map[string]model.AssignmentStatus `json:"daily_status"`  // date -> status
	WeeklyHours  map[string]model.HourBreakdown    `json:"weekly_hours"`  // iso-week -> breakdown
	MonthlyHours map[string]model.HourBreakdown    `json:"monthly_hours"` // YYYY-MM -> breakdown
}

// Summary tallies assignment counts by status across the whole roster.
type Summary struct {
	ByStatus         map[model.AssignmentStatus]int `json:"by_status"`
	TotalAssignments int                             `json:"total_assignments"`
}

// Roster is the assembled output bundle.
type Roster struct {
	Assignments []model.Assignment           `json:"assignments"`
	ByEmployee  map[uuid.UUID]*EmployeeRoster `json:"by_employee"`
	Summary     Summary                       `json:"summary"`
}

// Assemble builds the canonical bundle from the final assignment array.
// assignments must already contain every (date, employee) pair in the
// horizon (ASSIGNED, OFF_DAY, or UNASSIGNED) — slotgen/incremental are
// responsible for that completeness; this pass only projects views from
// what it is given.
func Assemble(assignments []model.Assignment) *Roster {
	r := &Roster{
		Assignments: assignments,
		ByEmployee:  make(map[uuid.UUID]*EmployeeRoster),
		Summary:     Summary{ByStatus: make(map[model.AssignmentStatus]int)},
	}

	for _, a := range assignments {
		r.Summary.ByStatus[a.Status]++
		r.Summary.TotalAssignments++

		if a.EmployeeID == nil {
			continue
		}
		er := r.ByEmployee[*a.EmployeeID]
		if er == nil {
			er = &EmployeeRoster{
				EmployeeID:   *a.EmployeeID,
				DailyStatus:  make(map[string]model.AssignmentStatus),
				WeeklyHours:  make(map[string]model.HourBreakdown),
				MonthlyHours: make(map[string]model.HourBreakdown),
			}
			r.ByEmployee[*a.EmployeeID] = er
		}
		er.DailyStatus[a.Date] = a.Status

		week := model.ISOWeek(a.Date)
		er.WeeklyHours[week] = addHours(er.WeeklyHours[week], a.Hours)

		month := model.MonthKey(a.Date)
		er.MonthlyHours[month] = addHours(er.MonthlyHours[month], a.Hours)
	}

	return r
}

func addHours(a, b model.HourBreakdown) model.HourBreakdown {
	return model.HourBreakdown{
		Gross:      a.Gross + b.Gross,
		Lunch:      a.Lunch + b.Lunch,
		Normal:     a.Normal + b.Normal,
		Overtime:   a.Overtime + b.Overtime,
		RestDayPay: a.RestDayPay + b.RestDayPay,
		Paid:       a.Paid + b.Paid,
	}
}

// Violation is a structural breach surfaced in the diagnostic report —
// shaped after the teacher's per-constraint violation record, generalized
// to the hour-cap checks this assembler can derive purely from its own
// weekly/monthly rollups.
type Violation struct {
	Code       string    `json:"code"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Period     string    `json:"period"` // iso-week or YYYY-MM
	Message    string    `json:"message"`
	Severity   string    `json:"severity"` // error/warning
}

// CapCheck names the hour ceilings the report checks against, already
// resolved per-employee through model.ConstraintParameterTable by the
// caller (C2/C6/C17).
type CapCheck struct {
	WeeklyNormalCapHours float64
	MonthlyOTCapHours    float64
}

// ViolationReport scans every employee's rollups and flags weekly-normal
// and monthly-overtime overruns. APGD-D10 employees are exempt from the
// weekly check (C2); isAPGDD10 is the per-employee APGD-D10 lookup the
// caller supplies since Roster itself does not carry employee records.
func (r *Roster) ViolationReport(caps map[uuid.UUID]CapCheck, isAPGDD10 map[uuid.UUID]bool) []Violation {
	var out []Violation

	empIDs := make([]uuid.UUID, 0, len(r.ByEmployee))
	for id := range r.ByEmployee {
		empIDs = append(empIDs, id)
	}
	sort.Slice(empIDs, func(i, j int) bool { return empIDs[i].String() < empIDs[j].String() })

	for _, empID := range empIDs {
		er := r.ByEmployee[empID]
		capCheck, ok := caps[empID]
		if !ok {
			continue
		}

		if !isAPGDD10[empID] {
			for _, week := range sortedKeys(er.WeeklyHours) {
				if h := er.WeeklyHours[week].Normal; h > capCheck.WeeklyNormalCapHours {
					out = append(out, Violation{
						Code:       "weekly_normal_cap_exceeded",
						EmployeeID: empID,
						Period:     week,
						Message:    fmt.Sprintf("weekly normal %.1fh > %.1fh", h, capCheck.WeeklyNormalCapHours),
						Severity:   "error",
					})
				}
			}
		}

		for _, month := range sortedKeys(er.MonthlyHours) {
			if ot := er.MonthlyHours[month].Overtime; ot > capCheck.MonthlyOTCapHours {
				out = append(out, Violation{
					Code:       "monthly_overtime_cap_exceeded",
					EmployeeID: empID,
					Period:     month,
					Message:    fmt.Sprintf("monthly overtime %.1fh > %.1fh", ot, capCheck.MonthlyOTCapHours),
					Severity:   "error",
				})
			}
		}
	}

	return out
}

func sortedKeys(m map[string]model.HourBreakdown) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
