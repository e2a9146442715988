// Package slotgen expands a requirement's work pattern across a planning
// horizon into concrete, independently addressable slot objects (§4.4).
// Pattern cells 'O' and 'U' never allocate a decision variable — they are
// emitted directly as OFF_DAY / UNASSIGNED records, per the REDESIGN FLAG
// that removed outcome-based mode's former soft-only pattern adherence:
// both demandBased and outcomeBased rosters now treat pattern cells as a
// hard constraint at generation time.
package slotgen

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/paiban/momroster/pkg/model"
)

// Options controls which calendar days are expanded.
type Options struct {
	// PublicHolidays maps "YYYY-MM-DD" to true for days the caller's
	// public-holiday policy disables (skipped, per §4.4 step 1).
	PublicHolidays map[string]bool
}

// Generate walks requirement × horizon day × headcount index and returns
// the slot/off-day/unassigned records for req. shiftDefs resolves a
// pattern cell's shift code to its gross-hours/lunch/overnight definition;
// a cell code absent from shiftDefs is skipped (caller data error, surfaced
// upstream by validation, not re-validated here).
func Generate(req model.Requirement, horizonDates []string, shiftDefs map[string]model.ShiftDefinition, opts Options) ([]model.Slot, []model.Assignment) {
	var slots []model.Slot
	var direct []model.Assignment

	pattern := req.Pattern
	L := pattern.Length()
	if L == 0 {
		return slots, direct
	}
	anchor, err := model.ParseDate(req.AnchorDate)
	if err != nil {
		return slots, direct
	}

	for _, dateStr := range horizonDates {
		date, err := model.ParseDate(dateStr)
		if err != nil {
			continue
		}
		if opts.PublicHolidays != nil && opts.PublicHolidays[dateStr] {
			continue
		}
		if !req.CoversWeekday(int(date.Weekday())) {
			continue
		}

		daysSinceAnchor := int(date.Sub(anchor).Hours() / 24)
		cell := pattern.CellAt(daysSinceAnchor)

		switch cell {
		case model.CellOff:
			direct = append(direct, model.Assignment{
				Date:   dateStr,
				Status: model.StatusOffDay,
			})
			continue
		case model.CellUnassigned:
			direct = append(direct, model.Assignment{
				Date:             dateStr,
				Status:           model.StatusUnassigned,
				UnassignedReason: "icpmp_u_slot",
			})
			continue
		}

		def, ok := shiftDefs[cell]
		if !ok {
			continue
		}
		headcount := req.HeadcountByShift[cell]
		start, end := shiftTimes(date, def)

		for idx := 0; idx < headcount; idx++ {
			slots = append(slots, model.Slot{
				SlotID:         slotID(req, dateStr, cell, idx),
				DemandID:       req.DemandID.String(),
				RequirementID:  req.ID.String(),
				Date:           dateStr,
				ShiftCode:      cell,
				Start:          start,
				End:            end,
				HeadcountIdx:   idx,
				ProductType:    req.ProductType,
				AcceptedRanks:  req.AcceptedRanks,
				Schemes:        req.Schemes,
				Qualifications: req.Qualifications,
			})
		}
	}

	return slots, direct
}

func shiftTimes(date time.Time, def model.ShiftDefinition) (time.Time, time.Time) {
	start := date
	end := start.Add(time.Duration(def.GrossHours * float64(time.Hour)))
	return start, end
}

// slotID builds the deterministic slot identifier described in §4.4:
// {demand-id}-{date}-{shift}-{headcount-index}-{short-hash}. No clock or
// random source is involved so incremental runs can re-derive and match
// the same id for the same (demand, date, shift, index) tuple.
func slotID(req model.Requirement, date, shiftCode string, headcountIdx int) string {
	base := fmt.Sprintf("%s-%s-%s-%d", req.DemandID.String(), date, shiftCode, headcountIdx)
	h := fnv.New32a()
	_, _ = h.Write([]byte(base))
	return fmt.Sprintf("%s-%x", base, h.Sum32())
}
