package slotgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paiban/momroster/pkg/model"
)

func horizonDates(start string, n int) []string {
	t, _ := model.ParseDate(start)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = model.FormatDate(t.AddDate(0, 0, i))
	}
	return out
}

func TestGenerate_OffDayCellsProduceNoSlotVariables(t *testing.T) {
	req := model.Requirement{
		BaseModel:        model.NewBaseModel(),
		DemandID:         uuid.New(),
		AnchorDate:       "2026-01-05", // Monday
		Pattern:          model.WorkPattern{Codes: []string{"D", "D", "D", "D", "D", "O", "O"}},
		HeadcountByShift: map[string]int{"D": 2},
	}
	shiftDefs := map[string]model.ShiftDefinition{
		"D": {Code: "D", GrossHours: 8, LunchBreakMins: 60},
	}

	slots, direct := Generate(req, horizonDates("2026-01-05", 7), shiftDefs, Options{})

	if len(slots) != 5*2 {
		t.Fatalf("expected 10 slots (5 work days x headcount 2), got %d", len(slots))
	}
	if len(direct) != 2 {
		t.Fatalf("expected 2 direct OFF_DAY records, got %d", len(direct))
	}
	for _, d := range direct {
		if d.Status != model.StatusOffDay {
			t.Errorf("expected OFF_DAY status, got %s", d.Status)
		}
	}
}

func TestGenerate_USlotCellsProduceUnassignedDirectly(t *testing.T) {
	req := model.Requirement{
		BaseModel:        model.NewBaseModel(),
		DemandID:         uuid.New(),
		AnchorDate:       "2026-01-05",
		Pattern:          model.WorkPattern{Codes: []string{"D", "U"}},
		HeadcountByShift: map[string]int{"D": 1},
	}
	shiftDefs := map[string]model.ShiftDefinition{
		"D": {Code: "D", GrossHours: 8, LunchBreakMins: 60},
	}

	slots, direct := Generate(req, horizonDates("2026-01-05", 2), shiftDefs, Options{})

	if len(slots) != 1 {
		t.Fatalf("expected 1 slot on the D day, got %d", len(slots))
	}
	if len(direct) != 1 || direct[0].Status != model.StatusUnassigned {
		t.Fatalf("expected 1 direct UNASSIGNED record, got %+v", direct)
	}
}

func TestGenerate_PublicHolidaySkipsDay(t *testing.T) {
	req := model.Requirement{
		BaseModel:        model.NewBaseModel(),
		DemandID:         uuid.New(),
		AnchorDate:       "2026-01-05",
		Pattern:          model.WorkPattern{Codes: []string{"D"}},
		HeadcountByShift: map[string]int{"D": 1},
	}
	shiftDefs := map[string]model.ShiftDefinition{
		"D": {Code: "D", GrossHours: 8, LunchBreakMins: 60},
	}

	slots, direct := Generate(req, horizonDates("2026-01-05", 3), shiftDefs, Options{
		PublicHolidays: map[string]bool{"2026-01-06": true},
	})

	if len(slots)+len(direct) != 2 {
		t.Fatalf("expected the public holiday day entirely skipped, got %d total records", len(slots)+len(direct))
	}
	for _, s := range slots {
		if s.Date == "2026-01-06" {
			t.Errorf("expected no slot generated for the skipped public holiday date")
		}
	}
}

func TestGenerate_SlotIDIsDeterministic(t *testing.T) {
	req := model.Requirement{
		BaseModel:        model.NewBaseModel(),
		DemandID:         uuid.New(),
		AnchorDate:       "2026-01-05",
		Pattern:          model.WorkPattern{Codes: []string{"D"}},
		HeadcountByShift: map[string]int{"D": 1},
	}
	shiftDefs := map[string]model.ShiftDefinition{
		"D": {Code: "D", GrossHours: 8, LunchBreakMins: 60},
	}

	a, _ := Generate(req, horizonDates("2026-01-05", 1), shiftDefs, Options{})
	b, _ := Generate(req, horizonDates("2026-01-05", 1), shiftDefs, Options{})

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected exactly 1 slot per run, got %d and %d", len(a), len(b))
	}
	if a[0].SlotID != b[0].SlotID {
		t.Errorf("slot-id not deterministic: %s != %s", a[0].SlotID, b[0].SlotID)
	}
}

func TestGenerate_CoverageDayMaskExcludesWeekday(t *testing.T) {
	req := model.Requirement{
		BaseModel:        model.NewBaseModel(),
		DemandID:         uuid.New(),
		AnchorDate:       "2026-01-05",
		Pattern:          model.WorkPattern{Codes: []string{"D"}},
		HeadcountByShift: map[string]int{"D": 1},
		CoverageDayMask:  []int{1, 2, 3, 4, 5}, // Mon-Fri only
	}
	shiftDefs := map[string]model.ShiftDefinition{
		"D": {Code: "D", GrossHours: 8, LunchBreakMins: 60},
	}

	// 2026-01-10 is a Saturday, outside the mask.
	slots, direct := Generate(req, []string{"2026-01-10"}, shiftDefs, Options{})
	if len(slots) != 0 || len(direct) != 0 {
		t.Errorf("expected no records for a weekday outside the coverage mask, got %d slots, %d direct", len(slots), len(direct))
	}
}
