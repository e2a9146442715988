package model

import "time"

// Slot 原子可分配单元：slot-id、日期、班次代码及需求谓词的延续
type Slot struct {
	SlotID        string    `json:"slot_id"`
	DemandID      string    `json:"demand_id"`
	RequirementID string    `json:"requirement_id"`
	Date          string    `json:"date"`
	ShiftCode     string    `json:"shift_code"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	HeadcountIdx  int       `json:"headcount_index"`

	// 需求谓词延续，供 Constraint Model Builder 的资格判定使用
	ProductType    string             `json:"product_type"`
	AcceptedRanks  []string           `json:"accepted_ranks"`
	Schemes        []Scheme           `json:"schemes"`
	Qualifications QualificationGroup `json:"qualifications"`
}

// DurationHours 返回该 slot 的跨度小时数（已处理跨夜）
func (s Slot) DurationHours() float64 {
	return s.End.Sub(s.Start).Hours()
}
