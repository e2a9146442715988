package model

import "github.com/google/uuid"

// MatchMode 资格组的匹配语义
type MatchMode string

const (
	MatchAll MatchMode = "ALL"
	MatchAny MatchMode = "ANY"
)

// QualificationGroup 一组资格代码及其匹配语义
type QualificationGroup struct {
	Codes []string  `json:"codes"`
	Mode  MatchMode `json:"mode"`
}

// Satisfied 检查给定资格持有函数是否满足本组表达式
func (g QualificationGroup) Satisfied(has func(code string) bool) bool {
	if len(g.Codes) == 0 {
		return true
	}
	switch g.Mode {
	case MatchAny:
		for _, c := range g.Codes {
			if has(c) {
				return true
			}
		}
		return false
	default: // MatchAll
		for _, c := range g.Codes {
			if !has(c) {
				return false
			}
		}
		return true
	}
}

// Requirement 一项覆盖需求
type Requirement struct {
	BaseModel
	DemandID        uuid.UUID `json:"demand_id"`
	ProductType     string    `json:"product_type"`
	AcceptedRanks   []string  `json:"accepted_ranks"`
	Schemes         []Scheme  `json:"schemes"` // 空或含 "Any" = 接受全部制式
	GenderPredicate string    `json:"gender_predicate,omitempty"`

	HeadcountByShift map[string]int `json:"headcount_by_shift"` // shift code -> headcount

	Pattern         WorkPattern        `json:"pattern"`
	CoverageDayMask []int              `json:"coverage_day_mask,omitempty"` // 0=Sunday .. 6=Saturday; 空=全部
	Qualifications  QualificationGroup `json:"qualifications,omitempty"`

	RotationOffsetSource string `json:"rotation_offset_source,omitempty"`
	AnchorDate           string `json:"anchor_date"` // pattern 下标 0 对齐的日历日
}

// AcceptsScheme 判断该需求是否接受给定制式；空列表或含 Any/Global 视为全部接受。
func (r Requirement) AcceptsScheme(s Scheme) bool {
	if len(r.Schemes) == 0 {
		return true
	}
	for _, accepted := range r.Schemes {
		if accepted == s || accepted == "Any" || accepted == "Global" {
			return true
		}
	}
	return false
}

// AcceptsRank 判断该需求是否接受给定 rank；空列表视为全部接受。
func (r Requirement) AcceptsRank(rank string) bool {
	if len(r.AcceptedRanks) == 0 {
		return true
	}
	for _, accepted := range r.AcceptedRanks {
		if accepted == rank || accepted == "All" {
			return true
		}
	}
	return false
}

// CoversWeekday 判断给定 weekday (time.Weekday 编号：0=Sunday..6=Saturday) 是否在覆盖掩码内
func (r Requirement) CoversWeekday(weekday int) bool {
	if len(r.CoverageDayMask) == 0 {
		return true
	}
	for _, d := range r.CoverageDayMask {
		if d == weekday {
			return true
		}
	}
	return false
}

// FilterEligible narrows a candidate pool to employees this requirement
// accepts by scheme and rank — the pre-filtering step ICPMP's own doc
// comment describes as the caller's responsibility before it ever sees
// the pool.
func (r Requirement) FilterEligible(employees []*Employee) []*Employee {
	filtered := make([]*Employee, 0, len(employees))
	for _, e := range employees {
		if r.AcceptsScheme(e.Scheme) && r.AcceptsRank(e.Rank) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
