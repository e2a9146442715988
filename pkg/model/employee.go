// Package model 定义排班引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// Qualification 资格认证及其有效期
type Qualification struct {
	Code      string `json:"code"`
	ValidFrom string `json:"valid_from"` // YYYY-MM-DD
	ValidTo   string `json:"valid_to,omitempty"`
}

// ValidOn 检查该资格在给定日期是否有效
func (q Qualification) ValidOn(date string) bool {
	if q.ValidFrom != "" && date < q.ValidFrom {
		return false
	}
	if q.ValidTo != "" && date > q.ValidTo {
		return false
	}
	return true
}

// UnavailableWindow 员工不可用日期区间（请假、离职、外派等）
type UnavailableWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// Contains 判断日期是否落在不可用区间内
func (w UnavailableWindow) Contains(date string) bool {
	return date >= w.StartDate && date <= w.EndDate
}

// Employee 员工（MOM 制式下的排班主体）
type Employee struct {
	BaseModel
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Scheme       Scheme   `json:"scheme"`
	ProductTypes []string `json:"product_types"` // 如 APO, SO
	Rank         string   `json:"rank"`
	Gender       string   `json:"gender,omitempty"`

	Qualifications []Qualification     `json:"qualifications,omitempty"`
	Unavailable    []UnavailableWindow `json:"unavailable,omitempty"`

	// RotationOffset 是该员工相对 WorkPattern 起始点的整数偏移量，
	// 范围应为 [0, L)；摄入时按 NormalizedOffset 归一化，不拒绝越界值。
	RotationOffset int `json:"rotation_offset"`

	AvailableFrom    string `json:"available_from,omitempty"`    // 新入职生效日
	NotAvailableFrom string `json:"not_available_from,omitempty"` // 离职失效日

	// MonthlyShiftsCounts 按月累计已有班次数，外部传入供工时核算延续使用
	MonthlyShiftsCounts map[string]int `json:"monthly_shifts_counts,omitempty"`
}

// HasProductType 检查员工是否携带指定 product-type 标签
func (e *Employee) HasProductType(pt string) bool {
	for _, p := range e.ProductTypes {
		if p == pt {
			return true
		}
	}
	return false
}

// IsAPGDD10 派生分类：scheme=A 且携带 APO product-type；从不持久化，始终现算。
func (e *Employee) IsAPGDD10() bool {
	return e.Scheme == SchemeA && e.HasProductType("APO")
}

// NormalizedOffset 将 RotationOffset 归一化到 [0, L)；L<=0 时原样返回。
func (e *Employee) NormalizedOffset(cycleLength int) int {
	if cycleLength <= 0 {
		return e.RotationOffset
	}
	r := e.RotationOffset % cycleLength
	if r < 0 {
		r += cycleLength
	}
	return r
}

// IsUnavailableOn 检查员工在给定日期是否处于不可用区间
func (e *Employee) IsUnavailableOn(date string) bool {
	for _, w := range e.Unavailable {
		if w.Contains(date) {
			return true
		}
	}
	return false
}

// HasQualification 检查员工在给定日期是否持有有效的指定资格
func (e *Employee) HasQualification(code, date string) bool {
	for _, q := range e.Qualifications {
		if q.Code == code && q.ValidOn(date) {
			return true
		}
	}
	return false
}

// IsEligibleOn 综合判断员工在给定日期是否具备被排班的基本资格
// (不含排班需求侧的 rank/scheme/qualification 谓词，那部分由 Requirement 负责)
func (e *Employee) IsEligibleOn(date string) bool {
	if e.AvailableFrom != "" && date < e.AvailableFrom {
		return false
	}
	if e.NotAvailableFrom != "" && date >= e.NotAvailableFrom {
		return false
	}
	return !e.IsUnavailableOn(date)
}

// EmployeeID 类型别名，便于在约束/求解层以统一类型传递标识
type EmployeeID = uuid.UUID
