// Package model 定义排班核心引擎的数据模型
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scheme 员工用工制式（新加坡人力部 MOM 劳动法分类）
type Scheme string

const (
	SchemeA Scheme = "A" // 全职，日上限 14h
	SchemeB Scheme = "B" // 全职，日上限 13h
	SchemeP Scheme = "P" // 兼职，日上限 9h
)

// DailyCapHours 返回该制式的每日工时硬上限
func (s Scheme) DailyCapHours() float64 {
	switch s {
	case SchemeA:
		return 14
	case SchemeB:
		return 13
	case SchemeP:
		return 9
	default:
		return 0
	}
}

// AccountingMethod 工时核算方法
type AccountingMethod string

const (
	MethodWeeklyThreshold   AccountingMethod = "weeklyThreshold"
	MethodDailyProrated     AccountingMethod = "dailyProrated"
	MethodMonthlyCumulative AccountingMethod = "monthlyCumulative"
)

// NormalizeAccountingMethod 解析方法别名（§4.1 Aliases）
func NormalizeAccountingMethod(raw string) AccountingMethod {
	switch raw {
	case "weeklyThreshold", "weekly44h":
		return MethodWeeklyThreshold
	case "dailyProrated", "dailyContractual":
		return MethodDailyProrated
	case "monthlyCumulative", "monthlyContractual":
		return MethodMonthlyCumulative
	default:
		return AccountingMethod(raw)
	}
}

// AssignmentStatus 分配记录状态
type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "ASSIGNED"
	StatusOffDay     AssignmentStatus = "OFF_DAY"
	StatusUnassigned AssignmentStatus = "UNASSIGNED"
	StatusLocked     AssignmentStatus = "LOCKED"
)

// RosteringBasis 排班依据模式
type RosteringBasis string

const (
	BasisDemandBased  RosteringBasis = "demandBased"
	BasisOutcomeBased RosteringBasis = "outcomeBased"
)

// CoverageType ICPMP 覆盖结果类型
type CoverageType string

const (
	CoverageComplete CoverageType = "complete"
	CoveragePartial  CoverageType = "partial"
)

// SolverStatus CP 求解器结果状态
type SolverStatus string

const (
	StatusOptimal    SolverStatus = "OPTIMAL"
	StatusFeasible   SolverStatus = "FEASIBLE"
	StatusInfeasible SolverStatus = "INFEASIBLE"
	StatusUnknown    SolverStatus = "UNKNOWN"
)

// BaseModel 基础模型（通用标识与时间戳字段）
type BaseModel struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	return BaseModel{ID: uuid.New(), CreatedAt: time.Now()}
}

// DateRange 日期范围（YYYY-MM-DD，含首尾）
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysInRange 返回日期范围内每一天（含首尾）
func DaysInRange(startDate, endDate string) ([]string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDate(d))
	}
	return days, nil
}

// ISOWeek 返回日期所属的 ISO 周标识，格式 "2026-W05"
func ISOWeek(dateStr string) string {
	t, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey 返回日期所属的月份标识 YYYY-MM
func MonthKey(dateStr string) string {
	t, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format("2006-01")
}

// DaysInMonth 返回给定年月的天数
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
