package model

import (
	"time"

	"github.com/google/uuid"
)

// HourBreakdown 一次分配的工时分解，来自 pkg/hours 的计算结果
type HourBreakdown struct {
	Gross      float64 `json:"gross"`
	Lunch      float64 `json:"lunch"`
	Normal     float64 `json:"normal"`
	Overtime   float64 `json:"overtime"`
	RestDayPay float64 `json:"rest_day_pay"`
	Paid       float64 `json:"paid"`
}

// AssignmentSource 标注分配记录的来源，便于增量合并追溯
type AssignmentSource string

const (
	SourceInitial     AssignmentSource = "initial"
	SourceLocked      AssignmentSource = "locked"
	SourceIncremental AssignmentSource = "incremental"
)

// AuditInfo 分配记录的审计信息
type AuditInfo struct {
	Source        AssignmentSource `json:"source"`
	SolverRunID   string           `json:"solver_run_id,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
	PreviousJobID string           `json:"previous_job_id,omitempty"`
}

// Assignment (slot-id, employee-id, status, hour-breakdown)
// OFF_DAY 与 UNASSIGNED 没有员工但作为一等记录存在 (§7 invariants)。
type Assignment struct {
	SlotID     string           `json:"slot_id"`
	Date       string           `json:"date"`
	EmployeeID *uuid.UUID       `json:"employee_id,omitempty"`
	ShiftCode  string           `json:"shift_code,omitempty"`
	Status     AssignmentStatus `json:"status"`
	Hours      HourBreakdown    `json:"hours"`
	Audit      AuditInfo        `json:"audit_info"`

	// UnassignedReason 由 Constraint Model Builder 提取阶段的尽力归因
	// (§4.5 Extraction)，仅用于诊断，不影响正确性。
	UnassignedReason string `json:"unassigned_reason,omitempty"`
}

// IsWorked 判断该记录是否是实际分配的工作班次
func (a Assignment) IsWorked() bool {
	return a.Status == StatusAssigned && a.EmployeeID != nil
}
