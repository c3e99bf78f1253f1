package dto

import "github.com/noah-isme/siap-guru-api/internal/models"

// DashboardQuery selects the time window of a dashboard or export.
type DashboardQuery struct {
	Filter string `form:"filter" json:"filter"`
	Date   string `form:"date" json:"date"`
	Month  string `form:"month" json:"month"`
}

// RateSummary holds counts and the rounded present rate of a group.
type RateSummary struct {
	Count        int `json:"count"`
	PresentCount int `json:"presentCount"`
	RatePercent  int `json:"ratePercent"`
}

// ClassRate is a RateSummary for one class.
type ClassRate struct {
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
	RateSummary
}

// TeacherRate is a RateSummary for one teacher.
type TeacherRate struct {
	TeacherID string `json:"teacherId"`
	Name      string `json:"name"`
	RateSummary
}

// StatusTotals counts records by outcome. Leave and sick share one counter.
type StatusTotals struct {
	Present     int `json:"present"`
	LeaveOrSick int `json:"leaveOrSick"`
	Absent      int `json:"absent"`
	Total       int `json:"total"`
}

// DistributionRow holds per-bucket counts for one class or teacher.
type DistributionRow struct {
	Key   string `json:"key"`
	Label string `json:"name"`
	Hadir int    `json:"Hadir"`
	Izin  int    `json:"Izin"`
	Sakit int    `json:"Sakit"`
	Alpha int    `json:"Alpha"`
	Total int    `json:"total"`
}

// WindowInfo echoes the resolved time window.
type WindowInfo struct {
	Filter    string `json:"filter"`
	Reference string `json:"reference"`
	Month     string `json:"month,omitempty"`
}

// AdminOverview is the administrator landing dashboard.
type AdminOverview struct {
	Window       WindowInfo        `json:"window"`
	Totals       StatusTotals      `json:"totals"`
	OverallRate  int               `json:"overallRate"`
	ByClass      []ClassRate       `json:"byClass"`
	ByTeacher    []TeacherRate     `json:"byTeacher"`
	Distribution []DistributionRow `json:"distribution"`
}

// ClassDetail drills into one class, distributing its records by teacher.
type ClassDetail struct {
	Window       WindowInfo                `json:"window"`
	Class        models.ClassInfo          `json:"class"`
	Summary      RateSummary               `json:"summary"`
	Totals       StatusTotals              `json:"totals"`
	Distribution []DistributionRow         `json:"distribution"`
	Records      []models.AttendanceRecord `json:"records"`
}

// TeacherDetail drills into one teacher, distributing their records by class.
type TeacherDetail struct {
	Window       WindowInfo                `json:"window"`
	Teacher      models.Teacher            `json:"teacher"`
	Summary      RateSummary               `json:"summary"`
	Totals       StatusTotals              `json:"totals"`
	Distribution []DistributionRow         `json:"distribution"`
	Records      []models.AttendanceRecord `json:"records"`
}

// ClassRepDashboard is the class representative's view of their own class.
type ClassRepDashboard struct {
	Window    WindowInfo       `json:"window"`
	Class     models.ClassInfo `json:"class"`
	Summary   RateSummary      `json:"summary"`
	ByTeacher []TeacherRate    `json:"byTeacher"`
	Today     MonitoringView   `json:"today"`
}
