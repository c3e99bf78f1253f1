package dto

import "github.com/noah-isme/siap-guru-api/internal/models"

// PermitScope selects which periods a permit covers.
type PermitScope string

const (
	PermitScopeFullDay       PermitScope = "FULL_DAY"
	PermitScopeSpecificHours PermitScope = "SPECIFIC_HOURS"
)

// IssuePermitRequest is the administrator's leave/sick permit for a teacher.
type IssuePermitRequest struct {
	TeacherID string                  `json:"teacherId"`
	Date      string                  `json:"date"`
	Scope     PermitScope             `json:"scope"`
	Periods   []string                `json:"periods"`
	Status    models.AttendanceStatus `json:"status"`
	Note      string                  `json:"note" validate:"max=500"`
}

// IssuePermitResult lists the records written for a permit.
type IssuePermitResult struct {
	Records []models.AttendanceRecord `json:"records"`
	BulkResult
}
