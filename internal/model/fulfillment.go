package model

import (
	"time"

	"github.com/google/uuid"
)

// RequirementFulfillment links one planned course to one requirement of one
// plan program, with the credits counted toward it. All rows of a plan
// program are regenerated together on every assignment run; multiple rows may
// reference the same planned course only under an allow_double_count
// exception.
type RequirementFulfillment struct {
	ID              uuid.UUID `json:"id"`
	PlanProgramID   uuid.UUID `json:"plan_program_id"`
	RequirementID   string    `json:"requirement_id"` // "sectionId.requirementId"
	PlannedCourseID uuid.UUID `json:"planned_course_id"`
	CreditsApplied  int       `json:"credits_applied"`
	CreatedAt       time.Time `json:"created_at"`
}
