package model

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a student's course plan across semesters.
type Plan struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	Name        string    `json:"name"`
	CatalogYear int       `json:"catalog_year"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlannedCourse is one course placed in a plan. Credits is the amount the
// student is counting for this instance, which may differ from the catalog
// credit range (transfer credit, overrides). Owned exclusively by its plan.
type PlannedCourse struct {
	ID             uuid.UUID  `json:"id"`
	PlanID         uuid.UUID  `json:"plan_id"`
	CourseCode     string     `json:"course_code"`
	ClassID        *uuid.UUID `json:"class_id,omitempty"` // term-specific offering, if scheduled
	SemesterNumber int        `json:"semester_number"`
	Position       int        `json:"position"`
	Credits        int        `json:"credits"`
}

// PlanProgram associates a plan with a program (primary major, minor, ...).
type PlanProgram struct {
	ID        uuid.UUID `json:"id"`
	PlanID    uuid.UUID `json:"plan_id"`
	ProgramID uuid.UUID `json:"program_id"`
	Position  int       `json:"position"` // list order drives assignment order
}

// ─── Aggregates used by the audit engine ───────────────────────────────────

// PlannedCourseDetail joins a planned course with its catalog course.
// Course is nil when the code no longer resolves in the catalog (orphaned).
type PlannedCourseDetail struct {
	PlannedCourse
	Course *Course `json:"course,omitempty"`
}

// PlanProgramDetail joins a plan-program row with the program's requirement tree.
type PlanProgramDetail struct {
	PlanProgram
	ProgramName  string              `json:"program_name"`
	Requirements ProgramRequirements `json:"requirements"`
}

// PlanDetails is everything the fulfillment assigner needs for one pass:
// planned courses ordered by (semester, position) and programs in list order.
type PlanDetails struct {
	Plan           Plan                  `json:"plan"`
	PlannedCourses []PlannedCourseDetail `json:"planned_courses"`
	Programs       []PlanProgramDetail   `json:"programs"`
}

// ─── Request payloads ──────────────────────────────────────────────────────

// CreatePlanRequest is the payload for creating a plan.
type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	CatalogYear int    `json:"catalog_year" binding:"required,min=2000,max=2100"`
}

// AddPlannedCourseRequest is the payload for placing a course in a plan.
type AddPlannedCourseRequest struct {
	CourseCode     string  `json:"course_code" binding:"required,course_code"`
	ClassID        *string `json:"class_id,omitempty" binding:"omitempty,uuid"`
	SemesterNumber int     `json:"semester_number" binding:"required,min=1,max=16"`
	Position       int     `json:"position" binding:"min=0"`
	Credits        int     `json:"credits" binding:"required,min=0,max=12"`
}

// UpdatePlannedCourseRequest moves a planned course or adjusts its credits.
type UpdatePlannedCourseRequest struct {
	SemesterNumber int `json:"semester_number" binding:"required,min=1,max=16"`
	Position       int `json:"position" binding:"min=0"`
	Credits        int `json:"credits" binding:"required,min=0,max=12"`
}

// AttachProgramRequest links a program to a plan.
type AttachProgramRequest struct {
	ProgramID string `json:"program_id" binding:"required,uuid"`
}
