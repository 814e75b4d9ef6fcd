package model

import (
	"time"

	"github.com/google/uuid"
)

// Term is an academic term (e.g. "Fall 2026").
type Term struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	AcademicYear int       `json:"academic_year"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// Class is a term-specific offering of a catalog course. Planned courses may
// reference a class instead of a bare course code; deleting the term cascades
// to its classes and their planned courses.
type Class struct {
	ID         uuid.UUID `json:"id"`
	TermID     uuid.UUID `json:"term_id"`
	CourseCode string    `json:"course_code"`
	Section    string    `json:"section"`
}
