package audit

import (
	"fmt"

	"github.com/openplanner/gradplan-backend/internal/model"
)

// PruneBySectionConstraints applies require_course_from_sections constraints
// to a course's candidate matches. A candidate carrying such a constraint
// survives only if the course also matched requirements in the listed
// sections — all of them for AND, at least one for OR. Candidates without the
// constraint pass through untouched.
func PruneBySectionConstraints(matches []RequirementMatch) []RequirementMatch {
	if len(matches) == 0 {
		return matches
	}

	matchedSections := make(map[string]bool, len(matches))
	for _, m := range matches {
		matchedSections[m.SectionID] = true
	}

	kept := matches[:0:0]
	for _, m := range matches {
		if sectionConstraintSatisfied(m.Constraints, matchedSections) {
			kept = append(kept, m)
		}
	}
	return kept
}

func sectionConstraintSatisfied(constraints []model.Constraint, matchedSections map[string]bool) bool {
	for _, c := range constraints {
		if c.Type != model.ConstraintRequireCourseFromSections {
			continue
		}
		switch c.Operator {
		case model.OperatorOr:
			any := false
			for _, id := range c.SectionIDs {
				if matchedSections[id] {
					any = true
					break
				}
			}
			if !any {
				return false
			}
		default: // AND is the default combination
			for _, id := range c.SectionIDs {
				if !matchedSections[id] {
					return false
				}
			}
		}
	}
	return true
}

// DoubleCountFor returns the requirement-id set an allow_double_count
// exception grants to the given course, or nil when no exception names it.
func DoubleCountFor(courseCode string, constraints []model.Constraint) []string {
	for _, c := range constraints {
		if c.Type == model.ConstraintAllowDoubleCount && c.Course == courseCode {
			return c.RequirementIDs
		}
	}
	return nil
}

// ─── Audit-style constraint reporting ──────────────────────────────────────

// FulfilledCourse is one row of a final fulfillment set joined with its
// catalog course, the shape audit constraints are evaluated against.
type FulfilledCourse struct {
	RequirementID string
	Course        *model.Course
	Credits       int
}

// ConstraintResult reports one constraint's outcome for progress display.
type ConstraintResult struct {
	Constraint model.Constraint `json:"constraint"`
	Satisfied  bool             `json:"satisfied"`
	Message    string           `json:"message"`
}

// EvaluateAuditConstraints checks the declarative auditing constraints
// (count/credit caps, course-number-range minimums) against a final
// fulfillment set. It never mutates state and skips constraint kinds that
// participate in the live assignment loop instead.
func EvaluateAuditConstraints(constraints []model.Constraint, fulfilled []FulfilledCourse) []ConstraintResult {
	var results []ConstraintResult
	for _, c := range constraints {
		switch c.Type {
		case model.ConstraintMinCourseCount:
			n := countCourses(fulfilled, c.Courses)
			results = append(results, ConstraintResult{
				Constraint: c,
				Satisfied:  n >= c.Count,
				Message:    fmt.Sprintf("at least %d courses required, have %d", c.Count, n),
			})
		case model.ConstraintMaxCourseCount:
			n := countCourses(fulfilled, c.Courses)
			results = append(results, ConstraintResult{
				Constraint: c,
				Satisfied:  n <= c.Count,
				Message:    fmt.Sprintf("at most %d courses allowed, have %d", c.Count, n),
			})
		case model.ConstraintMinCredits:
			n := sumCredits(fulfilled, c.Courses)
			results = append(results, ConstraintResult{
				Constraint: c,
				Satisfied:  n >= c.Credits,
				Message:    fmt.Sprintf("at least %d credits required, have %d", c.Credits, n),
			})
		case model.ConstraintMaxCredits:
			n := sumCredits(fulfilled, c.Courses)
			results = append(results, ConstraintResult{
				Constraint: c,
				Satisfied:  n <= c.Credits,
				Message:    fmt.Sprintf("at most %d credits allowed, have %d", c.Credits, n),
			})
		case model.ConstraintCourseNumberMin:
			n := 0
			for _, fc := range fulfilled {
				if fc.Course != nil && fc.Course.Subject == c.Subject && fc.Course.Number >= c.MinNumber {
					n++
				}
			}
			results = append(results, ConstraintResult{
				Constraint: c,
				Satisfied:  n >= c.Count,
				Message:    fmt.Sprintf("at least %d %s courses numbered %d or above required, have %d", c.Count, c.Subject, c.MinNumber, n),
			})
		}
	}
	return results
}

// countCourses counts fulfilled courses restricted to a subset; an empty
// subset means every course counts.
func countCourses(fulfilled []FulfilledCourse, subset []string) int {
	n := 0
	for _, fc := range fulfilled {
		if fc.Course == nil {
			continue
		}
		if len(subset) == 0 || containsString(subset, fc.Course.Code) {
			n++
		}
	}
	return n
}

func sumCredits(fulfilled []FulfilledCourse, subset []string) int {
	total := 0
	for _, fc := range fulfilled {
		if fc.Course == nil {
			continue
		}
		if len(subset) == 0 || containsString(subset, fc.Course.Code) {
			total += fc.Credits
		}
	}
	return total
}
