package model

// ConstraintType discriminates structured constraints attached to a
// requirement or to the whole program.
type ConstraintType string

const (
	// ConstraintAllowDoubleCount whitelists one course to fulfill an exact
	// set of requirements simultaneously.
	ConstraintAllowDoubleCount ConstraintType = "allow_double_count"
	// ConstraintRequireCourseFromSections restricts a requirement's candidate
	// courses to those also matching requirements in the listed sections.
	ConstraintRequireCourseFromSections ConstraintType = "require_course_from_sections"
	// ConstraintMinCourseCount / ConstraintMaxCourseCount bound how many
	// courses from a subset may appear in the final fulfillment set.
	ConstraintMinCourseCount ConstraintType = "min_course_count"
	ConstraintMaxCourseCount ConstraintType = "max_course_count"
	// ConstraintMinCredits / ConstraintMaxCredits bound credits from a subset.
	ConstraintMinCredits ConstraintType = "min_credits"
	ConstraintMaxCredits ConstraintType = "max_credits"
	// ConstraintCourseNumberMin requires Count courses at or above MinNumber
	// in a subject.
	ConstraintCourseNumberMin ConstraintType = "course_number_min"
)

// Constraint is the tagged union over all structured constraint variants.
type Constraint struct {
	Type ConstraintType `json:"type"`

	// allow_double_count
	Course         string   `json:"course,omitempty"`
	RequirementIDs []string `json:"requirementIds,omitempty"`

	// require_course_from_sections
	Operator   GroupOperator `json:"operator,omitempty"`
	SectionIDs []string      `json:"sectionIds,omitempty"`

	// count/credit caps over a course subset
	Count   int      `json:"count,omitempty"`
	Credits int      `json:"credits,omitempty"`
	Courses []string `json:"courses,omitempty"`

	// course_number_min
	Subject   string `json:"subject,omitempty"`
	MinNumber int    `json:"minNumber,omitempty"`
}
