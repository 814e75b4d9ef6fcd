package model

// GroupOperator combines nested rules, sub-filters and section constraints.
type GroupOperator string

const (
	OperatorAnd GroupOperator = "and"
	OperatorOr  GroupOperator = "or"
)

// RuleType discriminates the requirement rule variants.
type RuleType string

const (
	// RuleTakeCourses requires every course in an explicit list.
	RuleTakeCourses RuleType = "take_courses"
	// RuleTakeFromList requires Count items (courses or credits) from a list.
	RuleTakeFromList RuleType = "take_from_list"
	// RuleTakeAnyCourses is a filter-qualified open rule with a credit target.
	RuleTakeAnyCourses RuleType = "take_any_courses"
	// RuleGroup nests sub-rules under an AND/OR operator.
	RuleGroup RuleType = "group"
)

// CountType selects how a take_from_list rule counts progress.
type CountType string

const (
	CountByCourses CountType = "courses"
	CountByCredits CountType = "credits"
)

// Rule is the tagged union over all requirement rule variants. Type selects
// the variant; only the fields belonging to that variant are populated.
type Rule struct {
	Type RuleType `json:"type"`

	// take_courses, take_from_list
	Courses []string `json:"courses,omitempty"`

	// take_from_list
	Count     int       `json:"count,omitempty"`
	CountType CountType `json:"countType,omitempty"`

	// take_any_courses
	CreditsRequired int           `json:"creditsRequired,omitempty"`
	Filter          *CourseFilter `json:"filter,omitempty"`

	// group
	Operator GroupOperator `json:"operator,omitempty"`
	Rules    []Rule        `json:"rules,omitempty"`
}
