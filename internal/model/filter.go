package model

// FilterType discriminates the course filter variants.
type FilterType string

const (
	// FilterAny matches every course (open/placeholder filter).
	FilterAny FilterType = "any"
	// FilterSubjectNumber matches by subject list plus optional number constraints.
	FilterSubjectNumber FilterType = "subject_number"
	// FilterAttribute matches courses carrying any of a set of attribute tags.
	FilterAttribute FilterType = "attribute"
	// FilterCourseList matches an explicit course-code allow-list.
	FilterCourseList FilterType = "course_list"
	// FilterCourseNumberSuffix matches by trailing letter suffix (e.g. lab sections).
	FilterCourseNumberSuffix FilterType = "course_number_suffix"
	// FilterComposite combines sub-filters with AND/OR.
	FilterComposite FilterType = "composite"
)

// NumberConstraintKind discriminates course-number constraints.
type NumberConstraintKind string

const (
	NumberRange    NumberConstraintKind = "range"
	NumberSpecific NumberConstraintKind = "specific"
)

// NumberConstraint restricts the numeric part of a course code, either to an
// inclusive [Min, Max] range or to a specific value set.
type NumberConstraint struct {
	Kind   NumberConstraintKind `json:"kind"`
	Min    int                  `json:"min,omitempty"`
	Max    int                  `json:"max,omitempty"`
	Values []int                `json:"values,omitempty"`
}

// CourseFilter is the tagged union over all filter variants. Type selects the
// variant; only the fields belonging to that variant are populated.
type CourseFilter struct {
	Type FilterType `json:"type"`

	// subject_number
	Subjects []string          `json:"subjects,omitempty"`
	Number   *NumberConstraint `json:"number,omitempty"`

	// attribute
	Attributes      []string `json:"attributes,omitempty"`
	ExcludeSubjects []string `json:"excludeSubjects,omitempty"`

	// course_list
	Courses []string `json:"courses,omitempty"`

	// course_number_suffix (Subjects optionally scopes it)
	Suffixes []string `json:"suffixes,omitempty"`

	// subject_number and course_number_suffix: explicit course-code exclusions
	Exclude []string `json:"exclude,omitempty"`

	// composite
	Operator GroupOperator  `json:"operator,omitempty"`
	Filters  []CourseFilter `json:"filters,omitempty"`
}
