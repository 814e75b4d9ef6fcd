// Package audit implements the requirement rule-matching and auto-assignment
// engine: filter and rule evaluation, specificity scoring, constraint
// validation and the capacity-aware greedy fulfillment assigner. All matching
// and scoring is pure and synchronous; the only I/O happens at the assigner's
// load/clear/create boundary.
package audit

import (
	"fmt"

	"github.com/openplanner/gradplan-backend/internal/model"
)

// EvaluateFilter reports whether a course satisfies a filter expression.
// Composite filters recurse; an unknown filter type never matches.
func EvaluateFilter(course *model.Course, f *model.CourseFilter) bool {
	if course == nil || f == nil {
		return false
	}

	switch f.Type {
	case model.FilterAny:
		return true

	case model.FilterSubjectNumber:
		if !containsString(f.Subjects, course.Subject) {
			return false
		}
		if containsString(f.Exclude, course.Code) {
			return false
		}
		if f.Number == nil {
			return true
		}
		switch f.Number.Kind {
		case model.NumberRange:
			return course.Number >= f.Number.Min && course.Number <= f.Number.Max
		case model.NumberSpecific:
			return containsInt(f.Number.Values, course.Number)
		default:
			return false
		}

	case model.FilterAttribute:
		if containsString(f.ExcludeSubjects, course.Subject) {
			return false
		}
		return course.Attributes.HasAny(f.Attributes)

	case model.FilterCourseList:
		return containsString(f.Courses, course.Code)

	case model.FilterCourseNumberSuffix:
		if course.Suffix == "" || !containsString(f.Suffixes, course.Suffix) {
			return false
		}
		if len(f.Subjects) > 0 && !containsString(f.Subjects, course.Subject) {
			return false
		}
		return !containsString(f.Exclude, course.Code)

	case model.FilterComposite:
		switch f.Operator {
		case model.OperatorAnd:
			for i := range f.Filters {
				if !EvaluateFilter(course, &f.Filters[i]) {
					return false
				}
			}
			return len(f.Filters) > 0
		case model.OperatorOr:
			for i := range f.Filters {
				if EvaluateFilter(course, &f.Filters[i]) {
					return true
				}
			}
			return false
		default:
			return false
		}

	default:
		return false
	}
}

// FilterSpecificity computes a deterministic specificity score for a filter.
// Weights live in scores.go.
func FilterSpecificity(f *model.CourseFilter) float64 {
	if f == nil {
		return 0
	}

	switch f.Type {
	case model.FilterAny:
		return ScoreFilterAny

	case model.FilterSubjectNumber:
		score := ScoreSubjectNumberBase
		if f.Number != nil {
			switch f.Number.Kind {
			case model.NumberSpecific:
				score += BonusNumberSpecific
			case model.NumberRange:
				score += BonusNumberRange
			}
		}
		if len(f.Subjects) == 1 {
			score += BonusSingleSubject
		}
		return score

	case model.FilterAttribute:
		// More attributes means a broader filter, so the score shrinks as
		// the set grows.
		score := ScoreAttributeBase - AttributeBreadthPenalty*float64(len(f.Attributes)-1)
		if score < ScoreAttributeFloor {
			score = ScoreAttributeFloor
		}
		if len(f.ExcludeSubjects) > 0 {
			score += BonusAttributeExclusion
		}
		return score

	case model.FilterCourseList:
		score := ScoreCourseListBase
		switch {
		case len(f.Courses) == 1:
			score += BonusSingleCourse
		case len(f.Courses) <= ShortCourseListMax:
			score += BonusShortCourseList
		}
		return score

	case model.FilterCourseNumberSuffix:
		score := ScoreSuffixBase
		if len(f.Subjects) > 0 {
			score += BonusSuffixSubjectScoped
		}
		if len(f.Suffixes) == 1 {
			score += BonusSingleSuffix
		}
		if len(f.Exclude) > 0 {
			score += BonusSuffixExclusion
		}
		return score

	case model.FilterComposite:
		if len(f.Filters) == 0 {
			return 0
		}
		scores := make([]float64, len(f.Filters))
		for i := range f.Filters {
			scores[i] = FilterSpecificity(&f.Filters[i])
		}
		switch f.Operator {
		case model.OperatorAnd:
			// Average of the two highest sub-scores: a filter with at least
			// two very specific components beats one broad AND.
			top1, top2 := topTwo(scores)
			return (top1 + top2) / 2
		case model.OperatorOr:
			max := scores[0]
			for _, s := range scores[1:] {
				if s > max {
					max = s
				}
			}
			if max > ScoreCompositeOrCap {
				max = ScoreCompositeOrCap
			}
			return max
		default:
			return 0
		}

	default:
		return 0
	}
}

// ValidateFilter checks a filter's well-formedness. It recurses into
// composite sub-filters and returns the first failure found, or nil.
func ValidateFilter(f *model.CourseFilter) error {
	if f == nil {
		return fmt.Errorf("filter is missing")
	}

	switch f.Type {
	case model.FilterAny:
		return nil

	case model.FilterSubjectNumber:
		if len(f.Subjects) == 0 {
			return fmt.Errorf("subject_number filter requires at least one subject")
		}
		if f.Number != nil && f.Number.Kind == model.NumberSpecific && len(f.Number.Values) == 0 {
			return fmt.Errorf("specific number constraint requires at least one value")
		}
		return nil

	case model.FilterAttribute:
		if len(f.Attributes) == 0 {
			return fmt.Errorf("attribute filter requires at least one attribute")
		}
		return nil

	case model.FilterCourseList:
		if len(f.Courses) == 0 {
			return fmt.Errorf("course_list filter requires at least one course")
		}
		return nil

	case model.FilterCourseNumberSuffix:
		if len(f.Suffixes) == 0 {
			return fmt.Errorf("course_number_suffix filter requires at least one suffix")
		}
		return nil

	case model.FilterComposite:
		if f.Operator != model.OperatorAnd && f.Operator != model.OperatorOr {
			return fmt.Errorf("composite filter requires an and/or operator")
		}
		if len(f.Filters) < 2 {
			return fmt.Errorf("composite filter requires at least two sub-filters")
		}
		for i := range f.Filters {
			if err := ValidateFilter(&f.Filters[i]); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown filter type %q", f.Type)
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}

// topTwo returns the two highest values; a single element is returned twice
// so the average degrades gracefully.
func topTwo(scores []float64) (float64, float64) {
	if len(scores) == 1 {
		return scores[0], scores[0]
	}
	first, second := scores[0], scores[1]
	if second > first {
		first, second = second, first
	}
	for _, s := range scores[2:] {
		if s > first {
			second = first
			first = s
		} else if s > second {
			second = s
		}
	}
	return first, second
}
