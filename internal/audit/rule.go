package audit

import (
	"fmt"

	"github.com/openplanner/gradplan-backend/internal/model"
)

// RuleResult is the outcome of matching one course against one rule.
type RuleResult struct {
	Matches     bool
	Specificity float64
}

// EvaluateRule matches a single course against a single requirement rule.
// Evaluation is pure: the same (rule, course) pair always yields the same
// result. An unknown rule type never matches and never errors.
func EvaluateRule(course *model.Course, r *model.Rule) RuleResult {
	if course == nil || r == nil {
		return RuleResult{}
	}

	switch r.Type {
	case model.RuleTakeCourses:
		if containsString(r.Courses, course.Code) {
			return RuleResult{Matches: true, Specificity: ScoreRuleTakeCourses}
		}
		return RuleResult{}

	case model.RuleTakeFromList:
		// Matching only checks membership; quantity is progress's concern.
		if containsString(r.Courses, course.Code) {
			return RuleResult{Matches: true, Specificity: ScoreRuleTakeFromList}
		}
		return RuleResult{}

	case model.RuleTakeAnyCourses:
		// The open rule delegates to its embedded filter; unknown filter
		// types fall out as non-matches inside EvaluateFilter. A match is
		// intentionally low-specificity so narrower rules win ties.
		if EvaluateFilter(course, r.Filter) {
			return RuleResult{Matches: true, Specificity: ScoreRuleOpen}
		}
		return RuleResult{}

	case model.RuleGroup:
		return evaluateGroup(course, r)

	default:
		return RuleResult{}
	}
}

func evaluateGroup(course *model.Course, r *model.Rule) RuleResult {
	switch r.Operator {
	case model.OperatorAnd:
		if len(r.Rules) == 0 {
			// Vacuous truth: min over no elements. Saturated, not +Inf.
			return RuleResult{Matches: true, Specificity: ScoreGroupEmptyAnd}
		}
		min := 0.0
		for i := range r.Rules {
			sub := EvaluateRule(course, &r.Rules[i])
			if !sub.Matches {
				return RuleResult{}
			}
			if i == 0 || sub.Specificity < min {
				min = sub.Specificity
			}
		}
		return RuleResult{Matches: true, Specificity: min}

	case model.OperatorOr:
		best := RuleResult{}
		for i := range r.Rules {
			sub := EvaluateRule(course, &r.Rules[i])
			if sub.Matches && (!best.Matches || sub.Specificity > best.Specificity) {
				best = sub
			}
		}
		return best

	default:
		return RuleResult{}
	}
}

// ValidateRule checks a rule's well-formedness, recursing into group members
// and embedded filters. Returns the first failure found, or nil.
func ValidateRule(r *model.Rule) error {
	if r == nil {
		return fmt.Errorf("rule is missing")
	}

	switch r.Type {
	case model.RuleTakeCourses:
		if len(r.Courses) == 0 {
			return fmt.Errorf("take_courses rule requires at least one course")
		}
		return nil

	case model.RuleTakeFromList:
		if len(r.Courses) == 0 {
			return fmt.Errorf("take_from_list rule requires at least one course")
		}
		if r.Count < 1 {
			return fmt.Errorf("take_from_list rule requires a positive count")
		}
		if r.CountType != model.CountByCourses && r.CountType != model.CountByCredits {
			return fmt.Errorf("take_from_list rule requires countType courses or credits")
		}
		return nil

	case model.RuleTakeAnyCourses:
		return ValidateFilter(r.Filter)

	case model.RuleGroup:
		if r.Operator != model.OperatorAnd && r.Operator != model.OperatorOr {
			return fmt.Errorf("group rule requires an and/or operator")
		}
		for i := range r.Rules {
			if err := ValidateRule(&r.Rules[i]); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown rule type %q", r.Type)
	}
}
