package audit

import (
	"github.com/openplanner/gradplan-backend/internal/model"
)

// ProgressStatus classifies how far along a rule is.
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// TakenCourse is a course already counting toward a rule, with the credits
// actually applied (not the catalog range).
type TakenCourse struct {
	Course  *model.Course
	Credits int
}

// RuleProgress is the display-oriented completion report for one rule. It is
// independent of assignment and only feeds UI/summary output.
type RuleProgress struct {
	Status     ProgressStatus   `json:"status"`
	Percentage float64          `json:"percentage"`
	Details    *ProgressDetails `json:"details,omitempty"`
}

// ProgressDetails carries per-variant structured detail.
type ProgressDetails struct {
	TakenCourses   []string       `json:"taken_courses,omitempty"`
	MissingCourses []string       `json:"missing_courses,omitempty"`
	CountedCredits int            `json:"counted_credits,omitempty"`
	SubProgress    []RuleProgress `json:"sub_progress,omitempty"`
	// ActiveOptionIndex is, for OR groups, the index of the first sub-rule
	// currently at the maximum percentage (declaration order wins ties).
	// Pointer so index 0 survives serialization; nil for non-OR rules.
	ActiveOptionIndex *int `json:"active_option_index,omitempty"`
}

// EvaluateProgress computes completion for a rule given the already-taken
// courses. Percentages are capped at 100 even when over-fulfilled.
func EvaluateProgress(rule *model.Rule, taken []TakenCourse) RuleProgress {
	if rule == nil {
		return RuleProgress{Status: StatusNotStarted}
	}

	switch rule.Type {
	case model.RuleTakeCourses:
		return progressTakeCourses(rule, taken)
	case model.RuleTakeFromList:
		return progressTakeFromList(rule, taken)
	case model.RuleTakeAnyCourses:
		return progressTakeAny(rule, taken)
	case model.RuleGroup:
		return progressGroup(rule, taken)
	default:
		return RuleProgress{Status: StatusNotStarted}
	}
}

func progressTakeCourses(rule *model.Rule, taken []TakenCourse) RuleProgress {
	if len(rule.Courses) == 0 {
		// Vacuously complete.
		return RuleProgress{Status: StatusCompleted, Percentage: 100}
	}

	takenCodes := make(map[string]bool, len(taken))
	for _, t := range taken {
		if t.Course != nil {
			takenCodes[t.Course.Code] = true
		}
	}

	var have, missing []string
	for _, code := range rule.Courses {
		if takenCodes[code] {
			have = append(have, code)
		} else {
			missing = append(missing, code)
		}
	}

	pct := float64(len(have)) / float64(len(rule.Courses)) * 100
	return RuleProgress{
		Status:     statusFromPercentage(pct),
		Percentage: pct,
		Details:    &ProgressDetails{TakenCourses: have, MissingCourses: missing},
	}
}

func progressTakeFromList(rule *model.Rule, taken []TakenCourse) RuleProgress {
	if rule.Count <= 0 {
		return RuleProgress{Status: StatusCompleted, Percentage: 100}
	}

	var have int
	var codes []string
	for _, t := range taken {
		if t.Course == nil || !containsString(rule.Courses, t.Course.Code) {
			continue
		}
		codes = append(codes, t.Course.Code)
		if rule.CountType == model.CountByCredits {
			have += t.Credits
		} else {
			have++
		}
	}

	pct := cap100(float64(have) / float64(rule.Count) * 100)
	details := &ProgressDetails{TakenCourses: codes}
	if rule.CountType == model.CountByCredits {
		details.CountedCredits = have
	}
	return RuleProgress{Status: statusFromPercentage(pct), Percentage: pct, Details: details}
}

func progressTakeAny(rule *model.Rule, taken []TakenCourse) RuleProgress {
	if rule.CreditsRequired <= 0 {
		return RuleProgress{Status: StatusCompleted, Percentage: 100}
	}

	var credits int
	var codes []string
	for _, t := range taken {
		if t.Course != nil && EvaluateFilter(t.Course, rule.Filter) {
			credits += t.Credits
			codes = append(codes, t.Course.Code)
		}
	}

	pct := cap100(float64(credits) / float64(rule.CreditsRequired) * 100)
	return RuleProgress{
		Status:     statusFromPercentage(pct),
		Percentage: pct,
		Details:    &ProgressDetails{TakenCourses: codes, CountedCredits: credits},
	}
}

func progressGroup(rule *model.Rule, taken []TakenCourse) RuleProgress {
	if len(rule.Rules) == 0 {
		return RuleProgress{Status: StatusCompleted, Percentage: 100}
	}

	subs := make([]RuleProgress, len(rule.Rules))
	for i := range rule.Rules {
		subs[i] = EvaluateProgress(&rule.Rules[i], taken)
	}

	switch rule.Operator {
	case model.OperatorOr:
		// Best option wins; first sub-rule at the maximum is the active one.
		best := 0
		for i, s := range subs {
			if s.Percentage > subs[best].Percentage {
				best = i
			}
		}
		pct := subs[best].Percentage
		return RuleProgress{
			Status:     groupStatus(subs, pct),
			Percentage: pct,
			Details:    &ProgressDetails{SubProgress: subs, ActiveOptionIndex: &best},
		}

	default: // AND
		var sum float64
		for _, s := range subs {
			sum += s.Percentage
		}
		pct := sum / float64(len(subs))

		status := StatusInProgress
		allCompleted, allNotStarted := true, true
		for _, s := range subs {
			if s.Status != StatusCompleted {
				allCompleted = false
			}
			if s.Status != StatusNotStarted {
				allNotStarted = false
			}
		}
		if allCompleted {
			status = StatusCompleted
		} else if allNotStarted {
			status = StatusNotStarted
		}

		return RuleProgress{
			Status:     status,
			Percentage: pct,
			Details:    &ProgressDetails{SubProgress: subs},
		}
	}
}

func groupStatus(subs []RuleProgress, pct float64) ProgressStatus {
	if pct >= 100 {
		return StatusCompleted
	}
	for _, s := range subs {
		if s.Status != StatusNotStarted {
			return StatusInProgress
		}
	}
	return StatusNotStarted
}

func statusFromPercentage(pct float64) ProgressStatus {
	switch {
	case pct >= 100:
		return StatusCompleted
	case pct > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

func cap100(pct float64) float64 {
	if pct > 100 {
		return 100
	}
	return pct
}
