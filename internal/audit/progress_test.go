package audit

import (
	"encoding/json"
	"testing"

	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taken(codes ...string) []TakenCourse {
	out := make([]TakenCourse, len(codes))
	for i, code := range codes {
		out[i] = TakenCourse{Course: course(code), Credits: 3}
	}
	return out
}

func TestEvaluateProgress_TakeCourses(t *testing.T) {
	r := &model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101", "CS 2201", "CS 2212"}}

	p := EvaluateProgress(r, taken("CS 1101"))
	assert.Equal(t, StatusInProgress, p.Status)
	assert.InDelta(t, 33.33, p.Percentage, 0.01)
	require.NotNil(t, p.Details)
	assert.Equal(t, []string{"CS 1101"}, p.Details.TakenCourses)
	assert.Equal(t, []string{"CS 2201", "CS 2212"}, p.Details.MissingCourses)

	p = EvaluateProgress(r, taken("CS 1101", "CS 2201", "CS 2212"))
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, 100.0, p.Percentage)

	p = EvaluateProgress(r, nil)
	assert.Equal(t, StatusNotStarted, p.Status)
}

func TestEvaluateProgress_TakeCoursesEmptyListVacuouslyComplete(t *testing.T) {
	r := &model.Rule{Type: model.RuleTakeCourses}
	p := EvaluateProgress(r, nil)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, 100.0, p.Percentage)
}

func TestEvaluateProgress_TakeFromListByCourses(t *testing.T) {
	r := &model.Rule{
		Type: model.RuleTakeFromList, Count: 2, CountType: model.CountByCourses,
		Courses: []string{"MATH 2300", "MATH 2410", "MATH 2600"},
	}

	p := EvaluateProgress(r, taken("MATH 2410"))
	assert.Equal(t, 50.0, p.Percentage)

	// Over-fulfillment caps at 100.
	p = EvaluateProgress(r, taken("MATH 2300", "MATH 2410", "MATH 2600"))
	assert.Equal(t, 100.0, p.Percentage)
	assert.Equal(t, StatusCompleted, p.Status)
}

func TestEvaluateProgress_TakeFromListByCredits(t *testing.T) {
	r := &model.Rule{
		Type: model.RuleTakeFromList, Count: 6, CountType: model.CountByCredits,
		Courses: []string{"MATH 2300", "MATH 2410"},
	}

	p := EvaluateProgress(r, taken("MATH 2300")) // 3 of 6 credits
	assert.Equal(t, 50.0, p.Percentage)
	require.NotNil(t, p.Details)
	assert.Equal(t, 3, p.Details.CountedCredits)
}

func TestEvaluateProgress_TakeAnyCourses(t *testing.T) {
	r := &model.Rule{
		Type: model.RuleTakeAnyCourses, CreditsRequired: 12,
		Filter: &model.CourseFilter{Type: model.FilterSubjectNumber, Subjects: []string{"CS"}},
	}

	p := EvaluateProgress(r, taken("CS 3251", "CS 4260", "MATH 1300"))
	assert.Equal(t, 50.0, p.Percentage, "only the CS credits count")
	assert.Equal(t, StatusInProgress, p.Status)
	assert.Equal(t, 6, p.Details.CountedCredits)
}

func TestEvaluateProgress_GroupAndMean(t *testing.T) {
	r := &model.Rule{
		Type: model.RuleGroup, Operator: model.OperatorAnd,
		Rules: []model.Rule{
			{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}},
			{Type: model.RuleTakeCourses, Courses: []string{"CS 2201"}},
		},
	}

	p := EvaluateProgress(r, taken("CS 1101"))
	assert.Equal(t, 50.0, p.Percentage, "arithmetic mean of sub percentages")
	assert.Equal(t, StatusInProgress, p.Status)

	p = EvaluateProgress(r, taken("CS 1101", "CS 2201"))
	assert.Equal(t, StatusCompleted, p.Status)

	p = EvaluateProgress(r, nil)
	assert.Equal(t, StatusNotStarted, p.Status)
}

func TestEvaluateProgress_GroupOrMaxAndActiveOption(t *testing.T) {
	r := &model.Rule{
		Type: model.RuleGroup, Operator: model.OperatorOr,
		Rules: []model.Rule{
			{Type: model.RuleTakeCourses, Courses: []string{"PHYS 1601", "PHYS 1602"}},
			{Type: model.RuleTakeCourses, Courses: []string{"CHEM 1601", "CHEM 1602"}},
		},
	}

	p := EvaluateProgress(r, taken("CHEM 1601"))
	assert.Equal(t, 50.0, p.Percentage)
	require.NotNil(t, p.Details)
	require.NotNil(t, p.Details.ActiveOptionIndex)
	assert.Equal(t, 1, *p.Details.ActiveOptionIndex)

	// Ties resolve to the first sub-rule at the maximum.
	p = EvaluateProgress(r, taken("PHYS 1601", "CHEM 1601"))
	require.NotNil(t, p.Details.ActiveOptionIndex)
	assert.Equal(t, 0, *p.Details.ActiveOptionIndex)

	// Index 0 must survive serialization even though it is the zero value.
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"active_option_index":0`)
}

func TestEvaluateProgress_UnknownRule(t *testing.T) {
	p := EvaluateProgress(&model.Rule{Type: "bogus"}, taken("CS 1101"))
	assert.Equal(t, StatusNotStarted, p.Status)
	assert.Equal(t, 0.0, p.Percentage)
}
