package audit

import (
	"testing"

	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateRule_TakeCourses(t *testing.T) {
	r := &model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101", "CS 2201"}}

	got := EvaluateRule(course("CS 1101"), r)
	assert.True(t, got.Matches)
	assert.Equal(t, 100.0, got.Specificity)

	got = EvaluateRule(course("CS 3251"), r)
	assert.False(t, got.Matches)
	assert.Equal(t, 0.0, got.Specificity)
}

func TestEvaluateRule_TakeFromList(t *testing.T) {
	r := &model.Rule{
		Type:      model.RuleTakeFromList,
		Count:     2,
		CountType: model.CountByCourses,
		Courses:   []string{"MATH 2300", "MATH 2410", "MATH 2600"},
	}

	got := EvaluateRule(course("MATH 2410"), r)
	assert.True(t, got.Matches)
	assert.Equal(t, 80.0, got.Specificity)

	// Matching only checks membership, never quantity.
	assert.False(t, EvaluateRule(course("MATH 1300"), r).Matches)
}

func TestEvaluateRule_TakeAnyCourses(t *testing.T) {
	open := &model.Rule{
		Type:            model.RuleTakeAnyCourses,
		CreditsRequired: 12,
		Filter:          &model.CourseFilter{Type: model.FilterAny},
	}
	got := EvaluateRule(course("ANTH 1101"), open)
	assert.True(t, got.Matches)
	assert.Equal(t, 10.0, got.Specificity)

	// Unknown embedded filter types produce no match rather than an error.
	weird := &model.Rule{
		Type:   model.RuleTakeAnyCourses,
		Filter: &model.CourseFilter{Type: "telepathy"},
	}
	assert.False(t, EvaluateRule(course("ANTH 1101"), weird).Matches)

	noFilter := &model.Rule{Type: model.RuleTakeAnyCourses}
	assert.False(t, EvaluateRule(course("ANTH 1101"), noFilter).Matches)
}

func TestEvaluateRule_GroupAnd(t *testing.T) {
	r := &model.Rule{
		Type:     model.RuleGroup,
		Operator: model.OperatorAnd,
		Rules: []model.Rule{
			{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}},                                             // 100
			{Type: model.RuleTakeFromList, Count: 1, CountType: model.CountByCourses, Courses: []string{"CS 1101"}}, // 80
		},
	}

	got := EvaluateRule(course("CS 1101"), r)
	assert.True(t, got.Matches)
	assert.Equal(t, 80.0, got.Specificity, "AND score is the min of sub-scores")

	// One sub-rule failing fails the group.
	assert.False(t, EvaluateRule(course("CS 9999"), r).Matches)
}

func TestEvaluateRule_GroupAndEmptySaturates(t *testing.T) {
	r := &model.Rule{Type: model.RuleGroup, Operator: model.OperatorAnd}
	got := EvaluateRule(course("CS 1101"), r)
	assert.True(t, got.Matches, "empty AND matches vacuously")
	assert.Equal(t, ScoreGroupEmptyAnd, got.Specificity, "saturated, never +Inf")
}

func TestEvaluateRule_GroupOr(t *testing.T) {
	r := &model.Rule{
		Type:     model.RuleGroup,
		Operator: model.OperatorOr,
		Rules: []model.Rule{
			{Type: model.RuleTakeFromList, Count: 1, CountType: model.CountByCourses, Courses: []string{"CS 1101"}}, // 80
			{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}},                                             // 100
		},
	}

	got := EvaluateRule(course("CS 1101"), r)
	assert.True(t, got.Matches)
	assert.Equal(t, 100.0, got.Specificity, "OR score is the max of matching sub-scores")

	empty := &model.Rule{Type: model.RuleGroup, Operator: model.OperatorOr}
	assert.False(t, EvaluateRule(course("CS 1101"), empty).Matches, "empty OR never matches")
}

func TestEvaluateRule_UnknownTypeNeverThrows(t *testing.T) {
	r := &model.Rule{Type: "wish_upon_a_star"}
	got := EvaluateRule(course("CS 1101"), r)
	assert.False(t, got.Matches)
	assert.Equal(t, 0.0, got.Specificity)
}

func TestEvaluateRule_Pure(t *testing.T) {
	r := &model.Rule{
		Type:     model.RuleGroup,
		Operator: model.OperatorOr,
		Rules: []model.Rule{
			{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}},
			{Type: model.RuleTakeAnyCourses, Filter: &model.CourseFilter{Type: model.FilterAny}},
		},
	}
	c := course("CS 1101")
	first := EvaluateRule(c, r)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, EvaluateRule(c, r))
	}
}

func TestValidateRule(t *testing.T) {
	cases := []struct {
		name    string
		rule    model.Rule
		wantErr bool
	}{
		{"take_courses ok", model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}}, false},
		{"take_courses empty", model.Rule{Type: model.RuleTakeCourses}, true},
		{"take_from_list no count", model.Rule{Type: model.RuleTakeFromList, Courses: []string{"CS 1101"}, CountType: model.CountByCourses}, true},
		{"take_from_list bad countType", model.Rule{Type: model.RuleTakeFromList, Courses: []string{"CS 1101"}, Count: 1, CountType: "vibes"}, true},
		{"take_any bad filter", model.Rule{Type: model.RuleTakeAnyCourses, Filter: &model.CourseFilter{Type: model.FilterCourseList}}, true},
		{"group bad operator", model.Rule{Type: model.RuleGroup, Operator: "xor"}, true},
		{"unknown", model.Rule{Type: "bogus"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRule(&tc.rule)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
