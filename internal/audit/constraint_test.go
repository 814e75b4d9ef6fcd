package audit

import (
	"testing"

	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneBySectionConstraints_And(t *testing.T) {
	matches := []RequirementMatch{
		{SectionID: "capstone", RequirementID: "thesis", Specificity: 90, Constraints: []model.Constraint{
			{Type: model.ConstraintRequireCourseFromSections, Operator: model.OperatorAnd, SectionIDs: []string{"core", "writing"}},
		}},
		{SectionID: "core", RequirementID: "intro", Specificity: 80},
	}

	// Course matched capstone and core, but not writing: the constrained
	// candidate is pruned, the unconstrained one survives.
	kept := PruneBySectionConstraints(matches)
	require.Len(t, kept, 1)
	assert.Equal(t, "core.intro", kept[0].FullID())
}

func TestPruneBySectionConstraints_Or(t *testing.T) {
	matches := []RequirementMatch{
		{SectionID: "capstone", RequirementID: "thesis", Specificity: 90, Constraints: []model.Constraint{
			{Type: model.ConstraintRequireCourseFromSections, Operator: model.OperatorOr, SectionIDs: []string{"core", "writing"}},
		}},
		{SectionID: "core", RequirementID: "intro", Specificity: 80},
	}

	kept := PruneBySectionConstraints(matches)
	assert.Len(t, kept, 2, "OR is satisfied by matching one listed section")
}

func TestPruneBySectionConstraints_NoConstraintPassesThrough(t *testing.T) {
	matches := []RequirementMatch{
		{SectionID: "core", RequirementID: "intro", Specificity: 80},
	}
	assert.Equal(t, matches, PruneBySectionConstraints(matches))
}

func TestDoubleCountFor(t *testing.T) {
	constraints := []model.Constraint{
		{Type: model.ConstraintMinCredits, Credits: 12},
		{Type: model.ConstraintAllowDoubleCount, Course: "CS 1151", RequirementIDs: []string{"core.ethics", "core.liberal_arts_core"}},
	}

	assert.Equal(t, []string{"core.ethics", "core.liberal_arts_core"}, DoubleCountFor("CS 1151", constraints))
	assert.Nil(t, DoubleCountFor("CS 1101", constraints))
}

func TestEvaluateAuditConstraints(t *testing.T) {
	fulfilled := []FulfilledCourse{
		{RequirementID: "core.a", Course: course("CS 3251"), Credits: 3},
		{RequirementID: "core.b", Course: course("CS 4260"), Credits: 3},
		{RequirementID: "core.c", Course: course("MATH 1300"), Credits: 4},
	}

	constraints := []model.Constraint{
		{Type: model.ConstraintMinCourseCount, Count: 2, Courses: []string{"CS 3251", "CS 4260", "CS 4262"}},
		{Type: model.ConstraintMaxCredits, Credits: 6, Courses: []string{"MATH 1300"}},
		{Type: model.ConstraintMinCredits, Credits: 15}, // empty subset = all courses
		{Type: model.ConstraintCourseNumberMin, Subject: "CS", MinNumber: 4000, Count: 2},
	}

	results := EvaluateAuditConstraints(constraints, fulfilled)
	require.Len(t, results, 4)

	assert.True(t, results[0].Satisfied)
	assert.True(t, results[1].Satisfied)
	assert.False(t, results[2].Satisfied, "10 credits total, 15 required")
	assert.False(t, results[3].Satisfied, "only one CS course at 4000+")
	for _, r := range results {
		assert.NotEmpty(t, r.Message)
	}
}

func TestEvaluateAuditConstraints_SkipsLiveConstraints(t *testing.T) {
	constraints := []model.Constraint{
		{Type: model.ConstraintAllowDoubleCount, Course: "CS 1151", RequirementIDs: []string{"a.b"}},
		{Type: model.ConstraintRequireCourseFromSections, SectionIDs: []string{"core"}},
	}
	assert.Empty(t, EvaluateAuditConstraints(constraints, nil))
}
