package audit

import (
	"testing"

	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csMajorTree() *model.ProgramRequirements {
	return &model.ProgramRequirements{
		Sections: []model.RequirementSection{
			{
				ID: "computer_science_major", Title: "Computer Science Major", CreditsRequired: 30,
				Requirements: []model.Requirement{
					{
						ID: "computer_science_core", Title: "CS Core", CreditsRequired: 9,
						Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101", "CS 2201", "CS 2212"}},
					},
					{
						ID: "cs_depth", Title: "CS Depth", CreditsRequired: 12,
						Rule: model.Rule{
							Type:            model.RuleTakeAnyCourses,
							CreditsRequired: 12,
							Filter:          &model.CourseFilter{Type: model.FilterAny},
						},
					},
				},
			},
			{
				ID: "math", Title: "Mathematics", CreditsRequired: 12,
				Requirements: []model.Requirement{
					{
						ID: "calculus", Title: "Calculus", CreditsRequired: 8,
						Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"MATH 1300", "MATH 1301"}},
					},
					{
						ID: "math_elective", Title: "Math Elective", CreditsRequired: 3,
						Rule: model.Rule{
							Type: model.RuleTakeFromList, Count: 1, CountType: model.CountByCourses,
							Courses: []string{"MATH 1300", "MATH 2410", "MATH 2600"},
						},
					},
				},
			},
		},
	}
}

func TestFindMatchingRequirements_SortedByScore(t *testing.T) {
	tree := csMajorTree()

	matches := FindMatchingRequirements(course("CS 1101"), tree)
	require.Len(t, matches, 2)
	assert.Equal(t, "computer_science_core", matches[0].RequirementID)
	assert.Equal(t, 100.0, matches[0].Specificity)
	assert.Equal(t, "cs_depth", matches[1].RequirementID)
	assert.Equal(t, 10.0, matches[1].Specificity)
}

func TestFindMatchingRequirements_TakeCoursesBeatsTakeFromList(t *testing.T) {
	tree := csMajorTree()

	// MATH 1300 satisfies both calculus (100) and math_elective (80).
	matches := FindMatchingRequirements(course("MATH 1300"), tree)
	require.Len(t, matches, 3) // calculus, math_elective, open cs_depth
	assert.Equal(t, "calculus", matches[0].RequirementID)
	assert.Equal(t, "math_elective", matches[1].RequirementID)
}

func TestFindMatchingRequirements_TiesKeepDeclarationOrder(t *testing.T) {
	tree := &model.ProgramRequirements{
		Sections: []model.RequirementSection{
			{
				ID: "core", CreditsRequired: 12,
				Requirements: []model.Requirement{
					{ID: "first", Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}}},
					{ID: "second", Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}}},
				},
			},
			{
				ID: "extra", CreditsRequired: 6,
				Requirements: []model.Requirement{
					{ID: "third", Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}}},
				},
			},
		},
	}

	matches := FindMatchingRequirements(course("CS 1101"), tree)
	require.Len(t, matches, 3)
	assert.Equal(t, "core.first", matches[0].FullID())
	assert.Equal(t, "core.second", matches[1].FullID())
	assert.Equal(t, "extra.third", matches[2].FullID())
}

func TestFindMatchingRequirements_NoMatches(t *testing.T) {
	tree := &model.ProgramRequirements{
		Sections: []model.RequirementSection{
			{
				ID: "math",
				Requirements: []model.Requirement{
					{ID: "calculus", Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"MATH 1300"}}},
				},
			},
		},
	}
	assert.Empty(t, FindMatchingRequirements(course("ART 1101"), tree))
}
