package service

import (
	"testing"

	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func validTree() model.ProgramRequirements {
	return model.ProgramRequirements{
		Sections: []model.RequirementSection{
			{
				ID:              "core",
				Title:           "Core",
				CreditsRequired: 6,
				Requirements: []model.Requirement{
					{
						ID:              "intro",
						Title:           "Introduction",
						CreditsRequired: 3,
						Rule:            model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101"}},
					},
					{
						ID:              "electives",
						Title:           "Electives",
						CreditsRequired: 3,
						Rule: model.Rule{
							Type:            model.RuleTakeAnyCourses,
							CreditsRequired: 3,
							Filter:          &model.CourseFilter{Type: model.FilterAny},
						},
					},
				},
			},
		},
	}
}

func TestValidateRequirementTree(t *testing.T) {
	t.Run("accepts a well-formed tree", func(t *testing.T) {
		tree := validTree()
		assert.NoError(t, ValidateRequirementTree(&tree))
	})

	t.Run("rejects empty program", func(t *testing.T) {
		tree := model.ProgramRequirements{}
		assert.Error(t, ValidateRequirementTree(&tree))
	})

	t.Run("rejects duplicate section ids", func(t *testing.T) {
		tree := validTree()
		tree.Sections = append(tree.Sections, tree.Sections[0])
		err := ValidateRequirementTree(&tree)
		assert.ErrorContains(t, err, "duplicate section id")
	})

	t.Run("rejects duplicate requirement ids within a section", func(t *testing.T) {
		tree := validTree()
		tree.Sections[0].Requirements = append(tree.Sections[0].Requirements, tree.Sections[0].Requirements[0])
		err := ValidateRequirementTree(&tree)
		assert.ErrorContains(t, err, "duplicate requirement id")
	})

	t.Run("allows the same requirement id in different sections", func(t *testing.T) {
		tree := validTree()
		tree.Sections = append(tree.Sections, model.RequirementSection{
			ID:    "math",
			Title: "Mathematics",
			Requirements: []model.Requirement{
				{
					ID:    "intro",
					Title: "Intro Math",
					Rule:  model.Rule{Type: model.RuleTakeCourses, Courses: []string{"MATH 1300"}},
				},
			},
		})
		assert.NoError(t, ValidateRequirementTree(&tree))
	})

	t.Run("rejects empty requirement id", func(t *testing.T) {
		tree := validTree()
		tree.Sections[0].Requirements[0].ID = ""
		err := ValidateRequirementTree(&tree)
		assert.ErrorContains(t, err, "empty id")
	})

	t.Run("rejects malformed rule", func(t *testing.T) {
		tree := validTree()
		tree.Sections[0].Requirements[0].Rule = model.Rule{Type: "take_everything"}
		err := ValidateRequirementTree(&tree)
		assert.ErrorContains(t, err, "unknown rule type")
	})

	t.Run("rejects malformed nested filter", func(t *testing.T) {
		tree := validTree()
		tree.Sections[0].Requirements[1].Rule.Filter = &model.CourseFilter{Type: model.FilterSubjectNumber}
		assert.Error(t, ValidateRequirementTree(&tree))
	})
}

func TestValidateRequirementTreeConstraints(t *testing.T) {
	t.Run("double count must reference existing requirements", func(t *testing.T) {
		tree := validTree()
		tree.ConstraintsStructured = []model.Constraint{
			{
				Type:           model.ConstraintAllowDoubleCount,
				Course:         "CS 1101",
				RequirementIDs: []string{"core.intro", "core.electives"},
			},
		}
		assert.NoError(t, ValidateRequirementTree(&tree))

		tree.ConstraintsStructured[0].RequirementIDs = []string{"core.intro", "ghost.section"}
		err := ValidateRequirementTree(&tree)
		assert.ErrorContains(t, err, "unknown requirement")
	})

	t.Run("section constraints must reference existing sections", func(t *testing.T) {
		tree := validTree()
		tree.Sections[0].Requirements[0].ConstraintsStructured = []model.Constraint{
			{Type: model.ConstraintRequireCourseFromSections, SectionIDs: []string{"core"}},
		}
		assert.NoError(t, ValidateRequirementTree(&tree))

		tree.Sections[0].Requirements[0].ConstraintsStructured[0].SectionIDs = []string{"missing"}
		err := ValidateRequirementTree(&tree)
		assert.ErrorContains(t, err, "unknown section")
	})

	t.Run("count and credit caps need positive bounds", func(t *testing.T) {
		tree := validTree()
		tree.ConstraintsStructured = []model.Constraint{
			{Type: model.ConstraintMaxCredits, Credits: 0},
		}
		assert.Error(t, ValidateRequirementTree(&tree))

		tree.ConstraintsStructured = []model.Constraint{
			{Type: model.ConstraintMaxCredits, Credits: 9, Courses: []string{"CS 1101"}},
		}
		assert.NoError(t, ValidateRequirementTree(&tree))
	})

	t.Run("course number minimum needs subject, number and count", func(t *testing.T) {
		tree := validTree()
		tree.ConstraintsStructured = []model.Constraint{
			{Type: model.ConstraintCourseNumberMin, Subject: "CS", MinNumber: 3000, Count: 2},
		}
		assert.NoError(t, ValidateRequirementTree(&tree))

		tree.ConstraintsStructured[0].Count = 0
		assert.Error(t, ValidateRequirementTree(&tree))
	})

	t.Run("unknown constraint type is rejected", func(t *testing.T) {
		tree := validTree()
		tree.ConstraintsStructured = []model.Constraint{{Type: "forbid_fun"}}
		err := ValidateRequirementTree(&tree)
		assert.ErrorContains(t, err, "unknown constraint type")
	})
}
