package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for assigner tests.
type fakeStore struct {
	details *model.PlanDetails
	rows    []model.RequirementFulfillment
	cleared [][]uuid.UUID
	loadErr error
	saveErr error
}

func (f *fakeStore) GetPlanDetails(_ context.Context, _ uuid.UUID) (*model.PlanDetails, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.details, nil
}

func (f *fakeStore) ClearFulfillments(_ context.Context, ids []uuid.UUID) error {
	f.cleared = append(f.cleared, ids)
	f.rows = nil
	return nil
}

func (f *fakeStore) CreateFulfillments(_ context.Context, rows []model.RequirementFulfillment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func newTestAssigner(store Store) *Assigner {
	return NewAssigner(store, zerolog.Nop())
}

func plannedCourse(code string, semester, position, credits int) model.PlannedCourseDetail {
	return model.PlannedCourseDetail{
		PlannedCourse: model.PlannedCourse{
			ID:             uuid.New(),
			CourseCode:     code,
			SemesterNumber: semester,
			Position:       position,
			Credits:        credits,
		},
		Course: course(code),
	}
}

func planWith(tree *model.ProgramRequirements, courses ...model.PlannedCourseDetail) *model.PlanDetails {
	planID := uuid.New()
	return &model.PlanDetails{
		Plan:           model.Plan{ID: planID, Name: "four year plan"},
		PlannedCourses: courses,
		Programs: []model.PlanProgramDetail{
			{
				PlanProgram:  model.PlanProgram{ID: uuid.New(), PlanID: planID},
				ProgramName:  "Computer Science",
				Requirements: *tree,
			},
		},
	}
}

func TestAutoAssign_CoreScenario(t *testing.T) {
	// Three core courses all land on the same take_courses requirement.
	tree := &model.ProgramRequirements{
		Sections: []model.RequirementSection{{
			ID: "computer_science_major", CreditsRequired: 9,
			Requirements: []model.Requirement{{
				ID: "computer_science_core", CreditsRequired: 9,
				Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1101", "CS 2201", "CS 2212"}},
			}},
		}},
	}
	store := &fakeStore{details: planWith(tree,
		plannedCourse("CS 1101", 1, 0, 3),
		plannedCourse("CS 2201", 2, 0, 3),
		plannedCourse("CS 2212", 2, 1, 3),
	)}

	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), store.details.Plan.ID)
	require.NoError(t, err)

	require.Len(t, store.rows, 3)
	for _, row := range store.rows {
		assert.Equal(t, "computer_science_major.computer_science_core", row.RequirementID)
		assert.Equal(t, 3, row.CreditsApplied)
	}
}

func TestAutoAssign_HigherSpecificityWins(t *testing.T) {
	// MATH 1300 matches calculus (100) and math_elective (80): calculus only.
	store := &fakeStore{details: planWith(csMajorTree(), plannedCourse("MATH 1300", 1, 0, 4))}

	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), store.details.Plan.ID)
	require.NoError(t, err)

	require.Len(t, store.rows, 1)
	assert.Equal(t, "math.calculus", store.rows[0].RequirementID)
}

func TestAutoAssign_CapacityRoutingAndOverflow(t *testing.T) {
	tree := &model.ProgramRequirements{
		Sections: []model.RequirementSection{{
			ID: "cs", CreditsRequired: 15,
			Requirements: []model.Requirement{
				{
					ID: "specific_cs_requirement", CreditsRequired: 3,
					Rule: model.Rule{Type: model.RuleTakeFromList, Count: 1, CountType: model.CountByCourses,
						Courses: []string{"CS 3251", "CS 3270", "CS 4260"}},
				},
				{
					ID: "broader_cs_core", CreditsRequired: 6,
					Rule: model.Rule{Type: model.RuleTakeAnyCourses, CreditsRequired: 6,
						Filter: &model.CourseFilter{Type: model.FilterAny}},
				},
			},
		}},
	}
	store := &fakeStore{details: planWith(tree,
		plannedCourse("CS 3251", 1, 0, 3), // fills specific (capacity 3)
		plannedCourse("CS 3270", 2, 0, 3), // specific full -> broader
		plannedCourse("CS 4260", 3, 0, 3), // broader has room -> broader
		plannedCourse("CS 3251", 4, 0, 3), // both full -> overflow to most specific
	)}

	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), store.details.Plan.ID)
	require.NoError(t, err)

	require.Len(t, store.rows, 4)
	assert.Equal(t, "cs.specific_cs_requirement", store.rows[0].RequirementID)
	assert.Equal(t, "cs.broader_cs_core", store.rows[1].RequirementID)
	assert.Equal(t, "cs.broader_cs_core", store.rows[2].RequirementID)
	assert.Equal(t, "cs.specific_cs_requirement", store.rows[3].RequirementID, "overflow lands on the most specific candidate")
}

func TestAutoAssign_DoubleCountException(t *testing.T) {
	tree := &model.ProgramRequirements{
		Sections: []model.RequirementSection{{
			ID: "core", CreditsRequired: 6,
			Requirements: []model.Requirement{
				{ID: "ethics", CreditsRequired: 3,
					Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1151"}}},
				{ID: "liberal_arts_core", CreditsRequired: 3,
					Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"CS 1151"}}},
			},
		}},
		ConstraintsStructured: []model.Constraint{{
			Type:           model.ConstraintAllowDoubleCount,
			Course:         "CS 1151",
			RequirementIDs: []string{"core.ethics", "core.liberal_arts_core"},
		}},
	}
	store := &fakeStore{details: planWith(tree, plannedCourse("CS 1151", 1, 0, 3))}

	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), store.details.Plan.ID)
	require.NoError(t, err)

	require.Len(t, store.rows, 2, "one row per whitelisted requirement")
	assert.Equal(t, "core.ethics", store.rows[0].RequirementID)
	assert.Equal(t, "core.liberal_arts_core", store.rows[1].RequirementID)
	assert.Equal(t, store.rows[0].PlannedCourseID, store.rows[1].PlannedCourseID)
}

func TestAutoAssign_Idempotent(t *testing.T) {
	store := &fakeStore{details: planWith(csMajorTree(),
		plannedCourse("CS 1101", 1, 0, 3),
		plannedCourse("MATH 1300", 1, 1, 4),
		plannedCourse("ANTH 1101", 2, 0, 3),
	)}
	a := newTestAssigner(store)

	require.NoError(t, a.AutoAssignFulfillments(context.Background(), store.details.Plan.ID))
	first := append([]model.RequirementFulfillment(nil), store.rows...)

	require.NoError(t, a.AutoAssignFulfillments(context.Background(), store.details.Plan.ID))
	assert.Equal(t, first, store.rows, "re-running with unchanged inputs yields the identical set")
}

func TestAutoAssign_EmptyPlanClearsAndStops(t *testing.T) {
	store := &fakeStore{details: planWith(csMajorTree())}

	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), store.details.Plan.ID)
	require.NoError(t, err)
	assert.Len(t, store.cleared, 1, "clear runs even when there is nothing to assign")
	assert.Empty(t, store.rows)
}

func TestAutoAssign_PlanNotFoundPropagates(t *testing.T) {
	store := &fakeStore{loadErr: ErrPlanNotFound}
	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPlanNotFound, "callers decide how to handle a deleted plan")
	assert.Empty(t, store.cleared, "no side effects for a missing plan")
}

func TestAutoAssign_StoreErrorsPropagate(t *testing.T) {
	store := &fakeStore{details: planWith(csMajorTree(), plannedCourse("CS 1101", 1, 0, 3))}
	store.saveErr = assert.AnError

	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), store.details.Plan.ID)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAutoAssign_OrphanedCourseSkipped(t *testing.T) {
	orphan := plannedCourse("CS 1101", 1, 0, 3)
	orphan.Course = nil

	store := &fakeStore{details: planWith(csMajorTree(), orphan)}
	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), store.details.Plan.ID)
	require.NoError(t, err)
	assert.Empty(t, store.rows)
}

func TestAutoAssign_MultiplePrograms(t *testing.T) {
	planID := uuid.New()
	majorTree := csMajorTree()
	minorTree := &model.ProgramRequirements{
		Sections: []model.RequirementSection{{
			ID: "math_minor", CreditsRequired: 15,
			Requirements: []model.Requirement{{
				ID: "minor_core", CreditsRequired: 8,
				Rule: model.Rule{Type: model.RuleTakeCourses, Courses: []string{"MATH 1300", "MATH 1301"}},
			}},
		}},
	}

	store := &fakeStore{details: &model.PlanDetails{
		Plan:           model.Plan{ID: planID},
		PlannedCourses: []model.PlannedCourseDetail{plannedCourse("MATH 1300", 1, 0, 4)},
		Programs: []model.PlanProgramDetail{
			{PlanProgram: model.PlanProgram{ID: uuid.New(), PlanID: planID}, Requirements: *majorTree},
			{PlanProgram: model.PlanProgram{ID: uuid.New(), PlanID: planID}, Requirements: *minorTree},
		},
	}}

	err := newTestAssigner(store).AutoAssignFulfillments(context.Background(), planID)
	require.NoError(t, err)

	// One assignment per (course, program) pair: the course serves both the
	// major and the minor independently.
	require.Len(t, store.rows, 2)
	assert.Equal(t, "math.calculus", store.rows[0].RequirementID)
	assert.Equal(t, "math_minor.minor_core", store.rows[1].RequirementID)
}
