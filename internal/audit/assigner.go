package audit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/rs/zerolog"
)

// ErrPlanNotFound is returned by Store.GetPlanDetails when the plan does not
// exist, and propagated by the assigner so callers can drop the job.
var ErrPlanNotFound = errors.New("plan not found")

// Store is the narrow persistence surface the assigner needs. The production
// implementation is pgx-backed; tests use an in-memory fake.
type Store interface {
	// GetPlanDetails loads the plan, its planned courses ordered by
	// (semester_number asc, position asc) with catalog courses joined, and
	// its programs in list order with requirement trees.
	GetPlanDetails(ctx context.Context, planID uuid.UUID) (*model.PlanDetails, error)
	// ClearFulfillments removes every fulfillment row of the given plan
	// programs.
	ClearFulfillments(ctx context.Context, planProgramIDs []uuid.UUID) error
	// CreateFulfillments inserts the regenerated rows.
	CreateFulfillments(ctx context.Context, rows []model.RequirementFulfillment) error
}

// Assigner turns a plan's course list plus its programs' requirement trees
// into a regenerated set of fulfillment records. Assignment is a
// deterministic greedy pass, idempotent given unchanged inputs; it is not a
// solver and does not look for a globally optimal assignment.
//
// The clear/create sequence is not wrapped in a transaction: a crash
// mid-sequence leaves a plan program with zero fulfillments until the next
// successful run. Callers must not overlap invocations for the same plan;
// the engine takes no lock.
type Assigner struct {
	store Store
	log   zerolog.Logger
}

// NewAssigner creates an Assigner.
func NewAssigner(store Store, log zerolog.Logger) *Assigner {
	return &Assigner{
		store: store,
		log:   log.With().Str("component", "fulfillment_assigner").Logger(),
	}
}

// AutoAssignFulfillments regenerates all fulfillment rows for a plan.
// A missing plan returns ErrPlanNotFound; store errors propagate.
func (a *Assigner) AutoAssignFulfillments(ctx context.Context, planID uuid.UUID) error {
	details, err := a.store.GetPlanDetails(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			a.log.Info().Str("plan_id", planID.String()).Msg("Plan not found, nothing to assign")
		}
		return err
	}

	// Full regeneration: clear every program's rows before reassigning.
	programIDs := make([]uuid.UUID, len(details.Programs))
	for i, p := range details.Programs {
		programIDs[i] = p.PlanProgram.ID
	}
	if len(programIDs) > 0 {
		if err := a.store.ClearFulfillments(ctx, programIDs); err != nil {
			return err
		}
	}

	if len(details.PlannedCourses) == 0 || len(details.Programs) == 0 {
		return nil
	}

	// Credits committed per plan program per requirement during this pass.
	committed := make(map[uuid.UUID]map[string]int, len(details.Programs))
	for _, p := range details.Programs {
		committed[p.PlanProgram.ID] = make(map[string]int)
	}

	var rows []model.RequirementFulfillment

	// Earlier-planned courses get first claim on capacity-limited
	// requirements; plan-program list order breaks the per-course loop.
	for _, pc := range details.PlannedCourses {
		if pc.Course == nil {
			// Orphaned planned course: code no longer in the catalog.
			a.log.Debug().
				Str("course_code", pc.CourseCode).
				Msg("Planned course has no catalog course, skipping")
			continue
		}

		for pi := range details.Programs {
			prog := &details.Programs[pi]
			rows = append(rows, a.assignForProgram(pc, prog, committed[prog.PlanProgram.ID])...)
		}
	}

	if len(rows) == 0 {
		return nil
	}
	return a.store.CreateFulfillments(ctx, rows)
}

// assignForProgram picks the fulfillments one course contributes to one plan
// program and records the committed credits.
func (a *Assigner) assignForProgram(pc model.PlannedCourseDetail, prog *model.PlanProgramDetail, credits map[string]int) []model.RequirementFulfillment {
	// Double-count exceptions bypass the one-winner rule for exactly the
	// enumerated requirement set.
	if ids := DoubleCountFor(pc.Course.Code, gatherConstraints(&prog.Requirements)); len(ids) > 0 {
		rows := make([]model.RequirementFulfillment, 0, len(ids))
		for _, reqID := range ids {
			rows = append(rows, model.RequirementFulfillment{
				PlanProgramID:   prog.PlanProgram.ID,
				RequirementID:   reqID,
				PlannedCourseID: pc.ID,
				CreditsApplied:  pc.Credits,
			})
			credits[reqID] += pc.Credits
		}
		return rows
	}

	matches := FindMatchingRequirements(pc.Course, &prog.Requirements)
	matches = PruneBySectionConstraints(matches)
	if len(matches) == 0 {
		// A course matching nothing in this program is a normal outcome.
		return nil
	}

	// Prefer the most specific candidate with remaining capacity. Capacity
	// is a soft preference: when everything is full, overflow onto the most
	// specific candidate rather than dropping the course.
	winner := matches[0]
	for _, m := range matches {
		if credits[m.FullID()] < m.CreditsRequired {
			winner = m
			break
		}
	}

	fullID := winner.FullID()
	credits[fullID] += pc.Credits
	return []model.RequirementFulfillment{{
		PlanProgramID:   prog.PlanProgram.ID,
		RequirementID:   fullID,
		PlannedCourseID: pc.ID,
		CreditsApplied:  pc.Credits, // the planned credits, not the catalog range
	}}
}

// gatherConstraints flattens program-level and requirement-level structured
// constraints; double-count exceptions may be declared at either level.
func gatherConstraints(tree *model.ProgramRequirements) []model.Constraint {
	constraints := append([]model.Constraint(nil), tree.ConstraintsStructured...)
	for _, s := range tree.Sections {
		for _, r := range s.Requirements {
			constraints = append(constraints, r.ConstraintsStructured...)
		}
	}
	return constraints
}
