package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/audit"
	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RequirementProgress is the completion report for a single requirement.
type RequirementProgress struct {
	RequirementID   string             `json:"requirement_id"`
	Title           string             `json:"title"`
	CreditsRequired int                `json:"credits_required"`
	CreditsApplied  int                `json:"credits_applied"`
	Progress        audit.RuleProgress `json:"progress"`
}

// SectionProgress aggregates requirement progress under one section.
type SectionProgress struct {
	SectionID       string                `json:"section_id"`
	Title           string                `json:"title"`
	CreditsRequired int                   `json:"credits_required"`
	CreditsApplied  int                   `json:"credits_applied"`
	Requirements    []RequirementProgress `json:"requirements"`
}

// ProgramProgress is the full completion report for one attached program.
type ProgramProgress struct {
	PlanProgramID     uuid.UUID                `json:"plan_program_id"`
	ProgramID         uuid.UUID                `json:"program_id"`
	ProgramName       string                   `json:"program_name"`
	Sections          []SectionProgress        `json:"sections"`
	Constraints       []audit.ConstraintResult `json:"constraints,omitempty"`
	CreditsRequired   int                      `json:"credits_required"`
	CreditsApplied    int                      `json:"credits_applied"`
	OverallPercentage float64                  `json:"overall_percentage"`
}

// PlanProgressSummary is the cached, display-oriented audit summary of a plan.
type PlanProgressSummary struct {
	PlanID   uuid.UUID         `json:"plan_id"`
	Programs []ProgramProgress `json:"programs"`
}

// ProgressService computes degree-progress summaries from the persisted
// fulfillment assignment. Summaries are cached in Redis and invalidated by the
// audit worker after every reassignment.
type ProgressService struct {
	auditStore      *repository.AuditStore
	fulfillmentRepo *repository.FulfillmentRepository
	rdb             *redis.Client
	cfg             *config.Config
	log             zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	auditStore *repository.AuditStore,
	fulfillmentRepo *repository.FulfillmentRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		auditStore:      auditStore,
		fulfillmentRepo: fulfillmentRepo,
		rdb:             rdb,
		cfg:             cfg,
		log:             log.With().Str("component", "progress_service").Logger(),
	}
}

// GetPlanProgress returns the plan's progress summary, from cache when fresh.
func (s *ProgressService) GetPlanProgress(ctx context.Context, planID uuid.UUID) (*PlanProgressSummary, error) {
	cacheKey := config.CacheKey.PlanProgressKey(planID.String())

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		var summary PlanProgressSummary
		if jsonErr := json.Unmarshal([]byte(cached), &summary); jsonErr == nil {
			return &summary, nil
		}
		// Corrupt cache entry: fall through and recompute.
		s.rdb.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Progress cache read failed, computing directly")
	}

	summary, err := s.ComputePlanProgress(ctx, planID)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(summary); jsonErr == nil {
		if setErr := s.rdb.Set(ctx, cacheKey, raw, s.cfg.ProgressCacheTTL).Err(); setErr != nil {
			s.log.Warn().Err(setErr).Msg("Progress cache write failed")
		}
	}

	return summary, nil
}

// ComputePlanProgress builds the summary from the plan's current fulfillment
// assignment, bypassing the cache.
func (s *ProgressService) ComputePlanProgress(ctx context.Context, planID uuid.UUID) (*PlanProgressSummary, error) {
	details, err := s.auditStore.GetPlanDetails(ctx, planID)
	if err != nil {
		return nil, err
	}

	// Planned-course lookup so fulfillment rows resolve to catalog courses.
	byPlannedID := make(map[uuid.UUID]model.PlannedCourseDetail, len(details.PlannedCourses))
	for _, pc := range details.PlannedCourses {
		byPlannedID[pc.ID] = pc
	}

	summary := &PlanProgressSummary{PlanID: planID, Programs: []ProgramProgress{}}

	for _, prog := range details.Programs {
		fulfillments, err := s.fulfillmentRepo.ListByPlanProgram(ctx, prog.ID)
		if err != nil {
			return nil, err
		}

		// Group applied courses by fully-qualified requirement id.
		takenByReq := make(map[string][]audit.TakenCourse)
		creditsByReq := make(map[string]int)
		var allFulfilled []audit.FulfilledCourse
		for _, f := range fulfillments {
			pc, ok := byPlannedID[f.PlannedCourseID]
			if !ok || pc.Course == nil {
				continue
			}
			takenByReq[f.RequirementID] = append(takenByReq[f.RequirementID], audit.TakenCourse{
				Course:  pc.Course,
				Credits: f.CreditsApplied,
			})
			creditsByReq[f.RequirementID] += f.CreditsApplied
			allFulfilled = append(allFulfilled, audit.FulfilledCourse{
				RequirementID: f.RequirementID,
				Course:        pc.Course,
				Credits:       f.CreditsApplied,
			})
		}

		pp := ProgramProgress{
			PlanProgramID: prog.ID,
			ProgramID:     prog.ProgramID,
			ProgramName:   prog.ProgramName,
			Sections:      make([]SectionProgress, 0, len(prog.Requirements.Sections)),
		}

		for _, section := range prog.Requirements.Sections {
			sp := SectionProgress{
				SectionID:       section.ID,
				Title:           section.Title,
				CreditsRequired: section.CreditsRequired,
				Requirements:    make([]RequirementProgress, 0, len(section.Requirements)),
			}

			for _, req := range section.Requirements {
				fullID := model.FullRequirementID(section.ID, req.ID)
				sp.Requirements = append(sp.Requirements, RequirementProgress{
					RequirementID:   fullID,
					Title:           req.Title,
					CreditsRequired: req.CreditsRequired,
					CreditsApplied:  creditsByReq[fullID],
					Progress:        audit.EvaluateProgress(&req.Rule, takenByReq[fullID]),
				})
				sp.CreditsApplied += creditsByReq[fullID]
			}

			pp.Sections = append(pp.Sections, sp)
			pp.CreditsRequired += section.CreditsRequired
			pp.CreditsApplied += sp.CreditsApplied
		}

		// Program-level declarative constraints over the final assignment.
		pp.Constraints = append(
			audit.EvaluateAuditConstraints(prog.Requirements.ConstraintsStructured, allFulfilled),
			requirementConstraintResults(&prog.Requirements, allFulfilled)...,
		)

		if pp.CreditsRequired > 0 {
			pct := float64(pp.CreditsApplied) / float64(pp.CreditsRequired) * 100
			if pct > 100 {
				pct = 100
			}
			pp.OverallPercentage = pct
		}

		summary.Programs = append(summary.Programs, pp)
	}

	return summary, nil
}

// InvalidateCache drops the cached summary for a plan.
func (s *ProgressService) InvalidateCache(ctx context.Context, planID uuid.UUID) error {
	return s.rdb.Del(ctx, config.CacheKey.PlanProgressKey(planID.String())).Err()
}

// requirementConstraintResults evaluates the declarative constraints declared
// on individual requirements, scoped to the courses applied to each.
func requirementConstraintResults(tree *model.ProgramRequirements, all []audit.FulfilledCourse) []audit.ConstraintResult {
	var results []audit.ConstraintResult
	for _, section := range tree.Sections {
		for _, req := range section.Requirements {
			if len(req.ConstraintsStructured) == 0 {
				continue
			}
			fullID := model.FullRequirementID(section.ID, req.ID)
			var scoped []audit.FulfilledCourse
			for _, fc := range all {
				if fc.RequirementID == fullID {
					scoped = append(scoped, fc)
				}
			}
			results = append(results, audit.EvaluateAuditConstraints(req.ConstraintsStructured, scoped)...)
		}
	}
	return results
}
