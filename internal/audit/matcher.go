package audit

import (
	"sort"

	"github.com/openplanner/gradplan-backend/internal/model"
)

// RequirementMatch is one (section, requirement) pair a course could satisfy.
type RequirementMatch struct {
	SectionID       string
	RequirementID   string
	Specificity     float64
	CreditsRequired int
	Constraints     []model.Constraint // requirement-level structured constraints
}

// FullID returns the composite "sectionId.requirementId" assignment key.
func (m RequirementMatch) FullID() string {
	return model.FullRequirementID(m.SectionID, m.RequirementID)
}

// FindMatchingRequirements walks every section and requirement of a program's
// tree for one course and collects each match with its specificity score.
// The result is sorted descending by score; equal scores keep the original
// section/requirement declaration order, which is the implicit priority when
// scores tie.
func FindMatchingRequirements(course *model.Course, tree *model.ProgramRequirements) []RequirementMatch {
	if course == nil || tree == nil {
		return nil
	}

	var matches []RequirementMatch
	for si := range tree.Sections {
		section := &tree.Sections[si]
		for ri := range section.Requirements {
			req := &section.Requirements[ri]
			result := EvaluateRule(course, &req.Rule)
			if !result.Matches {
				continue
			}
			matches = append(matches, RequirementMatch{
				SectionID:       section.ID,
				RequirementID:   req.ID,
				Specificity:     result.Specificity,
				CreditsRequired: req.CreditsRequired,
				Constraints:     req.ConstraintsStructured,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Specificity > matches[j].Specificity
	})
	return matches
}
