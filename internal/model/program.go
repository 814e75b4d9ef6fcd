package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Program is a degree program (major, minor) whose requirement tree is stored
// as a JSONB document.
type Program struct {
	ID           uuid.UUID           `json:"id"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	Kind         ProgramKind         `json:"kind"`
	CatalogYear  int                 `json:"catalog_year"`
	Requirements ProgramRequirements `json:"requirements"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type ProgramKind string

const (
	ProgramKindMajor ProgramKind = "MAJOR"
	ProgramKindMinor ProgramKind = "MINOR"
)

// ProgramRequirements is the requirement tree owned by a program.
// Top-level constraints may reference requirements across sections.
type ProgramRequirements struct {
	Sections              []RequirementSection `json:"sections"`
	ConstraintsStructured []Constraint         `json:"constraintsStructured,omitempty"`
}

// RequirementSection groups requirements under a section id and credit target.
type RequirementSection struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	CreditsRequired int           `json:"creditsRequired"`
	Requirements    []Requirement `json:"requirements"`
}

// Requirement is a single gradeable unit inside a section. Its id is unique
// within the section; the fully-qualified id "sectionId.requirementId" is the
// unit of assignment.
type Requirement struct {
	ID                    string       `json:"id"`
	Title                 string       `json:"title"`
	CreditsRequired       int          `json:"creditsRequired"`
	Rule                  Rule         `json:"rule"`
	Constraints           string       `json:"constraints,omitempty"` // free-form advisor note
	ConstraintsStructured []Constraint `json:"constraintsStructured,omitempty"`
}

// FullRequirementID builds the composite key used by fulfillment records.
func FullRequirementID(sectionID, requirementID string) string {
	return sectionID + "." + requirementID
}

// Value/Scan-free JSONB helpers: repositories marshal the tree explicitly.

// MarshalRequirements serializes the tree for storage.
func MarshalRequirements(r ProgramRequirements) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalRequirements deserializes a stored tree.
func UnmarshalRequirements(raw []byte, into *ProgramRequirements) error {
	return json.Unmarshal(raw, into)
}

// CreateProgramRequest is the payload for creating a program.
type CreateProgramRequest struct {
	Slug         string              `json:"slug" binding:"required,min=2,max=100"`
	Name         string              `json:"name" binding:"required,min=2,max=200"`
	Kind         string              `json:"kind" binding:"required,oneof=MAJOR MINOR"`
	CatalogYear  int                 `json:"catalog_year" binding:"required,min=2000,max=2100"`
	Requirements ProgramRequirements `json:"requirements" binding:"required"`
}

// UpdateProgramRequest is the payload for replacing a program's metadata and tree.
type UpdateProgramRequest struct {
	Name         string              `json:"name" binding:"required,min=2,max=200"`
	Requirements ProgramRequirements `json:"requirements" binding:"required"`
}
