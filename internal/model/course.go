package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Course is a catalog course, identified by its code ("CS 1101").
// Immutable once cataloged for a given catalog year.
type Course struct {
	ID          uuid.UUID        `json:"id"`
	Code        string           `json:"code"`
	Subject     string           `json:"subject"`
	Number      int              `json:"number"`
	Suffix      string           `json:"suffix,omitempty"` // trailing letters, e.g. "L" for lab sections
	Title       string           `json:"title"`
	MinCredits  int              `json:"min_credits"`
	MaxCredits  int              `json:"max_credits"`
	Attributes  CourseAttributes `json:"attributes"`
	CatalogYear int              `json:"catalog_year"`
}

// CourseAttributes groups free-form attribute tags by category,
// e.g. {"axle": ["MNS", "HCA"]}.
type CourseAttributes map[string][]string

// HasAny reports whether the course carries at least one of the given tags,
// in any category.
func (a CourseAttributes) HasAny(tags []string) bool {
	for _, catTags := range a {
		for _, t := range catTags {
			for _, want := range tags {
				if t == want {
					return true
				}
			}
		}
	}
	return false
}

// ParseCourseCode splits a course code like "CS 1101" or "PHYS 1600L" into
// subject, numeric part and trailing letter suffix.
func ParseCourseCode(code string) (subject string, number int, suffix string, err error) {
	parts := strings.Fields(code)
	if len(parts) != 2 {
		return "", 0, "", fmt.Errorf("malformed course code %q", code)
	}
	subject = parts[0]

	digits := parts[1]
	for i, r := range digits {
		if unicode.IsLetter(r) {
			suffix = digits[i:]
			digits = digits[:i]
			break
		}
	}

	number, err = strconv.Atoi(digits)
	if err != nil {
		return "", 0, "", fmt.Errorf("malformed course number in %q", code)
	}
	return subject, number, suffix, nil
}
