package main

import (
	"context"
	"fmt"
	"time"

	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/openplanner/gradplan-backend/internal/database"
	"github.com/openplanner/gradplan-backend/internal/logger"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type seedCourse struct {
	code    string
	title   string
	credits int
	attrs   model.CourseAttributes
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	courseRepo := repository.NewCourseRepository(pool)
	programRepo := repository.NewProgramRepository(pool)
	programService := service.NewProgramService(programRepo, log)

	catalogYear := 2026

	fmt.Println("=== Seeding Course Catalog ===")

	courses := []seedCourse{
		{"CS 1101", "Programming and Problem Solving", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"CS 1151", "Computing and Ethics", 3, model.CourseAttributes{"axle": {"MNS", "P"}}},
		{"CS 2201", "Program Design and Data Structures", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"CS 2212", "Discrete Structures", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"CS 3250", "Algorithms", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"CS 3251", "Intermediate Software Design", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"CS 3270", "Programming Languages", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"CS 3281", "Operating Systems", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"MATH 1300", "Calculus I", 4, model.CourseAttributes{"axle": {"MNS"}}},
		{"MATH 1301", "Calculus II", 4, model.CourseAttributes{"axle": {"MNS"}}},
		{"MATH 2410", "Methods of Linear Algebra", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"MATH 2810", "Probability and Statistics", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"PHYS 1601", "General Physics I", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"PHYS 1601L", "General Physics I Laboratory", 1, model.CourseAttributes{"axle": {"MNS"}}},
		{"PHYS 1602", "General Physics II", 3, model.CourseAttributes{"axle": {"MNS"}}},
		{"PHYS 1602L", "General Physics II Laboratory", 1, model.CourseAttributes{"axle": {"MNS"}}},
		{"ENGL 1100", "Composition", 3, model.CourseAttributes{"axle": {"HCA"}}},
		{"HIST 1200", "World History", 3, model.CourseAttributes{"axle": {"HCA", "INT"}}},
		{"PHIL 1005", "Introduction to Ethics", 3, model.CourseAttributes{"axle": {"HCA", "P"}}},
		{"ECON 1010", "Principles of Macroeconomics", 3, model.CourseAttributes{"axle": {"SBS"}}},
		{"PSY 1200", "General Psychology", 3, model.CourseAttributes{"axle": {"SBS"}}},
	}

	created := 0
	for _, sc := range courses {
		subject, number, suffix, err := model.ParseCourseCode(sc.code)
		if err != nil {
			fmt.Printf("Skipping malformed code %s: %v\n", sc.code, err)
			continue
		}
		course := &model.Course{
			Code:        sc.code,
			Subject:     subject,
			Number:      number,
			Suffix:      suffix,
			Title:       sc.title,
			MinCredits:  sc.credits,
			MaxCredits:  sc.credits,
			Attributes:  sc.attrs,
			CatalogYear: catalogYear,
		}
		if err := courseRepo.Create(ctx, course); err != nil {
			fmt.Printf("Error creating course %s: %v\n", sc.code, err)
			continue
		}
		created++
	}
	fmt.Printf("Seeded %d/%d courses\n", created, len(courses))

	fmt.Println("=== Seeding Computer Science Major ===")

	req := &model.CreateProgramRequest{
		Slug:        "computer-science-major",
		Name:        "Computer Science (B.S.)",
		Kind:        string(model.ProgramKindMajor),
		CatalogYear: catalogYear,
		Requirements: model.ProgramRequirements{
			Sections: []model.RequirementSection{
				{
					ID:              "computer_science_core",
					Title:           "Computer Science Core",
					CreditsRequired: 18,
					Requirements: []model.Requirement{
						{
							ID:              "intro_sequence",
							Title:           "Introductory Sequence",
							CreditsRequired: 9,
							Rule: model.Rule{
								Type:    model.RuleTakeCourses,
								Courses: []string{"CS 1101", "CS 2201", "CS 2212"},
							},
						},
						{
							ID:              "systems",
							Title:           "Systems",
							CreditsRequired: 6,
							Rule: model.Rule{
								Type:      model.RuleTakeFromList,
								Courses:   []string{"CS 3250", "CS 3251", "CS 3270", "CS 3281"},
								Count:     2,
								CountType: model.CountByCourses,
							},
						},
						{
							ID:              "ethics",
							Title:           "Computing and Society",
							CreditsRequired: 3,
							Rule: model.Rule{
								Type:    model.RuleTakeCourses,
								Courses: []string{"CS 1151"},
							},
						},
					},
				},
				{
					ID:              "mathematics",
					Title:           "Mathematics",
					CreditsRequired: 14,
					Requirements: []model.Requirement{
						{
							ID:              "calculus",
							Title:           "Calculus Sequence",
							CreditsRequired: 8,
							Rule: model.Rule{
								Type:    model.RuleTakeCourses,
								Courses: []string{"MATH 1300", "MATH 1301"},
							},
						},
						{
							ID:              "advanced_math",
							Title:           "Linear Algebra and Statistics",
							CreditsRequired: 6,
							Rule: model.Rule{
								Type:    model.RuleTakeCourses,
								Courses: []string{"MATH 2410", "MATH 2810"},
							},
						},
					},
				},
				{
					ID:              "science",
					Title:           "Natural Sciences",
					CreditsRequired: 8,
					Requirements: []model.Requirement{
						{
							ID:              "physics_lecture",
							Title:           "Physics Lectures",
							CreditsRequired: 6,
							Rule: model.Rule{
								Type:    model.RuleTakeCourses,
								Courses: []string{"PHYS 1601", "PHYS 1602"},
							},
						},
						{
							ID:              "physics_lab",
							Title:           "Physics Laboratories",
							CreditsRequired: 2,
							Rule: model.Rule{
								Type:            model.RuleTakeAnyCourses,
								CreditsRequired: 2,
								Filter: &model.CourseFilter{
									Type:     model.FilterCourseNumberSuffix,
									Subjects: []string{"PHYS"},
									Suffixes: []string{"L"},
								},
							},
						},
					},
				},
				{
					ID:              "liberal_arts",
					Title:           "Liberal Arts Core",
					CreditsRequired: 9,
					Requirements: []model.Requirement{
						{
							ID:              "liberal_arts_core",
							Title:           "Humanities and Social Science",
							CreditsRequired: 9,
							Rule: model.Rule{
								Type:            model.RuleTakeAnyCourses,
								CreditsRequired: 9,
								Filter: &model.CourseFilter{
									Type:       model.FilterAttribute,
									Attributes: []string{"HCA", "SBS", "P"},
								},
							},
						},
					},
				},
			},
			ConstraintsStructured: []model.Constraint{
				{
					Type:   model.ConstraintAllowDoubleCount,
					Course: "CS 1151",
					RequirementIDs: []string{
						"computer_science_core.ethics",
						"liberal_arts.liberal_arts_core",
					},
				},
			},
		},
	}

	if _, err := programService.Create(ctx, req); err != nil {
		fmt.Printf("Error creating program: %v\n", err)
	} else {
		fmt.Println("Created Computer Science (B.S.)")
	}

	fmt.Println("=== Seeding Demo Students ===")

	studentRepo := repository.NewStudentRepository(pool)
	hash, err := bcrypt.GenerateFromPassword([]byte("gradplan-demo"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash demo password")
	}

	students := []model.Student{
		{Email: "ada@demo.test", Name: "Ada Lovelace"},
		{Email: "alan@demo.test", Name: "Alan Turing"},
	}
	for i := range students {
		students[i].PasswordHash = string(hash)
		if err := studentRepo.Create(ctx, &students[i]); err != nil {
			fmt.Printf("Error creating student %s: %v\n", students[i].Email, err)
			continue
		}
		fmt.Printf("Created student %s (password: gradplan-demo)\n", students[i].Email)
	}

	fmt.Println("\nSeed completed!")
}
