package audit

// Specificity weights for filters and rules. Higher = more narrowly targeted.
// Scores only break ties between requirements a course could satisfy, so the
// absolute values matter less than the ordering they induce; they are
// centralized here to keep the model auditable.
const (
	// Filters
	ScoreFilterAny         = 10.0
	ScoreSubjectNumberBase = 50.0
	BonusNumberSpecific    = 25.0
	BonusNumberRange       = 15.0
	BonusSingleSubject     = 5.0

	ScoreAttributeBase      = 40.0
	AttributeBreadthPenalty = 5.0 // per attribute beyond the first
	ScoreAttributeFloor     = 15.0
	BonusAttributeExclusion = 10.0

	ScoreCourseListBase  = 85.0
	BonusSingleCourse    = 5.0
	BonusShortCourseList = 3.0
	ShortCourseListMax   = 10

	ScoreSuffixBase          = 60.0
	BonusSuffixSubjectScoped = 10.0
	BonusSingleSuffix        = 5.0
	BonusSuffixExclusion     = 5.0

	// An OR widens the matching set, so it is never allowed to look as
	// specific as a single highly-specific filter.
	ScoreCompositeOrCap = 70.0

	// Rules
	ScoreRuleTakeCourses  = 100.0
	ScoreRuleTakeFromList = 80.0
	ScoreRuleOpen         = 10.0

	// An AND group with no sub-rules matches vacuously (min over an empty
	// set). Saturate at the maximum rule score instead of +Inf so the value
	// stays comparable and serializable.
	ScoreGroupEmptyAnd = 100.0
)
