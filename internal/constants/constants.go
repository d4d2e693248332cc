// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

// Application defaults
const (
	DefaultPort        = "8080"
	DefaultDBPath      = "flowscout.db"
	DefaultSourcesPath = "config/sources.yaml"
	DefaultDocsDir     = "output/workflows"
)

// Dashboard query defaults
const (
	HighValueThreshold = 8
	PulseHighValueMax  = 6
	PulseRecentDays    = 7
	PulseRecentMax     = 5
	PulseTopToolsMax   = 8
	ScanHistoryMax     = 10
)

// Scan defaults
const (
	DefaultDaysBack      = 7
	DefaultMaxPerChannel = 3
)

// Skill levels map to the doc directory layout produced by the generator.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Doc subdirectories per skill level
var SkillLevelDirs = map[string]string{
	SkillBeginner:     "01-fundamentals",
	SkillIntermediate: "02-intermediate",
	SkillAdvanced:     "03-advanced",
}
