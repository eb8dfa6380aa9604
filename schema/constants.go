package schema

// Custom string types for type safety.
type (
	// RiskLevel classifies an overall debt score into an ordinal tier.
	RiskLevel string

	// Category represents one of the four debt scoring categories.
	Category string

	// Language represents a detected programming language.
	Language string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for result storage.
	DatabaseBackend string
)

// All risk levels, ordered from best to worst.
const (
	LowRisk      RiskLevel = "Low"
	MediumRisk   RiskLevel = "Medium"
	HighRisk     RiskLevel = "High"
	CriticalRisk RiskLevel = "Critical"
)

// All scoring categories.
const (
	CodeQuality    Category = "code_quality"
	Architecture   Category = "architecture"
	Infrastructure Category = "infrastructure"
	Operations     Category = "operations"
)

// Languages with dedicated profilers. The detector reports more languages
// than these; profilers are only registered for the ones below.
const (
	LangJava       Language = "Java"
	LangCSharp     Language = "C#"
	LangPython     Language = "Python"
	LangJavaScript Language = "JavaScript"
	LangTypeScript Language = "TypeScript"
	LangGo         Language = "Go"
	LangRuby       Language = "Ruby"
	LangPHP        Language = "PHP"
	LangRust       Language = "Rust"
	LangKotlin     Language = "Kotlin"
	LangCPP        Language = "C++"
	LangC          Language = "C"
	LangSwift      Language = "Swift"
	LangScala      Language = "Scala"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes is the allowlist used during config validation.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidDatabaseBackends is the allowlist used during config validation.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultCategoryWeights are the weights applied when computing the overall
// score. They must sum to 1.0; config overrides are validated against that.
var DefaultCategoryWeights = map[Category]float64{
	CodeQuality:    0.25,
	Architecture:   0.30,
	Infrastructure: 0.25,
	Operations:     0.20,
}

// MaxCategoryScore is the upper bound for every category and overall score.
const MaxCategoryScore = 4.0

// RiskLevelFor converts an overall debt score into a risk level.
// Boundary values map to the lower tier: a score of exactly 2.0 is Medium.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score <= 1.0:
		return LowRisk
	case score <= 2.0:
		return MediumRisk
	case score <= 3.0:
		return HighRisk
	default:
		return CriticalRisk
	}
}
