package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Verbosity Levels:
//
//	0 (default) - results and errors
//	1 (-v)      - + statement summaries, startup info
//	2 (-vv)     - + timing, effective config, db stats
//	3 (-vvv)    - + SQL statements, rank allocation

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	OutputResults OutputCategory = iota // Statement results
	OutputErrors                        // Errors with hints

	OutputStatements // One line per executed statement
	OutputStartup    // Database path, migrations applied

	OutputTiming  // Statement timing
	OutputConfig  // Config values loaded/applied
	OutputDBStats // Table counts

	OutputSQL   // Individual SQL statements
	OutputRanks // Rank allocation and moves
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputStatements: VerbosityInfo,
	OutputStartup:    VerbosityInfo,

	OutputTiming:  VerbosityDebug,
	OutputConfig:  VerbosityDebug,
	OutputDBStats: VerbosityDebug,

	OutputSQL:   VerbosityTrace,
	OutputRanks: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
