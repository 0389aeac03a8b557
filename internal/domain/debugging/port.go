package debugging

import "context"

// LintConfig is the engine configuration used for every request
type LintConfig struct {
	EcmaVersion  int
	SourceType   string
	Env          []string
	Extends      string
	Fix          bool
	UseProjectRC bool
}

// DefaultLintConfig: modern syntax, recommended rules, auto-fix on, no project rc file
func DefaultLintConfig() LintConfig {
	return LintConfig{
		EcmaVersion:  2021,
		SourceType:   "module",
		Env:          []string{"es6", "node"},
		Extends:      "eslint:recommended",
		Fix:          true,
		UseProjectRC: false,
	}
}

// Linter port (the static-analysis engine)
type Linter interface {
	Lint(ctx context.Context, source string, cfg LintConfig) (LintReport, error)
}

// Repository port for persisting debugging queries (write-only)
type Repository interface {
	Create(ctx context.Context, r *Record) error
}
