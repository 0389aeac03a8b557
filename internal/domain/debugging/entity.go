package debugging

import "time"

// RecordID identifier type
type RecordID string

// Diagnostic is a single issue reported by the lint engine
type Diagnostic struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	RuleID   string `json:"ruleId,omitempty"` // empty for fatal parse errors
	Severity int    `json:"severity"`
	Fatal    bool   `json:"fatal,omitempty"`
}

// LintReport is what the engine hands back for one source text
type LintReport struct {
	Diagnostics []Diagnostic
	// Output is set only when the engine applied at least one fix
	Output *string
}

// AnalysisResult is returned to the caller and serialized for storage
type AnalysisResult struct {
	Errors      []string `json:"errors"`
	Fix         string   `json:"fix"`
	Explanation string   `json:"explanation"`
}

// Record represents one debugging query as persisted (append-only)
type Record struct {
	ID        RecordID  `json:"id"`
	Code      string    `json:"code"`
	Result    string    `json:"result"` // JSON encoded AnalysisResult
	CreatedAt time.Time `json:"created_at"`
}
