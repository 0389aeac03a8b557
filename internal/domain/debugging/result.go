package debugging

import "fmt"

const (
	ExplanationIssues   = "ESLint detected issues and applied auto-fixes where possible."
	ExplanationNoIssues = "No issues detected by ESLint."
)

// FormatDiagnostic renders "Line <n>: <message> (<ruleId>)".
// A missing rule id is rendered as null, same as the browser client has always seen.
func FormatDiagnostic(d Diagnostic) string {
	rule := d.RuleID
	if rule == "" {
		rule = "null"
	}
	return fmt.Sprintf("Line %d: %s (%s)", d.Line, d.Message, rule)
}

// NewAnalysisResult shapes an engine report into the result returned to clients.
// Fix falls back to code whenever the engine produced no output.
func NewAnalysisResult(code string, rep LintReport) AnalysisResult {
	errs := make([]string, 0, len(rep.Diagnostics))
	for _, d := range rep.Diagnostics {
		errs = append(errs, FormatDiagnostic(d))
	}

	fix := code
	if rep.Output != nil && *rep.Output != "" {
		fix = *rep.Output
	}

	explanation := ExplanationNoIssues
	if len(errs) > 0 {
		explanation = ExplanationIssues
	}

	return AnalysisResult{
		Errors:      errs,
		Fix:         fix,
		Explanation: explanation,
	}
}
