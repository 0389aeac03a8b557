package eslint

import (
	"encoding/json"
	"fmt"

	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
)

// fileResult mirrors one element of `eslint --format json`
type fileResult struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		RuleID   *string `json:"ruleId"`
		Severity int     `json:"severity"`
		Message  string  `json:"message"`
		Line     int     `json:"line"`
		Column   int     `json:"column"`
		Fatal    bool    `json:"fatal"`
	} `json:"messages"`
	ErrorCount   int     `json:"errorCount"`
	WarningCount int     `json:"warningCount"`
	Output       *string `json:"output"`
}

// ParseReport decodes the JSON formatter output for a single stdin source.
func ParseReport(b []byte) (domain.LintReport, error) {
	var files []fileResult
	if err := json.Unmarshal(b, &files); err != nil {
		return domain.LintReport{}, fmt.Errorf("decode eslint output: %w", err)
	}
	if len(files) == 0 {
		return domain.LintReport{}, fmt.Errorf("eslint returned no results")
	}

	f := files[0]
	rep := domain.LintReport{
		Diagnostics: make([]domain.Diagnostic, 0, len(f.Messages)),
		Output:      f.Output,
	}
	for _, m := range f.Messages {
		d := domain.Diagnostic{
			Line:     m.Line,
			Column:   m.Column,
			Message:  m.Message,
			Severity: m.Severity,
			Fatal:    m.Fatal,
		}
		if m.RuleID != nil {
			d.RuleID = *m.RuleID
		}
		rep.Diagnostics = append(rep.Diagnostics, d)
	}
	return rep, nil
}
