package debugging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   domain.Diagnostic
		want string
	}{
		{
			name: "rule id present",
			in:   domain.Diagnostic{Line: 1, Message: "'x' is assigned a value but never used.", RuleID: "no-unused-vars"},
			want: "Line 1: 'x' is assigned a value but never used. (no-unused-vars)",
		},
		{
			name: "fatal parse error has no rule",
			in:   domain.Diagnostic{Line: 4, Message: "Parsing error: Unexpected token }", Fatal: true},
			want: "Line 4: Parsing error: Unexpected token } (null)",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.FormatDiagnostic(tt.in))
		})
	}
}

func TestNewAnalysisResult(t *testing.T) {
	t.Parallel()

	fixed := "const a = 1;\n"

	res := domain.NewAnalysisResult("const a = 1;;\n", domain.LintReport{Output: &fixed})
	assert.Equal(t, fixed, res.Fix)
	assert.Equal(t, []string{}, res.Errors)
	assert.Equal(t, domain.ExplanationNoIssues, res.Explanation)

	res = domain.NewAnalysisResult("debugger", domain.LintReport{Diagnostics: []domain.Diagnostic{
		{Line: 1, Message: "Unexpected 'debugger' statement.", RuleID: "no-debugger"},
	}})
	assert.Equal(t, "debugger", res.Fix)
	assert.Equal(t, []string{"Line 1: Unexpected 'debugger' statement. (no-debugger)"}, res.Errors)
	assert.Equal(t, domain.ExplanationIssues, res.Explanation)
}

func TestDefaultLintConfig(t *testing.T) {
	t.Parallel()

	cfg := domain.DefaultLintConfig()
	assert.Equal(t, 2021, cfg.EcmaVersion)
	assert.Equal(t, "module", cfg.SourceType)
	assert.ElementsMatch(t, []string{"es6", "node"}, cfg.Env)
	assert.Equal(t, "eslint:recommended", cfg.Extends)
	assert.True(t, cfg.Fix)
	assert.False(t, cfg.UseProjectRC)
}
