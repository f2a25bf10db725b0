package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityBad))
	assert.True(t, SeverityBad.AtLeast(SeverityBad))
	assert.False(t, SeverityWarning.AtLeast(SeverityBad))

	s, err := ParseSeverity("Critical")
	require.NoError(t, err)
	assert.Equal(t, SeverityCritical, s)

	_, err = ParseSeverity("fatal")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	diagnostics := []Diagnostic{
		{Severity: SeverityCritical, Code: CodeNegation},
		{Severity: SeverityBad, Code: CodeRegexAnchor},
		{Severity: SeverityBad, Code: CodeRegexCase},
		{Severity: SeverityWarning, Code: CodeSize},
	}
	assert.Equal(t, Summary{Total: 4, Warning: 1, Bad: 2, Critical: 1}, Summarize(diagnostics))
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestAnyAtLeast(t *testing.T) {
	diagnostics := []Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityBad}}
	assert.True(t, AnyAtLeast(diagnostics, SeverityBad))
	assert.False(t, AnyAtLeast(diagnostics, SeverityCritical))
	assert.False(t, AnyAtLeast(nil, SeverityWarning))
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Message: "m", Severity: SeverityBad, Code: CodeRegexCase}
	assert.Equal(t, "[bad] REGEX_CASE: m", d.String())
}
