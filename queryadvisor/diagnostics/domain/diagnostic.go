package domain

import (
	"fmt"
	"strings"
)

// Severity indicates how costly a flagged pattern is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityBad      Severity = "bad"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityWarning:  1,
	SeverityBad:      2,
	SeverityCritical: 3,
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

func ParseSeverity(value string) (Severity, error) {
	s := Severity(strings.ToLower(value))
	if _, ok := severityRank[s]; !ok {
		return "", fmt.Errorf("unknown severity %q: must be one of warning, bad, critical", value)
	}
	return s, nil
}

// Code is the stable classification of a diagnostic.
type Code string

const (
	CodeAll         Code = "ALL"
	CodeIn          Code = "IN"
	CodeNegation    Code = "NEGATION"
	CodeJavascript  Code = "JAVASCRIPT"
	CodeSize        Code = "SIZE"
	CodeRegexAnchor Code = "REGEX_ANCHOR"
	CodeRegexCase   Code = "REGEX_CASE"
	CodeRegexBadEnd Code = "REGEX_BAD_END"
)

// Diagnostic is one flagged inefficiency. Field is empty for document-level operators.
type Diagnostic struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Field    string   `json:"field,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// Summary counts diagnostics by severity.
type Summary struct {
	Total    int `json:"total"`
	Warning  int `json:"warning"`
	Bad      int `json:"bad"`
	Critical int `json:"critical"`
}

func Summarize(diagnostics []Diagnostic) Summary {
	s := Summary{Total: len(diagnostics)}
	for _, d := range diagnostics {
		switch d.Severity {
		case SeverityWarning:
			s.Warning++
		case SeverityBad:
			s.Bad++
		case SeverityCritical:
			s.Critical++
		}
	}
	return s
}

// AnyAtLeast reports whether some diagnostic reaches the given severity.
func AnyAtLeast(diagnostics []Diagnostic, severity Severity) bool {
	for _, d := range diagnostics {
		if d.Severity.AtLeast(severity) {
			return true
		}
	}
	return false
}
