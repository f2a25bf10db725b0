package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var inlineFlags = regexp.MustCompile(`^\(\?([a-zA-Z]+)\)`)

// Regex is a $regex argument with its flags: {'$regex': 'pattern', '$options': 'i'}.
type Regex struct {
	Pattern string
	Options string
}

// Flags returns both $options flags and flags of a leading inline group like (?i).
func (r Regex) Flags() string {
	flags := r.Options
	if m := inlineFlags.FindStringSubmatch(r.Pattern); m != nil {
		flags += m[1]
	}
	return flags
}

func (r Regex) CaseInsensitive() bool {
	return strings.ContainsRune(r.Flags(), 'i')
}

// Body is the pattern without a leading inline flag group.
func (r Regex) Body() string {
	return inlineFlags.ReplaceAllString(r.Pattern, "")
}

// Anchored reports whether the pattern starts at the beginning of the string.
func (r Regex) Anchored() bool {
	body := r.Body()
	return strings.HasPrefix(body, "^") || strings.HasPrefix(body, `\A`)
}

func (r Regex) String() string {
	return fmt.Sprintf("/%s/%s", r.Pattern, r.Options)
}

func (r Regex) MarshalJSON() ([]byte, error) {
	return Document{{Key: string(OperatorRegex), Value: r.Pattern}, {Key: OptionsKey, Value: r.Options}}.MarshalJSON()
}

// MergeRegex folds $options into the $regex argument of a field operators map.
// $options without $regex is malformed.
func MergeRegex(field string, ops Document) (Document, error) {
	options, hasOptions := ops.Lookup(OptionsKey)
	pattern, hasPattern := ops.Lookup(string(OperatorRegex))
	if !hasPattern {
		if hasOptions {
			return nil, malformed(field, "%s requires %s", OptionsKey, OperatorRegex)
		}
		return ops, nil
	}

	regex, err := ToRegex(field, pattern)
	if err != nil {
		return nil, err
	}
	if hasOptions {
		flags, ok := options.(string)
		if !ok {
			return nil, malformed(field, "%s value must be string, got: %T", OptionsKey, options)
		}
		regex.Options += flags
		ops = ops.Without(OptionsKey)
	}
	return ops.With(string(OperatorRegex), regex), nil
}

// ToRegex accepts a plain pattern string or an already merged Regex.
func ToRegex(field string, value any) (Regex, error) {
	switch v := value.(type) {
	case Regex:
		return v, nil
	case string:
		return Regex{Pattern: v}, nil
	default:
		return Regex{}, malformed(field, "%s value must be string, got: %T", OperatorRegex, value)
	}
}
