package api

import (
	"slices"
	"sort"

	"github.com/reoring/msgfield"
	"github.com/reoring/msgfield/i18n"
)

// objectFields checks that v is an object with only the allowed keys. Unknown
// keys are reported in name order.
func objectFields(v any, allowed ...string) (map[string]any, msgfield.Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, msgfield.Issues{invalidType(msgfield.RootPath(), "object")}
	}
	var unknown []string
	for k := range m {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	var iss msgfield.Issues
	for _, k := range unknown {
		iss = msgfield.AppendIssues(iss, msgfield.RootPath().Field(k).Issue(msgfield.CodeUnknownKey, i18n.T(msgfield.CodeUnknownKey, nil), "key", k))
	}
	return m, iss
}

func stringField(m map[string]any, key string) (string, msgfield.Issues) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", msgfield.Issues{invalidType(msgfield.RootPath().Field(key), "string")}
	}
	return s, nil
}

func invalidType(p msgfield.PathRef, expected string) msgfield.Issue {
	it := msgfield.IssueAt(p, msgfield.CodeInvalidType, i18n.T(msgfield.CodeInvalidType, nil), map[string]any{"expected": expected})
	it.Hint = "expected " + expected
	return it
}
