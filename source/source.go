// Package source reads config-shaped batch input (JSON or YAML) into plain
// values that the msgfield runtime converts into messages.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/msgfield"
	"github.com/reoring/msgfield/i18n"
)

// Format selects the input syntax.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// ParseFormat maps "json"/"yaml"/"yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("source: unknown format %q", s)
	}
}

// FormatFromPath picks the format by file extension; anything that is not
// .yaml/.yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Options bundles read options.
type Options struct {
	// MaxBytes caps the input size; 0 disables the cap.
	MaxBytes int64
}

// Read decodes every document in r. JSON input may hold several concatenated
// values; YAML input may hold several documents separated by "---".
func Read(r io.Reader, f Format, opt Options) ([]any, error) {
	data, err := readAll(r, opt)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatYAML:
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func readAll(r io.Reader, opt Options) ([]byte, error) {
	if opt.MaxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, parseIssue(err)
		}
		return data, nil
	}
	lr := io.LimitReader(r, opt.MaxBytes+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, parseIssue(err)
	}
	if int64(len(data)) > opt.MaxBytes {
		return nil, msgfield.Issues{msgfield.Issue{
			Path:    "/",
			Code:    msgfield.CodeTruncated,
			Message: i18n.T(msgfield.CodeTruncated, nil),
			Hint:    "max bytes exceeded",
			Params:  map[string]any{"maxBytes": opt.MaxBytes},
		}}
	}
	return data, nil
}

func decodeJSON(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var out []any
	for {
		var v any
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, parseIssue(err)
		}
		out = append(out, v)
	}
}

func decodeYAML(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []any
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, parseIssue(err)
		}
		if node == nil {
			continue
		}
		out = append(out, yamlNormalizeValue(node))
	}
}

func parseIssue(err error) msgfield.Issues {
	return msgfield.Issues{msgfield.Issue{Path: "/", Code: msgfield.CodeParseError, Message: i18n.T(msgfield.CodeParseError, nil), Hint: err.Error(), Cause: err}}
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like values recursively. Non-string keys are
// rendered with fmt.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}

// Flatten expands batch documents into a flat list of doc configs. A document
// may be a batch object ({"docs": [...]}), a list of docs, or a single doc.
func Flatten(docs []any) []any {
	var out []any
	for _, d := range docs {
		switch t := d.(type) {
		case []any:
			out = append(out, t...)
		case map[string]any:
			if inner, ok := t["docs"]; ok && len(t) == 1 {
				if list, ok := inner.([]any); ok {
					out = append(out, list...)
					continue
				}
			}
			out = append(out, t)
		default:
			out = append(out, t)
		}
	}
	return out
}
