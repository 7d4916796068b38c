package render

import (
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff of before and after rendered as indented JSON.
// An empty string means no change.
func Diff(name string, before, after any) (string, error) {
	a, err := json.MarshalIndent(before, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode before: %w", err)
	}
	b, err := json.MarshalIndent(after, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode after: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a) + "\n"),
		B:        difflib.SplitLines(string(b) + "\n"),
		FromFile: fmt.Sprintf("a/%s", name),
		ToFile:   fmt.Sprintf("b/%s", name),
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("generate diff: %w", err)
	}
	return out, nil
}

// Merge overlays the JSON fields of patch onto base and returns the result as
// a generic object. It previews what a PATCH would produce.
func Merge(base, patch any) (map[string]any, error) {
	out := map[string]any{}
	if err := overlay(out, base); err != nil {
		return nil, fmt.Errorf("encode base: %w", err)
	}
	if err := overlay(out, patch); err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	return out, nil
}

func overlay(dst map[string]any, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, val := range fields {
		dst[k] = val
	}
	return nil
}
