package extraction

import (
	"encoding/json"
	"sort"

	"quiz-forge/internal/domain"
)

// Normalize extracts the canonical ordered entry list from a parsed tree of
// unknown top-level shape. Shapes are checked in a fixed priority order:
//
//  1. the tree is already a list
//  2. a record with a "questions" list property
//  3. (lenient mode only) a record that itself looks like one entry
//  4. a record with an "items" list whose first element looks like an entry
//  5. a schema declaration (type: "array" plus an "items" descriptor) whose
//     properties hide a list of entries
//
// No match is a terminal condition and is never retried.
func Normalize(tree interface{}, mode domain.ValidationMode) ([]interface{}, error) {
	switch t := tree.(type) {
	case []interface{}:
		return t, nil
	case map[string]interface{}:
		if list, ok := t["questions"].([]interface{}); ok {
			return list, nil
		}
		if mode != domain.ModeStrict && looksLikeEntry(t) {
			return []interface{}{t}, nil
		}
		if list, ok := t["items"].([]interface{}); ok && firstLooksLikeEntry(list) {
			return list, nil
		}
		if list, ok := entriesFromSchema(t); ok {
			return list, nil
		}
	}
	return nil, domain.NewShapeError(Preview(stringify(tree)))
}

// entriesFromSchema handles generators that answer with the output schema
// itself instead of the data: a record carrying a type:"array" marker and an
// "items" descriptor. The other properties are searched in sorted order for a
// list whose first element looks like an entry; only when none qualifies is
// the "items" list itself consulted.
func entriesFromSchema(m map[string]interface{}) ([]interface{}, bool) {
	typ, _ := m["type"].(string)
	if typ != "array" {
		return nil, false
	}
	if _, hasItems := m["items"]; !hasItems {
		return nil, false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "items" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if list, ok := m[k].([]interface{}); ok && firstLooksLikeEntry(list) {
			return list, true
		}
	}
	// Last resort: the "items" descriptor itself carries the entries.
	if list, ok := m["items"].([]interface{}); ok && firstLooksLikeEntry(list) {
		return list, true
	}
	return nil, false
}

// looksLikeEntry reports whether v is a record carrying a "question" field.
func looksLikeEntry(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	_, has := m["question"]
	return has
}

func firstLooksLikeEntry(list []interface{}) bool {
	return len(list) > 0 && looksLikeEntry(list[0])
}

func stringify(tree interface{}) string {
	b, err := json.Marshal(tree)
	if err != nil {
		return ""
	}
	return string(b)
}
