package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Record is a single result row. Keys preserves the projection order of
// the query; Values maps each key to its driver-decoded value.
type Record struct {
	Keys   []string
	Values map[string]any
}

// ResultSet is an ordered collection of records, exactly as returned by
// the store. An empty ResultSet is a valid outcome, not a failure.
type ResultSet []Record

// Empty reports whether the query matched nothing.
func (rs ResultSet) Empty() bool {
	return len(rs) == 0
}

// Context serializes the result set into the text block handed to the
// answer model. Rows render one per line in projection order; null
// values are dropped so they can never leak into an answer. The output
// is bounded to maxTokens: rows that would exceed the budget are cut at
// a record boundary and a count of the omitted rows is appended.
func (rs ResultSet) Context(maxTokens int) string {
	if len(rs) == 0 {
		return ""
	}

	var b strings.Builder
	used := 0
	for i, record := range rs {
		line := record.render()
		if line == "" {
			continue
		}
		line += "\n"

		cost := countTokens(line)
		if maxTokens > 0 && used+cost > maxTokens && b.Len() > 0 {
			fmt.Fprintf(&b, "(... %d lignes supplémentaires omises)\n", len(rs)-i)
			break
		}
		b.WriteString(line)
		used += cost
	}
	return b.String()
}

func (r Record) render() string {
	parts := make([]string, 0, len(r.Keys))
	for _, key := range r.Keys {
		v, ok := r.Values[key]
		if !ok || v == nil {
			continue
		}
		parts = append(parts, key+": "+formatValue(v))
	}
	return strings.Join(parts, " | ")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			parts = append(parts, formatValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		// Node or map projection; render its non-null entries in
		// stable key order.
		keys := make([]string, 0, len(val))
		for k := range val {
			if val[k] != nil {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+formatValue(val[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// countTokens measures text with the o200k_base encoding, falling back
// to a 4-characters-per-token estimate when the encoding is unavailable
// (offline environments cannot fetch the BPE ranks).
func countTokens(text string) int {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return len(text)/4 + 1
	}
	return len(enc.Encode(text, nil, nil))
}
