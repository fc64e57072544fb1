package app

import (
	"fmt"
	"strings"
)

const maxTracedQueryLength = 512

// formatDBQueryForTrace renders a statement for the db.statement span
// attribute. Whitespace is collapsed and the batched availability upsert,
// which carries one VALUES tuple per slot, is reduced to its first tuple
// plus a row count so large sync batches stay readable in traces.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if normalized == "" {
		return normalized
	}

	normalized = collapseValueTuples(normalized)
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func collapseValueTuples(query string) string {
	start := strings.Index(query, " VALUES (")
	if start < 0 {
		return query
	}
	firstEnd := strings.Index(query[start:], ")")
	if firstEnd < 0 {
		return query
	}
	firstEnd += start + 1

	rest := query[firstEnd:]
	extra := 0
	for strings.HasPrefix(rest, ", (") {
		end := strings.Index(rest, ")")
		if end < 0 {
			break
		}
		rest = rest[end+1:]
		extra++
	}
	if extra == 0 {
		return query
	}

	return query[:firstEnd] + fmt.Sprintf(" /* +%d rows */", extra) + rest
}
