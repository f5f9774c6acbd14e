// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with numbered ($n) parameters.
// Both supported dialects accept $n placeholders.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddTitleContains("m.title", "матрица")
//	wb.AddEquals("r.sentiment", "positive")
//	whereClause, args := wb.Build()
//	// m.title ILIKE $1 ESCAPE '\' AND r.sentiment = $2
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// next appends arg and returns its placeholder.
func (wb *WhereBuilder) next(arg interface{}) string {
	wb.args = append(wb.args, arg)
	return fmt.Sprintf("$%d", len(wb.args))
}

// AddEquals adds "column = $n".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s = %s", column, wb.next(value)))
	return wb
}

// AddTitleContains adds a case-insensitive substring match. LIKE wildcards
// in needle are matched literally. An empty needle is skipped.
func (wb *WhereBuilder) AddTitleContains(column, needle string) *WhereBuilder {
	if needle == "" {
		return wb
	}
	pattern := "%" + EscapeLike(needle) + "%"
	wb.clauses = append(wb.clauses, fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column, wb.next(pattern)))
	return wb
}

// AddInt64In adds "column IN ($n, ...)". An empty list matches nothing.
func (wb *WhereBuilder) AddInt64In(column string, values []int64) *WhereBuilder {
	if len(values) == 0 {
		wb.clauses = append(wb.clauses, "1=0")
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = wb.next(v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Paginate appends LIMIT and OFFSET placeholders continuing the argument
// numbering. A non-positive limit adds no LIMIT; a non-positive offset adds
// no OFFSET.
func (wb *WhereBuilder) Paginate(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(wb.next(limit))
	}
	if offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(wb.next(offset))
	}
	return b.String()
}

// Args returns the arguments bound so far.
func (wb *WhereBuilder) Args() []interface{} {
	return wb.args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// EscapeLike escapes LIKE metacharacters with a backslash.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
