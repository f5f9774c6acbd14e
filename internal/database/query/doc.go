// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package query provides SQL query building utilities for the database package.
//
// WhereBuilder produces parameterized WHERE clauses with numbered ($n)
// placeholders, the one syntax shared by DuckDB and PostgreSQL:
//
//	wb := query.NewWhereBuilder()
//	wb.AddTitleContains("m.title", filter.Movie)
//	wb.AddEquals("r.sentiment", "positive")
//	where, _ := wb.BuildWithPrefix()
//	page := wb.Paginate(filter.Limit, filter.Offset)
//	rows, err := conn.QueryContext(ctx, base+where+" ORDER BY r.id"+page, wb.Args()...)
//
// Values never appear in the SQL text. Column names are supplied by the
// caller and must be constants.
package query
