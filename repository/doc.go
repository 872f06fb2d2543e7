// Package repository provides a generic bun repository keyed by a column,
// with partial updates from query.SetClause, filtered listing, pagination,
// upserts and driver error translation to HTTP errors.
package repository
