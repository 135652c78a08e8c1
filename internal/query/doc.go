// Package query compiles catalog search input into store-agnostic predicates.
//
// Free text goes through Lex, Rewrite and Collapse to become a PostgreSQL
// tsquery expression; structured filters become one predicate fragment per
// field; topic labels expand into keyword expressions. ParseTextQuery reads
// the same expression language back into a tree so malformed input can be
// rejected before it reaches a store, and so the in-memory store can
// evaluate text matches.
package query
