// Package memstore provides in-memory versions of the MongoDB repositories.
// They honour the same conditional-write rules and are used by service tests.
package memstore
