// Package models contains GORM persistence models that map to database tables.
// Domain aggregates stay free of ORM tags; each model carries ToDomain and
// FromDomain mappers and the repositories only ever read or write models.
//
// Embedded collections (payments, health records, allocations) live in
// JSONB columns. Expense allocations are additionally written to the
// expense_fields join table so per-field queries stay index friendly.
package models
