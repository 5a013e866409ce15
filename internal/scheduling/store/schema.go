// Package store carries the SQL schema shared by the postgres-backed stores
// and the integration test harness.
package store

import _ "embed"

//go:embed schema.sql
var Schema string
