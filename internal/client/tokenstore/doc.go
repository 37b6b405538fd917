// Package tokenstore keeps the bearer token between client runs.
//
// Two implementations satisfy Store:
//
//   - SQLite: persistent, backed by the local client database (session table,
//     key "access_token"); opened with Open, which applies migrations.
//   - Memory: process-local, used by tests and by --no-persist sessions.
//
// An absent token is not an error: Get returns "" and nil. Saving an empty
// token removes the stored one.
package tokenstore
