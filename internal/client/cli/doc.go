// Package cli provides the interactive civicwatch command-line client.
//
// It wires configuration, the token store, the API client, the views and a
// read-eval-print loop. The complaint list and complaint pages can be
// watched: a poller refreshes them until the user unwatches, and can be
// paused and resumed in between.
//
// Key features:
//   - Register / Login / Admin login / Logout
//   - List, show and watch complaints
//   - Admin actions: mark in progress, message, solve, update status
//   - Account pages: profile, own complaints, departments, stats, submit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
