// Package database provides SQLite-based storage for the extraction
// history.
//
// Every completed run, successful or not, is recorded with its query,
// outcome, and (on success) the final document and source list, so past
// answers can be re-read without another browser round trip.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
