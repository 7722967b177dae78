// Package engine provides the generic synchronization and reconciliation
// engine that keeps the local store of football-competition data aligned
// with the external sports-data provider.
//
// Dozens of entity kinds (countries, leagues, seasons, teams, players,
// fixtures, standings, odds) share one recurring pattern: fetch pages of
// records from the provider, resolve their foreign-entity dependencies,
// and reconcile them into local storage under a configurable policy. This
// package implements that pattern once; per-entity knowledge lives in
// descriptors and the repository, consumed through narrow interfaces.
//
// # Architecture
//
// The engine consists of five cooperating parts:
//
//  1. Graph: the fixed entity-kind dependency DAG. It orders requested
//     kinds parent-first and declares which parent references a record of
//     each kind may carry.
//
//  2. Fetcher: drives the provider page loop, deduplicates records across
//     pages by external id, and supports both a fully materialized record
//     set and page-at-a-time streaming for full backfills.
//
//  3. Reconciler: applies the policy decision table per record, resolving
//     parents first (auto-creating them when the policy authorizes it)
//     and detecting value-identical updates so repeat runs stay quiet.
//
//  4. Retry: classifies errors and retries transient ones with
//     exponential backoff. Validation and missing-dependency failures are
//     recorded per record; fatal errors abort the job with committed
//     records left in place.
//
//  5. Runner: the orchestration unit behind one CLI invocation. It
//     validates the configuration before any fetch, runs kinds in DAG
//     order with a bounded worker pool, applies the deactivate-missing
//     pass after scope-complete fetches, and persists the job row.
//
// # Collaborators
//
// The engine never talks to the network or the database directly. The
// Source interface wraps the provider client; the Repository interface
// wraps transactional per-kind persistence keyed by external id. Both are
// implemented under feature/football.
//
// # Usage Example
//
//	runner := engine.NewRunner(source, repo, graph, jobs, cfg, log)
//	job := engine.NewJob(
//	    []engine.EntityKind{"team"},
//	    engine.Filter{League: 39, Season: 2024},
//	    engine.Policy{CreateMissing: true, UpdateExisting: true},
//	)
//	err := runner.Run(ctx, job)
package engine
