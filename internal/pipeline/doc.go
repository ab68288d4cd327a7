// Package pipeline orchestrates the burned area stages for one stack:
// resolve, seasonal summaries, boosted regression, thresholding, annual
// summaries and packaging.
//
// Types:
//   - RunStats (scene and job counters, per-stage timings, OK flag)
//   - StageTiming (one stage's name and elapsed time)
//
// Functions:
//   - Run(ctx, cfg, log) → RunStats
//     Stage runner: validate layout → scoped workdir switch → resolve
//     stack → seasonal summaries → reload filtered list → model lookup →
//     per-scene regression via the worker pool → threshold → annual
//     summaries → delivery archive. Strict order; a stage failure stops
//     the run, and a stack with no regression-eligible scene warns and
//     succeeds after the summaries.
//
// Split into runner.go and stats.go.
package pipeline
