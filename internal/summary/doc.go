// Package summary generates the stack-wide seasonal summary products the
// classifier trains its per-scene lookback on. For one resolved stack it
// filters scenes by acquisition metadata, aligns every survivor to the
// stack-wide grid, derives usability masks and spectral index rasters, and
// composites them into per-season means and per-year maxima.
//
// Types:
//   - Processor (directories, workers and acceptance settings for one run)
//   - Metadata (acquisition fields read from a scene's XML sidecar)
//   - Acceptance (stack filtering rules)
//
// Functions:
//   - (Processor).Process(ctx, stack) → (*inventory.Manifest, error)
//     The whole subsystem, stage by stage: filter → filtered list and
//     manifest → resample → seasonal composites → annual maxima.
//   - ReadMetadata(path) → (Metadata, error)
//     XML sidecar parse.
//   - SummaryFile / SummaryCountFile / MaximaFile
//     Product naming, shared with the regression lookback.
//
// Split into metadata.go (sidecar parse and filtering), processor.go
// (orchestration and stack outputs), resample.go (per-scene alignment),
// composite.go (seasonal means), maxima.go (annual maxima).
package summary
