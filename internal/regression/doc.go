// Package regression drives the external predict_burned_area classifier,
// one invocation per scene: a KEY=VALUE job descriptor is generated in the
// stack's shared config directory, the classifier is executed against it,
// and the descriptor is removed no matter how the run ends.
//
// Types:
//   - JobConfig (descriptor fields, input validation, KEY=VALUE writer)
//   - Runner (per-stack settings shared by all scene jobs)
//   - ExecResult (captured classifier output and exit error)
//
// Functions:
//   - (Runner).RunScene(ctx, scene) → error
//     The per-scene job used as the worker pool task body.
//   - Execute(ctx, binDir, configFile, workDir) → ExecResult
//     One classifier run with combined output capture.
//
// Split into jobconfig.go, exec.go, runner.go.
package regression
