package regression

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
)

// ClassifierName is the external boosted-regression executable.
const ClassifierName = "predict_burned_area"

// ClassifierPath resolves the executable: inside binDir when one is set,
// otherwise the bare name so the PATH lookup applies.
func ClassifierPath(binDir string) string {
	if binDir == "" {
		return ClassifierName
	}
	return filepath.Join(binDir, ClassifierName)
}

// Command returns the argv for one descriptor.
func Command(binDir, configFile string) []string {
	return []string{ClassifierPath(binDir), "--config_file", configFile, "--verbose"}
}

// ExecResult holds the outcome of a single classifier invocation.
type ExecResult struct {
	Output string // combined stdout and stderr
	Err    error
}

// Execute runs the classifier against one descriptor. workDir becomes the
// process working directory, so relative paths inside the descriptor
// resolve against the shared config directory.
func Execute(ctx context.Context, binDir, configFile, workDir string) ExecResult {
	args := Command(binDir, configFile)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = workDir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return ExecResult{Output: buf.String(), Err: err}
}

// outputTail condenses the last classifier output lines for error
// messages. The full output can run to thousands of lines; the failure
// reason is almost always in the last few.
func outputTail(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, " | ")
}
