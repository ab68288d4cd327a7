package pipeline

import "time"

// StageTiming is one stage's name and elapsed wall time.
type StageTiming struct {
	Name    string
	Elapsed time.Duration
}

// RunStats tracks scene counters and stage timings across a pipeline run.
type RunStats struct {
	ScenesListed   int // Entries in the scene list.
	ScenesAccepted int // Entries surviving the metadata filter.
	RegressionJobs int // Scenes handed to the classifier.
	FailedJobs     int // Classifier jobs that failed.
	Stages         []StageTiming
	Elapsed        time.Duration
	OK             bool
}

// timeStage runs fn and records its wall time under name.
func (s *RunStats) timeStage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.Stages = append(s.Stages, StageTiming{Name: name, Elapsed: time.Since(start)})
	return err
}
