package metrics

import "time"

// ResultLabel enumerates resolution result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// SourceDefaults labels resolutions that fell back to the built-in configuration.
const SourceDefaults = "defaults"

// Recorder defines observability hooks for configuration resolution.
type Recorder interface {
	ObserveResolveDuration(stage string, d time.Duration)
	IncResolveResult(stage string, result ResultLabel)
	IncSourceSelected(source string)
	ObserveHookDuration(event string, d time.Duration)
	ObserveHookFragments(event string, n int)
	IncWatchReload(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolveDuration(string, time.Duration) {}
func (NoopRecorder) IncResolveResult(string, ResultLabel)         {}
func (NoopRecorder) IncSourceSelected(string)                     {}
func (NoopRecorder) ObserveHookDuration(string, time.Duration)    {}
func (NoopRecorder) ObserveHookFragments(string, int)             {}
func (NoopRecorder) IncWatchReload(ResultLabel)                   {}
