package analyzer

import "fmt"

// ParseError wraps a failure to obtain a well-formed AST for a module
// (spec §7: parse failures are fatal for that module but must not abort
// the run). Callers check for it with errors.As.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("analyzer: parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DataQualityError describes a record that failed validation (spec §7's
// data-quality failure class — e.g. a node with an empty id). Nothing in
// this package constructs it: a data-quality failure the graph Writer
// reports (graph.WriterError with FailureDataQuality) aborts the module's
// batch and is returned from Analyze.
type DataQualityError struct {
	Module string
	Reason string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("analyzer: data quality in %s: %s", e.Module, e.Reason)
}

// OrchestrationError wraps a failure from the surrounding worker pool or
// graph Writer batch lifecycle (spec §7's transient/fatal failure classes
// for infrastructure, as opposed to per-module analysis failures).
type OrchestrationError struct {
	Stage string
	Err   error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("analyzer: orchestration (%s): %v", e.Stage, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }
