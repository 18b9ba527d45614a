// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package runner drives a single query job from input envelope to terminal
// protocol message. Execution is strictly sequential: parse, validate,
// resolve the query capability, rewrite, execute, materialize, emit. Any
// failure short-circuits to a single terminal Error message with the code
// of the stage that failed, and the process exit code follows the terminal
// message: zero for success, non-zero otherwise.
package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"sqlrun/plugin/internal/dsn"
	"sqlrun/plugin/internal/errors"
	"sqlrun/plugin/internal/logging"
	"sqlrun/plugin/internal/materialize"
	"sqlrun/plugin/internal/protocol"
	"sqlrun/plugin/internal/query"
	"sqlrun/plugin/internal/request"
	"sqlrun/plugin/internal/rewrite"
)

// Progress checkpoints. Values are advisory; the host relies only on
// monotonic non-decrease and a final value before the terminal message.
const (
	progressDependency  = 0.1
	progressConnection  = 0.3
	progressPreExecute  = 0.5
	progressPostExecute = 0.9
)

// Runner wires the job's collaborators together. Out receives the
// protocol stream, Diag the human diagnostic channel; the two must never
// share a writer.
type Runner struct {
	Out     io.Writer
	Diag    io.Writer
	WorkDir string

	// DebugAll forces the debug trace on regardless of the envelope's
	// debug flag. Set from local configuration.
	DebugAll bool

	// Executors resolves the query capability for a driver name.
	// Defaults to query.ForDriver.
	Executors func(driver string) (query.Executor, error)

	// Dialects resolves the row-limit rewrite dialect for a driver name.
	// Defaults to rewrite.ForDriver.
	Dialects func(driver string) rewrite.Dialect

	// Now supplies the materialization clock. Defaults to time.Now.
	Now func() time.Time
}

// Run executes one job: it reads the full input envelope from in, drives
// the state machine, and returns the process exit code. Exactly one
// terminal message is emitted, always last, whatever happens.
func (r *Runner) Run(ctx context.Context, in io.Reader) (rc int) {
	w := protocol.NewWriter(r.Out)

	// The catch-all boundary: anything escaping the stages below still
	// ends the run with a single terminal Error.
	defer func() {
		if p := recover(); p != nil {
			r.terminate(w, errors.Wrap(errors.Internal, "unexpected failure", fmt.Errorf("%v", p)))
			rc = 1
		}
	}()

	req, err := request.Parse(in)
	if err != nil {
		return r.terminate(w, err)
	}

	tracer := logging.NewTracer(r.Diag, req.Debug || r.DebugAll)
	if tracer.Verbose() {
		tracer.Debugf("input: %v", req.Redacted())
	}

	exec, err := r.executors()(req.Driver)
	if err != nil {
		return r.terminate(w, errors.Wrap(errors.DriverUnavailable,
			"query capability unavailable for driver "+req.Driver, err))
	}
	tracer.Debugf("query capability resolved: %s", req.Driver)
	r.progress(w, progressDependency)

	conn := dsn.ConnInfo{
		Server:           req.Server,
		Database:         req.Database,
		Username:         req.Username,
		Password:         req.Password,
		UseEncryption:    req.UseEncryption,
		TrustCertificate: req.TrustCertificate,
	}
	if req.UseEncryption {
		tracer.Notef("encryption enabled")
	}
	if req.TrustCertificate {
		tracer.Notef("server certificate will not be verified")
	}
	r.progress(w, progressConnection)

	if req.MaxRows > 0 {
		rewritten := r.dialects()(req.Driver).ApplyRowLimit(req.Query, req.MaxRows)
		if rewritten != req.Query {
			tracer.Notef("row limit applied: %d", req.MaxRows)
			req.Query = rewritten
		}
		tracer.Debugf("query after rewrite: %s", req.Query)
	}
	r.progress(w, progressPreExecute)

	// Certificate and transport warnings are suppressed only when the
	// envelope trusts the server certificate; otherwise they escalate to
	// execution failures.
	opts := query.Options{EscalateWarnings: !req.TrustCertificate}
	rows, err := exec.Execute(ctx, conn, req.Query, opts)
	if err != nil {
		return r.terminate(w, errors.Wrap(errors.ExecutionFailed, "", err))
	}
	tracer.Debugf("query returned %d rows", rows.Len())
	r.progress(w, progressPostExecute)

	m := &materialize.Materializer{OutputDir: r.WorkDir, Now: r.Now}
	artifact, payload, err := m.Materialize(rows, req.ExportFormat, req.Server, req.Database)
	if err != nil {
		// Not a database failure: exporting happened after the query
		// succeeded, so this lands in the catch-all bucket.
		return r.terminate(w, errors.Wrap(errors.Internal, "materializing results", err))
	}

	if artifact != nil {
		tracer.Notef("results exported to %s", artifact.FilePath)
		if err := w.Emit(protocol.NewFiles([]string{artifact.FilePath})); err != nil {
			return 1
		}
	}
	if err := w.Emit(protocol.NewData(payload)); err != nil {
		return 1
	}
	if err := w.Emit(protocol.NewSuccess(fmt.Sprintf("%d rows returned", rows.Len()))); err != nil {
		return 1
	}
	return 0
}

// terminate emits the single terminal Error message for err and returns
// the non-zero exit code. Error kinds map to protocol codes; anything
// untyped falls into the catch-all.
func (r *Runner) terminate(w *protocol.Writer, err error) int {
	if w.Finished() {
		return 1
	}
	code := errors.Internal.Code()
	description := err.Error()
	var e *errors.E
	if stderrors.As(err, &e) {
		code = e.Kind.Code()
		description = e.Description()
	}
	_ = w.Emit(protocol.NewError(code, description))
	return 1
}

// progress emits an advisory progress checkpoint. Emission failures are
// deliberately ignored: progress is best-effort and must never abort a
// run that could still succeed.
func (r *Runner) progress(w *protocol.Writer, v float64) {
	_ = w.Emit(protocol.NewProgress(v))
}

func (r *Runner) executors() func(string) (query.Executor, error) {
	if r.Executors != nil {
		return r.Executors
	}
	return query.ForDriver
}

func (r *Runner) dialects() func(string) rewrite.Dialect {
	if r.Dialects != nil {
		return r.Dialects
	}
	return rewrite.ForDriver
}
