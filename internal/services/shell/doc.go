// Package shell hosts the intakedesk web shell: one local process that owns
// a single signed-in session, keeps its token refreshed and serves the
// routed views over HTTP.
package shell
