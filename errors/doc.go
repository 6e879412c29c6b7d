// Package errors provides structured error types for the loader.
//
// Every error carries a Phase (where in the load pipeline it occurred) and
// a Kind (what went wrong), plus the module id when one is involved. Errors
// support errors.Is matching on Phase+Kind pairs and unwrap to their cause,
// so callers can branch on categories without parsing messages.
package errors
