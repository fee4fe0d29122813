// Package errors provides structured error types for the WCP toolkit.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a detail message, an optional source line, the offending
// value and a cause chain.
//
// The parser reports exactly three kinds:
//
//	errors.InvalidFormat("invalid time: \"abc\"")   // WAVEFORM time not a uint64
//	errors.IO(errors.PhaseParse, readErr)           // the byte stream faulted
//	errors.MissingSection("HEADER")                 // required section absent or empty
//
// Use the Builder for anything richer:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Line(12).
//		Detail("unknown identifier %q", id).
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind; a target with an empty Phase matches any phase.
package errors
