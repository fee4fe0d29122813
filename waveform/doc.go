// Package waveform defines the in-memory form of a parsed digital-signal trace.
//
// A Waveform is produced once by a decoder (wcp.Parse or vcd.Decode) and is
// read-only afterwards: header fields, an ordered signal table, and the value
// changes in the order they were encountered. Changes reference signals by
// their index in the signal table, and every index is valid by construction.
//
// Declaration order matters. The exporter allocates identifiers from it, and
// name lookup resolves duplicates to the first declared signal.
package waveform
