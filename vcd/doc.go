// Package vcd converts waveforms to and from a VCD-compatible text subset.
//
// Export renders a waveform as value change dump text:
//
//	$date
//	   2026-02-11
//	$end
//	$version
//	   WCP 1.0
//	$end
//	$timescale 1ns $end
//	$scope module top $end
//	$var wire 1 ! clk $end
//	$var reg 8 " data $end
//	$upscope $end
//	$enddefinitions $end
//	#0
//	0!
//	b00 "
//	#10
//	1!
//
// # Scopes
//
// Signals are grouped by their exact scope key, the path without its last
// segment. Groups are not nested: signals under "top" and "top/sub" produce two
// self-contained blocks, and the second block opens "top" again. Every block
// closes exactly as many scopes as it opens.
//
// # Identifiers
//
// Identifiers follow declaration order. Index i < 94 maps to the single
// printable character 33+i ('!' to '~'); larger indices map to "_<i>".
//
// # Values
//
// Width-1 signals use the scalar form "<value><id>"; wider signals use
// "b<value> <id>". Values are written verbatim. There is no radix conversion,
// so a vector value such as "FF" is emitted as "bFF".
//
// Decode reads this subset back into a waveform. It is not a general VCD
// reader: real, string and event variables are not supported.
package vcd
