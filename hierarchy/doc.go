// Package hierarchy builds the nested scope tree of a waveform.
//
// The VCD exporter emits one flat scope group per distinct scope key; this
// package instead merges shared prefixes, so "top/a" and "top/sub/b" both live
// under a single "top" node:
//
//	root
//	└── top        vars: a
//	    └── sub    vars: b
//
// Scope refs are assigned from 1 in the order scopes are first created while
// walking the signal table; ref 0 is the root. Var refs are signal indices, so
// they can be passed straight to change queries.
package hierarchy
