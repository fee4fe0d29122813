// Package watcher keeps VCD exports in sync with WCP sources on disk.
//
// Patterns use doublestar syntax; a "**" segment makes the watcher follow
// new subdirectories. Each write to a matching file is debounced, then the
// file is parsed, written as <base>.vcd and opened into the store:
//
//	w, err := watcher.New([]string{"sim/**/*.wcp"}, "out", st)
//	err = w.Run(ctx)
package watcher
