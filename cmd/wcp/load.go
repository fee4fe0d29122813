package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wcp-tools/errors"
	"github.com/wippyai/wcp-tools/store"
	"github.com/wippyai/wcp-tools/waveform"
)

// openOne loads a single WCP or VCD file into a fresh store.
func openOne(path string) (*store.Store, store.Info, error) {
	st := store.New()
	info, err := st.OpenFile(path)
	if err != nil {
		return nil, store.Info{}, explain(path, err)
	}
	return st, info, nil
}

// explain adds a hint to parse errors that mean the input is not WCP at all.
func explain(path string, err error) error {
	if name, ok := errors.Section(err); ok {
		return fmt.Errorf("%s: no %s section, is this a WCP file? %w", path, name, err)
	}
	return err
}

// resolveSignal finds a signal by reference token, full path, leaf name or
// decimal index, in that order.
func resolveSignal(wf *waveform.Waveform, key string) (int, error) {
	if i, ok := wf.SignalIndex(key); ok {
		return i, nil
	}
	for i, s := range wf.Signals {
		if s.Path == key || strings.Trim(s.Path, "/") == strings.Trim(key, "/") {
			return i, nil
		}
	}
	for i, s := range wf.Signals {
		if s.Leaf() == key {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && wf.Valid(n) {
		return n, nil
	}
	return 0, fmt.Errorf("no signal %q", key)
}
