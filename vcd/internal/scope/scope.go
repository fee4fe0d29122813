package scope

import (
	"strings"

	"github.com/wippyai/wcp-tools/waveform"
)

// Group is the set of signals sharing one exact scope key.
type Group struct {
	// Key is the path with its last segment removed, "" for top-level signals.
	Key      string
	Segments []string
	Signals  []int
}

// Split returns the scope key and leaf name of a slash-delimited path.
func Split(path string) (key, leaf string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// Segments splits a scope key on '/', dropping empty segments.
func Segments(key string) []string {
	parts := strings.Split(key, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Build groups signals by exact scope key. Keys sharing a prefix ("top" and
// "top/sub") are independent groups; nothing is nested. Groups come out in
// order of first appearance, indices within a group ascend.
func Build(signals []waveform.Signal) []Group {
	var groups []Group
	byKey := make(map[string]int)

	for i, s := range signals {
		key, _ := Split(s.Path)
		gi, ok := byKey[key]
		if !ok {
			gi = len(groups)
			byKey[key] = gi
			groups = append(groups, Group{Key: key, Segments: Segments(key)})
		}
		groups[gi].Signals = append(groups[gi].Signals, i)
	}
	return groups
}
