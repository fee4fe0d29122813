package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/errors"
	"github.com/wippyai/wcp-tools/internal/metrics"
	"github.com/wippyai/wcp-tools/store"
	"github.com/wippyai/wcp-tools/vcd"
	"github.com/wippyai/wcp-tools/waveform"
	"github.com/wippyai/wcp-tools/wcp"
)

const (
	SourceExtension  = ".wcp"
	DefaultExtension = ".vcd"
	DefaultDebounce  = 100 * time.Millisecond
)

// Result reports one conversion.
type Result struct {
	Err    error
	Source string
	Output string
}

type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before it is converted.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithExtension sets the output file extension, including the dot.
func WithExtension(ext string) Option {
	return func(w *Watcher) { w.ext = ext }
}

// OnResult registers a callback invoked after every conversion attempt.
func OnResult(fn func(Result)) Option {
	return func(w *Watcher) { w.onResult = fn }
}

// Watcher converts WCP files matching a set of glob patterns to VCD whenever
// they are created or written.
type Watcher struct {
	fsw      *fsnotify.Watcher
	store    *store.Store
	onResult func(Result)
	timers   map[string]*time.Timer
	due      chan string
	patterns []string
	files    []string
	outDir   string
	ext      string
	debounce time.Duration
	mu       sync.Mutex
}

// New expands patterns (doublestar syntax, "**" recurses) and watches the
// directories they cover. Converted waveforms are opened into st when it is
// not nil. An empty outDir writes each output beside its source.
func New(patterns []string, outDir string, st *store.Store, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseWatch, errors.KindIO, err, "create watcher")
	}

	w := &Watcher{
		fsw:      fsw,
		store:    st,
		timers:   make(map[string]*time.Timer),
		due:      make(chan string, 64),
		outDir:   outDir,
		ext:      DefaultExtension,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range patterns {
		p = filepath.Clean(p)
		if !doublestar.ValidatePathPattern(p) {
			_ = fsw.Close()
			return nil, errors.InvalidInput(errors.PhaseWatch, "invalid pattern "+p)
		}
		w.patterns = append(w.patterns, p)

		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			Logger().Warn("watcher: failed to expand pattern", zap.String("pattern", p), zap.Error(err))
		}
		for _, m := range matches {
			if w.Matches(m) {
				w.files = append(w.files, m)
			}
		}

		if err := w.watchBase(p); err != nil {
			Logger().Warn("watcher: cannot watch pattern base", zap.String("pattern", p), zap.Error(err))
		}
	}

	if len(w.fsw.WatchList()) == 0 {
		_ = fsw.Close()
		return nil, errors.InvalidInput(errors.PhaseWatch, "no watchable directories for patterns "+strings.Join(patterns, ", "))
	}
	return w, nil
}

// watchBase adds the static prefix directory of pattern, and every directory
// below it when the pattern recurses.
func (w *Watcher) watchBase(pattern string) error {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	base = filepath.FromSlash(base)
	if !strings.Contains(rest, "**") {
		return w.fsw.Add(base)
	}
	return w.addTree(base)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Files returns the .wcp sources that matched the patterns when the watcher
// was created.
func (w *Watcher) Files() []string {
	return w.files
}

// Matches reports whether path is a .wcp source selected by the patterns.
func (w *Watcher) Matches(path string) bool {
	ext := filepath.Ext(path)
	if !strings.EqualFold(ext, SourceExtension) || strings.EqualFold(ext, w.ext) {
		return false
	}
	path = filepath.ToSlash(filepath.Clean(path))
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(p), path); ok {
			return true
		}
	}
	return false
}

// OutputPath returns where the VCD for src is written.
func (w *Watcher) OutputPath(src string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + w.ext
	if w.outDir == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	return filepath.Join(w.outDir, name)
}

// ConvertFile parses src, writes its VCD export and, if the watcher has a
// store, opens the waveform there under the source's base name.
func (w *Watcher) ConvertFile(src string) (string, error) {
	out := w.OutputPath(src)
	err := w.convert(src, out)
	metrics.RecordConversion(err)

	if err != nil {
		Logger().Warn("watcher: conversion failed", zap.String("source", src), zap.Error(err))
	} else {
		Logger().Info("watcher: converted", zap.String("source", src), zap.String("output", out))
	}
	if w.onResult != nil {
		w.onResult(Result{Source: src, Output: out, Err: err})
	}
	return out, err
}

func (w *Watcher) convert(src, out string) error {
	var (
		wf  *waveform.Waveform
		err error
	)
	if w.store != nil {
		var info store.Info
		if info, err = w.store.OpenFile(src); err != nil {
			return err
		}
		wf, err = w.store.Get(info.Name)
	} else {
		wf, err = wcp.ParseFile(src)
	}
	if err != nil {
		return err
	}
	return WriteVCD(out, wf)
}

// WriteVCD exports wf to path through a temporary file in the same
// directory, so readers never observe a partial file.
func WriteVCD(path string, wf *waveform.Waveform) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.PhaseWatch, errors.KindIO, err, "create output directory")
	}
	tmp, err := os.CreateTemp(dir, ".wcp-*.tmp")
	if err != nil {
		return errors.Wrap(errors.PhaseWatch, errors.KindIO, err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := vcd.Encode(tmp, wf); err != nil {
		_ = tmp.Close()
		return errors.Wrap(errors.PhaseExport, errors.KindIO, err, "write "+path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.PhaseExport, errors.KindIO, err, "write "+path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.PhaseWatch, errors.KindIO, err, "rename to "+path)
	}
	return nil
}

// Run converts every file that matched at creation, then converts matching
// files as they change until ctx is done. Conversion failures are logged and
// never end the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for _, f := range w.files {
		_, _ = w.ConvertFile(f)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			Logger().Warn("watcher: fsnotify error", zap.Error(err))
		case path := <-w.due:
			_, _ = w.ConvertFile(path)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if ev.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && w.recursive() {
			if err := w.addTree(ev.Name); err != nil {
				Logger().Warn("watcher: cannot watch new directory", zap.String("dir", ev.Name), zap.Error(err))
			}
			// Files may land before the directory is watched.
			w.scheduleTree(ev.Name)
			return
		}
	}
	if w.Matches(ev.Name) {
		w.schedule(ev.Name)
	}
}

func (w *Watcher) scheduleTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && w.Matches(path) {
			w.schedule(path)
		}
		return nil
	})
}

func (w *Watcher) recursive() bool {
	for _, p := range w.patterns {
		if strings.Contains(p, "**") {
			return true
		}
	}
	return false
}

// schedule (re)arms the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.due <- path:
		default:
			Logger().Warn("watcher: conversion queue full", zap.String("source", path))
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	w.mu.Unlock()
	_ = w.fsw.Close()
}
