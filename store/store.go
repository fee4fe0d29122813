package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/errors"
	"github.com/wippyai/wcp-tools/hierarchy"
	"github.com/wippyai/wcp-tools/internal/metrics"
	"github.com/wippyai/wcp-tools/vcd"
	"github.com/wippyai/wcp-tools/waveform"
	"github.com/wippyai/wcp-tools/wcp"
)

type entry struct {
	wf     *waveform.Waveform
	tree   *hierarchy.Root
	name   string
	format Format
}

func (e *entry) info(h Handle) Info {
	return Info{
		Header:  e.wf.Header,
		Name:    e.name,
		Format:  e.format,
		Handle:  h,
		Signals: len(e.wf.Signals),
		Changes: len(e.wf.Changes),
		EndTime: e.wf.EndTime(),
	}
}

// Store owns a set of named waveforms. All methods are safe for concurrent
// use; a single RWMutex guards the table, the name index and the observers.
type Store struct {
	byName    map[string]Handle
	observers []Observer
	slots     table
	mu        sync.RWMutex
	closed    bool
}

func New() *Store {
	return &Store{
		byName: make(map[string]Handle),
		slots:  newTable(),
	}
}

// FormatOf picks the input syntax from the file name: ".vcd" (any case) is
// VCD, everything else is WCP.
func FormatOf(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".vcd") {
		return FormatVCD
	}
	return FormatWCP
}

// Open reads a waveform from r and stores it under name. Opening a name that
// is already held replaces the previous waveform.
func (s *Store) Open(name string, r io.Reader) (Info, error) {
	if name == "" {
		return Info{}, errors.InvalidInput(errors.PhaseStore, "empty file name")
	}

	format := FormatOf(name)
	start := time.Now()
	var (
		wf  *waveform.Waveform
		err error
	)
	if format == FormatVCD {
		wf, err = vcd.Decode(r)
	} else {
		wf, err = wcp.Parse(r)
	}
	metrics.RecordParse(string(format), time.Since(start), err)
	if err != nil {
		Logger().Warn("store: open failed", zap.String("name", name), zap.Error(err))
		return Info{}, err
	}

	e := &entry{wf: wf, tree: hierarchy.Build(wf), name: name, format: format}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Info{}, errors.Closed(errors.PhaseStore, "store")
	}
	var events []Event
	if old, ok := s.byName[name]; ok {
		s.slots.remove(old)
		events = append(events, Event{Type: EventClosed, Name: name, Handle: old})
	}
	h := s.slots.insert(e)
	s.byName[name] = h
	events = append(events, Event{Type: EventOpened, Name: name, Handle: h})
	observers := s.observerSnapshot()
	n := s.slots.len()
	s.mu.Unlock()

	metrics.SetOpenFiles(n)
	Logger().Info("store: opened",
		zap.String("name", name),
		zap.String("format", string(format)),
		zap.Uint32("handle", uint32(h)),
		zap.Int("signals", len(wf.Signals)),
		zap.Int("changes", len(wf.Changes)))
	notify(observers, events...)
	return e.info(h), nil
}

// OpenFile opens the file at path under its base name.
func (s *Store) OpenFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, errors.IO(errors.PhaseStore, err)
	}
	defer func() { _ = f.Close() }()

	return s.Open(filepath.Base(path), f)
}

// lookup must be called with s.mu held.
func (s *Store) lookup(name string) (*entry, Handle, error) {
	if s.closed {
		return nil, 0, errors.Closed(errors.PhaseStore, "store")
	}
	h, ok := s.byName[name]
	if !ok {
		return nil, 0, s.notFound(name)
	}
	e, _ := s.slots.get(h)
	return e, h, nil
}

func (s *Store) notFound(name string) *errors.Error {
	err := errors.NotFound(errors.PhaseStore, "file", name)
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	if match := closestMatch(name, names); match != "" {
		err.Detail += fmt.Sprintf(" (did you mean %q?)", match)
	}
	return err
}

func closestMatch(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// Get returns the waveform stored under name. Callers must not modify it.
func (s *Store) Get(name string) (*waveform.Waveform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, _, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.wf, nil
}

// Info returns the summary of the waveform stored under name.
func (s *Store) Info(name string) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, h, err := s.lookup(name)
	if err != nil {
		return Info{}, err
	}
	return e.info(h), nil
}

// List returns every open waveform sorted by name.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Info, 0, s.slots.len())
	s.slots.each(func(h Handle, e *entry) bool {
		out = append(out, e.info(h))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Hierarchy returns the nested scope tree of the named waveform.
func (s *Store) Hierarchy(name string) (*hierarchy.Root, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, _, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.tree, nil
}

// Changes returns the changes of one signal with start <= time <= end.
func (s *Store) Changes(name string, signal int, start, end uint64) ([]waveform.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, _, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if !e.wf.Valid(signal) {
		return nil, errors.New(errors.PhaseStore, errors.KindInvalidInput).
			Value(signal).
			Detail("invalid signal reference %d", signal).
			Build()
	}
	if start > end {
		return nil, errors.InvalidInput(errors.PhaseStore, fmt.Sprintf("start %d after end %d", start, end))
	}
	return e.wf.ChangesFor(signal, start, end), nil
}

// Export renders the named waveform as VCD text.
func (s *Store) Export(name string) (string, error) {
	wf, err := s.Get(name)
	if err != nil {
		return "", err
	}
	out := vcd.Export(wf)
	metrics.RecordExport()
	return out, nil
}

// Close drops the named waveform.
func (s *Store) Close(name string) error {
	s.mu.Lock()
	_, h, err := s.lookup(name)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.slots.remove(h)
	delete(s.byName, name)
	observers := s.observerSnapshot()
	n := s.slots.len()
	s.mu.Unlock()

	metrics.SetOpenFiles(n)
	Logger().Info("store: closed", zap.String("name", name), zap.Uint32("handle", uint32(h)))
	notify(observers, Event{Type: EventClosed, Name: name, Handle: h})
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots.len()
}

// Shutdown closes every waveform and rejects further operations.
func (s *Store) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	var events []Event
	s.slots.each(func(h Handle, e *entry) bool {
		events = append(events, Event{Type: EventClosed, Name: e.name, Handle: h})
		return true
	})
	s.slots = newTable()
	s.byName = make(map[string]Handle)
	observers := s.observerSnapshot()
	s.mu.Unlock()

	metrics.SetOpenFiles(0)
	Logger().Info("store: shut down", zap.Int("closed", len(events)))
	notify(observers, events...)
}

// Subscribe adds an observer for lifecycle events.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Store) Unsubscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// observerSnapshot must be called with s.mu held.
func (s *Store) observerSnapshot() []Observer {
	if len(s.observers) == 0 {
		return nil
	}
	return append([]Observer(nil), s.observers...)
}

func notify(observers []Observer, events ...Event) {
	for _, e := range events {
		for _, o := range observers {
			o.OnStoreEvent(e)
		}
	}
}
