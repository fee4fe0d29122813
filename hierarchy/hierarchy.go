package hierarchy

import (
	"strings"

	"github.com/wippyai/wcp-tools/waveform"
)

// RootName is the name of the synthetic top node.
const RootName = "root"

type Var struct {
	Name  string `json:"name"`
	Ref   int    `json:"ref"`
	Width uint   `json:"width"`
	Type  string `json:"type"`
}

type Scope struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Ref    int      `json:"ref"`
	Vars   []Var    `json:"vars"`
	Scopes []*Scope `json:"scopes"`
}

type Root struct {
	Name   string   `json:"name"`
	Ref    int      `json:"ref"`
	Vars   []Var    `json:"vars"`
	Scopes []*Scope `json:"scopes"`

	byPath map[string]*Scope
	count  int
}

// Build returns the nested scope tree of w. Empty path segments are ignored,
// so "/top//a" and "top/a" land in the same scope.
func Build(w *waveform.Waveform) *Root {
	r := &Root{
		Name:   RootName,
		Vars:   []Var{},
		Scopes: []*Scope{},
		byPath: make(map[string]*Scope),
	}
	for i, s := range w.Signals {
		segs, leaf := split(s.Path)
		v := Var{Name: leaf, Ref: i, Width: s.Width, Type: s.Type}
		if len(segs) == 0 {
			r.Vars = append(r.Vars, v)
			continue
		}
		sc := r.ensure(segs)
		sc.Vars = append(sc.Vars, v)
	}
	return r
}

func (r *Root) ensure(segs []string) *Scope {
	var parent *Scope
	for i := range segs {
		path := strings.Join(segs[:i+1], "/")
		sc, ok := r.byPath[path]
		if !ok {
			r.count++
			sc = &Scope{
				Name:   segs[i],
				Path:   path,
				Ref:    r.count,
				Vars:   []Var{},
				Scopes: []*Scope{},
			}
			r.byPath[path] = sc
			if parent == nil {
				r.Scopes = append(r.Scopes, sc)
			} else {
				parent.Scopes = append(parent.Scopes, sc)
			}
		}
		parent = sc
	}
	return parent
}

// Len returns the number of scopes below the root.
func (r *Root) Len() int {
	return r.count
}

// Find returns the scope at path. Leading, trailing and doubled slashes are
// ignored.
func (r *Root) Find(path string) (*Scope, bool) {
	segs := segments(path)
	if len(segs) == 0 {
		return nil, false
	}
	sc, ok := r.byPath[strings.Join(segs, "/")]
	return sc, ok
}

// Walk visits every scope in pre-order. Returning false from fn skips the
// scope's children.
func (r *Root) Walk(fn func(depth int, s *Scope) bool) {
	for _, sc := range r.Scopes {
		walk(sc, 0, fn)
	}
}

func walk(s *Scope, depth int, fn func(int, *Scope) bool) {
	if !fn(depth, s) {
		return
	}
	for _, c := range s.Scopes {
		walk(c, depth+1, fn)
	}
}

func split(path string) ([]string, string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return nil, path
	}
	return segments(path[:i]), path[i+1:]
}

func segments(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
