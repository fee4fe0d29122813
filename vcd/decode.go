package vcd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wippyai/wcp-tools/errors"
	"github.com/wippyai/wcp-tools/waveform"
)

type token struct {
	text string
	line int
}

func tokenize(r io.Reader) ([]token, error) {
	br := bufio.NewReader(r)
	var toks []token
	line := 0
	for {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if raw == "" && err == io.EOF {
			break
		}
		line++
		for _, f := range strings.Fields(raw) {
			toks = append(toks, token{text: f, line: line})
		}
		if err == io.EOF {
			break
		}
	}
	return toks, nil
}

type decoder struct {
	wf      *waveform.Waveform
	ids     map[string][]int
	toks    []token
	scopes  []string
	pos     int
	time    uint64
	defined bool
}

// Decode reads the VCD subset produced by Encode back into a waveform.
//
// Signals are named by their VCD identifier and get a path built from the
// enclosing $scope names plus the $var reference. A "WCP " prefix on the
// $version body is removed. Real-valued changes are not supported.
func Decode(r io.Reader) (*waveform.Waveform, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, errors.IO(errors.PhaseDecode, err)
	}

	d := &decoder{
		wf:   &waveform.Waveform{},
		ids:  make(map[string][]int),
		toks: toks,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.wf, nil
}

func (d *decoder) next() (token, bool) {
	if d.pos >= len(d.toks) {
		return token{}, false
	}
	t := d.toks[d.pos]
	d.pos++
	return t, true
}

func (d *decoder) lastLine() int {
	if len(d.toks) == 0 {
		return 0
	}
	return d.toks[len(d.toks)-1].line
}

// body collects tokens up to the closing $end.
func (d *decoder) body(kw token) ([]string, error) {
	var out []string
	for {
		t, ok := d.next()
		if !ok {
			return nil, errors.InvalidData(errors.PhaseDecode, kw.line, "unterminated "+kw.text)
		}
		if t.text == "$end" {
			return out, nil
		}
		out = append(out, t.text)
	}
}

func (d *decoder) run() error {
	for {
		t, ok := d.next()
		if !ok {
			break
		}

		var err error
		switch {
		case t.text == "$end":
			// closes $dumpvars and friends
		case strings.HasPrefix(t.text, "$"):
			err = d.keyword(t)
		case t.text[0] == '#':
			err = d.timestamp(t)
		default:
			err = d.change(t)
		}
		if err != nil {
			return err
		}
	}

	if !d.defined {
		return errors.InvalidData(errors.PhaseDecode, d.lastLine(), "missing $enddefinitions")
	}
	return nil
}

func (d *decoder) keyword(kw token) error {
	switch kw.text {
	case "$dumpvars", "$dumpall", "$dumpon", "$dumpoff":
		return nil
	}

	args, err := d.body(kw)
	if err != nil {
		return err
	}

	switch kw.text {
	case "$date":
		d.wf.Header.Date = strings.Join(args, " ")
	case "$version":
		v := strings.Join(args, " ")
		if v == strings.TrimSpace(VersionPrefix) {
			v = ""
		}
		d.wf.Header.Version = strings.TrimPrefix(v, VersionPrefix)
	case "$timescale":
		d.wf.Header.Timescale = strings.Join(args, " ")
	case "$scope":
		if len(args) < 2 {
			return errors.InvalidData(errors.PhaseDecode, kw.line, "malformed $scope")
		}
		d.scopes = append(d.scopes, args[1])
	case "$upscope":
		if len(d.scopes) == 0 {
			return errors.InvalidData(errors.PhaseDecode, kw.line, "$upscope without open scope")
		}
		d.scopes = d.scopes[:len(d.scopes)-1]
	case "$var":
		return d.variable(kw, args)
	case "$enddefinitions":
		d.defined = true
	}
	return nil
}

// variable handles "$var <type> <width> <id> <reference> [range] $end".
func (d *decoder) variable(kw token, args []string) error {
	if len(args) < 4 {
		return errors.InvalidData(errors.PhaseDecode, kw.line, "malformed $var")
	}
	width, err := strconv.ParseUint(args[1], 10, 0)
	if err != nil || width == 0 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Line(kw.line).
			Value(args[1]).
			Detail("invalid $var width %q", args[1]).
			Build()
	}

	id := args[2]
	ref := strings.Join(args[3:], "")
	path := ref
	if len(d.scopes) > 0 {
		path = "/" + strings.Join(d.scopes, "/") + "/" + ref
	}

	d.ids[id] = append(d.ids[id], len(d.wf.Signals))
	d.wf.Signals = append(d.wf.Signals, waveform.Signal{
		Name:  id,
		Path:  path,
		Width: uint(width),
		Type:  args[0],
	})
	return nil
}

func (d *decoder) timestamp(t token) error {
	v, err := strconv.ParseUint(t.text[1:], 10, 64)
	if err != nil {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Line(t.line).
			Value(t.text).
			Detail("invalid time %q", t.text).
			Build()
	}
	d.time = v
	return nil
}

func (d *decoder) change(t token) error {
	if !d.defined {
		return errors.InvalidData(errors.PhaseDecode, t.line, "value change before $enddefinitions")
	}

	var value, id string
	switch c := t.text[0]; {
	case c == 'b' || c == 'B':
		idTok, ok := d.next()
		if !ok {
			return errors.InvalidData(errors.PhaseDecode, t.line, "vector change without identifier")
		}
		value, id = t.text[1:], idTok.text
	case c == 'r' || c == 'R':
		err := errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("real value change %q", t.text))
		err.Line = t.line
		return err
	case strings.IndexByte("01xXzZ", c) >= 0:
		if len(t.text) < 2 {
			return errors.InvalidData(errors.PhaseDecode, t.line, "scalar change without identifier")
		}
		value, id = t.text[:1], t.text[1:]
	default:
		return errors.InvalidData(errors.PhaseDecode, t.line, "unrecognized value change "+strconv.Quote(t.text))
	}

	signals, ok := d.ids[id]
	if !ok {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Line(t.line).
			Value(id).
			Detail("unknown identifier %q", id).
			Build()
	}
	for _, s := range signals {
		d.wf.Changes = append(d.wf.Changes, waveform.Change{Time: d.time, Signal: s, Value: value})
	}
	return nil
}
