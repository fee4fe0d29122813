package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wcp-tools/errors"
	"github.com/wippyai/wcp-tools/waveform"
	"github.com/wippyai/wcp-tools/wcp/internal/scanner"
)

type section int

const (
	sectionNone section = iota
	sectionHeader
	sectionSignals
	sectionWaveform
)

// DropFunc observes input the grammar absorbs silently.
type DropFunc func(line int, reason string)

type Parser struct {
	header  *waveform.Header
	onDrop  DropFunc
	lines   []scanner.Line
	signals []waveform.Signal
	changes []waveform.Change
	section section
}

func New(lines []scanner.Line) *Parser {
	return &Parser{lines: lines}
}

// OnDrop installs a hook called for every ignored line or assignment.
func (p *Parser) OnDrop(fn DropFunc) {
	p.onDrop = fn
}

func (p *Parser) Parse() (*waveform.Waveform, error) {
	for _, ln := range p.lines {
		if ln.Kind != scanner.Content {
			p.enter(ln.Kind)
			continue
		}

		switch p.section {
		case sectionHeader:
			p.headerLine(ln)
		case sectionSignals:
			p.signalLine(ln)
		case sectionWaveform:
			if err := p.waveformLine(ln); err != nil {
				return nil, err
			}
		default:
			p.drop(ln.Number, "outside any section")
		}
	}

	if p.header == nil {
		return nil, errors.MissingSection("HEADER")
	}
	if len(p.signals) == 0 {
		return nil, errors.MissingSection("SIGNALS")
	}

	return &waveform.Waveform{
		Header:  *p.header,
		Signals: p.signals,
		Changes: p.changes,
	}, nil
}

// enter applies a section marker. Any END_* marker closes whatever is open.
func (p *Parser) enter(k scanner.Kind) {
	switch {
	case k.IsEnd():
		p.section = sectionNone
	case k == scanner.Header:
		p.section = sectionHeader
	case k == scanner.Signals:
		p.section = sectionSignals
	case k == scanner.Waveform:
		p.section = sectionWaveform
	}
}

func (p *Parser) drop(line int, reason string) {
	if p.onDrop != nil {
		p.onDrop(line, reason)
	}
}

// headerLine handles "key: value". The record exists once any content line
// is seen inside HEADER, even a malformed one.
func (p *Parser) headerLine(ln scanner.Line) {
	if p.header == nil {
		p.header = &waveform.Header{}
	}

	key, value, ok := strings.Cut(ln.Text, ":")
	if !ok {
		p.drop(ln.Number, "header line without ':'")
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "version":
		p.header.Version = value
	case "timescale":
		p.header.Timescale = value
	case "date":
		p.header.Date = value
	default:
		p.drop(ln.Number, fmt.Sprintf("unknown header key %q", key))
	}
}

// signalLine handles "id: path [width:N] [type:T]".
func (p *Parser) signalLine(ln scanner.Line) {
	id, rest, ok := strings.Cut(ln.Text, ":")
	if !ok {
		p.drop(ln.Number, "signal line without ':'")
		return
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		p.drop(ln.Number, "signal line without path")
		return
	}

	sig := waveform.Signal{
		Name:  strings.TrimSpace(id),
		Path:  fields[0],
		Width: 1,
		Type:  waveform.DefaultSignalType,
	}

	for _, opt := range fields[1:] {
		key, value, ok := strings.Cut(opt, ":")
		if !ok {
			continue
		}
		switch key {
		case "width":
			// width:0 is read as 1, so a declared zero exports as a scalar.
			sig.Width = parseWidth(value)
		case "type":
			sig.Type = value
		}
	}

	p.signals = append(p.signals, sig)
}

// waveformLine handles "time: id=value[, id=value]*".
func (p *Parser) waveformLine(ln scanner.Line) error {
	timeStr, values, ok := strings.Cut(ln.Text, ":")
	if !ok {
		p.drop(ln.Number, "waveform line without ':'")
		return nil
	}

	t, ok := parseTime(strings.TrimSpace(timeStr))
	if !ok {
		err := errors.InvalidFormat(fmt.Sprintf("invalid time: %s", timeStr))
		err.Line = ln.Number
		err.Value = timeStr
		return err
	}

	for _, seg := range strings.Split(values, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(seg), "=")
		if !ok {
			p.drop(ln.Number, fmt.Sprintf("assignment %q without '='", strings.TrimSpace(seg)))
			continue
		}
		name = strings.TrimSpace(name)

		idx, found := p.lookup(name)
		if !found {
			p.drop(ln.Number, fmt.Sprintf("unknown signal %q", name))
			continue
		}

		p.changes = append(p.changes, waveform.Change{
			Time:   t,
			Signal: idx,
			Value:  strings.TrimSpace(value),
		})
	}
	return nil
}

// lookup resolves a name against the signals declared so far; first match wins.
func (p *Parser) lookup(name string) (int, bool) {
	for i := range p.signals {
		if p.signals[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// parseWidth returns the declared width, or 1 when absent, unparsable or zero.
func parseWidth(s string) uint {
	w, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 0)
	if err != nil || w == 0 {
		return 1
	}
	return uint(w)
}

// parseTime accepts an unsigned decimal with an optional leading '+'.
func parseTime(s string) (uint64, bool) {
	t, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, false
	}
	return t, true
}
