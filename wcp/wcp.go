package wcp

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/errors"
	"github.com/wippyai/wcp-tools/waveform"
	"github.com/wippyai/wcp-tools/wcp/internal/parser"
	"github.com/wippyai/wcp-tools/wcp/internal/scanner"
)

// Parse reads a complete WCP document from r.
func Parse(r io.Reader) (*waveform.Waveform, error) {
	lines, err := scanner.Scan(r)
	if err != nil {
		return nil, errors.IO(errors.PhaseParse, err)
	}

	log := Logger()
	p := parser.New(lines)
	if log.Core().Enabled(zap.DebugLevel) {
		p.OnDrop(func(line int, reason string) {
			log.Debug("wcp: ignored input", zap.Int("line", line), zap.String("reason", reason))
		})
	}

	wf, err := p.Parse()
	if err != nil {
		return nil, err
	}

	log.Debug("wcp: parsed",
		zap.Int("signals", len(wf.Signals)),
		zap.Int("changes", len(wf.Changes)))
	return wf, nil
}

func ParseString(s string) (*waveform.Waveform, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses the WCP document at path. Open failures are io errors.
func ParseFile(path string) (*waveform.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseParse, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}
