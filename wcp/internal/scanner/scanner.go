package scanner

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a line is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

type Kind int

const (
	Content Kind = iota
	Header
	EndHeader
	Signals
	EndSignals
	Waveform
	EndWaveform
)

func (k Kind) String() string {
	switch k {
	case Content:
		return "content"
	case Header:
		return "HEADER"
	case EndHeader:
		return "END_HEADER"
	case Signals:
		return "SIGNALS"
	case EndSignals:
		return "END_SIGNALS"
	case Waveform:
		return "WAVEFORM"
	case EndWaveform:
		return "END_WAVEFORM"
	}
	return "unknown"
}

// IsEnd reports whether k closes a section.
func (k Kind) IsEnd() bool {
	return k == EndHeader || k == EndSignals || k == EndWaveform
}

type Line struct {
	Text   string
	Kind   Kind
	Number int
}

// Classify maps a trimmed line to its marker kind, or Content.
func Classify(text string) Kind {
	switch text {
	case "HEADER":
		return Header
	case "END_HEADER":
		return EndHeader
	case "SIGNALS":
		return Signals
	case "END_SIGNALS":
		return EndSignals
	case "WAVEFORM":
		return Waveform
	case "END_WAVEFORM":
		return EndWaveform
	}
	return Content
}

// Scan reads r to the end and returns its significant lines. Lines are
// trimmed; blank lines and lines starting with '#' are dropped.
func Scan(r io.Reader) ([]Line, error) {
	br := bufio.NewReader(r)
	var lines []Line
	number := 0

	for {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if raw == "" && err == io.EOF {
			break
		}
		number++

		if !utf8.ValidString(raw) {
			return nil, ErrInvalidUTF8
		}

		text := strings.TrimSpace(raw)
		if text != "" && text[0] != '#' {
			lines = append(lines, Line{Text: text, Kind: Classify(text), Number: number})
		}

		if err == io.EOF {
			break
		}
	}

	return lines, nil
}
