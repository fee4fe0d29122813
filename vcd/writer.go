package vcd

import (
	"bufio"
	"io"
	"strconv"
)

// writer accumulates output and keeps the first write error.
type writer struct {
	w   *bufio.Writer
	err error
}

func newWriter(dst io.Writer) *writer {
	return &writer{w: bufio.NewWriter(dst)}
}

func (w *writer) writeString(s string) {
	if w.err == nil {
		_, w.err = w.w.WriteString(s)
	}
}

func (w *writer) writeByte(b byte) {
	if w.err == nil {
		w.err = w.w.WriteByte(b)
	}
}

func (w *writer) writeUint(v uint64) {
	if w.err == nil {
		var buf [20]byte
		_, w.err = w.w.Write(strconv.AppendUint(buf[:0], v, 10))
	}
}

// keyword writes "$kw <args...> $end\n".
func (w *writer) keyword(kw string, args ...string) {
	w.writeByte('$')
	w.writeString(kw)
	for _, a := range args {
		w.writeByte(' ')
		w.writeString(a)
	}
	w.writeString(" $end\n")
}

// block writes a keyword whose body sits on its own indented line.
func (w *writer) block(kw, body string) {
	w.writeByte('$')
	w.writeString(kw)
	w.writeString("\n   ")
	w.writeString(body)
	w.writeString("\n$end\n")
}

func (w *writer) flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
