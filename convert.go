package wcptools

import (
	"io"

	"github.com/wippyai/wcp-tools/vcd"
	"github.com/wippyai/wcp-tools/wcp"
)

// ConvertToVCD parses a WCP document from r and returns its VCD export.
func ConvertToVCD(r io.Reader) (string, error) {
	wf, err := wcp.Parse(r)
	if err != nil {
		return "", err
	}
	return vcd.Export(wf), nil
}

// Convert streams the VCD export of the WCP document in r to w.
func Convert(w io.Writer, r io.Reader) error {
	wf, err := wcp.Parse(r)
	if err != nil {
		return err
	}
	return vcd.Encode(w, wf)
}
