package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()

	RecordParse("wcp", 3*time.Millisecond, nil)
	RecordParse("vcd", time.Millisecond, errors.New("bad"))
	RecordExport()
	SetOpenFiles(2)
	RecordHTTPRequest("GET", "/healthz", 200)
	RecordConversion(nil)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	want := map[string]bool{
		"wcp_parse_total":             false,
		"wcp_parse_duration_seconds":  false,
		"wcp_export_total":            false,
		"wcp_store_open_files":        false,
		"wcp_http_requests_total":     false,
		"wcp_watch_conversions_total": false,
	}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestResultLabel(t *testing.T) {
	if result(nil) != "ok" || result(errors.New("x")) != "error" {
		t.Error("unexpected result labels")
	}
}
