package cmd

import (
	"testing"
	"time"

	"github.com/theirongolddev/hburn/internal/config"
	"github.com/theirongolddev/hburn/internal/model"
)

func TestParseInstant(t *testing.T) {
	fixed := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	got, err := parseInstant("", clock)
	if err != nil || !got.Equal(fixed) {
		t.Errorf("empty = %v, %v; want clock()", got, err)
	}

	got, err = parseInstant("2024-03-01T10:00:00Z", clock)
	if err != nil || !got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("RFC3339 = %v, %v", got, err)
	}

	got, err = parseInstant("2024-03-01", clock)
	if err != nil || got.Year() != 2024 || got.Month() != 3 || got.Day() != 1 || got.Hour() != 0 {
		t.Errorf("date = %v, %v", got, err)
	}

	if _, err := parseInstant("yesterday", clock); err == nil {
		t.Error("expected error for unparseable time")
	}
	if _, err := parseInstant("", nil); err == nil {
		t.Error("expected error for empty required time")
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42", "contract"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-3", "abc", ""} {
		if _, err := parseID(bad, "contract"); err == nil {
			t.Errorf("parseID(%q) should fail", bad)
		}
	}
}

func TestOutputFormat(t *testing.T) {
	defer func() { flagReportJSON, flagReportFormat = false, "" }()

	tests := []struct {
		json    bool
		format  string
		want    string
		wantErr bool
	}{
		{want: ""},
		{json: true, want: "json"},
		{format: "yaml", want: "yaml"},
		{json: true, format: "yaml", want: "yaml"},
		{format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		flagReportJSON, flagReportFormat = tt.json, tt.format
		got, err := outputFormat()
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("outputFormat(json=%v, format=%q) = %q, %v; want %q", tt.json, tt.format, got, err, tt.want)
		}
	}
}

func TestDaemonConfig_FlagsOverrideConfig(t *testing.T) {
	t.Setenv("HBURN_ADDR", "")
	t.Setenv("HBURN_DB", "")
	defer func() {
		flagDaemonAddr, flagDaemonInterval, flagDaemonWatch, flagDB = "", 0, "", ""
	}()

	cfg := config.DefaultConfig()
	cfg.General.DBPath = "/data/hburn.db"
	cfg.Daemon.WatchDir = "/inbox"

	dc := daemonConfig(cfg)
	if dc.Addr != cfg.Daemon.Addr || dc.Interval != 30*time.Second || dc.WatchDir != "/inbox" || dc.DBPath != "/data/hburn.db" {
		t.Errorf("from config = %+v", dc)
	}

	flagDaemonAddr = "127.0.0.1:9999"
	flagDaemonInterval = 5 * time.Second
	flagDaemonWatch = "/elsewhere"
	flagDB = "/tmp/other.db"
	dc = daemonConfig(cfg)
	if dc.Addr != "127.0.0.1:9999" || dc.Interval != 5*time.Second || dc.WatchDir != "/elsewhere" || dc.DBPath != "/tmp/other.db" {
		t.Errorf("with flags = %+v", dc)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "x", "--detach=true"})
	if len(got) != 3 || got[0] != "daemon" || got[1] != "--addr" || got[2] != "x" {
		t.Errorf("filterDetachArg = %v", got)
	}
}

func TestEntryEdit_Apply(t *testing.T) {
	secs := int64(3600)
	orig := model.TimeEntry{
		ID:           7,
		ContractID:   1,
		UserName:     "rita",
		Description:  "setup",
		StartTime:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		DurationSecs: &secs,
	}

	if !(entryEdit{}).empty() {
		t.Error("zero entryEdit should be empty")
	}

	desc := "review"
	got, err := entryEdit{desc: &desc}.apply(orig)
	if err != nil {
		t.Fatalf("apply desc: %v", err)
	}
	if got.Description != "review" || got.UserName != "rita" || got.DurationSecs == nil || *got.DurationSecs != 3600 {
		t.Errorf("desc only = %+v, want other fields kept", got)
	}

	end := "2024-03-01T11:30:00Z"
	got, err = entryEdit{end: &end}.apply(orig)
	if err != nil {
		t.Fatalf("apply end: %v", err)
	}
	if got.DurationSecs != nil || !got.EndTime.Equal(time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)) {
		t.Errorf("end = %v / %v, want explicit duration dropped", got.EndTime, got.DurationSecs)
	}

	got, err = entryEdit{clearEnd: true}.apply(got)
	if err != nil || !got.IsRunning() {
		t.Errorf("clearEnd = %+v, %v; want running entry", got, err)
	}

	neg := -time.Minute
	if _, err := (entryEdit{duration: &neg}).apply(orig); err == nil {
		t.Error("expected error for negative duration")
	}
	bad := "soon"
	if _, err := (entryEdit{start: &bad}).apply(orig); err == nil {
		t.Error("expected error for unparseable start")
	}
	zero := int64(0)
	if _, err := (entryEdit{contract: &zero}).apply(orig); err == nil {
		t.Error("expected error for contract id 0")
	}
	if orig.Description != "setup" || *orig.DurationSecs != 3600 {
		t.Errorf("apply mutated its input: %+v", orig)
	}
}
