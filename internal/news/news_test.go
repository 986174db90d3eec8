package news

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseTimestampStrategies(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{
			name: "unix seconds",
			raw:  "1710921600",
			want: time.Unix(1710921600, 0).UTC(),
			ok:   true,
		},
		{
			name: "RFC3339",
			raw:  "2024-03-20T10:00:00Z",
			want: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "RFC1123Z",
			raw:  "Wed, 20 Mar 2024 10:00:00 +0000",
			want: time.Date(2024, 3, 20, 10, 0, 0, 0, time.FixedZone("", 0)),
			ok:   true,
		},
		{
			name: "RFC1123",
			raw:  "Wed, 20 Mar 2024 10:00:00 UTC",
			want: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "globenewswire no-seconds",
			raw:  "Wed, 20 Mar 2024 10:00 UTC",
			ok:   true,
		},
		{name: "garbage", raw: "not a time", ok: false},
		{name: "empty", raw: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := parseTimestamp(tt.raw)
		if ok != tt.ok {
			t.Errorf("%s: parseTimestamp ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if tt.ok && !tt.want.IsZero() && !got.Equal(tt.want) {
			t.Errorf("%s: parseTimestamp = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	in := "<p>Shares of <b>NVDA</b> rose&nbsp;5%   today</p>"
	want := "Shares of NVDA rose 5% today"
	if got := StripHTML(in); got != want {
		t.Errorf("StripHTML = %q, want %q", got, want)
	}
}

func TestCleanRSSTitle(t *testing.T) {
	got := cleanRSSTitle("Nvidia surges on earnings - Reuters", "google")
	if got != "Nvidia surges on earnings" {
		t.Errorf("cleanRSSTitle = %q, want publisher suffix stripped", got)
	}
	// Non-google sources keep titles verbatim.
	got = cleanRSSTitle("Acme Corp - Q3 Results", "globenewswire")
	if got != "Acme Corp - Q3 Results" {
		t.Errorf("cleanRSSTitle = %q, want unchanged", got)
	}
}

// stubSource serves canned headlines and fails on demand per symbol.
type stubSource struct {
	name string
	data map[string][]Headline
	fail map[string]error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, symbol string, _, _ time.Time) ([]Headline, error) {
	if err, ok := s.fail[symbol]; ok {
		return nil, err
	}
	return s.data[symbol], nil
}

func at(h int) time.Time {
	return time.Date(2024, 5, 1, h, 0, 0, 0, time.UTC)
}

func TestGatherSortsNewestFirst(t *testing.T) {
	src := &stubSource{
		name: "stub",
		data: map[string][]Headline{
			"NVDA": {
				{Symbol: "NVDA", Time: at(9), Title: "morning"},
				{Symbol: "NVDA", Time: at(15), Title: "afternoon"},
			},
			"TSLA": {
				{Symbol: "TSLA", Time: at(12), Title: "midday"},
			},
		},
	}
	agg := NewAggregator([]Source{src})

	d := agg.Gather(context.Background(), []Entry{
		{Name: "Nvidia", Symbol: "NVDA"},
		{Name: "Tesla", Symbol: "TSLA"},
	}, at(0), at(23))

	if len(d.Failed) != 0 {
		t.Fatalf("Failed = %v, want empty", d.Failed)
	}
	if len(d.Headlines) != 3 {
		t.Fatalf("got %d headlines, want 3", len(d.Headlines))
	}
	wantOrder := []string{"afternoon", "midday", "morning"}
	for i, w := range wantOrder {
		if d.Headlines[i].Title != w {
			t.Errorf("Headlines[%d] = %q, want %q", i, d.Headlines[i].Title, w)
		}
	}
	if d.Headlines[1].Company != "Tesla" {
		t.Errorf("Company = %q, want Tesla", d.Headlines[1].Company)
	}
}

func TestGatherIsolatesFailingSymbol(t *testing.T) {
	boom := errors.New("feed unavailable")
	src := &stubSource{
		name: "stub",
		data: map[string][]Headline{
			"NVDA": {{Symbol: "NVDA", Time: at(9), Title: "fine"}},
		},
		fail: map[string]error{"GC=F": boom},
	}
	agg := NewAggregator([]Source{src})

	d := agg.Gather(context.Background(), []Entry{
		{Name: "Nvidia", Symbol: "NVDA"},
		{Name: "Gold", Symbol: "GC=F"},
	}, at(0), at(23))

	if len(d.Headlines) != 1 {
		t.Fatalf("got %d headlines, want 1 (healthy symbol still served)", len(d.Headlines))
	}
	if !errors.Is(d.Failed["GC=F"], boom) {
		t.Errorf("Failed[GC=F] = %v, want %v", d.Failed["GC=F"], boom)
	}
}

func TestGatherPartialSourceFailureIsNotFatal(t *testing.T) {
	good := &stubSource{
		name: "good",
		data: map[string][]Headline{"NVDA": {{Symbol: "NVDA", Time: at(9), Title: "ok"}}},
	}
	bad := &stubSource{
		name: "bad",
		fail: map[string]error{"NVDA": errors.New("down")},
	}
	agg := NewAggregator([]Source{good, bad})

	d := agg.Gather(context.Background(), []Entry{{Name: "Nvidia", Symbol: "NVDA"}}, at(0), at(23))

	if len(d.Failed) != 0 {
		t.Errorf("Failed = %v, want empty when one source still delivered", d.Failed)
	}
	if len(d.Headlines) != 1 {
		t.Errorf("got %d headlines, want 1", len(d.Headlines))
	}
}

func TestWriteTable(t *testing.T) {
	d := &Digest{
		Headlines: []Headline{
			{Symbol: "NVDA", Company: "Nvidia", Source: "google", Time: at(15), Title: "Nvidia hits high"},
		},
		Failed: map[string]error{"SI=F": errors.New("no feed")},
	}

	var buf bytes.Buffer
	if err := d.WriteTable(&buf); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"TIMESTAMP", "Nvidia hits high", "2024-05-01 15:00:00", "error on SI=F"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
