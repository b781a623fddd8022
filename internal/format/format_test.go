package format_test

import (
	"testing"
	"time"

	"github.com/liepalab/eafprep/internal/format"
)

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 0, want: "00:00"},
		{d: 42 * time.Second, want: "00:42"},
		{d: 5*time.Minute + 3*time.Second, want: "05:03"},
		{d: time.Hour + 2*time.Minute + 9*time.Second, want: "01:02:09"},
	}

	for _, tt := range tests {
		if got := format.Duration(tt.d); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSegmentTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		field   string
		want    string
		wantErr bool
	}{
		{name: "clock time passes through", field: "00:01:23.500", want: "00:01:23.500"},
		{name: "milliseconds converted", field: "10500", want: "10.5"},
		{name: "zero", field: "0", want: "0"},
		{name: "garbage rejected", field: "soon", wantErr: true},
		{name: "empty rejected", field: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := format.SegmentTime(tt.field)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SegmentTime(%q): expected error, got %q", tt.field, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SegmentTime(%q) error: %v", tt.field, err)
			}
			if got != tt.want {
				t.Errorf("SegmentTime(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int64
		want  string
	}{
		{bytes: 512, want: "512 bytes"},
		{bytes: 2048, want: "2 KB"},
		{bytes: 5 * 1024 * 1024, want: "5 MB"},
	}

	for _, tt := range tests {
		if got := format.Size(tt.bytes); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
