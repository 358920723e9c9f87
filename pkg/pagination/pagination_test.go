package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
		{10_000, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestLimitWithBuffer(t *testing.T) {
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer(10) = %d", got)
	}
	if got := LimitWithBuffer(0); got != DefaultLimit+1 {
		t.Fatalf("LimitWithBuffer(0) = %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 8, 20, 9, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if got == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at = %s, want %s", got.CreatedAt, want.CreatedAt)
	}
	if got.ID != want.ID {
		t.Fatalf("id = %s, want %s", got.ID, want.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	got, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil cursor, got %+v", got)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, value := range []string{
		"not-base64!!",
		base64.StdEncoding.EncodeToString([]byte("no-separator")),
		base64.StdEncoding.EncodeToString([]byte("not-a-time|" + uuid.NewString())),
		base64.StdEncoding.EncodeToString([]byte("2026-08-20T09:30:00Z|not-a-uuid")),
	} {
		if _, err := ParseCursor(value); err == nil {
			t.Errorf("ParseCursor(%q) succeeded, want error", value)
		}
	}
}
