package weave

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/escrowd/errors"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantTime UnixTime
		wantErr  *errors.Error
	}{
		"zero time as number": {
			raw:      "0",
			wantTime: 0,
		},
		"zero time as string": {
			raw:      `"1970-01-01T01:00:00+01:00"`,
			wantTime: 0,
		},
		"a time as string": {
			raw:      `"2019-04-04T11:35:40.89181085+02:00"`,
			wantTime: 1554370540,
		},
		"a time as number": {
			raw:      "1554370540",
			wantTime: 1554370540,
		},
		"negative number": {
			raw:     "-1",
			wantErr: errors.ErrInput,
		},
		"negative time as string": {
			raw:     `"1950-01-01T01:00:00+01:00"`,
			wantErr: errors.ErrInput,
		},
		"invalid string": {
			raw:     `"not a time string"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tc.wantTime {
				t.Fatalf("want %d time, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	base := AsUnixTime(time.Unix(1000, 0))
	if got := base.Add(90 * time.Second); got != 1090 {
		t.Fatalf("want 1090, got %d", got)
	}
	if got := base.Add(-time.Minute); got != 940 {
		t.Fatalf("want 940, got %d", got)
	}
	if !UnixTime(0).IsZero() {
		t.Fatal("zero time must be zero")
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	ctx := WithBlockTime(context.Background(), now)

	cases := map[string]struct {
		deadline UnixTime
		want     bool
	}{
		"deadline in the past":   {deadline: 999, want: true},
		"deadline equal to now":  {deadline: 1000, want: false},
		"deadline in the future": {deadline: 1001, want: false},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := IsExpired(ctx, tc.deadline)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}

	if _, err := IsExpired(context.Background(), 1); !errors.ErrHuman.Is(err) {
		t.Fatalf("want missing block time error, got %v", err)
	}
}
