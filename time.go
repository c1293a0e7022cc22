package weave

import (
	"encoding/json"
	"time"

	"github.com/iov-one/escrowd/errors"
)

// UnixTime is a point in time with second precision, stored as seconds
// since the epoch. Deadlines are kept in this form so every client encodes
// them the same way.
type UnixTime int64

// AsUnixTime drops the sub second part of t.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add works like time.Time.Add, truncated to whole seconds.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrapf(errors.ErrState, "time %d before epoch", int64(t))
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnmarshalJSON accepts a number of seconds or an RFC 3339 string. The
// string form is easier to write in a genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var std time.Time
		if err := json.Unmarshal(raw, &std); err != nil {
			return errors.Wrapf(errors.ErrInput, "time %s", raw)
		}
		secs = std.Unix()
	}
	if secs < 0 {
		return errors.Wrapf(errors.ErrInput, "time %s before epoch", raw)
	}
	*t = UnixTime(secs)
	return nil
}

// IsExpired returns true once the block time is past t. At exactly t the
// deadline has not expired yet. It fails if ctx carries no block time.
func IsExpired(ctx Context, t UnixTime) (bool, error) {
	now, err := BlockTime(ctx)
	if err != nil {
		return false, err
	}
	return AsUnixTime(now) > t, nil
}
