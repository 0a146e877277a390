// Package id generates time-sortable identifiers for positions and journal
// rows.
package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// The monotonic reader keeps IDs minted in the same millisecond strictly
// increasing, so position maps and journal tables sort by creation time.
var entropy = &ulid.LockedMonotonicReader{
	MonotonicReader: ulid.Monotonic(rand.Reader, 0),
}

// New returns a fresh ULID string. Safe for concurrent use.
func New() string {
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
