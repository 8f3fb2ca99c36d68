package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string. Each dispatch gets one as its request id so
// log lines and archived bodies can be correlated; ULIDs sort by creation
// time, which keeps archive listings chronological.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
