// internal/caller/seed.go
//
// Daily call order.
// A host restarting the caller with {"daily":true} gets the same shuffle for
// the whole UTC day. The seed is HMAC-SHA256 keyed by CALLER_SALT over the
// date key, truncated to its first eight bytes; another salt gives an
// unrelated order.

package caller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey formats the UTC calendar day of t.
func DateKey(t time.Time) string { return t.UTC().Format(dateLayout) }

// DailySeed returns the shuffle seed for the UTC day containing date.
func DailySeed(date time.Time, salt string) uint64 {
	mac := hmac.New(sha256.New, []byte(salt))
	_, _ = io.WriteString(mac, DateKey(date))
	return binary.BigEndian.Uint64(mac.Sum(nil))
}
