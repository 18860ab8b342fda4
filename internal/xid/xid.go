package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// New returns a prefixed, time-ordered unique id such as
// "INV-20260831-143015-ab12cd34". Used for invoice numbers.
func New(prefix string) string {
	now := time.Now().UTC()
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", strings.ToUpper(prefix), now.UnixNano())
	}
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(prefix), now.Format("20060102-150405"), hex.EncodeToString(buf))
}
