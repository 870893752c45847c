package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/runescan/runescan/pkg/types"
)

// Key fingerprints an ordered expression set under a given engine version.
// Pattern text, ids, flags, expression order and the engine version all
// contribute, so any change produces a different key.
func Key(engineVersion string, exprs []*types.Expression) string {
	h := sha256.New()
	h.Write([]byte(engineVersion))
	var buf [8]byte
	for _, e := range exprs {
		h.Write([]byte{0})
		h.Write([]byte(e.Pattern()))
		binary.BigEndian.PutUint64(buf[:], uint64(e.ID()))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], uint64(e.Flags()))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
