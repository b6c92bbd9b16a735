package document

import (
	"strings"

	"github.com/google/uuid"
)

// keyLength matches the short block keys used by raw content documents.
const keyLength = 5

// GenerateKey returns a new short block key for which taken returns false.
// A nil taken accepts the first candidate.
func GenerateKey(taken func(Key) bool) Key {
	for {
		k := Key(strings.ReplaceAll(uuid.NewString(), "-", "")[:keyLength])
		if taken == nil || !taken(k) {
			return k
		}
	}
}
