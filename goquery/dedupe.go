package goquery

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pmkowal/chatsnap"
)

// fingerprintLen is the normalized text prefix length used to detect
// duplicate turns.
const fingerprintLen = 100

// Ensure Deduper implements chatsnap.Deduper at compile time.
var _ chatsnap.Deduper = (*Deduper)(nil)

// Deduper removes repeated and overlapping turns by text fingerprint.
// The fingerprint is the first 100 characters of the turn's text with
// whitespace collapsed; the first occurrence in document order wins.
type Deduper struct {
	// MinTextLen drops turns whose collapsed text is still shorter.
	MinTextLen int
}

// NewDeduper creates a Deduper with the default minimum text length.
func NewDeduper() *Deduper {
	return &Deduper{MinTextLen: 10}
}

// Dedupe filters the turns, keeping the first occurrence of each
// fingerprint in order. Idempotent: Dedupe(Dedupe(xs)) == Dedupe(xs).
func (d *Deduper) Dedupe(turns []chatsnap.Turn) []chatsnap.Turn {
	seen := make(map[uint64]struct{}, len(turns))
	out := make([]chatsnap.Turn, 0, len(turns))

	for _, turn := range turns {
		collapsed := strings.Join(strings.Fields(turn.Text), " ")
		if len([]rune(collapsed)) < d.MinTextLen {
			continue
		}
		fp := xxhash.Sum64String(Fingerprint(collapsed))
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, turn)
	}
	return out
}

// Fingerprint returns the whitespace-collapsed 100-character prefix used
// for duplicate detection.
func Fingerprint(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) > fingerprintLen {
		runes = runes[:fingerprintLen]
	}
	return string(runes)
}
