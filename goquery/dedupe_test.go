package goquery_test

import (
	"strings"
	"testing"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduper_Dedupe(t *testing.T) {
	t.Parallel()

	d := goquery.NewDeduper()

	t.Run("keeps first occurrence of duplicate fingerprints", func(t *testing.T) {
		t.Parallel()

		shared := strings.Repeat("identical leading text ", 6) // > 100 chars
		turns := []chatsnap.Turn{
			{Role: chatsnap.RoleUser, Text: shared + "with a much longer tail that differs"},
			{Role: chatsnap.RoleAssistant, Text: "a distinct answer about something else entirely"},
			{Role: chatsnap.RoleUser, Text: shared},
		}

		out := d.Dedupe(turns)

		require.Len(t, out, 2)
		assert.Equal(t, turns[0].Text, out[0].Text)
		assert.Equal(t, turns[1].Text, out[1].Text)
	})

	t.Run("collapsed whitespace produces the same fingerprint", func(t *testing.T) {
		t.Parallel()

		turns := []chatsnap.Turn{
			{Text: "hello   there\n\tgeneral kenobi of the republic"},
			{Text: "hello there general kenobi of the republic"},
		}

		out := d.Dedupe(turns)

		require.Len(t, out, 1)
	})

	t.Run("drops turns under the minimum length", func(t *testing.T) {
		t.Parallel()

		turns := []chatsnap.Turn{
			{Text: "tiny"},
			{Text: "this one is clearly long enough to keep"},
		}

		out := d.Dedupe(turns)

		require.Len(t, out, 1)
		assert.Equal(t, turns[1].Text, out[0].Text)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		turns := []chatsnap.Turn{
			{Text: "first message body that is long enough"},
			{Text: "first message body that is long enough"},
			{Text: "second message body that is long enough"},
		}

		once := d.Dedupe(turns)
		twice := d.Dedupe(once)

		assert.Equal(t, once, twice)
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ab ", 60)
	fp := goquery.Fingerprint(long)
	assert.Len(t, []rune(fp), 100)

	assert.Equal(t, goquery.Fingerprint("a  b\tc"), goquery.Fingerprint("a b c"))
}
