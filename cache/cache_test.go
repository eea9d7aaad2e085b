package cache_test

import (
	"fmt"
	"testing"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftTitled(title string) *chatsnap.ConversationDraft {
	return &chatsnap.ConversationDraft{Title: title}
}

func testKeyFunc(counter uint64) string {
	return fmt.Sprintf("k%d", counter)
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	s := cache.New(cache.WithKeyFunc(testKeyFunc))

	key := s.Put(draftTitled("first"))

	assert.Equal(t, "k1", key)
	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "first", got.Title)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_KeysStrictlyIncrease(t *testing.T) {
	t.Parallel()

	s := cache.New()

	k1 := s.Put(draftTitled("a"))
	k2 := s.Put(draftTitled("b"))
	k3 := s.Put(draftTitled("c"))

	assert.Less(t, k1, k2)
	assert.Less(t, k2, k3)
}

func TestStore_EvictsFIFOPastBound(t *testing.T) {
	t.Parallel()

	s := cache.New(cache.WithKeyFunc(testKeyFunc))

	for i := 1; i <= 11; i++ {
		s.Put(draftTitled(fmt.Sprintf("draft %d", i)))
	}

	assert.Equal(t, 10, s.Len())
	assert.Equal(t,
		[]string{"k2", "k3", "k4", "k5", "k6", "k7", "k8", "k9", "k10", "k11"},
		s.Keys())

	_, ok := s.Get("k1")
	assert.False(t, ok)
	got, ok := s.Get("k2")
	require.True(t, ok)
	assert.Equal(t, "draft 2", got.Title)
}

func TestStore_HoldsTenMostRecentAfterFifteenInserts(t *testing.T) {
	t.Parallel()

	s := cache.New(cache.WithKeyFunc(testKeyFunc))

	for i := 1; i <= 15; i++ {
		s.Put(draftTitled(fmt.Sprintf("draft %d", i)))
	}

	assert.Equal(t, 10, s.Len())
	for i := 6; i <= 15; i++ {
		_, ok := s.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should be retained", i)
	}

	latest, key, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "k15", key)
	assert.Equal(t, "draft 15", latest.Title)
}

func TestStore_LatestSurvivesEviction(t *testing.T) {
	t.Parallel()

	s := cache.New(cache.WithCap(1), cache.WithKeyFunc(testKeyFunc))

	s.Put(draftTitled("old"))
	s.Put(draftTitled("new"))

	latest, key, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "k2", key)
	assert.Equal(t, "new", latest.Title)
}

func TestStore_LatestEmpty(t *testing.T) {
	t.Parallel()

	_, _, ok := cache.New().Latest()
	assert.False(t, ok)
}
