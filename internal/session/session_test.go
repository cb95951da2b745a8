package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRecentMovesToFrontAndCaps(t *testing.T) {
	s := &Session{}
	for _, p := range []string{"1", "2", "3", "4", "5", "6"} {
		s.AddRecent(p)
	}
	assert.Equal(t, []string{"6", "5", "4", "3", "2"}, s.Recent)

	s.AddRecent("3")
	assert.Equal(t, []string{"3", "6", "5", "4", "2"}, s.Recent)

	s.AddRecent("")
	assert.Len(t, s.Recent, RecentLimit)
}

func TestAddRecentInvariant(t *testing.T) {
	s := &Session{}
	seq := []string{"a", "b", "a", "c", "d", "b", "e", "f", "a", "g", "g"}
	for _, p := range seq {
		s.AddRecent(p)

		require.LessOrEqual(t, len(s.Recent), RecentLimit)
		assert.Equal(t, p, s.Recent[0])
		seen := map[string]bool{}
		for _, r := range s.Recent {
			require.False(t, seen[r], "duplicate %q in %v", r, s.Recent)
			seen[r] = true
		}
	}
}

func TestGetCreatesLazily(t *testing.T) {
	m := NewMemoryStore()
	assert.Equal(t, 0, m.Len())

	s := m.Get("abc")
	assert.Equal(t, "abc", s.ID)
	assert.Empty(t, s.Recent)
	assert.Equal(t, Draft{}, s.Wizard)
	assert.Equal(t, 1, m.Len())
}

func TestGetReturnsSnapshot(t *testing.T) {
	m := NewMemoryStore()
	s := m.Get("abc")
	s.AddRecent("1")
	s.Wizard.Name = "x"

	fresh := m.Get("abc")
	assert.Empty(t, fresh.Recent)
	assert.Empty(t, fresh.Wizard.Name)

	m.Put(s)
	fresh = m.Get("abc")
	assert.Equal(t, []string{"1"}, fresh.Recent)
	assert.Equal(t, "x", fresh.Wizard.Name)
}

func TestWithLockMutatesInPlace(t *testing.T) {
	m := NewMemoryStore()
	err := m.WithLock("abc", func(s *Session) error {
		s.Wizard.Village = "Sega"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Sega", m.Get("abc").Wizard.Village)

	m.WithLock("abc", func(s *Session) error {
		s.ResetWizard()
		return nil
	})
	assert.Equal(t, Draft{}, m.Get("abc").Wizard)
}

func TestWithLockPropagatesError(t *testing.T) {
	m := NewMemoryStore()
	err := m.WithLock("abc", func(*Session) error { return fmt.Errorf("boom") })
	assert.EqualError(t, err, "boom")
}

func TestConcurrentSessions(t *testing.T) {
	m := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("s%d", i%4)
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.WithLock(id, func(s *Session) error {
				s.AddRecent(fmt.Sprintf("p%d", n))
				return nil
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, m.Len())
	for i := 0; i < 4; i++ {
		assert.Len(t, m.Get(fmt.Sprintf("s%d", i)).Recent, RecentLimit)
	}
}
