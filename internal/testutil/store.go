package testutil

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/djjrip/ggloop-bots/internal/store"
)

func NewStoreWithConsole(t testing.TB, w io.Writer) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "ggbot.log"), w)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func NewStore(t testing.TB) *store.Store {
	t.Helper()

	return NewStoreWithConsole(t, io.Discard)
}

// NewStoreWithStatus makes a Store that already has the results of both bots.
func NewStoreWithStatus(t testing.TB) *store.Store {
	t.Helper()

	s := NewStore(t)
	s.SetBusinessStatus(BotStatus())
	s.SetOutputStatus(OutputStatus())
	return s
}
