package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/transpileconf/internal/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_ReResolvesOnChange(t *testing.T) {
	env := newTestEnv(t)
	writeSiteFile(t, filepath.Dir(env.site), config.DefaultFile, "watch:\n  debounce: 20ms\n")
	out := &syncBuffer{}
	env.global.Stdout = out

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- (&WatchCmd{}).run(ctx, env.global, env.cli("build-css")) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "# defaults")
	}, 5*time.Second, 10*time.Millisecond, "initial resolution not printed")

	// Rewrite until the watcher has registered and picked the file up.
	require.Eventually(t, func() bool {
		writeSiteFile(t, env.site, ".babelrc", `{"plugins": ["from-rc"]}`)
		return strings.Contains(out.String(), "# .babelrc")
	}, 5*time.Second, 50*time.Millisecond, "change was not re-resolved")
	require.Contains(t, out.String(), `"from-rc"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_RejectsUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	err := (&WatchCmd{Format: "toml"}).run(context.Background(), env.global, env.cli(""))
	require.Error(t, err)
}
