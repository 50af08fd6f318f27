package segwatcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/mp4ttml/internal/test"
)

func TestNoDir(t *testing.T) {
	w := &SegWatcher{Dir: "/nonexistent"}
	err := w.Initialize()
	require.Error(t, err)
}

func TestSegment(t *testing.T) {
	dir := t.TempDir()

	w := &SegWatcher{
		Dir:        dir,
		Extensions: []string{".m4s"},
		Parent:     test.NilLogger,
	}
	err := w.Initialize()
	require.NoError(t, err)
	defer w.Close()

	err = os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("abc"), 0o644)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(dir, "seg1.m4s"), []byte("abc"), 0o644)
	require.NoError(t, err)

	select {
	case fpath := <-w.Watch():
		require.Equal(t, filepath.Join(dir, "seg1.m4s"), fpath)
	case <-time.After(2 * time.Second):
		t.Errorf("timed out")
	}
}

func TestSegmentWrittenInChunks(t *testing.T) {
	dir := t.TempDir()

	w := &SegWatcher{
		Dir:        dir,
		Extensions: []string{".m4s"},
		Settle:     200 * time.Millisecond,
	}
	err := w.Initialize()
	require.NoError(t, err)
	defer w.Close()

	fpath := filepath.Join(dir, "seg1.m4s")

	f, err := os.Create(fpath)
	require.NoError(t, err)
	defer f.Close()

	for i := 0; i < 3; i++ {
		_, err = f.Write([]byte("abc"))
		require.NoError(t, err)
		time.Sleep(50 * time.Millisecond)
	}

	select {
	case got := <-w.Watch():
		require.Equal(t, fpath, got)
	case <-time.After(2 * time.Second):
		t.Errorf("timed out")
		return
	}

	// the file is reported once
	select {
	case got := <-w.Watch():
		t.Errorf("unexpected segment: %s", got)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestClose(t *testing.T) {
	w := &SegWatcher{
		Dir:        t.TempDir(),
		Extensions: []string{".m4s"},
	}
	err := w.Initialize()
	require.NoError(t, err)

	w.Close()

	_, ok := <-w.Watch()
	require.False(t, ok)
}

func TestHasExtension(t *testing.T) {
	exts := []string{".m4s", ".cmft"}

	require.True(t, HasExtension("/a/seg1.m4s", exts))
	require.True(t, HasExtension("seg1.CMFT", exts))
	require.False(t, HasExtension("seg1.mp4", exts))
	require.False(t, HasExtension("m4s", exts))
}
