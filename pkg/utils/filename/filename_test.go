package filename

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"song.webm", "mp3", "song.mp3"},
		{"song.webm", ".mp3", "song.mp3"},
		{"/home/me/Downloads/Artist - Song.m4a", "mp3", "/home/me/Downloads/Artist - Song.mp3"},
		{"/dl/v1.2/song", "mp3", "/dl/v1.2/song.mp3"},
		{"/dl/Mr. Blue Sky.opus", "mp3", "/dl/Mr. Blue Sky.mp3"},
		{"song.mp3", "mp3", "song.mp3"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ReplaceExt(tt.in, tt.ext), tt.in)
	}
}

func TestStripExt(t *testing.T) {
	require.Equal(t, "/dl/song", StripExt("/dl/song.webm"))
	require.Equal(t, "/dl.d/song", StripExt("/dl.d/song"))
}

func TestWithin(t *testing.T) {
	dir := t.TempDir()

	p, err := Within(dir, "Artist - Song.mp3")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Artist - Song.mp3"), p)

	for _, bad := range []string{"", ".", "..", "../etc/passwd", "a/b.mp3", `a\b.mp3`, "a\x00.mp3"} {
		_, err := Within(dir, bad)
		require.ErrorIs(t, err, ErrUnsafeName, bad)
	}
}
