package ffmpeg

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeJSON = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "mp3", "sample_rate": "44100", "channels": 2},
    {"index": 1, "codec_type": "video", "codec_name": "mjpeg", "disposition": {"attached_pic": 1}}
  ],
  "format": {
    "filename": "song.mp3",
    "format_name": "mp3",
    "duration": "212.375510",
    "size": "5123456",
    "bit_rate": "192000",
    "tags": {"title": "Song", "artist": "Artist"}
  }
}`

func withExec(t *testing.T, fn func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)) {
	t.Helper()
	orig := execFn
	execFn = fn
	t.Cleanup(func() { execFn = orig })
}

func TestFFprobe_ParsesAudio(t *testing.T) {
	withExec(t, func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		require.Equal(t, "ffprobe", name)
		require.Equal(t, "song.mp3", args[len(args)-1])
		return []byte(sampleProbeJSON), nil, nil
	})

	result, err := ProbeAt("")(context.Background(), "song.mp3")
	require.NoError(t, err)

	assert.Equal(t, "mp3", result.AudioCodec)
	assert.Equal(t, 2, result.AudioChannels)
	assert.Equal(t, 44100, result.AudioSampleRate)
	assert.Equal(t, 1, result.AudioStreams)
	assert.Equal(t, 1, result.CoverStreams)
	assert.InDelta(t, 212.37, result.Duration, 0.01)
	assert.Equal(t, int64(192000), result.Bitrate)
	assert.Equal(t, int64(5123456), result.Size)
	assert.Equal(t, "Song", result.Tags["title"])
}

func TestFFprobe_WrapsError(t *testing.T) {
	withExec(t, func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, []byte("line1\nline2\nline3\nsong.mp3: No such file or directory\n"), errors.New("exit status 1")
	})

	_, err := ProbeAt("")(context.Background(), "song.mp3")
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.True(t, strings.HasPrefix(fe.Command(), "ffprobe -hide_banner"))
	assert.Contains(t, err.Error(), "No such file or directory")
	assert.NotContains(t, err.Error(), "line1")
}

func TestFFprobe_InvalidJSON(t *testing.T) {
	withExec(t, func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte("{"), nil, nil
	})

	_, err := ProbeAt("")(context.Background(), "song.mp3")
	require.Error(t, err)
}

func TestFFprobeBinary(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "ffprobe", ffprobeBinary(""))
	assert.Equal(t, filepath.Join(dir, "ffprobe"), ffprobeBinary(dir))
	assert.Equal(t, "/opt/ff/bin/ffprobe", ffprobeBinary("/opt/ff/bin/ffmpeg"))
	assert.Equal(t, `/opt/ff/ffprobe.exe`, ffprobeBinary("/opt/ff/ffmpeg.exe"))
}

func TestFFprobeAt_UsesLocation(t *testing.T) {
	var got string
	withExec(t, func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		got = name
		return []byte(sampleProbeJSON), nil, nil
	})

	_, err := ProbeAt("/opt/ff/bin/ffmpeg")(context.Background(), "song.mp3")
	require.NoError(t, err)
	assert.Equal(t, "/opt/ff/bin/ffprobe", got)
}
