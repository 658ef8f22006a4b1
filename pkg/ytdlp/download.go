package ytdlp

import (
	"context"
	"fmt"
	"strings"
)

// AudioOptions configures ExtractAudio.
type AudioOptions struct {
	// OutputTemplate is a full yt-dlp -o template, e.g.
	// /home/me/Downloads/%(title).200s.%(ext)s
	OutputTemplate string

	// AudioFormat is the --audio-format target (mp3).
	AudioFormat string

	// AudioQuality is the --audio-quality value, e.g. "192K".
	AudioQuality string
}

// ExtractAudio downloads the best audio stream, converts it with ffmpeg and
// embeds the thumbnail and basic container metadata. The thumbnail is also
// kept on disk next to the audio file.
//
// The returned Info is the --dump-single-json document printed after
// post-processing; its _filename still carries the pre-conversion extension.
func (c *Client) ExtractAudio(ctx context.Context, url string, opts AudioOptions) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(opts.OutputTemplate) == "" {
		return nil, fmt.Errorf("ytdlp: output template is required")
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = "mp3"
	}
	if opts.AudioQuality == "" {
		opts.AudioQuality = "192K"
	}

	args := []string{
		"--format", "bestaudio/best",
		"-o", opts.OutputTemplate,
		"--no-playlist",
		"--write-thumbnail",
		"--extract-audio",
		"--audio-format", opts.AudioFormat,
		"--audio-quality", opts.AudioQuality,
		"--embed-thumbnail",
		"--embed-metadata",
		"--dump-single-json",
		"--no-simulate",
		"--no-progress",
		"--no-colors",
		url,
	}

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	return ParseInfo(stdout)
}
