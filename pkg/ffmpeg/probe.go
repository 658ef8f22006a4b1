package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ProbeResult contains audio file metadata.
type ProbeResult struct {
	// Audio properties
	AudioCodec      string // Audio codec name (mp3, aac, opus, etc.)
	AudioChannels   int    // Number of audio channels
	AudioSampleRate int    // Audio sample rate in Hz

	// File properties
	Duration   float64 // Duration in seconds
	Bitrate    int64   // Total bitrate in bits per second
	Size       int64   // File size in bytes
	FormatName string  // Container format (mp3, mov,mp4,m4a, etc.)

	// Stream counts
	AudioStreams int
	// Attached cover art shows up as a video stream with disposition attached_pic.
	CoverStreams int

	// Format-level tags (title, artist, album, ...)
	Tags map[string]string
}

// ffprobeOutput matches ffprobe JSON output structure.
type ffprobeOutput struct {
	Format struct {
		Filename   string            `json:"filename"`
		FormatName string            `json:"format_name"`
		Duration   string            `json:"duration"`
		Size       string            `json:"size"`
		BitRate    string            `json:"bit_rate"`
		Tags       map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		Index       int    `json:"index"`
		CodecType   string `json:"codec_type"`
		CodecName   string `json:"codec_name"`
		SampleRate  string `json:"sample_rate"`
		Channels    int    `json:"channels"`
		Disposition struct {
			AttachedPic int `json:"attached_pic"`
		} `json:"disposition"`
	} `json:"streams"`
}

// ProbeAt returns a function that runs the ffprobe found at location. location is
// the same value yt-dlp takes for --ffmpeg-location: a directory holding the
// binaries or the path of the ffmpeg binary itself. Empty means PATH.
func ProbeAt(location string) func(ctx context.Context, path string) (*ProbeResult, error) {
	bin := ffprobeBinary(location)
	return func(ctx context.Context, path string) (*ProbeResult, error) {
		return probeWith(ctx, bin, path)
	}
}

func ffprobeBinary(location string) string {
	if location == "" {
		return "ffprobe"
	}
	if st, err := os.Stat(location); err == nil && st.IsDir() {
		return filepath.Join(location, "ffprobe")
	}
	dir, base := filepath.Split(location)
	return filepath.Join(dir, strings.Replace(base, "ffmpeg", "ffprobe", 1))
}

func probeWith(ctx context.Context, bin string, path string) (*ProbeResult, error) {
	args := []string{
		"-hide_banner",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	stdout, stderr, err := execFn(ctx, bin, args...)
	if err != nil {
		return nil, &Error{Cmd: bin, Args: args, Stderr: string(stderr), Err: err}
	}

	return parseProbeOutput(stdout)
}

func parseProbeOutput(raw []byte) (*ProbeResult, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("ffprobe: failed to parse output: %w", err)
	}

	result := &ProbeResult{
		FormatName: output.Format.FormatName,
		Tags:       output.Format.Tags,
	}

	if output.Format.Duration != "" {
		result.Duration, _ = strconv.ParseFloat(output.Format.Duration, 64)
	}
	if output.Format.BitRate != "" {
		result.Bitrate, _ = strconv.ParseInt(output.Format.BitRate, 10, 64)
	}
	if output.Format.Size != "" {
		result.Size, _ = strconv.ParseInt(output.Format.Size, 10, 64)
	}

	for _, stream := range output.Streams {
		switch stream.CodecType {
		case "audio":
			result.AudioStreams++
			// Only take first audio stream metadata
			if result.AudioCodec == "" {
				result.AudioCodec = stream.CodecName
				result.AudioChannels = stream.Channels
				if stream.SampleRate != "" {
					result.AudioSampleRate, _ = strconv.Atoi(stream.SampleRate)
				}
			}
		case "video":
			if stream.Disposition.AttachedPic == 1 {
				result.CoverStreams++
			}
		}
	}

	return result, nil
}
