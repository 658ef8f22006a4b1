// Package converter turns a media URL into a tagged mp3 in the downloads
// directory.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"

	"thirdcoast.systems/mp3convert/internal/metadata"
	"thirdcoast.systems/mp3convert/internal/videoid"
	"thirdcoast.systems/mp3convert/pkg/cover"
	"thirdcoast.systems/mp3convert/pkg/ffmpeg"
	"thirdcoast.systems/mp3convert/pkg/id3tag"
	"thirdcoast.systems/mp3convert/pkg/utils/filename"
	"thirdcoast.systems/mp3convert/pkg/ytdlp"
)

// AudioExt is the container every conversion ends up in.
const AudioExt = "mp3"

// ErrNoOutputFilename is returned when yt-dlp finished without reporting
// where it wrote the file.
var ErrNoOutputFilename = errors.New("converter: yt-dlp did not report an output filename")

// Downloader fetches and transcodes a URL.
type Downloader interface {
	ExtractAudio(ctx context.Context, url string, opts ytdlp.AudioOptions) (*ytdlp.Info, error)
}

// ProbeFunc inspects a finished file. Used for logging only.
type ProbeFunc func(ctx context.Context, path string) (*ffmpeg.ProbeResult, error)

type Options struct {
	// DownloadsDir receives the audio and thumbnail files.
	DownloadsDir string

	// AudioQuality is handed to yt-dlp --audio-quality.
	AudioQuality string

	// TitleMaxLength truncates %(title)s in the output template.
	TitleMaxLength int

	// Timeout bounds a single conversion. 0 disables it.
	Timeout time.Duration

	Cover cover.Options
}

// Result describes a finished conversion.
type Result struct {
	// ID is derived from the normalized source URL.
	ID        string
	File      string
	Path      string
	Thumbnail string
	Metadata  metadata.Metadata
	Size      int64
}

type Converter struct {
	downloader Downloader
	probe      ProbeFunc
	opts       Options
	group      singleflight.Group
}

// New creates a Converter. probe may be nil.
func New(downloader Downloader, probe ProbeFunc, opts Options) *Converter {
	if opts.TitleMaxLength <= 0 {
		opts.TitleMaxLength = 200
	}
	return &Converter{
		downloader: downloader,
		probe:      probe,
		opts:       opts,
	}
}

// OutputTemplate is the yt-dlp -o template for the downloads directory.
func (c *Converter) OutputTemplate() string {
	return filepath.Join(c.opts.DownloadsDir, "%(title)."+strconv.Itoa(c.opts.TitleMaxLength)+"s.%(ext)s")
}

// Convert downloads url, converts it to mp3 and tags it. Concurrent calls for
// the same media share one run. The shared run is detached from any single
// caller's cancellation and bounded by Options.Timeout; a caller whose ctx
// ends stops waiting without stopping the run.
func (c *Converter) Convert(ctx context.Context, url string) (*Result, error) {
	key := videoid.KeyFor(url)

	ch := c.group.DoChan(key.URL, func() (any, error) {
		return c.convert(context.WithoutCancel(ctx), key, url)
	})

	select {
	case <-ctx.Done():
		slog.Info("convert: caller gave up waiting", "conversion_id", key.ID, "error", ctx.Err())
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			slog.Info("convert: shared in-flight conversion", "conversion_id", key.ID, "url", url)
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Result), nil
	}
}

func (c *Converter) convert(ctx context.Context, key videoid.Key, url string) (*Result, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	log := slog.With("conversion_id", key.ID.String())
	started := time.Now()
	log.Info("convert: starting", "url", url)

	info, err := c.downloader.ExtractAudio(ctx, url, ytdlp.AudioOptions{
		OutputTemplate: c.OutputTemplate(),
		AudioFormat:    AudioExt,
		AudioQuality:   c.opts.AudioQuality,
	})
	if err != nil {
		var ee *ytdlp.ExecError
		if errors.As(err, &ee) {
			log.Error("convert: yt-dlp failed", "exit_code", ee.ExitCode, "stderr", ee.Stderr, "cmd", ee.CommandLine())
		}
		return nil, err
	}

	meta := metadata.Resolve(metadata.Fields(info.Fields))

	reported := info.ReportedFilename()
	if reported == "" {
		return nil, ErrNoOutputFilename
	}
	audioPath := filename.ReplaceExt(reported, AudioExt)

	st, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("converter: converted file missing: %w", err)
	}

	var coverData []byte
	thumbPath, hasThumb := cover.Find(filename.StripExt(reported))
	if hasThumb {
		coverData, err = cover.Load(thumbPath, c.opts.Cover)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("convert: no thumbnail found", "base", filename.StripExt(reported))
	}

	if err := id3tag.Write(audioPath, id3tag.Tags{
		Title:  meta.Title,
		Artist: meta.Artist,
		Album:  meta.Album,
		Track:  meta.Track,
	}, coverData); err != nil {
		return nil, err
	}

	if st2, err := os.Stat(audioPath); err == nil {
		st = st2
	}

	res := &Result{
		ID:        key.ID.String(),
		File:      filepath.Base(audioPath),
		Path:      audioPath,
		Thumbnail: thumbPath,
		Metadata:  meta,
		Size:      st.Size(),
	}

	fields := []any{
		"file", res.File,
		"title", meta.Title,
		"artist", meta.Artist,
		"album", meta.Album,
		"cover", hasThumb,
		"size", humanize.Bytes(uint64(res.Size)),
		"elapsed", time.Since(started).Round(time.Millisecond),
	}
	if c.probe != nil {
		if pr, err := c.probe(ctx, audioPath); err != nil {
			log.Warn("convert: probe failed", "file", res.File, "error", err)
		} else {
			fields = append(fields,
				"duration", time.Duration(pr.Duration*float64(time.Second)).Round(time.Second),
				"bitrate", pr.Bitrate,
				"codec", pr.AudioCodec,
				"channels", pr.AudioChannels,
				"cover_streams", pr.CoverStreams,
				"tagged_title", pr.Tags["title"],
			)
			if hasThumb && pr.CoverStreams == 0 {
				log.Warn("convert: cover not visible to ffprobe", "file", res.File)
			}
		}
	}
	log.Info("convert: complete", fields...)

	return res, nil
}
