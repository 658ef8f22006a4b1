// Package fileserver serves finished files from the downloads directory.
package fileserver

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/mp3convert/pkg/utils/filename"
)

// CacheControl is sent with every file.
const CacheControl = "public, max-age=3600"

func init() {
	// Not every system mime table knows mp3.
	_ = mime.AddExtensionType(".mp3", "audio/mpeg")
}

// FileServer serves plain files that live directly inside one directory.
type FileServer struct {
	dir string
}

// NewFileServer creates a file server rooted at dir.
func NewFileServer(dir string) *FileServer {
	return &FileServer{dir: dir}
}

// weakETag is derived from modtime and size, which change whenever a
// conversion rewrites the file.
func weakETag(info os.FileInfo) string {
	return fmt.Sprintf(`W/"%x-%x"`, info.ModTime().Unix(), info.Size())
}

// HandleFile serves :filename. Anything other than a regular file directly
// inside the directory is a 404.
func (fs *FileServer) HandleFile(c echo.Context) error {
	name := c.Param("filename")
	// echo routes on RawPath when the request has one, leaving params escaped.
	if c.Request().URL.RawPath != "" {
		if v, err := url.PathUnescape(name); err == nil {
			name = v
		}
	}

	p, err := filename.Within(fs.dir, name)
	if err != nil {
		return echo.ErrNotFound
	}
	return fs.serve(c, p)
}

func (fs *FileServer) serve(c echo.Context, absPath string) error {
	info, err := os.Stat(absPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("stat download failed", "path", absPath, "error", err)
		}
		return echo.ErrNotFound
	}
	if !info.Mode().IsRegular() {
		return echo.ErrNotFound
	}

	f, err := os.Open(absPath)
	if err != nil {
		return echo.ErrNotFound
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(absPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := c.Response().Header()
	h.Set(echo.HeaderCacheControl, CacheControl)
	h.Set(echo.HeaderContentType, contentType)
	h.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	h.Set("ETag", weakETag(info))

	// http.ServeContent answers If-None-Match, If-Modified-Since and Range.
	http.ServeContent(c.Response(), c.Request(), filepath.Base(absPath), info.ModTime(), f)
	return nil
}
