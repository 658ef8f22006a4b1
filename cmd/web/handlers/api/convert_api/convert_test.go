package convert_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/mp3convert/internal/converter"
	"thirdcoast.systems/mp3convert/internal/metadata"
)

type fakeConverter struct {
	gotURL string
	res    *converter.Result
	err    error
}

func (f *fakeConverter) Convert(ctx context.Context, url string) (*converter.Result, error) {
	f.gotURL = url
	return f.res, f.err
}

func serve(t *testing.T, conv Converter, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/convert", HandleConvert(conv))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleConvert_Success(t *testing.T) {
	conv := &fakeConverter{res: &converter.Result{
		ID:   "5f8e1c0a-0000-5000-8000-000000000000",
		File: "Artist - Song.mp3",
		Metadata: metadata.Metadata{
			Title:  "Song",
			Artist: "Artist",
			Album:  metadata.UnknownAlbum,
		},
	}}

	rec := serve(t, conv, "/convert?url=https%3A%2F%2Fyoutu.be%2Fabc")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://youtu.be/abc", conv.gotURL)
	require.Equal(t, conv.res.ID, rec.Header().Get(HeaderConversionID))

	var body ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ConvertResponse{
		Message: CompleteMessage,
		File:    "Artist - Song.mp3",
		URL:     "/downloads/Artist%20-%20Song.mp3",
		Title:   "Song",
		Artist:  "Artist",
		Album:   metadata.UnknownAlbum,
	}, body)
}

func TestHandleConvert_ErrorIs500(t *testing.T) {
	conv := &fakeConverter{err: errors.New("ytdlp: command failed (exit 1): ERROR: Unsupported URL")}

	rec := serve(t, conv, "/convert?url=nope")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Header().Get(HeaderConversionID))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]string{"error": conv.err.Error()}, body)
}

func TestHandleConvert_MissingURLIsPassedThrough(t *testing.T) {
	conv := &fakeConverter{err: errors.New("ytdlp: url is required")}

	rec := serve(t, conv, "/convert")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "", conv.gotURL)
}

func TestDownloadURL(t *testing.T) {
	require.Equal(t, "/downloads/song.mp3", DownloadURL("song.mp3"))
	require.Equal(t, "/downloads/Caf%C3%A9%20%231.mp3", DownloadURL("Café #1.mp3"))
}
