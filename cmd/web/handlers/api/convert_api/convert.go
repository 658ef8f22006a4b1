// package convert_api provides the conversion endpoint.
package convert_api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/mp3convert/internal/converter"
)

// HeaderConversionID carries the stable ID of the media that was converted.
const HeaderConversionID = "X-Conversion-ID"

// CompleteMessage is the success message returned to clients.
const CompleteMessage = "Download and tagging complete."

// Converter runs one conversion.
type Converter interface {
	Convert(ctx context.Context, url string) (*converter.Result, error)
}

type ConvertResponse struct {
	Message string `json:"message"`
	File    string `json:"file"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Album   string `json:"album"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleConvert downloads the media named by the url query parameter and
// responds with where the tagged mp3 can be fetched.
func HandleConvert(conv Converter) echo.HandlerFunc {
	return func(c echo.Context) error {
		src := c.QueryParam("url")

		res, err := conv.Convert(c.Request().Context(), src)
		if err != nil {
			slog.Error("convert failed", "url", src, "error", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}

		c.Response().Header().Set(HeaderConversionID, res.ID)
		return c.JSON(http.StatusOK, ConvertResponse{
			Message: CompleteMessage,
			File:    res.File,
			URL:     DownloadURL(res.File),
			Title:   res.Metadata.Title,
			Artist:  res.Metadata.Artist,
			Album:   res.Metadata.Album,
		})
	}
}

// DownloadURL is the path under which file is served.
func DownloadURL(file string) string {
	return "/downloads/" + url.PathEscape(file)
}
