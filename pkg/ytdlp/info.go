package ytdlp

import "strings"

// Info is a light wrapper over yt-dlp JSON output. It models the fields used
// for locating output files; everything else is reachable through Fields.
type Info struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	WebpageURL string  `json:"webpage_url"`
	Extractor  string  `json:"extractor"`
	Ext        string  `json:"ext"`
	Duration   float64 `json:"duration"`

	// Filename is the output path yt-dlp computed for the selected format,
	// before any post-processor renamed it.
	Filename    string `json:"_filename"`
	AltFilename string `json:"filename"`

	RequestedDownloads []RequestedDownload `json:"requested_downloads,omitempty"`

	// Fields holds the full document. yt-dlp drops null values before
	// printing, so a missing key means the extractor had no value.
	Fields map[string]any `json:"-"`
}

type RequestedDownload struct {
	Filename string `json:"_filename"`
	Filepath string `json:"filepath"`
	Ext      string `json:"ext"`
}

// ReportedFilename returns the path yt-dlp reported for the download.
func (i *Info) ReportedFilename() string {
	if i == nil {
		return ""
	}
	for _, candidate := range []string{i.Filename, i.AltFilename} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	for _, rd := range i.RequestedDownloads {
		if strings.TrimSpace(rd.Filename) != "" {
			return rd.Filename
		}
		if strings.TrimSpace(rd.Filepath) != "" {
			return rd.Filepath
		}
	}
	return ""
}
