// Package id3tag writes the ID3v2 frames the converter owns onto an mp3 file.
package id3tag

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// CoverMIMEType is written for every embedded cover regardless of the source
// image format.
const CoverMIMEType = "image/jpeg"

// Tags holds the text frames written to a file.
type Tags struct {
	Title  string // TIT2
	Artist string // TPE1
	Album  string // TALB
	Track  string // TRCK
}

// Write opens the mp3 at path, overwrites TIT2, TPE1, TALB and TRCK, replaces
// any attached pictures with cover when cover is non-empty, and saves the tag
// as ID3v2.4.
//
// Files without an ID3 header get a fresh tag. The file itself must exist.
func Write(path string, tags Tags, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("id3tag: open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)
	tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), tags.Track)

	if len(cover) > 0 {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    CoverMIMEType,
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("id3tag: save %s: %w", path, err)
	}
	return nil
}
