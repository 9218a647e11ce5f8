package anki

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// DeckTableName is the TSV entry inside the zip archive format.
const DeckTableName = "deck.tsv"

// BuildZip packages the deck table and all registered media files into a
// single archive. Media is referenced from the table by filename.
func BuildZip(rows []Row, media []MediaFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entry, err := zw.Create(DeckTableName)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrSerialize, DeckTableName, err)
	}
	if _, err := entry.Write(BuildTSV(rows)); err != nil {
		return nil, fmt.Errorf("%w: writing %s: %v", ErrSerialize, DeckTableName, err)
	}

	for _, file := range media {
		entry, err := zw.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrSerialize, file.Name, err)
		}
		if _, err := entry.Write(file.Data); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %v", ErrSerialize, file.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing archive: %v", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}
