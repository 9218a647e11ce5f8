package anki

import "bytes"

// BuildTSV serializes rows as one line per card with two tab-separated
// fields. Sanitize guarantees the fields themselves contain no tabs or
// newlines, so no quoting is needed.
func BuildTSV(rows []Row) []byte {
	var buf bytes.Buffer
	for _, row := range rows {
		buf.WriteString(row.Front)
		buf.WriteByte('\t')
		buf.WriteString(row.Back)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
