package annotate

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteTable writes the document as a CSV table with one row per interval:
// tier, label, start, end.
func WriteTable(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"tier", "label", "start", "end"}); err != nil {
		return err
	}
	for _, t := range doc.Tiers {
		for _, iv := range t.Intervals {
			row := []string{
				t.Name,
				iv.Label,
				strconv.FormatFloat(iv.Start, 'g', -1, 64),
				strconv.FormatFloat(iv.End, 'g', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
