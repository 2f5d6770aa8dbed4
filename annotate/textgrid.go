package annotate

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextGridFormat selects the Praat TextGrid variant to write
type TextGridFormat int

const (
	// TextGridShort is the compact "short text file" variant
	TextGridShort TextGridFormat = iota

	// TextGridLong is the verbose, indented variant
	TextGridLong
)

// WriteTextGrid writes the document as a Praat TextGrid. Praat requires
// tiers to tile the whole time axis, so gaps between annotated intervals
// (and before the first or after the last) are filled with empty-label
// intervals.
func WriteTextGrid(w io.Writer, doc *Document, format TextGridFormat) error {
	switch format {
	case TextGridShort, TextGridLong:
	default:
		return fmt.Errorf("unknown TextGrid format: %d", format)
	}

	xmax := doc.End()

	var b strings.Builder
	b.WriteString("File type = \"ooTextFile\"\n")
	b.WriteString("Object class = \"TextGrid\"\n\n")

	if format == TextGridShort {
		writeShort(&b, doc, xmax)
	} else {
		writeLong(&b, doc, xmax)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeShort(b *strings.Builder, doc *Document, xmax float64) {
	fmt.Fprintf(b, "0\n%s\n", num(xmax))
	b.WriteString("<exists>\n")
	fmt.Fprintf(b, "%d\n", len(doc.Tiers))

	for _, t := range doc.Tiers {
		filled := fillGaps(t, 0, xmax)
		b.WriteString("\"IntervalTier\"\n")
		fmt.Fprintf(b, "%q\n", t.Name)
		fmt.Fprintf(b, "0\n%s\n", num(xmax))
		fmt.Fprintf(b, "%d\n", len(filled))
		for _, iv := range filled {
			fmt.Fprintf(b, "%s\n%s\n%q\n", num(iv.Start), num(iv.End), iv.Label)
		}
	}
}

func writeLong(b *strings.Builder, doc *Document, xmax float64) {
	fmt.Fprintf(b, "xmin = 0\nxmax = %s\n", num(xmax))
	b.WriteString("tiers? <exists>\n")
	fmt.Fprintf(b, "size = %d\n", len(doc.Tiers))
	b.WriteString("item []:\n")

	for i, t := range doc.Tiers {
		filled := fillGaps(t, 0, xmax)
		fmt.Fprintf(b, "\titem [%d]:\n", i+1)
		b.WriteString("\t\tclass = \"IntervalTier\"\n")
		fmt.Fprintf(b, "\t\tname = %q\n", t.Name)
		fmt.Fprintf(b, "\t\txmin = 0\n\t\txmax = %s\n", num(xmax))
		fmt.Fprintf(b, "\t\tintervals: size = %d\n", len(filled))
		for j, iv := range filled {
			fmt.Fprintf(b, "\t\tintervals [%d]:\n", j+1)
			fmt.Fprintf(b, "\t\t\txmin = %s\n", num(iv.Start))
			fmt.Fprintf(b, "\t\t\txmax = %s\n", num(iv.End))
			fmt.Fprintf(b, "\t\t\ttext = %q\n", iv.Label)
		}
	}
}

// fillGaps returns the tier's intervals with empty-label intervals inserted
// so the result tiles [xmin, xmax] without gaps.
func fillGaps(t *Tier, xmin, xmax float64) []Interval {
	var out []Interval
	prev := xmin
	for _, iv := range t.Intervals {
		if iv.Start > prev {
			out = append(out, Interval{Start: prev, End: iv.Start})
		}
		out = append(out, iv)
		prev = iv.End
	}
	if prev < xmax {
		out = append(out, Interval{Start: prev, End: xmax})
	}
	return out
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
