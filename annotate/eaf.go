package annotate

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"time"
)

// ELAN EAF document structure, reduced to what alignable interval
// annotations need.

type eafDocument struct {
	XMLName         xml.Name          `xml:"ANNOTATION_DOCUMENT"`
	Author          string            `xml:"AUTHOR,attr"`
	Date            string            `xml:"DATE,attr"`
	Format          string            `xml:"FORMAT,attr"`
	Version         string            `xml:"VERSION,attr"`
	Header          eafHeader         `xml:"HEADER"`
	TimeOrder       eafTimeOrder      `xml:"TIME_ORDER"`
	Tiers           []eafTier         `xml:"TIER"`
	LinguisticTypes eafLinguisticType `xml:"LINGUISTIC_TYPE"`
}

type eafHeader struct {
	MediaFile string `xml:"MEDIA_FILE,attr"`
	TimeUnits string `xml:"TIME_UNITS,attr"`
}

type eafTimeOrder struct {
	TimeSlots []eafTimeSlot `xml:"TIME_SLOT"`
}

type eafTimeSlot struct {
	ID    string `xml:"TIME_SLOT_ID,attr"`
	Value int    `xml:"TIME_VALUE,attr"`
}

type eafTier struct {
	LinguisticTypeRef string          `xml:"LINGUISTIC_TYPE_REF,attr"`
	TierID            string          `xml:"TIER_ID,attr"`
	Annotations       []eafAnnotation `xml:"ANNOTATION"`
}

type eafAnnotation struct {
	Alignable eafAlignable `xml:"ALIGNABLE_ANNOTATION"`
}

type eafAlignable struct {
	ID       string `xml:"ANNOTATION_ID,attr"`
	SlotRef1 string `xml:"TIME_SLOT_REF1,attr"`
	SlotRef2 string `xml:"TIME_SLOT_REF2,attr"`
	Value    string `xml:"ANNOTATION_VALUE"`
}

type eafLinguisticType struct {
	GraphicReferences bool   `xml:"GRAPHIC_REFERENCES,attr"`
	ID                string `xml:"LINGUISTIC_TYPE_ID,attr"`
	TimeAlignable     bool   `xml:"TIME_ALIGNABLE,attr"`
}

// WriteEAF writes the document as an ELAN annotation file. Interval bounds
// are rounded to whole milliseconds, the finest granularity EAF supports.
func WriteEAF(w io.Writer, doc *Document) error {
	out := eafDocument{
		Date:    time.Now().Format(time.RFC3339),
		Format:  "3.0",
		Version: "3.0",
		Header:  eafHeader{TimeUnits: "milliseconds"},
		LinguisticTypes: eafLinguisticType{
			ID:            "default-lt",
			TimeAlignable: true,
		},
	}

	slot := 0
	annot := 0
	for _, t := range doc.Tiers {
		tier := eafTier{
			LinguisticTypeRef: "default-lt",
			TierID:            t.Name,
		}
		for _, iv := range t.Intervals {
			s1 := eafTimeSlot{ID: fmt.Sprintf("ts%d", slot+1), Value: toMillis(iv.Start)}
			s2 := eafTimeSlot{ID: fmt.Sprintf("ts%d", slot+2), Value: toMillis(iv.End)}
			slot += 2
			annot++

			out.TimeOrder.TimeSlots = append(out.TimeOrder.TimeSlots, s1, s2)
			tier.Annotations = append(tier.Annotations, eafAnnotation{
				Alignable: eafAlignable{
					ID:       fmt.Sprintf("a%d", annot),
					SlotRef1: s1.ID,
					SlotRef2: s2.ID,
					Value:    iv.Label,
				},
			})
		}
		out.Tiers = append(out.Tiers, tier)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	return enc.Encode(out)
}

func toMillis(sec float64) int {
	return int(math.Round(sec * 1000))
}
