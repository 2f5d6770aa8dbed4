package rip

import (
	"fmt"
	"os"
	"slices"

	"github.com/respkit/respkit/annotate"
	"github.com/respkit/respkit/ripio"
)

// SignalFormat selects the output format for SaveResp
type SignalFormat int

const (
	// SignalWAV writes a 64-bit float mono WAV
	SignalWAV SignalFormat = iota

	// SignalTable writes time stamp / value CSV rows (lossy)
	SignalTable
)

// AnnotationFormat selects the output format for SaveAnnotations
type AnnotationFormat int

const (
	// AnnotationTextGrid writes a Praat TextGrid in short form
	AnnotationTextGrid AnnotationFormat = iota

	// AnnotationTextGridLong writes a Praat TextGrid in long form
	AnnotationTextGridLong

	// AnnotationEAF writes an ELAN annotation file
	AnnotationEAF

	// AnnotationTable writes CSV rows
	AnnotationTable
)

// SaveResp saves the respiratory signal to file.
func (r *Record) SaveResp(path string, format SignalFormat) error {
	switch format {
	case SignalWAV:
		return ripio.WriteWAVFile(path, r.resp, r.sampFreq)
	case SignalTable:
		return ripio.WriteTableFile(path, r.resp, r.sampFreq)
	default:
		return fmt.Errorf("unsupported signal format: %d", format)
	}
}

// Annotations builds an annotation document from the named tiers ("cycles",
// "holds"); with no names, both are included when available.
func (r *Record) Annotations(tiers ...string) (*annotate.Document, error) {
	if len(tiers) == 0 {
		tiers = []string{"cycles", "holds"}
	}

	doc := &annotate.Document{}

	if slices.Contains(tiers, "cycles") {
		cycles, err := r.CyclesTier()
		if err != nil {
			return nil, err
		}
		doc.AddTier(cycles)
	}

	if slices.Contains(tiers, "holds") {
		holdsTier, err := r.HoldsTier()
		if err != nil {
			return nil, err
		}
		doc.AddTier(holdsTier)
	}

	return doc, nil
}

// SaveAnnotations saves the named tiers to an annotation file.
func (r *Record) SaveAnnotations(path string, format AnnotationFormat, tiers ...string) error {
	doc, err := r.Annotations(tiers...)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case AnnotationTextGrid:
		return annotate.WriteTextGrid(f, doc, annotate.TextGridShort)
	case AnnotationTextGridLong:
		return annotate.WriteTextGrid(f, doc, annotate.TextGridLong)
	case AnnotationEAF:
		return annotate.WriteEAF(f, doc)
	case AnnotationTable:
		return annotate.WriteTable(f, doc)
	default:
		return fmt.Errorf("unsupported annotation format: %d", format)
	}
}
