// Package ripio loads and saves respiratory-belt sample buffers: RIFF WAV
// waveforms and two-column timestamp/value tables.
package ripio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/respkit/respkit/logging"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// ReadWAV reads a waveform and its sampling frequency from r. Supported
// encodings are 16/32-bit PCM and 32/64-bit IEEE float. Sample values are
// returned as stored, without rescaling. Multi-channel files contribute only
// their first channel.
func ReadWAV(r io.Reader) ([]float64, float64, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, 0, fmt.Errorf("reading RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		format     uint16
		channels   uint16
		sampleRate uint32
		bits       uint16
		haveFmt    bool
	)

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF {
				return nil, 0, fmt.Errorf("missing data chunk")
			}
			return nil, 0, fmt.Errorf("reading chunk header: %w", err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, 0, fmt.Errorf("reading fmt chunk: %w", err)
			}
			format = binary.LittleEndian.Uint16(buf[0:2])
			channels = binary.LittleEndian.Uint16(buf[2:4])
			sampleRate = binary.LittleEndian.Uint32(buf[4:8])
			bits = binary.LittleEndian.Uint16(buf[14:16])
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, 0, fmt.Errorf("data chunk before fmt chunk")
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, 0, fmt.Errorf("reading data chunk: %w", err)
			}
			samples, err := decodeSamples(buf, format, bits, int(channels))
			if err != nil {
				return nil, 0, err
			}
			if channels > 1 {
				logging.Warn("multi-channel waveform, keeping first channel only", logging.Fields{
					"channels": channels,
				})
			}
			return samples, float64(sampleRate), nil

		default:
			// Skip unknown chunks (LIST, fact, ...), padded to even size.
			skip := int64(size)
			if skip%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, 0, fmt.Errorf("skipping %q chunk: %w", id, err)
			}
		}
	}
}

func decodeSamples(buf []byte, format, bits uint16, channels int) ([]float64, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	bytesPer := int(bits) / 8
	frame := bytesPer * channels
	if frame == 0 || len(buf)%frame != 0 {
		return nil, fmt.Errorf("data chunk size %d is not a multiple of the %d-byte frame", len(buf), frame)
	}

	n := len(buf) / frame
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		off := i * frame // first channel of frame i
		switch {
		case format == wavFormatPCM && bits == 16:
			out[i] = float64(int16(binary.LittleEndian.Uint16(buf[off:])))
		case format == wavFormatPCM && bits == 32:
			out[i] = float64(int32(binary.LittleEndian.Uint32(buf[off:])))
		case format == wavFormatIEEEFloat && bits == 32:
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
		case format == wavFormatIEEEFloat && bits == 64:
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
		default:
			return nil, fmt.Errorf("unsupported WAV encoding: format %d, %d bits", format, bits)
		}
	}
	return out, nil
}

// WriteWAV writes samples as a mono 64-bit IEEE float WAV at the given
// sampling frequency, so reading the file back reproduces the buffer
// exactly. WAV stores an integral sample rate; a fractional sampFreq is
// rounded with a warning.
func WriteWAV(w io.Writer, samples []float64, sampFreq float64) error {
	if sampFreq <= 0 {
		return fmt.Errorf("sampling frequency must be positive, got %g", sampFreq)
	}
	rate := uint32(math.Round(sampFreq))
	if float64(rate) != sampFreq {
		logging.Warn("rounding fractional sampling frequency for WAV header", logging.Fields{
			"samp_freq": sampFreq,
			"rate":      rate,
		})
	}

	dataSize := uint32(8 * len(samples))

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], 36+dataSize)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], wavFormatIEEEFloat)
	binary.LittleEndian.PutUint16(hdr[22:24], 1) // mono
	binary.LittleEndian.PutUint32(hdr[24:28], rate)
	binary.LittleEndian.PutUint32(hdr[28:32], rate*8) // byte rate
	binary.LittleEndian.PutUint16(hdr[32:34], 8)      // block align
	binary.LittleEndian.PutUint16(hdr[34:36], 64)     // bits per sample
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], dataSize)

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("writing WAV header: %w", err)
	}

	buf := make([]byte, 8*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(s))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing WAV data: %w", err)
	}
	return nil
}

// ReadWAVFile reads a waveform from the named file.
func ReadWAVFile(path string) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadWAV(f)
}

// WriteWAVFile writes a waveform to the named file.
func WriteWAVFile(path string, samples []float64, sampFreq float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteWAV(f, samples, sampFreq)
}
