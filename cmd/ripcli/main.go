// Command ripcli runs the respiratory-belt analysis pipeline on a single
// recording: load, condition, detect cycles and holds, estimate range and
// resting expiratory level, and write the results.
package main

import (
	"flag"
	"path/filepath"
	"strings"

	"github.com/respkit/respkit/algorithms/conditioning"
	"github.com/respkit/respkit/logging"
	"github.com/respkit/respkit/rip"
	"github.com/respkit/respkit/rip/config"
)

func main() {
	var (
		in        = flag.String("in", "", "input recording (.wav, or .csv/.txt table)")
		rate      = flag.Float64("rate", 0, "explicit sampling frequency for table input (Hz)")
		delimiter = flag.String("delimiter", ",", "table column delimiter")

		detrend  = flag.Bool("detrend", false, "remove linear trend before analysis")
		baseline = flag.Float64("baseline", 0, "baseline-removal window in seconds (0 disables)")
		resample = flag.Float64("resample", 0, "resample to this frequency in Hz (0 disables)")

		winLen    = flag.Float64("win", 10, "normalization window in seconds")
		delta     = flag.Float64("delta", 1, "extremum hysteresis threshold")
		lookahead = flag.Int("lookahead", 1, "extremum confirmation lookahead in samples")

		minHoldDur = flag.Float64("min-hold-dur", 0.25, "minimum hold duration in seconds")
		minHoldGap = flag.Float64("min-hold-gap", 0.15, "minimum gap between holds in seconds")
		prominence = flag.Float64("prominence", 0.05, "histogram peak prominence threshold")
		bins       = flag.Int("bins", 100, "histogram bins per interval")

		relLookbehind = flag.Float64("rel", 0, "REL lookbehind window in seconds (0 skips REL)")

		annotOut = flag.String("annotations", "", "annotation output file")
		format   = flag.String("format", "textgrid", "annotation format: textgrid, textgrid-long, eaf, table")
		respOut  = flag.String("resp", "", "conditioned signal output file (.wav or .csv)")

		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logging.WithFields(logging.Fields{"component": "ripcli"})
	if *verbose {
		logging.SetLevel(logging.DebugLevel)
	}

	if *in == "" {
		log.Fatal(nil, "no input file; use -in")
	}

	rec, err := load(*in, *delimiter, *rate)
	if err != nil {
		log.Fatal(err, "loading recording", logging.Fields{"file": *in})
	}
	log.Info("recording loaded", logging.Fields{
		"file":      *in,
		"samples":   rec.Len(),
		"samp_freq": rec.SampFreq(),
		"duration":  rec.Duration(),
	})

	if *detrend {
		if err := rec.Detrend(conditioning.DetrendLinear); err != nil {
			log.Fatal(err, "detrending")
		}
	}
	if *baseline > 0 {
		if err := rec.RemoveBaseline(*baseline); err != nil {
			log.Fatal(err, "removing baseline")
		}
	}
	if *resample > 0 {
		if err := rec.Resample(*resample); err != nil {
			log.Fatal(err, "resampling")
		}
	}

	cycleCfg := config.CycleConfig{
		WinLen:    *winLen,
		Delta:     *delta,
		Lookahead: *lookahead,
	}
	if err := rec.FindCycles(cycleCfg); err != nil {
		log.Fatal(err, "detecting cycles")
	}
	log.Info("cycles detected", logging.Fields{"cycles": len(rec.Cycles())})

	holdCfg := config.HoldConfig{
		MinHoldDur:     *minHoldDur,
		MinHoldGap:     *minHoldGap,
		PeakProminence: *prominence,
		Bins:           *bins,
	}
	if err := rec.FindHolds(holdCfg); err != nil {
		log.Fatal(err, "detecting holds")
	}
	log.Info("holds detected", logging.Fields{"holds": len(rec.Holds())})

	respRange, err := rec.EstimateRange(config.DefaultRangeConfig())
	if err != nil {
		log.Fatal(err, "estimating range")
	}
	log.Info("respiratory range", logging.Fields{
		"bot": respRange.Bot,
		"top": respRange.Top,
	})

	if *relLookbehind > 0 {
		rel, err := rec.EstimateREL(config.DefaultRELConfig(*relLookbehind))
		if err != nil {
			log.Fatal(err, "estimating REL")
		}
		log.Info("resting expiratory level estimated", logging.Fields{"cycles": len(rel)})
	}

	if *annotOut != "" {
		annotFormat, err := parseFormat(*format)
		if err != nil {
			log.Fatal(err, "selecting annotation format")
		}
		if err := rec.SaveAnnotations(*annotOut, annotFormat); err != nil {
			log.Fatal(err, "saving annotations", logging.Fields{"file": *annotOut})
		}
		log.Info("annotations saved", logging.Fields{"file": *annotOut})
	}

	if *respOut != "" {
		sigFormat := rip.SignalTable
		if strings.EqualFold(filepath.Ext(*respOut), ".wav") {
			sigFormat = rip.SignalWAV
		}
		if err := rec.SaveResp(*respOut, sigFormat); err != nil {
			log.Fatal(err, "saving signal", logging.Fields{"file": *respOut})
		}
		log.Info("signal saved", logging.Fields{"file": *respOut})
	}
}

func load(path, delimiter string, rate float64) (*rip.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return rip.FromWAV(path)
	}
	delim := ','
	if delimiter != "" {
		delim = rune(delimiter[0])
	}
	return rip.FromTable(path, delim, rate)
}

func parseFormat(name string) (rip.AnnotationFormat, error) {
	switch name {
	case "textgrid":
		return rip.AnnotationTextGrid, nil
	case "textgrid-long":
		return rip.AnnotationTextGridLong, nil
	case "eaf":
		return rip.AnnotationEAF, nil
	case "table":
		return rip.AnnotationTable, nil
	default:
		return 0, flagError(name)
	}
}

type flagError string

func (e flagError) Error() string {
	return "unknown annotation format: " + string(e)
}
