/*
smatch matches a primary catalog of points with per-point search radii
against a secondary catalog of points, reporting every secondary point that
falls within its primary point's disc (optionally capped to the K closest).

Usage: smatch [OPTIONS] primary.csv secondary.csv

primary.csv has columns ra,dec,radius_deg (degrees); secondary.csv has
columns ra,dec. A first line that does not parse as numeric data is treated
as a header and skipped. Both inputs may be gzip-compressed (.csv.gz).
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/arunkannawadi/smatch/smatch"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	nside     = flag.Int("nside", 128, "HEALPix Nside resolution parameter")
	maxmatch  = flag.Int("maxmatch", 1, "Maximum matches retained per primary entry; 0 = unbounded")
	selfMatch = flag.Bool("self-match", false, "Skip a candidate whose secondary index equals the primary catalog index")
	out       = flag.String("out", "", "Output match file path; defaults to <primary>.smatch")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] primary.csv secondary.csv\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("exactly two positional arguments required (primary.csv secondary.csv), got %d", flag.NArg())
	}
	primaryPath := flag.Arg(0)
	secondaryPath := flag.Arg(1)

	outPath := *out
	if outPath == "" {
		outPath = primaryPath + ".smatch"
	}

	ctx := vcontext.Background()

	primary, err := loadCSV(ctx, primaryPath, true)
	if err != nil {
		log.Fatalf("loading primary catalog: %v", err)
	}
	secondary, err := loadCSV(ctx, secondaryPath, false)
	if err != nil {
		log.Fatalf("loading secondary catalog: %v", err)
	}

	m, err := smatch.New(*nside, primary.RA, primary.Dec, primary.RadiusDeg)
	if err != nil {
		log.Fatalf("building catalog: %v", err)
	}

	if err := m.MatchToFile(ctx, *maxmatch, *selfMatch, secondary.RA, secondary.Dec, outPath); err != nil {
		log.Fatalf("matching: %v", err)
	}
	log.Printf("smatch: wrote %d matches to %s (nside=%d, area=%.6g sr/pixel)",
		m.NMatches(), outPath, m.HpixNside(), m.HpixArea())
}
