package smatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arunkannawadi/smatch/catalog"
	"github.com/arunkannawadi/smatch/healpix"
	"github.com/arunkannawadi/smatch/pixtree"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// MatchToFile runs a match and streams the result to path as text, one
// line per match: "<cat_ind> <input_ind> <cosdist>\n". With maxmatch == 0
// it never buffers the match set in memory — each accepted match is
// written as soon as it is found, using an inverted index keyed by each
// primary entry's single containing pixel (not its disc). With maxmatch
// >= 1 it runs Match to completion and then streams each entry's buffer in
// buffer order (heap order once an entry is at capacity, not sorted).
func (m *Matcher) MatchToFile(ctx context.Context, maxmatch int, selfMatch bool, ra, dec []float64, path string) (err error) {
	if maxmatch < 0 {
		return badInput("MatchToFile", errNegativeMaxmatch)
	}
	if len(ra) != len(dec) {
		return badInput("MatchToFile", errSecondarySizeMismatch)
	}

	dst, err := file.Create(ctx, path)
	if err != nil {
		return ioErr("MatchToFile", err)
	}
	defer file.CloseAndReport(ctx, dst, &err)

	w := bufio.NewWriter(dst.Writer(ctx))
	defer func() {
		if ferr := w.Flush(); err == nil && ferr != nil {
			err = ioErr("MatchToFile", ferr)
		}
	}()

	if maxmatch == 0 {
		return m.streamUnbounded(selfMatch, ra, dec, w)
	}

	if err := m.Match(maxmatch, selfMatch, ra, dec); err != nil {
		return err
	}
	var nmatches int64
	for i := range m.cat.Entries {
		for _, match := range m.cat.Entries[i].Matches.Matches() {
			if err := writeMatchLine(w, match); err != nil {
				return ioErr("MatchToFile", err)
			}
			nmatches++
		}
	}
	m.nmatches = nmatches
	return nil
}

// streamUnbounded implements the maxmatch==0 streaming path: build an
// inverted tree over the primary catalog's single containing pixels, then
// walk the secondary catalog once, writing every accepted match
// immediately without retaining it.
func (m *Matcher) streamUnbounded(selfMatch bool, ra, dec []float64, w *bufio.Writer) error {
	inverted := pixtree.New(m.grid.Npix())
	for catInd := range m.cat.Entries {
		x, y, z := m.cat.Entries[catInd].Point.X, m.cat.Entries[catInd].Point.Y, m.cat.Entries[catInd].Point.Z
		pixel := m.grid.Vec2pix(x, y, z)
		inverted.Insert(pixel, catInd)
	}

	var nmatches int64
	for inputInd := range ra {
		x, y, z, err := healpix.Eq2xyz(ra[inputInd], dec[inputInd])
		if err != nil {
			return badCoordinate("MatchToFile", err)
		}
		pixel, err := m.grid.Eq2pix(ra[inputInd], dec[inputInd])
		if err != nil {
			return badCoordinate("MatchToFile", err)
		}
		catIndices, ok := inverted.Find(pixel)
		if !ok {
			continue
		}
		for _, catInd := range catIndices {
			if selfMatch && catInd == inputInd {
				continue
			}
			entry := &m.cat.Entries[catInd]
			cosAngle := entry.Point.X*x + entry.Point.Y*y + entry.Point.Z*z
			if cosAngle <= entry.Point.CosRadius {
				continue
			}
			match := catalog.Match{CatInd: int64(catInd), InputInd: int64(inputInd), Cosdist: cosAngle}
			if err := writeMatchLine(w, match); err != nil {
				return ioErr("MatchToFile", err)
			}
			nmatches++
		}
	}
	m.nmatches = nmatches
	log.Debug.Printf("smatch: streamed %d unbounded matches", nmatches)
	return nil
}

func writeMatchLine(w *bufio.Writer, match catalog.Match) error {
	_, err := fmt.Fprintf(w, "%d %d %s\n",
		match.CatInd, match.InputInd, strconv.FormatFloat(match.Cosdist, 'g', 17, 64))
	return err
}

// CountLines returns the number of '\n' bytes in the file at path. Unlike
// the feof-driven scan in the original implementation, this reads the byte
// stream through to its end and counts bytes exactly, with no double-count
// at EOF.
func CountLines(ctx context.Context, path string) (_ int64, err error) {
	src, err := file.Open(ctx, path)
	if err != nil {
		return 0, ioErr("CountLines", err)
	}
	defer file.CloseAndReport(ctx, src, &err)

	r := bufio.NewReader(src.Reader(ctx))
	var count int64
	buf := make([]byte, 64*1024)
	for {
		n, rerr := r.Read(buf)
		for i := 0; i < n; i++ {
			if buf[i] == '\n' {
				count++
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return 0, ioErr("CountLines", rerr)
		}
	}
	return count, err
}

// LoadMatches parses a match file written by MatchToFile back into a slice
// of catalog.Match, in file order. A line with fewer than three
// whitespace-separated fields is a ParseError.
func LoadMatches(ctx context.Context, path string) (matches []catalog.Match, err error) {
	src, err := file.Open(ctx, path)
	if err != nil {
		return nil, ioErr("LoadMatches", err)
	}
	defer file.CloseAndReport(ctx, src, &err)

	scanner := bufio.NewScanner(src.Reader(ctx))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, parseErr("LoadMatches", fmt.Errorf("line %d: expected 3 fields, got %d", lineNo, len(fields)))
		}
		catInd, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, parseErr("LoadMatches", fmt.Errorf("line %d: cat_ind: %w", lineNo, err))
		}
		inputInd, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, parseErr("LoadMatches", fmt.Errorf("line %d: input_ind: %w", lineNo, err))
		}
		cosdist, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, parseErr("LoadMatches", fmt.Errorf("line %d: cosdist: %w", lineNo, err))
		}
		matches = append(matches, catalog.Match{CatInd: catInd, InputInd: inputInd, Cosdist: cosdist})
	}
	if serr := scanner.Err(); serr != nil {
		return nil, ioErr("LoadMatches", serr)
	}
	return matches, nil
}
