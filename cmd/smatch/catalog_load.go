package main

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// csvCatalog holds the parallel columns loaded from a ra,dec[,radius_deg]
// CSV file. A secondary catalog omits radius_deg.
type csvCatalog struct {
	RA, Dec, RadiusDeg []float64
}

// loadCSV reads path (transparently decompressing a .gz suffix) as a CSV of
// float64 columns, with an optional header line whose first field cannot be
// parsed as a number. withRadius selects whether a third radius_deg column
// is required.
func loadCSV(ctx context.Context, path string, withRadius bool) (out csvCatalog, err error) {
	src, err := file.Open(ctx, path)
	if err != nil {
		return out, errors.Wrapf(err, "opening %s", path)
	}
	defer file.CloseAndReport(ctx, src, &err)

	var reader io.Reader = src.Reader(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, gerr := gzip.NewReader(reader)
		if gerr != nil {
			return out, errors.Wrapf(gerr, "opening gzip stream %s", path)
		}
		defer gz.Close()
		reader = gz
	}

	wantFields := 2
	if withRadius {
		wantFields = 3
	}

	scanner := bufio.NewScanner(reader)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < wantFields {
			if lineNo == 1 {
				// Tolerate a header row on the first line only.
				continue
			}
			return out, errors.Errorf("%s:%d: expected %d comma-separated fields, got %d", path, lineNo, wantFields, len(fields))
		}
		ra, raErr := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		dec, decErr := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if raErr != nil || decErr != nil {
			if lineNo == 1 {
				continue
			}
			return out, errors.Errorf("%s:%d: malformed ra/dec", path, lineNo)
		}
		out.RA = append(out.RA, ra)
		out.Dec = append(out.Dec, dec)
		if withRadius {
			radius, rErr := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if rErr != nil {
				return out, errors.Errorf("%s:%d: malformed radius_deg", path, lineNo)
			}
			out.RadiusDeg = append(out.RadiusDeg, radius)
		}
	}
	if serr := scanner.Err(); serr != nil {
		return out, errors.Wrapf(serr, "reading %s", path)
	}
	return out, nil
}
