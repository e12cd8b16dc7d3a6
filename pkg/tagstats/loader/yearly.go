package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// YearlyViews is one row of the pre-aggregated yearly view series:
// the extract's view-count total attributed to questions of one
// calendar year, plus that year's share of the overall total. It is
// computed upstream and only re-plotted here.
type YearlyViews struct {
	Year      int
	Views     int64
	PercTotal float64
}

var yearlyColumns = []string{"year", "views", "perc_total"}

// LoadYearlyViews reads the secondary yearly-views CSV.
func LoadYearlyViews(path string) ([]YearlyViews, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadYearlyViews(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadYearlyViews parses the yearly series from r.
func ReadYearlyViews(r io.Reader) ([]YearlyViews, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, yearlyColumns)
	if err != nil {
		return nil, err
	}

	var out []YearlyViews
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		year, err := strconv.Atoi(record[cols["year"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: column year: %q", line, record[cols["year"]])
		}
		views, err := strconv.ParseInt(record[cols["views"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: column views: %q", line, record[cols["views"]])
		}
		perc, err := strconv.ParseFloat(record[cols["perc_total"]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: column perc_total: %q", line, record[cols["perc_total"]])
		}

		out = append(out, YearlyViews{Year: year, Views: views, PercTotal: perc})
	}
	return out, nil
}
