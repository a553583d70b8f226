// Package simulator replays a tabular impression feed against the bid
// pipeline at saturation: every worker loops with no throttling, so the
// system is deliberately pushed as hard as the broker allows.
package simulator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/golang/glog"
)

// Column positions in the source feed. Index 0 is a row id and indexes 6-7
// carry fields this system doesn't use.
const (
	colSiteID           = 1
	colAdTypeID         = 2
	colGeoID            = 3
	colDeviceCategoryID = 4
	colAdvertiserID     = 5
	colOSID             = 8

	minColumns = 9
)

// Row is one usable impression record from the feed.
type Row struct {
	SiteID           string
	AdTypeID         string
	GeoID            string
	DeviceCategoryID string
	AdvertiserID     string
	OSID             string
}

// Source holds the whole feed in memory so workers can sample it without IO.
type Source struct {
	rows []Row
}

// LoadSource reads the feed file. The header row is skipped; rows with fewer
// than the required column count are rejected and logged, not loaded. An
// empty usable set is an error since the simulator would have nothing to send.
func LoadSource(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening simulator data file: %w", err)
	}
	defer file.Close()

	source, rejected, err := readSource(file)
	if err != nil {
		return nil, err
	}
	glog.Infof("Loaded %d simulator records from %s (%d malformed rows rejected)", source.Len(), path, rejected)
	return source, nil
}

func readSource(r io.Reader) (*Source, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows := make([]Row, 0, 1024)
	rejected := 0
	header := true
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("error reading simulator data: %w", err)
		}
		line++
		if header {
			header = false
			continue
		}
		if len(record) < minColumns {
			rejected++
			glog.Errorf("rejecting malformed source row %d: has %d columns, need %d", line, len(record), minColumns)
			continue
		}
		rows = append(rows, Row{
			SiteID:           strings.TrimSpace(record[colSiteID]),
			AdTypeID:         strings.TrimSpace(record[colAdTypeID]),
			GeoID:            strings.TrimSpace(record[colGeoID]),
			DeviceCategoryID: strings.TrimSpace(record[colDeviceCategoryID]),
			AdvertiserID:     strings.TrimSpace(record[colAdvertiserID]),
			OSID:             strings.TrimSpace(record[colOSID]),
		})
	}

	if len(rows) == 0 {
		return nil, rejected, fmt.Errorf("simulator data contains no usable rows (%d rejected)", rejected)
	}
	return &Source{rows: rows}, rejected, nil
}

func (s *Source) Len() int {
	return len(s.rows)
}

// Random returns an arbitrary row. Each worker should pass its own *rand.Rand
// so samplers don't contend on a shared lock.
func (s *Source) Random(r *rand.Rand) Row {
	return s.rows[r.Intn(len(s.rows))]
}
