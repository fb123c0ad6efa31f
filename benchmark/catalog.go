// Package benchmark serves industry benchmark rows from a CSV catalog.
//
// The catalog is keyed by (industry, team-size band, metric). A built-in
// data set covering HVAC, Plumbing, Electrical and Roofing is embedded; a
// deployment can point at its own CSV with the same columns:
//
//	industry,team_size_band,metric,lower,median,upper
//
// Unknown industries fall back to HVAC and missing bands fall back to the
// smallest band the industry has.
package benchmark

import (
	_ "embed"
	"encoding/csv"
	"io"
	"strings"
	"sync"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

//go:embed data/benchmarks.csv
var defaultCSV string

// FallbackIndustry is used when a requested industry is not in the catalog.
const FallbackIndustry = "HVAC"

// defaultTeamSize places an unknown team in the 11-20 band.
const defaultTeamSize = 12

// Band is a team-size band label.
type Band string

const (
	Band5to10     Band = "5-10"
	Band11to20    Band = "11-20"
	Band21to50    Band = "21-50"
	Band51to100   Band = "51-100"
	Band101to250  Band = "101-250"
	Band251to500  Band = "251-500"
	Band501to1000 Band = "501-1000"
	Band1000Plus  Band = "1000+"
)

var bandOrder = []Band{
	Band5to10, Band11to20, Band21to50, Band51to100,
	Band101to250, Band251to500, Band501to1000, Band1000Plus,
}

// BandFor returns the band a team size falls in. Teams under five share
// the smallest band.
func BandFor(teamSize int) Band {
	switch {
	case teamSize <= 10:
		return Band5to10
	case teamSize <= 20:
		return Band11to20
	case teamSize <= 50:
		return Band21to50
	case teamSize <= 100:
		return Band51to100
	case teamSize <= 250:
		return Band101to250
	case teamSize <= 500:
		return Band251to500
	case teamSize <= 1000:
		return Band501to1000
	default:
		return Band1000Plus
	}
}

// Row is one CSV line after metric mapping.
type Row struct {
	Industry string
	Band     Band
	Metric   string
	Lower    decimal.Decimal
	Median   decimal.Decimal
	Upper    decimal.Decimal
}

// Catalog is a parsed benchmark table. Read-only after Parse.
type Catalog struct {
	rows       map[string]map[Band]map[string]Row
	industries []string
}

// Selection is the outcome of a lookup, with the fallbacks applied.
type Selection struct {
	Industry string
	Band     Band
	Set      generic.BenchmarkSet
}

// =============================================================================
// PARSING
// =============================================================================

var requiredColumns = []string{"industry", "team_size_band", "metric", "lower", "median", "upper"}

// Parse reads a catalog CSV. Rows with unknown metrics are skipped.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("benchmark: empty catalog")
	}
	if err != nil {
		return nil, eris.Wrap(err, "benchmark: read header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, eris.Errorf("benchmark: missing column %q", c)
		}
	}

	catalog := &Catalog{rows: make(map[string]map[Band]map[string]Row)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, eris.Wrapf(err, "benchmark: read line %d", line)
		}
		if len(record) < len(header) {
			return nil, eris.Errorf("benchmark: line %d has %d fields, want %d", line, len(record), len(header))
		}

		field := func(name string) string { return strings.TrimSpace(record[cols[name]]) }

		metric, ok := metricKeys[field("metric")]
		if !ok {
			continue
		}

		row := Row{
			Industry: field("industry"),
			Band:     Band(field("team_size_band")),
			Metric:   metric,
		}
		for _, v := range []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"lower", &row.Lower},
			{"median", &row.Median},
			{"upper", &row.Upper},
		} {
			d, err := decimal.NewFromString(field(v.name))
			if err != nil {
				return nil, eris.Wrapf(err, "benchmark: line %d: bad %s value", line, v.name)
			}
			*v.dst = d
		}

		catalog.add(row)
	}

	if len(catalog.industries) == 0 {
		return nil, eris.New("benchmark: catalog has no usable rows")
	}
	return catalog, nil
}

func (c *Catalog) add(row Row) {
	bands, ok := c.rows[row.Industry]
	if !ok {
		bands = make(map[Band]map[string]Row)
		c.rows[row.Industry] = bands
		c.industries = append(c.industries, row.Industry)
	}
	metrics, ok := bands[row.Band]
	if !ok {
		metrics = make(map[string]Row)
		bands[row.Band] = metrics
	}
	metrics[row.Metric] = row
}

// =============================================================================
// DEFAULT AND CACHED CATALOGS
// =============================================================================

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog

	cacheMu sync.RWMutex
	cache   = make(map[string]*Catalog)
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(strings.NewReader(defaultCSV))
		if err != nil {
			panic(eris.Wrap(err, "benchmark: embedded catalog is invalid"))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// FromText parses CSV text, reusing an earlier parse of identical text.
// Blank text means the default catalog.
func FromText(text string) (*Catalog, error) {
	if strings.TrimSpace(text) == "" {
		return Default(), nil
	}

	cacheMu.RLock()
	c, ok := cache[text]
	cacheMu.RUnlock()
	if ok {
		return c, nil
	}

	c, err := Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[text] = c
	cacheMu.Unlock()
	return c, nil
}

// =============================================================================
// LOOKUP
// =============================================================================

// Industries lists industries in file order.
func (c *Catalog) Industries() []string {
	out := make([]string, len(c.industries))
	copy(out, c.industries)
	return out
}

// Bands lists the bands an industry has, smallest first.
func (c *Catalog) Bands(industry string) []Band {
	var out []Band
	for _, b := range bandOrder {
		if _, ok := c.rows[industry][b]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Lookup resolves the benchmark set for a company.
func (c *Catalog) Lookup(industry string, teamSize int) Selection {
	resolved := c.resolveIndustry(industry)
	if teamSize <= 0 {
		teamSize = defaultTeamSize
	}
	band := c.resolveBand(resolved, BandFor(teamSize))

	sel := Selection{Industry: resolved, Band: band}
	rows := c.rows[resolved][band]
	for _, name := range metricOrder {
		row, ok := rows[name]
		if !ok {
			continue
		}
		meta := metrics[name]
		sel.Set = append(sel.Set, generic.Benchmark{
			Name:        name,
			DisplayName: meta.displayName,
			Unit:        meta.unit,
			Lower:       row.Lower,
			Median:      row.Median,
			Upper:       row.Upper,
			Inverted:    meta.inverted,
			Description: describe(resolved, band, meta, row),
		})
	}
	return sel
}

// Resolve returns just the benchmark set for a company.
func (c *Catalog) Resolve(industry string, teamSize int) generic.BenchmarkSet {
	return c.Lookup(industry, teamSize).Set
}

func (c *Catalog) resolveIndustry(industry string) string {
	industry = strings.TrimSpace(industry)
	if _, ok := c.rows[industry]; ok {
		return industry
	}
	for _, known := range c.industries {
		if strings.EqualFold(known, industry) {
			return known
		}
	}
	if _, ok := c.rows[FallbackIndustry]; ok {
		return FallbackIndustry
	}
	return c.industries[0]
}

func (c *Catalog) resolveBand(industry string, requested Band) Band {
	bands := c.rows[industry]
	if _, ok := bands[requested]; ok {
		return requested
	}
	for _, b := range bandOrder {
		if _, ok := bands[b]; ok {
			return b
		}
	}
	return Band11to20
}
