// Package layoffstest generates messy raw layoff data for tests, demos and
// benchmarks.
package layoffstest

import (
	"math/rand"

	"github.com/wdm0006/layoffs/pkg/layoffs"
)

// Options control the generator. Probabilities are per record.
type Options struct {
	Seed      int64
	Duplicate float64 // chance a record repeats an earlier one exactly
	Absent    float64 // chance a field is a JSON-style null rather than text
}

// DefaultOptions produce roughly one duplicate in ten records.
var DefaultOptions = Options{Seed: 42, Duplicate: 0.1, Absent: 0.05}

var (
	companies  = []string{"Acme", " Acme", "Acme ", "Beta Labs", "BitCo", "Delta", "Echo Health", "Foxtrot", "Gamma AI", "NULL", ""}
	locations  = []string{"SF Bay Area", "New York City", "Berlin", "Toronto", "Bengaluru"}
	industries = []string{"Retail", "Crypto", "Crypto Currency", "CryptoCurrency", "Fintech", "Healthcare", "", "", "NULL"}
	totals     = []string{"12", "100", "250", "1300", "", "NULL", "-3", "lots"}
	pcts       = []string{"0.05", "0.1", "0.25", "1", "", "NULL", "1.5", "half"}
	dates      = []string{"3/9/2023", "12/1/2022", "01/15/2023", "11/30/2022", "not-a-date", "2/30/2023", "", "NULL"}
	stages     = []string{"Seed", "Series A", "Series B", "Post-IPO", "Unknown", "", "NULL"}
	countries  = []string{"United States", "United States.", "United States..", "Canada", "Germany", "India", ""}
	funds      = []string{"0", "12.5", "50", "1200", "", "NULL", "n/a"}
)

// Generate returns n raw records drawn with the given options.
func Generate(n int, opt Options) []layoffs.RawRecord {
	rnd := rand.New(rand.NewSource(opt.Seed))
	pick := func(vals []string) *string {
		if rnd.Float64() < opt.Absent {
			return nil
		}
		return layoffs.Text(vals[rnd.Intn(len(vals))])
	}
	out := make([]layoffs.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 && rnd.Float64() < opt.Duplicate {
			out = append(out, out[rnd.Intn(len(out))])
			continue
		}
		out = append(out, layoffs.RawRecord{
			Company:             pick(companies),
			Location:            pick(locations),
			Industry:            pick(industries),
			TotalLaidOff:        pick(totals),
			PercentageLaidOff:   pick(pcts),
			Date:                pick(dates),
			Stage:               pick(stages),
			Country:             pick(countries),
			FundsRaisedMillions: pick(funds),
		})
	}
	return out
}

// Strings renders records as rows of text, header first, with absent
// fields written as "".
func Strings(records []layoffs.RawRecord) [][]string {
	out := make([][]string, 0, len(records)+1)
	out = append(out, append([]string(nil), layoffs.BusinessFields...))
	for _, r := range records {
		cells := []*string{
			r.Company, r.Location, r.Industry, r.TotalLaidOff, r.PercentageLaidOff,
			r.Date, r.Stage, r.Country, r.FundsRaisedMillions,
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			if c != nil {
				row[i] = *c
			}
		}
		out = append(out, row)
	}
	return out
}
