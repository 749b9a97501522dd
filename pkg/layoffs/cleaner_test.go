package layoffs_test

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wdm0006/layoffs/pkg/io/csvio"
	"github.com/wdm0006/layoffs/pkg/layoffs"
	"github.com/wdm0006/layoffs/pkg/layoffs/layoffstest"
	std "github.com/wdm0006/layoffs/pkg/transform/standardize"
)

func loadCSV(t testing.TB, path string) layoffs.RawTable {
	t.Helper()
	r, closer, err := csvio.Open(path, csvio.ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer closer.Close()
	f, err := r.ReadRaw()
	require.NoError(t, err)
	raw, err := layoffs.RawFromFrame(f)
	require.NoError(t, err)
	return raw
}

func TestCleanGolden(t *testing.T) {
	clean, rep, err := layoffs.NewCleaner().Run(context.Background(), loadCSV(t, "testdata/messy.csv"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, csvio.Write(&out, clean.Frame(), csvio.WriterOptions{}))

	counts := rep.Counts()
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)
	var report bytes.Buffer
	for _, k := range names {
		fmt.Fprintf(&report, "%s %d\n", k, counts[k])
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "messy_clean", out.Bytes())
	g.Assert(t, "messy_report", report.Bytes())
}

func TestCleanerLogsStages(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := layoffs.NewCleaner(layoffs.WithLogger(zap.New(core)))
	_, rep, err := c.Run(context.Background(), loadCSV(t, "testdata/messy.csv"))
	require.NoError(t, err)

	stages := logs.FilterMessage("stage complete").All()
	require.Len(t, stages, 4)
	var order []string
	for _, e := range stages {
		order = append(order, e.ContextMap()["stage"].(string))
		assert.Equal(t, rep.RunID, e.ContextMap()["run_id"])
	}
	assert.Equal(t, []string{
		layoffs.StageStaging, layoffs.StageDeduplication, layoffs.StageStandardization, layoffs.StageReconciliation,
	}, order)
	warn := logs.FilterMessage("values could not be coerced").All()
	require.Len(t, warn, 1)
	assert.Equal(t, layoffs.ColDate, warn[0].ContextMap()["column"])
	assert.Equal(t, 1, logs.FilterMessage("cleaning finished").Len())
}

func TestCleanerOptions(t *testing.T) {
	c := layoffs.NewCleaner(
		layoffs.WithDateLayout("2006-01-02"),
		layoffs.WithNullTokens("NULL", "n/a"),
		layoffs.WithBackfillKeys(layoffs.ColCompany, layoffs.ColLocation),
		layoffs.WithLogger(nil),
	)
	opts := c.Options()
	assert.Equal(t, "2006-01-02", opts.DateLayout)
	assert.Equal(t, []string{"NULL", "n/a"}, opts.NullTokens)
	assert.Equal(t, []string{layoffs.ColCompany, layoffs.ColLocation}, opts.BackfillKeys)

	raw := layoffs.NewRawTable([]layoffs.RawRecord{{
		Company:             layoffs.Text("Acme"),
		TotalLaidOff:        layoffs.Text("n/a"),
		PercentageLaidOff:   layoffs.Text("0.2"),
		Date:                layoffs.Text("2023-03-09"),
		FundsRaisedMillions: layoffs.Text("n/a"),
	}})
	clean, rep, err := c.Run(context.Background(), raw)
	require.NoError(t, err)
	r := clean.Records()[0]
	assert.Equal(t, time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC), r.Date.V)
	assert.False(t, r.TotalLaidOff.Valid)
	assert.Empty(t, rep.CoercionFailures)
	assert.Equal(t, "2023-03-09", *clean.RawRecords()[0].Date)
}

func runClean(t testing.TB, records []layoffs.RawRecord) (layoffs.CleanTable, layoffs.Report) {
	t.Helper()
	clean, rep, err := layoffs.NewCleaner().Run(context.Background(), layoffs.NewRawTable(records))
	require.NoError(t, err)
	return clean, rep
}

func TestGeneratedProperties(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2023} {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			opt := layoffstest.DefaultOptions
			opt.Seed = seed
			opt.Duplicate = 0.3
			records := layoffstest.Generate(400, opt)
			raw := layoffs.NewRawTable(records)
			clean, rep := runClean(t, records)

			distinct, err := raw.Frame().RowKeys(layoffs.BusinessFields)
			require.NoError(t, err)
			set := map[string]struct{}{}
			for _, k := range distinct {
				set[k] = struct{}{}
			}
			assert.Equal(t, len(set), rep.Deduplicated, "one survivor per distinct raw tuple")
			assert.LessOrEqual(t, clean.Len(), len(set))
			assert.Equal(t, rep.Raw, rep.Staged)
			assert.Equal(t, rep.Deduplicated, rep.Standardized)
			assert.Equal(t, rep.Standardized-rep.DroppedNoSignal, rep.Reconciled)
			assert.Equal(t, rep.Reconciled-rep.ResidualDuplicates, rep.Final)

			keys, err := clean.Frame().RowKeys(layoffs.BusinessFields)
			require.NoError(t, err)
			seen := map[string]bool{}
			for _, k := range keys {
				assert.False(t, seen[k], "clean rows are unique")
				seen[k] = true
			}

			withIndustry := map[string]bool{}
			for _, r := range clean.Records() {
				assert.True(t, r.TotalLaidOff.Valid || r.PercentageLaidOff.Valid, "a layoff metric is present")
				for _, s := range []struct {
					name string
					v    *string
				}{
					{"company", nullable(r.Company.V, r.Company.Valid)},
					{"location", nullable(r.Location.V, r.Location.Valid)},
					{"industry", nullable(r.Industry.V, r.Industry.Valid)},
					{"stage", nullable(r.Stage.V, r.Stage.Valid)},
					{"country", nullable(r.Country.V, r.Country.Valid)},
				} {
					if s.v != nil {
						assert.NotContains(t, []string{"", "NULL"}, *s.v, s.name)
					}
				}
				if r.TotalLaidOff.Valid {
					assert.GreaterOrEqual(t, r.TotalLaidOff.V, int64(0))
				}
				if r.PercentageLaidOff.Valid {
					assert.True(t, r.PercentageLaidOff.V >= 0 && r.PercentageLaidOff.V <= 1)
				}
				if r.Country.Valid {
					assert.NotRegexp(t, `^United States\.+$`, r.Country.V)
				}
				if r.Industry.Valid && r.Company.Valid {
					withIndustry[r.Company.V] = true
				}
			}
			for _, r := range clean.Records() {
				if r.Company.Valid && !r.Industry.Valid {
					assert.False(t, withIndustry[r.Company.V], "industry left null although a sibling has one")
				}
			}
		})
	}
}

func nullable(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

func TestCleaningIsIdempotent(t *testing.T) {
	for _, seed := range []int64{3, 42, 99} {
		opt := layoffstest.DefaultOptions
		opt.Seed = seed
		first, _ := runClean(t, layoffstest.Generate(300, opt))
		second, rep := runClean(t, first.RawRecords())

		assert.Equal(t, first.Records(), second.Records(), "seed %d", seed)
		assert.Zero(t, rep.DuplicatesRemoved)
		assert.Zero(t, rep.ResidualDuplicates)
		assert.Zero(t, rep.Backfilled)
		assert.Zero(t, rep.DroppedNoSignal)
		assert.Empty(t, rep.CoercionFailures)
		assert.Empty(t, rep.Rewrites)
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	raw := layoffs.NewRawTable(layoffstest.Generate(100, layoffstest.DefaultOptions))
	before := raw.Frame()
	_, _, err := layoffs.NewCleaner().Run(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, before, raw.Frame())
}

func TestSharedCleanerCountsPerRun(t *testing.T) {
	c := layoffs.NewCleaner(layoffs.WithRules(&std.Trim{Column: layoffs.ColCompany}))
	raw := layoffs.NewRawTable([]layoffs.RawRecord{
		{Company: layoffs.Text(" Acme"), TotalLaidOff: layoffs.Text("10")},
		{Company: layoffs.Text("Beta"), TotalLaidOff: layoffs.Text("20")},
	})

	const runs = 8
	reps := make([]layoffs.Report, runs)
	errs := make([]error, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, reps[i], errs[i] = c.Run(context.Background(), raw)
		}(i)
	}
	wg.Wait()
	for i := range reps {
		require.NoError(t, errs[i])
		assert.Equal(t, 1, reps[i].Rewrites["company.trim"], "run %d", i)
	}
}

func BenchmarkCleanerRun(b *testing.B) {
	raw := layoffs.NewRawTable(layoffstest.Generate(10000, layoffstest.DefaultOptions))
	c := layoffs.NewCleaner()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := c.Run(context.Background(), raw); err != nil {
			b.Fatal(err)
		}
	}
}
