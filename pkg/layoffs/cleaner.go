package layoffs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// Cleaner runs the four stages in order and reports what each one did.
// Rule transforms keep their counters between runs, so Run calls on one
// Cleaner are serialized; use one Cleaner per goroutine for parallel runs.
type Cleaner struct {
	mu   sync.Mutex
	log  *zap.Logger
	opts Options
	now  func() time.Time
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cleaner) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRules replaces the default standardization rule table. The
// transforms are owned by the Cleaner from then on.
func WithRules(rules ...j.Transform) Option {
	return func(c *Cleaner) { c.opts.Rules = rules }
}

func WithDateLayout(layout string) Option {
	return func(c *Cleaner) { c.opts.DateLayout = layout }
}

func WithNullTokens(tokens ...string) Option {
	return func(c *Cleaner) { c.opts.NullTokens = tokens }
}

// WithBackfillKeys sets the columns a row must share with a sibling to
// borrow its industry.
func WithBackfillKeys(keys ...string) Option {
	return func(c *Cleaner) { c.opts.BackfillKeys = keys }
}

func NewCleaner(opts ...Option) *Cleaner {
	c := &Cleaner{log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Options returns the effective stage options.
func (c *Cleaner) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// Run cleans raw. On failure the report still holds the counts of the
// stages that completed.
func (c *Cleaner) Run(ctx context.Context, raw RawTable) (CleanTable, Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := c.now()
	rep := Report{
		RunID:            uuid.NewString(),
		StartedAt:        start,
		Raw:              raw.Len(),
		CoercionFailures: map[string]int{},
		Rewrites:         map[string]int{},
		Blanked:          map[string]int{},
	}
	log := c.log.With(zap.String("run_id", rep.RunID))
	done := func() { rep.Duration = c.now().Sub(start) }
	fail := func(err error) (CleanTable, Report, error) {
		done()
		log.Error("cleaning failed", zap.Error(err))
		return CleanTable{}, rep, err
	}
	boundary := func(stage string, in, out int) {
		log.Info("stage complete", zap.String("stage", stage), zap.Int("rows_in", in), zap.Int("rows_out", out))
	}

	staged, err := Stage(ctx, raw)
	if err != nil {
		return fail(err)
	}
	rep.Staged = staged.Len()
	boundary(StageStaging, rep.Raw, rep.Staged)

	deduped, err := Deduplicate(ctx, staged)
	if err != nil {
		return fail(err)
	}
	rep.Deduplicated = deduped.Len()
	rep.absorb(deduped.counts)
	boundary(StageDeduplication, rep.Staged, rep.Deduplicated)

	standardized, err := Standardize(ctx, deduped, c.opts)
	if err != nil {
		return fail(err)
	}
	rep.Standardized = standardized.Len()
	rep.absorb(standardized.counts)
	boundary(StageStandardization, rep.Deduplicated, rep.Standardized)
	for col, n := range rep.CoercionFailures {
		log.Warn("values could not be coerced", zap.String("column", col), zap.Int("failures", n))
	}

	clean, err := Reconcile(ctx, standardized, c.opts)
	if err != nil {
		return fail(err)
	}
	rep.Final = clean.Len()
	rep.absorb(clean.counts)
	boundary(StageReconciliation, rep.Standardized, rep.Final)

	done()
	log.Info("cleaning finished",
		zap.Int("raw", rep.Raw),
		zap.Int("final", rep.Final),
		zap.Int("duplicates_removed", rep.DuplicatesRemoved+rep.ResidualDuplicates),
		zap.Int("backfilled", rep.Backfilled),
		zap.Duration("duration", rep.Duration))
	return clean, rep, nil
}
