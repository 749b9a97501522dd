package layoffs

import (
	"context"
	"fmt"

	j "github.com/wdm0006/layoffs/pkg/janitor"
	"github.com/wdm0006/layoffs/pkg/transform/dedup"
	"github.com/wdm0006/layoffs/pkg/transform/filter"
	"github.com/wdm0006/layoffs/pkg/transform/impute"
	std "github.com/wdm0006/layoffs/pkg/transform/standardize"
	"github.com/wdm0006/layoffs/pkg/transform/validate"
)

// Stage names used in StageError and logs.
const (
	StageStaging         = "staging"
	StageDeduplication   = "deduplication"
	StageStandardization = "standardization"
	StageReconciliation  = "reconciliation"
)

// table is the shared body of the intermediate stage types.
type table struct {
	f      *j.Frame
	counts map[string]int
}

func (t table) Len() int { return t.f.Rows() }

// Frame returns a copy of the table.
func (t table) Frame() *j.Frame { return t.f.Clone() }

// Counts returns the counters reported by the stage that built the table.
func (t table) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// StagedTable is the raw data plus a row_num duplicate rank.
type StagedTable struct{ table }

// DedupedTable holds exactly one row per distinct raw business tuple.
type DedupedTable struct{ table }

// StandardizedTable has normalized text fields and typed date and metrics.
type StandardizedTable struct{ table }

// Stage copies raw into a working table and ranks each row within its group
// of identical business tuples, in source order.
func Stage(ctx context.Context, raw RawTable) (StagedTable, error) {
	in := raw.frame()
	p := j.NewPipeline(&dedup.RowNumber{Partition: BusinessFields, Column: ColRowNum})
	out, err := p.Run(ctx, in.Clone())
	if err != nil {
		return StagedTable{}, &StageError{Stage: StageStaging, Err: err}
	}
	if out.Rows() != in.Rows() {
		return StagedTable{}, &StageError{Stage: StageStaging, Invariant: "staged count equals raw count",
			Err: fmt.Errorf("%w: raw %d, staged %d", ErrInvariant, in.Rows(), out.Rows())}
	}
	return StagedTable{table{f: out, counts: map[string]int{}}}, nil
}

// Deduplicate keeps the rank-1 row of every group, then checks that no two
// survivors still match on all business fields.
func Deduplicate(ctx context.Context, s StagedTable) (DedupedTable, error) {
	p := j.NewPipeline(&dedup.KeepFirst{Column: ColRowNum})
	out, err := p.Run(ctx, s.f.Clone())
	if err != nil {
		return DedupedTable{}, &StageError{Stage: StageDeduplication, Err: err}
	}
	if _, err := (&validate.Unique{Columns: BusinessFields}).Apply(ctx, out); err != nil {
		return DedupedTable{}, &StageError{Stage: StageDeduplication, Invariant: "one survivor per business tuple",
			Err: fmt.Errorf("%w: %w", ErrDuplicatesRemain, err)}
	}
	return DedupedTable{table{f: out, counts: p.Counts()}}, nil
}

// Standardize applies the rule table and then coerces the date and the
// three metric fields. Unparseable values become null and are counted
// under "<field>.coerce_failures"; they never fail the stage.
func Standardize(ctx context.Context, d DedupedTable, opt Options) (StandardizedTable, error) {
	zero, one := 0.0, 1.0
	tokens := opt.nullTokens()
	p := j.NewPipeline(opt.rules()...).
		Add(&std.ParseDate{Column: ColDate, Layout: opt.dateLayout(), NullTokens: tokens}).
		Add(&std.ParseNumber{Column: ColTotalLaidOff, Kind: j.KindInt, Min: &zero, NullTokens: tokens}).
		Add(&std.ParseNumber{Column: ColPercentageLaidOff, Kind: j.KindFloat, Min: &zero, Max: &one, NullTokens: tokens}).
		Add(&std.ParseNumber{Column: ColFundsRaisedMillions, Kind: j.KindFloat, Min: &zero, NullTokens: tokens})
	out, err := p.Run(ctx, d.f.Clone())
	if err != nil {
		return StandardizedTable{}, &StageError{Stage: StageStandardization, Err: err}
	}
	if out.Rows() != d.f.Rows() {
		return StandardizedTable{}, &StageError{Stage: StageStandardization, Invariant: "standardization keeps every row",
			Err: fmt.Errorf("%w: in %d, out %d", ErrInvariant, d.f.Rows(), out.Rows())}
	}
	return StandardizedTable{table{f: out, counts: p.Counts()}}, nil
}

// Reconcile turns blank text into nulls, backfills industry from sibling
// rows, drops rows with neither layoff metric, removes the rank column and
// collapses rows the earlier stages made identical. The result is checked
// against the clean-table invariants before it is returned.
func Reconcile(ctx context.Context, s StandardizedTable, opt Options) (CleanTable, error) {
	zero, one := 0.0, 1.0
	fill := j.NewPipeline(
		&std.BlankToNull{Columns: TextFields, Tokens: opt.nullTokens()},
		&impute.Sibling{Keys: opt.backfillKeys(), Column: ColIndustry},
		&filter.DropAllNull{Columns: []string{ColTotalLaidOff, ColPercentageLaidOff}},
	)
	out, err := fill.Run(ctx, s.f.Clone())
	if err != nil {
		return CleanTable{}, &StageError{Stage: StageReconciliation, Err: err}
	}
	counts := fill.Counts()
	counts["reconciled_rows"] = out.Rows()

	collapse := &dedup.DropDuplicates{Columns: BusinessFields}
	out, err = collapse.Apply(ctx, out.DropColumn(ColRowNum))
	if err != nil {
		return CleanTable{}, &StageError{Stage: StageReconciliation, Err: err}
	}
	counts["residual_duplicates"] = collapse.Counts()["duplicates_removed"]

	checks := []struct {
		invariant string
		check     j.Transform
	}{
		{"no blank text", &validate.NotBlank{}},
		{"a layoff metric is present", &validate.AnyPresent{Columns: []string{ColTotalLaidOff, ColPercentageLaidOff}}},
		{"business tuples are unique", &validate.Unique{Columns: BusinessFields}},
		{"metrics within bounds", &validate.Range{Column: ColTotalLaidOff, Min: &zero}},
		{"metrics within bounds", &validate.Range{Column: ColPercentageLaidOff, Min: &zero, Max: &one}},
		{"metrics within bounds", &validate.Range{Column: ColFundsRaisedMillions, Min: &zero}},
	}
	for _, c := range checks {
		if _, err := c.check.Apply(ctx, out); err != nil {
			return CleanTable{}, &StageError{Stage: StageReconciliation, Invariant: c.invariant,
				Err: fmt.Errorf("%w: %w", ErrInvariant, err)}
		}
	}
	if _, ok := out.ColumnByName(ColRowNum); ok {
		return CleanTable{}, &StageError{Stage: StageReconciliation, Invariant: "rank column removed", Err: ErrInvariant}
	}
	return CleanTable{f: out, counts: counts, layout: opt.dateLayout()}, nil
}
