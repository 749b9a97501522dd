// Package layoffs turns raw layoff-event records into a de-duplicated,
// typed, null-normalized table.
//
// Cleaning runs as four stages whose types enforce their order:
//
//	RawTable -> Stage -> StagedTable
//	         -> Deduplicate -> DedupedTable
//	         -> Standardize -> StandardizedTable
//	         -> Reconcile -> CleanTable
//
// Every stage copies its input, so a failed stage leaves the caller with the
// previous table untouched. Cleaner runs all four and collects a Report.
package layoffs
