// Package aggregate turns flat time entries into keyed, nested summaries
// and applies role-based visibility to them.
package aggregate

import (
	"time"

	"github.com/alexanderramin/tally/internal/domain"
)

// DateRange is an inclusive range of calendar days in the caller's
// reference time. Only the date part of Start and End is used.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days enumerates every calendar day of the range, ascending.
func (r DateRange) Days() []string {
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC)
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(domain.DateLayout))
	}
	return days
}

// Options carries the caller context GroupEntries needs beyond the entries.
type Options struct {
	UTCOffsetMinutes int
	Catalog          Catalog
	// Range turns on date fill when the only key is a date key.
	Range *DateRange
}

// Totals are the grand totals over an ungrouped entry set.
type Totals struct {
	Seconds int64
	Cost    int64
}

// TotalsOf sums duration and cost over every entry.
func TotalsOf(entries []*domain.TimeEntry) Totals {
	var t Totals
	for _, e := range entries {
		t.Seconds += e.DurationSeconds()
		t.Cost += e.Cost()
	}
	return t
}

// GroupEntries partitions entries by keys, one nesting level per key.
// Buckets keep the order in which their first entry appears. It returns
// nil when no key is given.
func GroupEntries(entries []*domain.TimeEntry, keys []domain.GroupKey, opts Options) []domain.Group {
	if len(keys) == 0 {
		return nil
	}
	fill := len(keys) == 1 && keys[0].IsDate() && opts.Range != nil
	return groupLevel(entries, keys, opts, fill)
}

type bucket struct {
	key     string
	entries []*domain.TimeEntry
}

func groupLevel(entries []*domain.TimeEntry, keys []domain.GroupKey, opts Options, fill bool) []domain.Group {
	key := keys[0]
	rest := keys[1:]

	var buckets []*bucket
	index := make(map[string]*bucket)
	for _, e := range entries {
		k := keyOf(e, key, opts)
		b, ok := index[k]
		if !ok {
			b = &bucket{key: k}
			index[k] = b
			buckets = append(buckets, b)
		}
		b.entries = append(b.entries, e)
	}

	if fill {
		return fillDays(index, key, opts)
	}

	groups := make([]domain.Group, 0, len(buckets))
	for _, b := range buckets {
		groups = append(groups, buildGroup(b, key, rest, opts))
	}
	return groups
}

func buildGroup(b *bucket, key domain.GroupKey, rest []domain.GroupKey, opts Options) domain.Group {
	totals := TotalsOf(b.entries)
	g := domain.Group{
		Key:     b.key,
		Name:    nameOf(key, b.key, opts),
		Seconds: totals.Seconds,
		Cost:    totals.Cost,
	}
	if len(rest) > 0 {
		next := rest[0]
		g.GroupedType = &next
		g.GroupedData = groupLevel(b.entries, rest, opts, false)
	}
	return g
}

// fillDays emits one group per day of the range. Days without entries get
// zero-valued groups; buckets outside the range are dropped.
func fillDays(index map[string]*bucket, key domain.GroupKey, opts Options) []domain.Group {
	days := opts.Range.Days()
	groups := make([]domain.Group, 0, len(days))
	for _, day := range days {
		if b, ok := index[day]; ok {
			groups = append(groups, buildGroup(b, key, nil, opts))
			continue
		}
		groups = append(groups, domain.Group{Key: day, Name: nameOf(key, day, opts)})
	}
	return groups
}
