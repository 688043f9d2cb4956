package table

import (
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
	"golang.org/x/text/cases"
)

// LookupOptions controls how keys are compared.
type LookupOptions struct {
	// FoldCase compares text keys case-insensitively.
	FoldCase bool
}

// DefaultLookupOptions matches names exactly after case normalisation.
func DefaultLookupOptions() LookupOptions {
	return LookupOptions{FoldCase: true}
}

// LookupOption configures a lookup.
type LookupOption func(*LookupOptions)

// WithFoldCase sets whether text keys are compared case-insensitively.
func WithFoldCase(fold bool) LookupOption {
	return func(o *LookupOptions) {
		o.FoldCase = fold
	}
}

// WithLookupOptions replaces the options wholesale, typically from config.
func WithLookupOptions(opts LookupOptions) LookupOption {
	return func(o *LookupOptions) {
		*o = opts
	}
}

func lookupOptions(opts []LookupOption) LookupOptions {
	o := DefaultLookupOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RowLookup returns the first row whose column equals key. A missing key is
// reported with found == false rather than an error; an unknown column or an
// unsupported key type is an error.
func (t *Table) RowLookup(column string, key any, opts ...LookupOption) (Row, bool, error) {
	s, exists := t.columns[column]
	if !exists {
		return Row{}, false, errors.NewColumnNotFoundError("RowLookup", column)
	}
	want, err := series.ValueOf(key)
	if err != nil {
		return Row{}, false, &errors.TableError{
			Kind:    errors.KindTypeUnsupported,
			Op:      "RowLookup",
			Column:  column,
			Message: "unsupported key",
			Cause:   err,
		}
	}

	o := lookupOptions(opts)
	for i := 0; i < s.Len(); i++ {
		if s.Value(i).Equal(want, o.FoldCase) {
			return t.row(i), true, nil
		}
	}
	return Row{}, false, nil
}

// Contains reports whether any row's column equals key.
func (t *Table) Contains(column string, key any, opts ...LookupOption) (bool, error) {
	_, found, err := t.RowLookup(column, key, opts...)
	return found, err
}

// KeyIndex is a hash index over one column for repeated lookups. Keys are
// hashed with xxhash after normalisation; collisions are resolved with
// Value.Equal, so the index answers exactly like RowLookup.
type KeyIndex struct {
	table   *Table
	column  string
	fold    bool
	buckets map[uint64][]keyEntry
	keys    []series.Value // distinct keys, first-appearance order
}

type keyEntry struct {
	key  series.Value
	rows []int
}

// Index builds a KeyIndex over column.
func (t *Table) Index(column string, opts ...LookupOption) (*KeyIndex, error) {
	s, exists := t.columns[column]
	if !exists {
		return nil, errors.NewColumnNotFoundError("Index", column)
	}

	o := lookupOptions(opts)
	ix := &KeyIndex{
		table:   t,
		column:  column,
		fold:    o.FoldCase,
		buckets: make(map[uint64][]keyEntry, s.Len()),
	}
	for i := 0; i < s.Len(); i++ {
		ix.put(s.Value(i), i)
	}
	return ix, nil
}

// hash maps every pair of keys Value.Equal accepts to the same bucket. Text
// is case-folded with full Unicode folding, which is coarser than the simple
// folding strings.EqualFold uses, so folded-equal keys always share a hash.
func (ix *KeyIndex) hash(v series.Value) uint64 {
	if v.Kind().Numeric() {
		f := v.Float()
		if f == 0 {
			f = 0 // -0 equals 0
		}
		return xxhash.Sum64String("n:" + strconv.FormatFloat(f, 'g', -1, 64))
	}
	s := v.Text()
	if ix.fold {
		s = cases.Fold().String(s)
	}
	return xxhash.Sum64String("s:" + s)
}

func (ix *KeyIndex) put(v series.Value, row int) {
	h := ix.hash(v)
	bucket := ix.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(v, ix.fold) {
			bucket[i].rows = append(bucket[i].rows, row)
			return
		}
	}
	ix.buckets[h] = append(bucket, keyEntry{key: v, rows: []int{row}})
	ix.keys = append(ix.keys, v)
}

func (ix *KeyIndex) entry(key any) *keyEntry {
	v, err := series.ValueOf(key)
	if err != nil {
		return nil
	}
	bucket := ix.buckets[ix.hash(v)]
	for i := range bucket {
		if bucket[i].key.Equal(v, ix.fold) {
			return &bucket[i]
		}
	}
	return nil
}

// Column returns the indexed column name.
func (ix *KeyIndex) Column() string {
	return ix.column
}

// Rows returns the indexes of every row matching key, in row order.
func (ix *KeyIndex) Rows(key any) []int {
	e := ix.entry(key)
	if e == nil {
		return nil
	}
	return append([]int(nil), e.rows...)
}

// Count returns the number of rows matching key.
func (ix *KeyIndex) Count(key any) int {
	e := ix.entry(key)
	if e == nil {
		return 0
	}
	return len(e.rows)
}

// Lookup returns the first row matching key.
func (ix *KeyIndex) Lookup(key any) (Row, bool) {
	e := ix.entry(key)
	if e == nil {
		return Row{}, false
	}
	return ix.table.row(e.rows[0]), true
}

// Keys returns the distinct keys in order of first appearance.
func (ix *KeyIndex) Keys() []series.Value {
	return append([]series.Value(nil), ix.keys...)
}

// Len returns the number of distinct keys.
func (ix *KeyIndex) Len() int {
	return len(ix.keys)
}
