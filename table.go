package pool

import "strings"

// TableEntry is a single key/value pair stored in a Table, in
// insertion order.
type TableEntry struct {
	Key string
	Val string
}

// Table is a case-insensitive, ordered string multimap layered over
// Array: it embeds *Array[TableEntry] directly so a *Table is usable
// anywhere a *Array[TableEntry] is expected, keeping table pointers
// array-compatible without raw struct-layout aliasing.
type Table struct {
	*Array[TableEntry]
}

// MakeTable allocates a table with room for n entries before the
// first growth.
func MakeTable(p *Pool, n int) *Table {
	return &Table{Array: MakeArray[TableEntry](p, n)}
}

func eqFold(a, b string) bool { return strings.EqualFold(a, b) }

func (t *Table) indexOf(key string) int {
	for i := 0; i < t.Len(); i++ {
		if eqFold(t.At(i).Key, key) {
			return i
		}
	}
	return -1
}

// TableGet returns the value of the first entry whose key matches
// (case-insensitively), or "" with ok=false if there is none.
func (t *Table) TableGet(key string) (string, bool) {
	if i := t.indexOf(key); i >= 0 {
		return t.At(i).Val, true
	}
	return "", false
}

// TableSetN overwrites the value of the first matching entry,
// dropping any further duplicates, or appends if there is no match.
// It assumes key and val already live at least as long as the table's
// pool.
func (t *Table) TableSetN(key, val string) {
	t.removeAllButFirst(key, val)
}

// TableSet is TableSetN but defensively duplicates key and val into
// the table's pool first.
func (t *Table) TableSet(key, val string) {
	t.removeAllButFirst(t.pool.StrDup(key), t.pool.StrDup(val))
}

func (t *Table) removeAllButFirst(key, val string) {
	found := false
	out := t.Slice()[:0]
	for i := 0; i < t.Len(); i++ {
		e := *t.At(i)
		if eqFold(e.Key, key) {
			if found {
				continue
			}
			e.Val = val
			found = true
		}
		out = append(out, e)
	}
	t.count = len(out)
	if !found {
		*t.Push() = TableEntry{Key: key, Val: val}
	}
}

// TableUnset removes every entry whose key matches.
func (t *Table) TableUnset(key string) {
	out := t.Slice()[:0]
	for i := 0; i < t.Len(); i++ {
		e := *t.At(i)
		if eqFold(e.Key, key) {
			continue
		}
		out = append(out, e)
	}
	t.count = len(out)
}

// TableMergeN replaces the value of the first matching entry with
// "oldval, val" or appends if there is no match. It assumes key and
// val already live at least as long as the table's pool.
func (t *Table) TableMergeN(key, val string) {
	if i := t.indexOf(key); i >= 0 {
		e := t.At(i)
		e.Val = e.Val + ", " + val
		return
	}
	*t.Push() = TableEntry{Key: key, Val: val}
}

// TableMerge is TableMergeN but defensively duplicates key and val.
func (t *Table) TableMerge(key, val string) {
	t.TableMergeN(t.pool.StrDup(key), t.pool.StrDup(val))
}

// TableAddN appends unconditionally, which may create duplicate keys.
// It assumes key and val already live at least as long as the
// table's pool.
func (t *Table) TableAddN(key, val string) {
	*t.Push() = TableEntry{Key: key, Val: val}
}

// TableAdd is TableAddN but defensively duplicates key and val.
func (t *Table) TableAdd(key, val string) {
	t.TableAddN(t.pool.StrDup(key), t.pool.StrDup(val))
}

// ClearTable drops every entry but retains the backing storage.
func (t *Table) ClearTable() {
	t.count = 0
}

// CopyTable deep-copies t's header and entry array into p. The
// entries' key and value strings are shared with t, so t's pool must
// outlive p.
func CopyTable(p *Pool, t *Table) *Table {
	return &Table{Array: CopyArray(p, t.Array)}
}

// OverlayTables returns a table, allocated from p, whose iteration
// yields every entry of top followed by every entry of bottom. A push
// on the result triggers copy-on-write growth and never mutates top
// or bottom.
func OverlayTables(p *Pool, top, bottom *Table) *Table {
	return &Table{Array: AppendArrays(p, top.Array, bottom.Array)}
}

// TableVisitor inspects one entry and returns false to stop the walk.
type TableVisitor func(key, val string) bool

// TableDo walks t. With no keys given it walks every entry once,
// stopping as soon as the visitor returns false. With keys given, it
// walks the whole table once per key, invoking the visitor only for
// matching entries; a false return aborts that key's pass but not the
// next key's. Duplicate keys produce duplicate traversals.
func (t *Table) TableDo(visit TableVisitor, keys ...string) {
	if len(keys) == 0 {
		for i := 0; i < t.Len(); i++ {
			e := t.At(i)
			if !visit(e.Key, e.Val) {
				return
			}
		}
		return
	}
	for _, key := range keys {
		for i := 0; i < t.Len(); i++ {
			e := t.At(i)
			if !eqFold(e.Key, key) {
				continue
			}
			if !visit(e.Key, e.Val) {
				break
			}
		}
	}
}
