package pool

import (
	"fmt"
	"unsafe"
)

// poolWriter is the Go analogue of the writer the source this package
// is grounded on drives its format helper through: it accumulates
// output directly into the pool's active block, and only acquires
// (and, if it overflows more than once, discards) scratch blocks when
// the active block runs out of room.
type poolWriter struct {
	p     *Pool
	blk   *block
	start int
	cur   int
	grew  bool
}

func (w *poolWriter) Write(chunk []byte) (int, error) {
	need := len(chunk)
	for w.cur+need >= w.blk.endp { // leave one byte for the terminator
		used := w.cur - w.start
		newSize := (used + need) * 2
		if newSize < clickSize {
			newSize = clickSize
		}
		nb := w.p.store.acquire(newSize)
		copy(nb.buf, w.blk.buf[w.start:w.cur])
		if w.grew {
			w.p.store.release(w.blk)
		}
		w.blk = nb
		w.cur = used
		w.start = 0
		w.grew = true
	}
	copy(w.blk.buf[w.cur:], chunk)
	w.cur += need
	return need, nil
}

func (w *poolWriter) finish() string {
	w.blk.buf[w.cur] = 0
	usedLen := w.cur - w.start
	rounded := roundUpToClick(usedLen + 1)
	if w.start+rounded > w.blk.endp {
		rounded = w.blk.endp - w.start
	}
	if w.grew {
		w.blk.first = rounded
		blockInterruptions()
		w.p.last.next = w.blk
		w.p.last = w.blk
		unblockInterruptions()
	} else {
		w.blk.first = w.start + rounded
	}
	if usedLen == 0 {
		return ""
	}
	return unsafe.String(&w.blk.buf[w.start], usedLen)
}

// Sprintf formats according to a format specifier and returns the
// result as a string allocated directly from p's active block,
// growing into a fresh block (and only then linking it into p) if the
// formatted output does not fit in the space currently available.
func (p *Pool) Sprintf(format string, args ...interface{}) string {
	return p.vsprintf(format, args)
}

// VSprintf is Sprintf taking its arguments as a slice, the Go
// analogue of the source's va_list-driven pvsprintf.
func (p *Pool) VSprintf(format string, args []interface{}) string {
	return p.vsprintf(format, args)
}

func (p *Pool) vsprintf(format string, args []interface{}) string {
	p.assertAlive()
	w := &poolWriter{p: p, blk: p.last, start: p.last.first, cur: p.last.first}
	fmt.Fprintf(w, format, args...)
	return w.finish()
}
