package pool

import (
	"bufio"
	"net"
	"os"
	"regexp"
)

// Each resource wrapper below pairs an "open" call with a cleanup
// registered under a fixed (onDestroy, onExec) pair chosen per
// resource kind, and a matching "close" call that closes the resource
// and removes its cleanup atomically with respect to asynchronous
// interruption (RunCleanup already provides that atomicity).

// POpenFD opens a raw file descriptor and registers its cleanup.
func POpenFD(p *Pool, name string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, wrapErrno("open", err)
	}
	p.RegisterCleanup(f, closeFD, closeFD)
	return f, nil
}

func closeFD(data interface{}) error { return data.(*os.File).Close() }

// PCloseFD closes f and removes its cleanup.
func PCloseFD(p *Pool, f *os.File) error {
	return p.RunCleanup(f, closeFD)
}

// BufStream pairs a file with a buffered writer, the Go analogue of a
// C FILE*: closing it flushes first, but the on-exec path closes the
// bare descriptor without flushing, to avoid a double flush racing a
// child process that inherited the same descriptor.
type BufStream struct {
	File *os.File
	W    *bufio.Writer
	R    *bufio.Reader
}

// PFOpen opens name with os.OpenFile and wraps the file as a buffered
// stream via PFdopen. flag and perm are passed through unchanged:
// append mode is whatever O_APPEND (and, if wanted, O_CREATE) the
// caller puts in flag; PFOpen adds no flags of its own.
func PFOpen(p *Pool, name string, flag int, perm os.FileMode) (*BufStream, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, wrapErrno("fopen", err)
	}
	return PFdopen(p, f), nil
}

// PFdopen wraps an already-open file as a buffered stream and
// registers its cleanup.
func PFdopen(p *Pool, f *os.File) *BufStream {
	s := &BufStream{File: f, W: bufio.NewWriter(f), R: bufio.NewReader(f)}
	p.RegisterCleanup(s, streamDestroyCleanup, streamExecCleanup)
	return s
}

func streamDestroyCleanup(data interface{}) error {
	s := data.(*BufStream)
	if err := s.W.Flush(); err != nil {
		return err
	}
	return s.File.Close()
}

func streamExecCleanup(data interface{}) error {
	return data.(*BufStream).File.Close()
}

// PFClose flushes, closes, and removes the cleanup for s.
func PFClose(p *Pool, s *BufStream) error {
	return p.RunCleanup(s, streamDestroyCleanup)
}

// POpenDir opens a directory handle and registers its cleanup.
func POpenDir(p *Pool, path string) (*os.File, error) {
	d, err := os.Open(path)
	if err != nil {
		return nil, wrapErrno("opendir", err)
	}
	info, err := d.Stat()
	if err != nil {
		d.Close()
		return nil, wrapErrno("opendir", err)
	}
	if !info.IsDir() {
		d.Close()
		return nil, wrapErrno("opendir", os.ErrInvalid)
	}
	p.RegisterCleanup(d, closeFD, closeFD)
	return d, nil
}

// PCloseDir closes a directory handle opened with POpenDir.
func PCloseDir(p *Pool, d *os.File) error {
	return PCloseFD(p, d)
}

// PListen opens a listening socket and registers its cleanup.
func PListen(p *Pool, network, address string) (net.Listener, error) {
	l, err := net.Listen(network, address)
	if err != nil {
		return nil, wrapErrno("socket", err)
	}
	p.RegisterCleanup(l, closeListener, closeListener)
	return l, nil
}

func closeListener(data interface{}) error { return data.(net.Listener).Close() }

// PDial opens a connected socket and registers its cleanup.
func PDial(p *Pool, network, address string) (net.Conn, error) {
	c, err := net.Dial(network, address)
	if err != nil {
		return nil, wrapErrno("socket", err)
	}
	p.RegisterCleanup(c, closeConn, closeConn)
	return c, nil
}

func closeConn(data interface{}) error { return data.(net.Conn).Close() }

// PCloseListener closes a listener previously returned by PListen and
// removes its cleanup.
func PCloseListener(p *Pool, l net.Listener) error {
	return p.RunCleanup(l, closeListener)
}

// PCloseSocket closes a connection previously returned by PDial and
// removes its cleanup.
func PCloseSocket(p *Pool, c net.Conn) error {
	return p.RunCleanup(c, closeConn)
}

// PRegcomp compiles expr and registers its cleanup. Go's regexp
// values need no explicit release — the garbage collector reclaims
// them — so the registered cleanup is a no-op; it exists so callers
// that defensively call PRegfree for symmetry with the other wrappers
// get the same RunCleanup atomicity guarantee rather than depending on
// Go's regexp package behaving like a real resource.
func PRegcomp(p *Pool, expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, wrapErrno("regcomp", err)
	}
	p.RegisterCleanup(re, NullCleanup, NullCleanup)
	return re, nil
}

// PRegfree removes the cleanup registered for re. It performs no
// actual release, see PRegcomp.
func PRegfree(p *Pool, re *regexp.Regexp) {
	_ = p.RunCleanup(re, NullCleanup)
}
