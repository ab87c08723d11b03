// Package serve implements the HTTP responder: fixed 501/404 templates and
// the 200 path that streams a file body in REQUEST_BUF_SIZE chunks.
package serve

import (
	"fmt"
	"os"
	"strings"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/sys/unix"

	"github.com/lwander/tils/pkg/tils/conn"
	"github.com/lwander/tils/pkg/tils/config"
	"github.com/lwander/tils/pkg/tils/ioutil"
	"github.com/lwander/tils/pkg/tils/request"
	"github.com/lwander/tils/pkg/tils/route"
)

const (
	unimplementedBody = "Not implemented.\r\n"
	notFoundBody      = "404\r\n"
)

var (
	unimplementedTemplate = "HTTP/1.1 501 Method Not Implemented\r\n" +
		"Server: " + config.ServerToken + "\r\n" +
		"Content-Type: text\r\n" +
		"Content-Length: %d\r\n" +
		"\r\n" +
		unimplementedBody

	notFoundTemplate = "HTTP/1.1 404 Not Found\r\n" +
		"Server: " + config.ServerToken + "\r\n" +
		"Content-Type: text/html\r\n" +
		"Content-Length: %d\r\n" +
		"\r\n" +
		notFoundBody

	fileHeaderTemplate = "HTTP/1.1 200 OK\r\n" +
		"Server: " + config.ServerToken + "\r\n" +
		"Content-Type: %s\r\n" +
		"Content-Length: %d\r\n" +
		"Connection: keep-alive\r\n" +
		"\r\n"
)

// Respond serves req on c's client fd against routes. scratch is the
// worker's reusable REQUEST_BUF_SIZE buffer for streaming a file body; it is
// never retained past the call.
func Respond(c *conn.Conn, req request.Request, routes *route.Table, scratch []byte) {
	if req.Method != request.GET {
		serveUnimplemented(c.ClientFD)
		return
	}

	fsPath, ok := routes.Lookup(req.Resource())
	if !ok {
		serveNotFound(c.ClientFD)
		return
	}

	f, err := os.OpenFile(fsPath, os.O_RDONLY, 0)
	if err != nil {
		serveNotFound(c.ClientFD)
		return
	}
	defer f.Close()

	size, err := ioutil.FileSize(int(f.Fd()))
	if err != nil {
		return
	}

	serveFile(c, int(f.Fd()), contentType(fsPath), size, scratch)
}

func serveUnimplemented(fd int) {
	sendToClient(fd, fmt.Sprintf(unimplementedTemplate, len(unimplementedBody)))
}

func serveNotFound(fd int) {
	sendToClient(fd, fmt.Sprintf(notFoundTemplate, len(notFoundBody)))
}

// serveFile sends the 200 header then streams the body from fileFD in
// scratch-sized chunks. The client fd is non-blocking, so a send against a
// full kernel send buffer fails immediately (EAGAIN) rather than stalling
// the worker; that failure is treated the same as any other send error —
// the connection is marked Dead and the stream aborts, with no retry.
func serveFile(c *conn.Conn, fileFD int, ct string, size int64, scratch []byte) {
	sendToClient(c.ClientFD, fmt.Sprintf(fileHeaderTemplate, ct, size))

	for {
		n, err := unix.Read(fileFD, scratch)
		if n <= 0 || err != nil {
			return
		}
		if !writeAll(c.ClientFD, scratch[:n]) {
			c.State = conn.Dead
			return
		}
	}
}

// writeAll retries send across short writes until buf is fully drained. It
// returns false the moment a send fails or returns 0, leaving the caller to
// mark the connection Dead.
func writeAll(fd int, buf []byte) bool {
	for len(buf) > 0 {
		n, err := unix.Write(fd, buf)
		if n <= 0 || err != nil {
			return false
		}
		buf = buf[n:]
	}
	return true
}

// sendToClient sends the header fire-and-forget: its result is not checked,
// because a failed header write surfaces on the very next body send and is
// handled there instead.
func sendToClient(fd int, msg string) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.WriteString(msg)
	_, _ = unix.Write(fd, buf.Bytes())
}

// contentType maps a filesystem path's final extension to a MIME type.
func contentType(fsPath string) string {
	ext := ""
	if i := strings.LastIndexByte(fsPath, '.'); i >= 0 {
		ext = fsPath[i+1:]
	}
	switch ext {
	case "html":
		return "text/html; charset=utf8"
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	default:
		return "text"
	}
}
