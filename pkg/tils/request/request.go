// Package request parses one HTTP/1.1 request line out of a single recv'd
// buffer. It does not validate headers or the HTTP version, and a request
// larger than the buffer is silently truncated — the whole request is
// assumed to arrive in one read, matching the server's fixed-size recv.
package request

import "github.com/lwander/tils/pkg/tils/config"

// Request is the parsed method and resource of one HTTP request line.
// Resource is copied into a fixed-size array owned by the Request itself, so
// parsing never allocates.
type Request struct {
	Method   Method
	resource [config.WordBufSize]byte
	resLen   int
}

// Resource returns the parsed request target, e.g. "/index.html".
func (r Request) Resource() string {
	return string(r.resource[:r.resLen])
}

// Parse scans the first two whitespace-delimited tokens of buf: the method
// and the resource. Unknown or missing methods parse as Unknown. An empty
// buf yields a zero-value Request with an empty resource.
func Parse(buf []byte) Request {
	var req Request

	i := skipSpace(buf, 0)
	methodStart := i
	i = scanWord(buf, i)
	req.Method = parseMethod(buf[methodStart:i])

	i = skipSpace(buf, i)
	resStart := i
	i = scanWord(buf, i)
	req.resLen = copy(req.resource[:], buf[resStart:i])

	return req
}

// skipSpace returns the index of the first non-whitespace byte at or after
// i, or len(buf) if none remains.
func skipSpace(buf []byte, i int) int {
	for i < len(buf) && isSpace(buf[i]) {
		i++
	}
	return i
}

// scanWord returns the index just past the whitespace-delimited token
// starting at i.
func scanWord(buf []byte, i int) int {
	for i < len(buf) && !isSpace(buf[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}
