package server

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/utils/strcomp"
)

var (
	crlf          = []byte("\r\n")
	headEndMarker = []byte("\r\n\r\n")
)

// RequestLine is the first line of a request
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

// Headers maps header names to values. A repeated header keeps its last value.
type Headers map[string]string

// Get returns the value stored under name, falling back to a case-insensitive match.
func (h Headers) Get(name string) (string, bool) {
	if value, ok := h[name]; ok {
		return value, true
	}

	for key, value := range h {
		if strcomp.EqualFold(key, name) {
			return value, true
		}
	}

	return "", false
}

// PendingRequest accumulates the request currently being framed on a connection
type PendingRequest struct {
	Line          RequestLine
	Headers       Headers
	ContentLength int
	Body          []byte
}

// ParseRequest parses the request head at the start of data. bodyStart is the offset of the
// first byte after the blank line. errIncompleteFrame means data holds no complete head yet.
func ParseRequest(data []byte) (req *PendingRequest, bodyStart int, err error) {
	headEnd := bytes.Index(data, headEndMarker)
	if headEnd < 0 {
		// reject a broken request line without waiting for the rest of the head
		if lineEnd := bytes.Index(data, crlf); lineEnd >= 0 {
			if _, err := parseRequestLineFromBytes(data[:lineEnd]); err != nil {
				return nil, 0, err
			}
		}
		return nil, 0, errIncompleteFrame
	}

	head := data[:headEnd]
	if !utf8.Valid(head) {
		return nil, 0, ErrInvalidHeaderEncoding
	}

	// one copy of the head; every token below shares it and outlives the frame buffer
	lines := strings.Split(string(head), "\r\n")

	line, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, 0, err
	}

	headers, err := parseHeaders(lines[1:])
	if err != nil {
		return nil, 0, err
	}

	if _, chunked := headers.Get("Transfer-Encoding"); chunked {
		return nil, 0, ErrUnsupportedTransferEncoding
	}

	contentLength, err := parseContentLength(headers)
	if err != nil {
		return nil, 0, err
	}

	req = &PendingRequest{
		Line:          line,
		Headers:       headers,
		ContentLength: contentLength,
	}

	return req, headEnd + len(headEndMarker), nil
}

// parseRequestLineFromBytes validates a request line still sitting in the frame buffer
func parseRequestLineFromBytes(firstLine []byte) (RequestLine, error) {
	if !utf8.Valid(firstLine) {
		return RequestLine{}, ErrInvalidHeaderEncoding
	}
	return parseRequestLine(string(firstLine))
}

// parseRequestLine splits "METHOD TARGET VERSION" on single spaces
func parseRequestLine(line string) (RequestLine, error) {
	parts := strings.Split(line, " ")
	if len(parts) < 3 {
		return RequestLine{}, ErrMalformedRequestLine
	}

	return RequestLine{
		Method:  parts[0],
		Target:  parts[1],
		Version: parts[2],
	}, nil
}

// parseHeaders parses "Name: Value" lines. A line without a colon is rejected.
func parseHeaders(headerLines []string) (Headers, error) {
	headerMap := make(Headers, len(headerLines))
	for _, line := range headerLines {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			return nil, ErrMalformedHeader
		}

		key := line[:colon]
		if strings.ContainsAny(key, " \t") {
			return nil, ErrMalformedHeader
		}

		headerMap[key] = strings.TrimSpace(line[colon+1:])
	}

	return headerMap, nil
}

func parseContentLength(headers Headers) (int, error) {
	value, ok := headers.Get("Content-Length")
	if !ok {
		return 0, nil
	}

	length, err := strconv.Atoi(value)
	if err != nil || length < 0 {
		return 0, ErrInvalidContentLength
	}

	return length, nil
}
