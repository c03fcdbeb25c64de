package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// takeBuffered copies the part of the body that already sits in the frame, starting at
// bodyStart, and returns the end of the span consumed by this request. Only the bytes
// present are allocated; the rest is accumulated by readRemainingBody.
func (req *PendingRequest) takeBuffered(frame []byte, bodyStart int) int {
	if bodyStart > len(frame) {
		bodyStart = len(frame)
	}

	n := min(req.ContentLength, len(frame)-bodyStart)
	req.Body = make([]byte, n)
	copy(req.Body, frame[bodyStart:bodyStart+n])

	return bodyStart + n
}

// missingBody is the number of declared body bytes not received yet
func (req *PendingRequest) missingBody() int {
	return req.ContentLength - len(req.Body)
}

// readRemainingBody reads the rest of the body straight from r, bypassing the frame buffer.
// The body grows with the bytes actually received and reading goes on until the declared
// length is reached.
func (req *PendingRequest) readRemainingBody(r io.Reader) error {
	remaining := req.missingBody()
	if remaining <= 0 {
		return nil
	}

	body := bytes.NewBuffer(req.Body)
	_, err := io.CopyN(body, r, int64(remaining))
	req.Body = body.Bytes()

	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: got %d of %d bytes", ErrIncompleteBody, len(req.Body), req.ContentLength)
		}
		return &TransportError{Op: "read body", Err: err}
	}

	return nil
}
