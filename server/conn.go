package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Transport is the byte stream a connection is served over. net.Conn satisfies it; so does
// any in-memory stream.
type Transport interface {
	io.Reader
	io.Writer
}

// deadliner is implemented by transports supporting timeouts, net.Conn in particular
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

type connection struct {
	srv    *Server
	config *Config
	rw     Transport
	frame  *FrameBuffer
	w      *bufio.Writer
}

// ServeConn serves requests from t until the peer closes the stream, a request fails or the
// termination policy ends the connection. A clean close returns nil. The caller is
// responsible for closing t.
func (s *Server) ServeConn(t Transport) (err error) {
	frame := s.frames.Get()
	defer s.frames.Put(frame)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("%w: %v", ErrConnPanic, r)
		}
	}()

	c := &connection{
		srv:    s,
		config: s.config,
		rw:     t,
		frame:  frame,
		w:      bufio.NewWriter(t),
	}

	return c.serve()
}

func (c *connection) serve() error {
	for {
		req, consumed, err := c.awaitFrame()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		// saturation is judged on the window the request was framed from
		saturated := c.frame.Saturated()
		c.frame.Compact(consumed)

		if err := c.resolveBody(req); err != nil {
			return err
		}

		closeAfter := c.shouldClose(req, saturated)
		if err := c.respond(req, !closeAfter); err != nil {
			return err
		}

		if closeAfter {
			return nil
		}
	}
}

// awaitFrame returns the next complete request head together with the end of the span it
// occupies in the frame buffer. Bytes left over from a previous read are parsed before
// reading again, so pipelined requests never wait on the network. A bare io.EOF means the
// peer closed between requests.
func (c *connection) awaitFrame() (*PendingRequest, int, error) {
	for {
		if c.frame.Len() > 0 {
			req, bodyStart, err := ParseRequest(c.frame.Bytes())
			switch {
			case err == nil:
				if req.ContentLength > c.config.MaxBodySize {
					return nil, 0, ErrBodyTooLarge
				}
				return req, req.takeBuffered(c.frame.Bytes(), bodyStart), nil
			case !errors.Is(err, errIncompleteFrame):
				return nil, 0, err
			}
		}

		if c.frame.Saturated() {
			return nil, 0, ErrBufferSaturated
		}

		c.setReadDeadline(c.frame.Len() == 0)
		if _, err := c.frame.Fill(c.rw); err != nil {
			if err == io.EOF {
				if c.frame.Len() == 0 {
					return nil, 0, io.EOF
				}
				err = io.ErrUnexpectedEOF
			}
			return nil, 0, &TransportError{Op: "read", Err: err}
		}
	}
}

// resolveBody issues the supplementary read for body bytes that did not fit into the
// frame's last read.
func (c *connection) resolveBody(req *PendingRequest) error {
	if req.missingBody() == 0 {
		return nil
	}

	c.setReadDeadline(false)
	return req.readRemainingBody(c.rw)
}

// shouldClose applies the termination policy. A saturated frame always ends the connection.
func (c *connection) shouldClose(req *PendingRequest, saturated bool) bool {
	if saturated || !c.config.EnableKeepAlive {
		return true
	}

	switch c.config.Termination {
	case CloseWhenDrained:
		return c.frame.Len() == 0
	default:
		return !requestsKeepAlive(req)
	}
}

func requestsKeepAlive(req *PendingRequest) bool {
	value, _ := req.Headers.Get("Connection")
	if strcomp.EqualFold(req.Line.Version, "HTTP/1.0") {
		return hasToken(value, "keep-alive")
	}

	return !hasToken(value, "close")
}

// hasToken reports whether a comma-separated header value lists token
func hasToken(value, token string) bool {
	for _, part := range strings.Split(value, ",") {
		if strcomp.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}

	return false
}

func (c *connection) respond(req *PendingRequest, keepAlive bool) error {
	var response []byte
	status := "200"

	body, handlerErr := c.callHandler(req)
	if handlerErr != nil {
		response = internalErrorResponse()
		status = "500"
	} else {
		response = okResponse(body, keepAlive)
	}

	if c.config.EnableLogging {
		logRequest(req.Line.Method, req.Line.Target, status)
	}

	if err := c.write(response); err != nil {
		return err
	}

	return handlerErr
}

func (c *connection) callHandler(req *PendingRequest) (body string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	return c.srv.handler(uf.B2S(req.Body), req.Headers), nil
}

func (c *connection) write(response []byte) error {
	c.setWriteDeadline()

	if _, err := c.w.Write(response); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if err := c.w.Flush(); err != nil {
		return &TransportError{Op: "flush", Err: err}
	}

	return nil
}

// setReadDeadline arms the read timeout. Waiting for a new request on an empty frame uses
// the idle timeout instead.
func (c *connection) setReadDeadline(idle bool) {
	d, ok := c.rw.(deadliner)
	if !ok {
		return
	}

	timeout := c.config.ReadTimeout
	if idle && c.config.IdleTimeout > 0 {
		timeout = c.config.IdleTimeout
	}
	if timeout > 0 {
		_ = d.SetReadDeadline(time.Now().Add(timeout))
	}
}

func (c *connection) setWriteDeadline() {
	d, ok := c.rw.(deadliner)
	if !ok || c.config.WriteTimeout <= 0 {
		return
	}

	_ = d.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
}
