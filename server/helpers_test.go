package server

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

// scriptedConn replays chunks as successive reads and reports io.EOF once they run out.
// A chunk larger than the read buffer is handed out over several reads.
type scriptedConn struct {
	chunks  [][]byte
	reads   int
	written bytes.Buffer
}

func newScriptedConn(chunks ...string) *scriptedConn {
	c := new(scriptedConn)
	for _, chunk := range chunks {
		c.chunks = append(c.chunks, []byte(chunk))
	}
	return c
}

func (c *scriptedConn) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}

	c.reads++
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}

	return n, nil
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	return c.written.Write(p)
}

type handlerCall struct {
	body    string
	headers Headers
}

type recorder struct {
	mu    sync.Mutex
	calls []handlerCall
	reply string
}

func (r *recorder) handle(body string, headers Headers) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, handlerCall{body: body, headers: headers})
	return r.reply
}

func (r *recorder) Calls() []handlerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]handlerCall(nil), r.calls...)
}

func newTestServer(t *testing.T, config *Config) (*Server, *recorder) {
	t.Helper()
	rec := &recorder{reply: "Hello World..."}
	if config == nil {
		config = DefaultConfig()
	}
	return NewServerWithConfig(config, rec.handle), rec
}
