package server

import (
	"bytes"
	"strconv"
)

// CreateResponseBytes builds an HTTP response as bytes
func CreateResponseBytes(statusCode, statusMessage string, body []byte, keepAlive bool) []byte {
	buf := responseBufferPool.Get().(*bytes.Buffer)
	buf.Reset()

	defer func() {
		if buf.Cap() <= maxPoolBufferSize {
			responseBufferPool.Put(buf)
		}
	}()

	buf.WriteString("HTTP/1.1 ")
	buf.WriteString(statusCode)
	buf.WriteString(" ")
	buf.WriteString(statusMessage)
	buf.WriteString("\r\nContent-Type: text/plain; charset=utf-8")
	if keepAlive {
		buf.WriteString("\r\nConnection: keep-alive")
	} else {
		buf.WriteString("\r\nConnection: close")
	}
	buf.WriteString("\r\nContent-Length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\n\r\n")
	buf.Write(body)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result
}

func okResponse(body string, keepAlive bool) []byte {
	return CreateResponseBytes("200", "OK", []byte(body), keepAlive)
}

func internalErrorResponse() []byte {
	return CreateResponseBytes("500", "Internal Server Error", []byte("Internal server error occurred"), false)
}
