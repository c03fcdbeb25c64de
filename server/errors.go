package server

import "errors"

var (
	ErrMalformedRequestLine        = errors.New("malformed request line")
	ErrMalformedHeader             = errors.New("malformed header line")
	ErrInvalidHeaderEncoding       = errors.New("request head is not valid utf-8")
	ErrInvalidContentLength        = errors.New("invalid content-length")
	ErrUnsupportedTransferEncoding = errors.New("transfer-encoding is not supported")
	ErrBufferSaturated             = errors.New("request does not fit into the frame buffer")
	ErrBodyTooLarge                = errors.New("request body too large")
	ErrIncompleteBody              = errors.New("connection closed before the body was complete")
	ErrHandlerPanic                = errors.New("handler panicked")
	ErrConnPanic                   = errors.New("connection loop panicked")
	ErrServerClosed                = errors.New("server closed")

	// errIncompleteFrame is not a failure: the head needs more bytes.
	errIncompleteFrame = errors.New("incomplete frame")
)

// TransportError wraps a failed read or write on the underlying stream.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// isProtocolError reports whether err was caused by what the peer sent rather than by
// the stream itself.
func isProtocolError(err error) bool {
	var te *TransportError
	return !errors.As(err, &te)
}
