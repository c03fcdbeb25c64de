package server

import "time"

// TerminationPolicy decides whether a connection stays open after a response.
type TerminationPolicy int

const (
	// ClosePerProtocol keeps the connection open unless the request asked to close it
	// (Connection: close, or HTTP/1.0 without Connection: keep-alive).
	ClosePerProtocol TerminationPolicy = iota
	// CloseWhenDrained closes the connection as soon as a response leaves no pipelined
	// bytes in the frame buffer.
	CloseWhenDrained
)

func (p TerminationPolicy) String() string {
	switch p {
	case ClosePerProtocol:
		return "protocol"
	case CloseWhenDrained:
		return "drained"
	default:
		return "unknown"
	}
}

type Config struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	BufferSize      int
	MaxBodySize     int
	EnableKeepAlive bool
	Termination     TerminationPolicy
	EnableLogging   bool
}

func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		BufferSize:      1024,
		MaxBodySize:     10 * 1024 * 1024, // 10MB, also used when unset
		EnableKeepAlive: true,
		Termination:     ClosePerProtocol,
		EnableLogging:   false,
	}
}
