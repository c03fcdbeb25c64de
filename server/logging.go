package server

import (
	"errors"
	"log"

	"github.com/fatih/color"
)

// logRequest logs an HTTP request with color-coded status
func logRequest(method, target, status string) {
	switch status {
	case "200":
		log.Print(color.GreenString("%s %s %s", method, target, status))
	case "500":
		log.Print(color.RedString("%s %s %s", method, target, status))
	default:
		log.Printf("%s %s %s", method, target, status)
	}
}

// logConnError logs why a connection was dropped. Protocol violations are red, stream
// failures yellow.
func logConnError(remote string, err error) {
	switch {
	case err == nil, errors.Is(err, ErrServerClosed):
		return
	case isProtocolError(err):
		log.Print(color.RedString("%s: %v", remote, err))
	default:
		log.Print(color.YellowString("%s: %v", remote, err))
	}
}
