package main

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/codetesla51/rawframe/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// requestReport is what the demo handler answers with
type requestReport struct {
	BodyLength int               `json:"body_length"`
	Body       string            `json:"body,omitempty"`
	Headers    map[string]string `json:"headers"`
}

// reportHandler echoes the framed request back as JSON
func reportHandler(body string, headers server.Headers) string {
	report := requestReport{
		BodyLength: len(body),
		Body:       body,
		Headers:    headers,
	}

	out, err := json.MarshalToString(report)
	if err != nil {
		return "Hello World..."
	}

	return out
}
