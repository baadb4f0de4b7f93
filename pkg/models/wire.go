// Package models holds the shared data types of the conformance suite.
package models

import "errors"

// WireFormat identifies one of the provider wire protocols the target
// gateway is expected to reproduce.
type WireFormat string

const (
	FormatChatCompletions WireFormat = "chat-completions"
	FormatResponses       WireFormat = "responses"
	FormatAnthropic       WireFormat = "anthropic"
)

func StringToWireFormat(s string) (WireFormat, error) {
	switch s {
	case "chat-completions":
		return FormatChatCompletions, nil
	case "responses":
		return FormatResponses, nil
	case "anthropic":
		return FormatAnthropic, nil
	default:
		return "", errors.New("invalid wire format value")
	}
}

// CaptureResult is what an executor returns after one round trip to the
// target. Errors cross this boundary as a string, never as a Go error, so a
// failing pair cannot abort the batch it runs in.
type CaptureResult struct {
	Request           any    `json:"request" yaml:"request"`
	Response          any    `json:"response,omitempty" yaml:"response,omitempty"`
	StreamingResponse []any  `json:"streamingResponse,omitempty" yaml:"streaming_response,omitempty"`
	StatusCode        int    `json:"statusCode,omitempty" yaml:"status_code,omitempty"`
	Error             string `json:"error,omitempty" yaml:"error,omitempty"`
}
