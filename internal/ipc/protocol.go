package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/keytile/internal/grid"
	"github.com/1broseidon/keytile/internal/session"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandInvoke      CommandType = "INVOKE"
	CommandPlace       CommandType = "PLACE"
	CommandCancel      CommandType = "CANCEL"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool             `json:"daemon_running"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Hotkey        string           `json:"hotkey"`
	Session       session.Snapshot `json:"session"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Primary  bool      `json:"primary"`
	Bounds   grid.Rect `json:"bounds"`
	WorkArea grid.Rect `json:"work_area"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// PlacePayload represents the payload for the PLACE command. Window 0
// targets the focused window; Monitor -1 targets the window's monitor.
type PlacePayload struct {
	Window  uint32 `json:"window,omitempty"`
	Monitor int    `json:"monitor"`
	MinRow  int    `json:"min_row"`
	MaxRow  int    `json:"max_row"`
	MinCol  int    `json:"min_col"`
	MaxCol  int    `json:"max_col"`
}

// Span converts the payload's cell range into the resolver's form.
func (p *PlacePayload) Span() grid.Span {
	return grid.NewSpan(
		grid.Cell{Row: p.MinRow, Col: p.MinCol},
		grid.Cell{Row: p.MaxRow, Col: p.MaxCol},
	)
}

// PlaceResult reports where a PLACE command put the window.
type PlaceResult struct {
	Window uint32    `json:"window"`
	Rect   grid.Rect `json:"rect"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
