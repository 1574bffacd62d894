// Package mcp exposes keytile placement over the Model Context Protocol.
// Tools talk to the running daemon through its unix socket, so the MCP
// server itself holds no X11 state.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/keytile/internal/ipc"
)

const (
	ServerName    = "keytile"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for keytile window placement.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server. The keytile daemon must be running
// for the tools to work; availability is checked per call, not here.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "place_window",
		Description: "Snap a window to a rectangular span of the placement grid on a monitor. Rows and columns are 0-based and inclusive; min equal to max selects a single cell. Omit window to target the focused window, omit monitor to use the window's monitor.",
	}, s.handlePlaceWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the detected monitors with their full bounds and strut-adjusted work areas. The returned index is the monitor argument for place_window.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon status: uptime, the configured hotkey, grid dimensions and whether a placement session is active.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "invoke_session",
		Description: "Open an interactive placement session for the focused window, exactly as the hotkey would. The grid overlay appears and the user picks cells with the keyboard.",
	}, s.handleInvokeSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cancel_session",
		Description: "Dismiss the active placement session without moving any window. No-op when no session is active.",
	}, s.handleCancelSession)
}

func (s *Server) handlePlaceWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args PlaceWindowInput) (*mcpsdk.CallToolResult, PlaceWindowOutput, error) {
	monitor := -1
	if args.Monitor != nil {
		monitor = *args.Monitor
	}

	result, err := s.client.Place(ipc.PlacePayload{
		Window:  args.Window,
		Monitor: monitor,
		MinRow:  args.MinRow,
		MaxRow:  args.MaxRow,
		MinCol:  args.MinCol,
		MaxCol:  args.MaxCol,
	})
	if err != nil {
		return nil, PlaceWindowOutput{}, daemonErr(err)
	}

	return nil, PlaceWindowOutput{
		Window: result.Window,
		X:      result.Rect.X,
		Y:      result.Rect.Y,
		Width:  result.Rect.Width,
		Height: result.Rect.Height,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.client.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, daemonErr(err)
	}

	out := ListMonitorsOutput{Monitors: make([]MonitorEntry, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorEntry{
			ID:      m.ID,
			Name:    m.Name,
			Primary: m.Primary,
			X:       m.Bounds.X,
			Y:       m.Bounds.Y,
			Width:   m.Bounds.Width,
			Height:  m.Bounds.Height,
			WorkX:   m.WorkArea.X,
			WorkY:   m.WorkArea.Y,
			WorkW:   m.WorkArea.Width,
			WorkH:   m.WorkArea.Height,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, daemonErr(err)
	}

	return nil, GetStatusOutput{
		DaemonRunning: status.DaemonRunning,
		UptimeSeconds: status.UptimeSeconds,
		Hotkey:        status.Hotkey,
		SessionActive: status.Session.Active,
		SessionPhase:  status.Session.Phase,
		GridColumns:   status.Session.Grid.Columns,
		GridRows:      status.Session.Grid.Rows,
	}, nil
}

func (s *Server) handleInvokeSession(_ context.Context, _ *mcpsdk.CallToolRequest, _ InvokeSessionInput) (*mcpsdk.CallToolResult, InvokeSessionOutput, error) {
	if err := s.client.Invoke(); err != nil {
		return nil, InvokeSessionOutput{}, daemonErr(err)
	}
	return nil, InvokeSessionOutput{Invoked: true}, nil
}

func (s *Server) handleCancelSession(_ context.Context, _ *mcpsdk.CallToolRequest, _ CancelSessionInput) (*mcpsdk.CallToolResult, CancelSessionOutput, error) {
	if err := s.client.Cancel(); err != nil {
		return nil, CancelSessionOutput{}, daemonErr(err)
	}
	return nil, CancelSessionOutput{Cancelled: true}, nil
}

// daemonErr wraps IPC failures with a hint that likely means the daemon
// is not running.
func daemonErr(err error) error {
	return fmt.Errorf("keytile daemon unreachable or rejected the request (is 'keytile daemon' running?): %w", err)
}
