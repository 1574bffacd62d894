package mcp

// PlaceWindowInput is the input for the place_window tool.
type PlaceWindowInput struct {
	Window  uint32 `json:"window,omitempty" jsonschema:"X11 window ID to place. Omit or pass 0 to place the currently focused window."`
	Monitor *int   `json:"monitor,omitempty" jsonschema:"Monitor index from list_monitors. Omit to use the monitor the window is on."`
	MinRow  int    `json:"min_row" jsonschema:"required,Top row of the grid span (0-based)"`
	MaxRow  int    `json:"max_row" jsonschema:"required,Bottom row of the grid span (0-based, inclusive)"`
	MinCol  int    `json:"min_col" jsonschema:"required,Left column of the grid span (0-based)"`
	MaxCol  int    `json:"max_col" jsonschema:"required,Right column of the grid span (0-based, inclusive)"`
}

// PlaceWindowOutput is the output for the place_window tool.
type PlaceWindowOutput struct {
	Window uint32 `json:"window"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorEntry describes one detected monitor.
type MonitorEntry struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Primary  bool   `json:"primary"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	WorkX    int    `json:"work_x"`
	WorkY    int    `json:"work_y"`
	WorkW    int    `json:"work_width"`
	WorkH    int    `json:"work_height"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorEntry `json:"monitors"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	DaemonRunning bool   `json:"daemon_running"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Hotkey        string `json:"hotkey"`
	SessionActive bool   `json:"session_active"`
	SessionPhase  string `json:"session_phase"`
	GridColumns   int    `json:"grid_columns"`
	GridRows      int    `json:"grid_rows"`
}

// InvokeSessionInput is the input for the invoke_session tool.
type InvokeSessionInput struct{}

// InvokeSessionOutput is the output for the invoke_session tool.
type InvokeSessionOutput struct {
	Invoked bool `json:"invoked"`
}

// CancelSessionInput is the input for the cancel_session tool.
type CancelSessionInput struct{}

// CancelSessionOutput is the output for the cancel_session tool.
type CancelSessionOutput struct {
	Cancelled bool `json:"cancelled"`
}
