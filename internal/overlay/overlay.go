package overlay

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/keytile/internal/grid"
	"github.com/1broseidon/keytile/internal/session"
)

// Border thickness in pixels
const BorderThickness = 3

const (
	labelWidth   = 26
	labelHeight  = 20
	labelCharX   = 10
	labelCharY   = 14
	labelMinCell = 40
)

// Colors holds the overlay palette, parsed from config.
type Colors struct {
	Tile       uint32
	Highlight  uint32
	Background uint32
	Text       uint32
}

// DefaultColors is used until config colors are applied.
func DefaultColors() Colors {
	return Colors{
		Tile:       0x305080,
		Highlight:  0xFFA000,
		Background: 0x202030,
		Text:       0xFFFFFF,
	}
}

// tileOverlay is one grid cell's visuals: a rectangular border made of 4
// thin windows plus a key label panel.
type tileOverlay struct {
	Top    xproto.Window
	Bottom xproto.Window
	Left   xproto.Window
	Right  xproto.Window

	Label   xproto.Window
	LabelGC xproto.Gcontext

	created bool
	mapped  bool
}

// Manager draws the selection grid as override-redirect windows on top of
// everything else. It implements session.Renderer.
type Manager struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	colors Colors

	font       xproto.Font
	fontOpened bool
	labelsOff  bool

	tiles []*tileOverlay
}

// NewManager creates an overlay manager drawing on the given root window.
func NewManager(xu *xgbutil.XUtil, root xproto.Window) *Manager {
	return &Manager{
		xu:     xu,
		root:   root,
		colors: DefaultColors(),
	}
}

// SetColors applies a new palette. Takes effect on the next Render.
func (m *Manager) SetColors(c Colors) {
	m.colors = c
}

// Render draws the grid for the given session snapshot. The anchor cell,
// when chosen, is shown in the highlight color.
func (m *Manager) Render(snap session.Snapshot) error {
	if !snap.Active {
		m.Hide()
		return nil
	}

	rects, err := grid.CellRects(snap.WorkArea, snap.Grid)
	if err != nil {
		return fmt.Errorf("compute cell rects: %w", err)
	}

	if err := m.ensureTiles(len(rects)); err != nil {
		return err
	}

	anchorSpan := grid.NewSpan(snap.Anchor, snap.Anchor)
	for i, rect := range rects {
		cell := grid.Cell{Row: i / snap.Grid.Columns, Col: i % snap.Grid.Columns}
		color := m.colors.Tile
		if snap.HasAnchor && anchorSpan.Contains(cell) {
			color = m.colors.Highlight
		}

		key := grid.KeyForCell(cell, snap.Grid.Rows, snap.Grid.Columns)
		if err := m.showTile(m.tiles[i], rect, color, key); err != nil {
			return err
		}
	}

	return nil
}

// Hide unmaps all overlay windows without destroying them.
func (m *Manager) Hide() {
	for _, tile := range m.tiles {
		m.hideTile(tile)
	}
}

// Cleanup destroys all overlay windows and server resources.
func (m *Manager) Cleanup() {
	for _, tile := range m.tiles {
		m.destroyTile(tile)
	}
	m.tiles = nil

	if m.fontOpened {
		xproto.CloseFont(m.xu.Conn(), m.font)
		m.font = 0
		m.fontOpened = false
	}
}

func (m *Manager) ensureTiles(count int) error {
	if count <= len(m.tiles) {
		for i := count; i < len(m.tiles); i++ {
			m.hideTile(m.tiles[i])
		}
		return nil
	}

	for len(m.tiles) < count {
		tile := &tileOverlay{}
		if err := m.createTileWindows(tile); err != nil {
			return err
		}
		m.tiles = append(m.tiles, tile)
	}
	return nil
}

// showTile positions the border around rect and draws the key label in the
// cell's top-left corner. Cells too small for a label get the border only.
func (m *Manager) showTile(tile *tileOverlay, rect grid.Rect, color uint32, key rune) error {
	if !tile.created {
		if err := m.createTileWindows(tile); err != nil {
			return err
		}
	}

	conn := m.xu.Conn()
	x, y := rect.X, rect.Y
	w, h := rect.Width, rect.Height
	t := BorderThickness

	m.updateWindow(tile.Top, x, y, w, t, color)
	m.updateWindow(tile.Bottom, x, y+h-t, w, t, color)
	m.updateWindow(tile.Left, x, y+t, t, h-2*t, color)
	m.updateWindow(tile.Right, x+w-t, y+t, t, h-2*t, color)

	xproto.MapWindow(conn, tile.Top)
	xproto.MapWindow(conn, tile.Bottom)
	xproto.MapWindow(conn, tile.Left)
	xproto.MapWindow(conn, tile.Right)

	showLabel := key != 0 && !m.labelsOff && tile.Label != 0 &&
		w >= labelMinCell && h >= labelMinCell
	if showLabel {
		m.updateWindow(tile.Label, x+t, y+t, labelWidth, labelHeight, m.colors.Background)
		xproto.ChangeGC(
			conn,
			tile.LabelGC,
			xproto.GcForeground|xproto.GcBackground,
			[]uint32{m.colors.Text, m.colors.Background},
		)
		xproto.MapWindow(conn, tile.Label)
		xproto.ImageText8(
			conn,
			1,
			xproto.Drawable(tile.Label),
			tile.LabelGC,
			labelCharX,
			labelCharY,
			string(key),
		)
	} else if tile.Label != 0 {
		xproto.UnmapWindow(conn, tile.Label)
	}

	tile.mapped = true
	return nil
}

func (m *Manager) hideTile(tile *tileOverlay) {
	if !tile.mapped {
		return
	}

	conn := m.xu.Conn()
	xproto.UnmapWindow(conn, tile.Top)
	xproto.UnmapWindow(conn, tile.Bottom)
	xproto.UnmapWindow(conn, tile.Left)
	xproto.UnmapWindow(conn, tile.Right)
	if tile.Label != 0 {
		xproto.UnmapWindow(conn, tile.Label)
	}

	tile.mapped = false
}

func (m *Manager) destroyTile(tile *tileOverlay) {
	conn := m.xu.Conn()
	for _, wid := range []xproto.Window{tile.Top, tile.Bottom, tile.Left, tile.Right, tile.Label} {
		if wid != 0 {
			xproto.DestroyWindow(conn, wid)
		}
	}
	if tile.LabelGC != 0 {
		xproto.FreeGC(conn, tile.LabelGC)
	}

	*tile = tileOverlay{}
}

func (m *Manager) createTileWindows(tile *tileOverlay) error {
	var err error

	if tile.Top, err = m.createOverrideRedirectWindow(); err != nil {
		return err
	}
	if tile.Bottom, err = m.createOverrideRedirectWindow(); err != nil {
		return err
	}
	if tile.Left, err = m.createOverrideRedirectWindow(); err != nil {
		return err
	}
	if tile.Right, err = m.createOverrideRedirectWindow(); err != nil {
		return err
	}

	// Label rendering needs a server font; give up on labels entirely if
	// none opens, borders still work.
	if !m.labelsOff {
		if err := m.createLabelResources(tile); err != nil {
			m.labelsOff = true
		}
	}

	tile.created = true
	return nil
}

func (m *Manager) createLabelResources(tile *tileOverlay) error {
	conn := m.xu.Conn()

	if !m.fontOpened {
		font, err := xproto.NewFontId(conn)
		if err != nil {
			return err
		}

		opened := false
		for _, fontName := range []string{"fixed", "9x15", "8x13", "6x13"} {
			if err := xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check(); err == nil {
				opened = true
				break
			}
		}
		if !opened {
			return fmt.Errorf("no usable server font")
		}
		m.font = font
		m.fontOpened = true
	}

	label, err := m.createOverrideRedirectWindow()
	if err != nil {
		return err
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.DestroyWindow(conn, label)
		return err
	}

	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(label),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			m.colors.Text,
			m.colors.Background,
			uint32(m.font),
			0, // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.FreeGC(conn, gc)
		xproto.DestroyWindow(conn, label)
		return err
	}

	tile.Label = label
	tile.LabelGC = gc
	return nil
}

// createOverrideRedirectWindow creates a single override-redirect window
func (m *Manager) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := m.xu.Conn()
	screen := m.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	// override_redirect makes the window bypass the window manager.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		m.root,
		0, 0, // x, y (will be updated later)
		1, 1, // width, height (will be updated later)
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwBackPixel,
		// Value list order follows the bit positions of the mask.
		// CwBackPixel comes before CwOverrideRedirect, so it is first.
		[]uint32{0, 1}, // back_pixel=black, override_redirect=true
	).Check()

	if err != nil {
		return 0, err
	}

	return wid, nil
}

// updateWindow moves, resizes, and recolors a window
func (m *Manager) updateWindow(wid xproto.Window, x, y, width, height int, color uint32) {
	conn := m.xu.Conn()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(x),
			uint32(y),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove, // Keep on top
		},
	)

	xproto.ChangeWindowAttributes(
		conn,
		wid,
		xproto.CwBackPixel,
		[]uint32{color},
	)

	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
