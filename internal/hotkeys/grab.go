package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

const (
	keysymReturn  = 0xff0d
	keysymEscape  = 0xff1b
	keysymTab     = 0xff09
	keysymKPEnter = 0xff8d
	keysymBack    = 0xff08
)

// SessionEvents receives key events while the grid overlay is active.
type SessionEvents interface {
	HandleKey(key rune) error
	Cancel()
	CycleMonitor() error
	ClearAnchor() error
}

// Grab owns the exclusive keyboard grab held for the lifetime of a
// placement session, routing grid keys, Escape, Tab and Backspace to the
// session controller.
type Grab struct {
	mu     sync.Mutex
	xu     *xgbutil.XUtil
	root   xproto.Window
	events SessionEvents

	grabWindow         xproto.Window
	keyHandlerAttached bool
	held               bool
}

// NewGrab creates a keyboard grab bound to the session event sink.
func NewGrab(xu *xgbutil.XUtil, root xproto.Window, events SessionEvents) *Grab {
	return &Grab{
		xu:     xu,
		root:   root,
		events: events,
	}
}

// Acquire grabs the keyboard. Key events flow to the session until Release.
func (g *Grab) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		return nil
	}
	if err := g.ensureGrabWindow(); err != nil {
		return err
	}

	grab := func() (*xproto.GrabKeyboardReply, error) {
		cookie := xproto.GrabKeyboard(
			g.xu.Conn(),
			false,                  // owner_events (report events to grab_window)
			g.root,                 // grab_window (must be viewable)
			xproto.TimeCurrentTime, // time
			xproto.GrabModeAsync,   // pointer_mode
			xproto.GrabModeAsync,   // keyboard_mode
		)
		return cookie.Reply()
	}

	reply, err := grab()
	if err != nil {
		return err
	}

	// The invoke hotkey fires under a passive key grab held by this same
	// client; ungrab and retry in that case.
	if reply.Status == xproto.GrabStatusAlreadyGrabbed {
		xproto.UngrabKeyboard(g.xu.Conn(), xproto.TimeCurrentTime)
		reply, err = grab()
		if err != nil {
			return err
		}
	}

	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("keyboard grab failed with status %d", reply.Status)
	}

	xevent.RedirectKeyEvents(g.xu, g.grabWindow)

	if !g.keyHandlerAttached {
		xevent.KeyPressFun(g.handleKeyPress).Connect(g.xu, g.grabWindow)
		g.keyHandlerAttached = true
	}

	g.held = true
	log.Println("session: keyboard grabbed")
	return nil
}

// Release returns the keyboard to normal event delivery.
func (g *Grab) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.held {
		return
	}

	xproto.UngrabKeyboard(g.xu.Conn(), xproto.TimeCurrentTime)
	xevent.RedirectKeyEvents(g.xu, 0)

	if g.keyHandlerAttached && g.grabWindow != 0 {
		xevent.Detach(g.xu, g.grabWindow)
		g.keyHandlerAttached = false
	}

	g.held = false
	log.Println("session: keyboard released")
}

func (g *Grab) ensureGrabWindow() error {
	if g.grabWindow != 0 {
		return nil
	}

	conn := g.xu.Conn()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return err
	}

	// InputOnly window that never draws anything; used solely as a safe
	// target for key event callbacks while the keyboard is grabbed.
	err = xproto.CreateWindowChecked(
		conn,
		0, // depth (must be 0 for InputOnly)
		wid,
		g.root,
		0, 0, // x, y
		1, 1, // width, height
		0, // border_width
		xproto.WindowClassInputOnly,
		xproto.Visualid(0), // CopyFromParent
		xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskKeyPress)},
	).Check()
	if err != nil {
		return err
	}

	xproto.MapWindow(conn, wid)

	g.grabWindow = wid
	return nil
}

// handleKeyPress routes key events while the keyboard is grabbed.
func (g *Grab) handleKeyPress(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
	keysym := keybind.KeysymGet(xu, ev.Detail, 0)

	switch keysym {
	case keysymEscape:
		g.events.Cancel()
	case keysymTab:
		if err := g.events.CycleMonitor(); err != nil {
			log.Printf("session: monitor cycle failed: %v", err)
		}
	case keysymBack:
		if err := g.events.ClearAnchor(); err != nil {
			log.Printf("session: clear anchor failed: %v", err)
		}
	case keysymReturn, keysymKPEnter:
		// No confirm step; the second grid key commits.
	default:
		// Printable Latin-1 keysyms equal their character codes; grid
		// keys are letters, digits and comma.
		if keysym >= 0x20 && keysym <= 0x7e {
			if err := g.events.HandleKey(rune(keysym)); err != nil {
				log.Printf("session: key handling failed: %v", err)
			}
		}
	}
}
