//go:build linux

package window

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/logger"
	"github.com/bryanchriswhite/shareframe/internal/protect"
)

// Motif hints layout: flags, functions, decorations, input mode, status.
const (
	motifHintsDecorations = 1 << 1
	motifHintsLength      = 5
)

// X11Backend implements the Backend interface using X11.
type X11Backend struct {
	conn     *xgb.Conn
	root     xproto.Window
	screen   *xproto.ScreenInfo
	atoms    map[string]xproto.Atom
	hasShape bool
}

// NewX11Backend creates a new X11 backend.
func NewX11Backend() (*X11Backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	b := &X11Backend{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
		atoms:  make(map[string]xproto.Atom),
	}

	// The shape extension provides the empty input region used for
	// click-through. Missing extension degrades to a frame that still
	// swallows clicks in sharing mode.
	if err := shape.Init(conn); err != nil {
		logger.WithComponent("x11-backend").Warn().
			Err(err).
			Msg("Shape extension unavailable, click-through disabled")
	} else {
		b.hasShape = true
	}

	return b, nil
}

// Connect establishes connection to X11 (already done in NewX11Backend).
func (b *X11Backend) Connect() error {
	return nil
}

// Close closes the X11 connection.
func (b *X11Backend) Close() error {
	b.conn.Close()
	return nil
}

// Name returns the backend name.
func (b *X11Backend) Name() string {
	return "x11"
}

// CreateFrame creates the top-level frame window and maps it.
func (b *X11Backend) CreateFrame(cfg config.FrameConfig) (Frame, error) {
	log := logger.WithComponent("x11-backend")

	wid, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	geom := cfg.Geometry
	err = xproto.CreateWindowChecked(
		b.conn,
		b.screen.RootDepth,
		wid,
		b.root,
		int16(geom.X), int16(geom.Y),
		uint16(geom.Width), uint16(geom.Height),
		0,
		xproto.WindowClassInputOutput,
		b.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			b.screen.WhitePixel,
			xproto.EventMaskStructureNotify,
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create frame window: %w", err)
	}

	f := &x11Frame{backend: b, win: wid}

	if err := f.setTitle(cfg.Title); err != nil {
		log.Debug().Err(err).Msg("Failed to set frame title")
	}
	if err := f.SetVisible(true); err != nil {
		return nil, err
	}

	log.Info().
		Uint32("window", uint32(wid)).
		Int("x", geom.X).Int("y", geom.Y).
		Int("width", geom.Width).Int("height", geom.Height).
		Msg("Frame window created")

	return f, nil
}

// getAtom gets an atom ID by name, cached per backend.
func (b *X11Backend) getAtom(name string) (xproto.Atom, error) {
	if atom, ok := b.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(b.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	b.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// x11Frame implements Frame for a window owned by X11Backend.
type x11Frame struct {
	backend *X11Backend
	win     xproto.Window
}

func (f *x11Frame) conn() *xgb.Conn { return f.backend.conn }

// Geometry reads the current geometry from the server. Coordinates are
// translated to the root window because reparenting window managers make
// GetGeometry positions relative to the WM frame.
func (f *x11Frame) Geometry() (config.Geometry, error) {
	geom, err := xproto.GetGeometry(f.conn(), xproto.Drawable(f.win)).Reply()
	if err != nil {
		return config.Geometry{}, fmt.Errorf("failed to get geometry: %w", err)
	}

	trans, err := xproto.TranslateCoordinates(f.conn(), f.win, f.backend.root, 0, 0).Reply()
	if err != nil {
		return config.Geometry{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return config.Geometry{
		X:      int(trans.DstX),
		Y:      int(trans.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// SetVisible maps or unmaps the window.
func (f *x11Frame) SetVisible(visible bool) error {
	if visible {
		if err := xproto.MapWindowChecked(f.conn(), f.win).Check(); err != nil {
			return fmt.Errorf("failed to map window: %w", err)
		}
		return nil
	}
	if err := xproto.UnmapWindowChecked(f.conn(), f.win).Check(); err != nil {
		return fmt.Errorf("failed to unmap window: %w", err)
	}
	return nil
}

// SetDecorated toggles window manager decorations via _MOTIF_WM_HINTS.
func (f *x11Frame) SetDecorated(decorated bool) error {
	hintsAtom, err := f.backend.getAtom("_MOTIF_WM_HINTS")
	if err != nil {
		return fmt.Errorf("failed to intern _MOTIF_WM_HINTS: %w", err)
	}

	var decorations uint32
	if decorated {
		decorations = 1
	}
	hints := [motifHintsLength]uint32{motifHintsDecorations, 0, decorations, 0, 0}

	data := make([]byte, 4*motifHintsLength)
	for i, v := range hints {
		xgb.Put32(data[i*4:], v)
	}

	err = xproto.ChangePropertyChecked(
		f.conn(),
		xproto.PropModeReplace,
		f.win,
		hintsAtom,
		hintsAtom,
		32,
		motifHintsLength,
		data,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to set decoration hints: %w", err)
	}
	return nil
}

// SetOpacity sets _NET_WM_WINDOW_OPACITY, honored by compositing managers.
func (f *x11Frame) SetOpacity(opacity float64) error {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}

	opacityAtom, err := f.backend.getAtom("_NET_WM_WINDOW_OPACITY")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_WM_WINDOW_OPACITY: %w", err)
	}

	data := make([]byte, 4)
	xgb.Put32(data, uint32(opacity*float64(0xffffffff)))

	err = xproto.ChangePropertyChecked(
		f.conn(),
		xproto.PropModeReplace,
		f.win,
		opacityAtom,
		xproto.AtomCardinal,
		32,
		1,
		data,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to set window opacity: %w", err)
	}
	return nil
}

// SetClickThrough clears or restores the input shape so pointer events
// pass through to whatever is behind the frame.
func (f *x11Frame) SetClickThrough(clickThrough bool) error {
	if !f.backend.hasShape {
		if clickThrough {
			return fmt.Errorf("shape extension unavailable: %w", ErrNotSupported)
		}
		return nil
	}

	if clickThrough {
		err := shape.RectanglesChecked(
			f.conn(),
			shape.SoSet,
			shape.SkInput,
			0,
			f.win,
			0, 0,
			[]xproto.Rectangle{},
		).Check()
		if err != nil {
			return fmt.Errorf("failed to clear input shape: %w", err)
		}
		return nil
	}

	// Setting the mask to None restores the default input region.
	err := shape.MaskChecked(
		f.conn(),
		shape.SoSet,
		shape.SkInput,
		f.win,
		0, 0,
		xproto.PixmapNone,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to restore input shape: %w", err)
	}
	return nil
}

// SetAlwaysOnTop asks the window manager for the above state via a
// _NET_WM_STATE client message.
func (f *x11Frame) SetAlwaysOnTop(onTop bool) error {
	stateAtom, err := f.backend.getAtom("_NET_WM_STATE")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_WM_STATE: %w", err)
	}
	aboveAtom, err := f.backend.getAtom("_NET_WM_STATE_ABOVE")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_WM_STATE_ABOVE: %w", err)
	}

	// 1 = _NET_WM_STATE_ADD, 0 = _NET_WM_STATE_REMOVE
	var action uint32
	if onTop {
		action = 1
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: f.win,
		Type:   stateAtom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			action,
			uint32(aboveAtom),
			0,
			1, // source indication: normal application
			0,
		}),
	}

	err = xproto.SendEventChecked(
		f.conn(),
		false,
		f.backend.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
	if err != nil {
		return fmt.Errorf("failed to request above state: %w", err)
	}
	return nil
}

// Raise brings the frame to the top of the stacking order.
func (f *x11Frame) Raise() error {
	err := xproto.ConfigureWindowChecked(
		f.conn(),
		f.win,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to raise window: %w", err)
	}
	return nil
}

// Protector returns a best-effort protector. The X11 protocol has no
// content-protection attribute; captures of the desktop will include the
// alignment frame on this platform.
func (f *x11Frame) Protector() protect.Protector {
	return protect.NewUnsupported("x11")
}

// Close destroys the window.
func (f *x11Frame) Close() error {
	if err := xproto.DestroyWindowChecked(f.conn(), f.win).Check(); err != nil {
		return fmt.Errorf("failed to destroy window: %w", err)
	}
	return nil
}

// setTitle sets both the legacy and EWMH window titles.
func (f *x11Frame) setTitle(title string) error {
	err := xproto.ChangePropertyChecked(
		f.conn(),
		xproto.PropModeReplace,
		f.win,
		xproto.AtomWmName,
		xproto.AtomString,
		8,
		uint32(len(title)),
		[]byte(title),
	).Check()
	if err != nil {
		return err
	}

	nameAtom, err := f.backend.getAtom("_NET_WM_NAME")
	if err != nil {
		return err
	}
	utf8Atom, err := f.backend.getAtom("UTF8_STRING")
	if err != nil {
		return err
	}
	return xproto.ChangePropertyChecked(
		f.conn(),
		xproto.PropModeReplace,
		f.win,
		nameAtom,
		utf8Atom,
		8,
		uint32(len(title)),
		[]byte(title),
	).Check()
}

// newPlatformBackend selects X11 on Linux.
func newPlatformBackend() (Backend, error) {
	return NewX11Backend()
}
