//go:build windows

package window

import (
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/logger"
	"github.com/bryanchriswhite/shareframe/internal/protect"
)

// Window display affinity values (SetWindowDisplayAffinity).
const (
	wdaNone               = 0x00
	wdaMonitor            = 0x01
	wdaExcludeFromCapture = 0x11 // Windows 10 2004+
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procSetWindowDisplayAffinity = user32.NewProc("SetWindowDisplayAffinity")
)

// Win32Backend implements the Backend interface using the Win32 API.
type Win32Backend struct{}

// NewWin32Backend creates a new Win32 backend.
func NewWin32Backend() (*Win32Backend, error) {
	return &Win32Backend{}, nil
}

// Connect is a no-op; Win32 needs no display-server connection.
func (b *Win32Backend) Connect() error {
	return nil
}

// Close is a no-op; frames own their message pumps.
func (b *Win32Backend) Close() error {
	return nil
}

// Name returns the backend name.
func (b *Win32Backend) Name() string {
	return "win32"
}

type createResult struct {
	hwnd win.HWND
	err  error
}

// CreateFrame creates the frame window on a dedicated OS thread that runs
// its message pump. Window creation binds the window to the creating
// thread, so the pump thread must own it.
func (b *Win32Backend) CreateFrame(cfg config.FrameConfig) (Frame, error) {
	log := logger.WithComponent("win32-backend")

	resultCh := make(chan createResult, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		classNameStr := fmt.Sprintf("ShareFrame_%d", time.Now().UnixNano())
		className := syscall.StringToUTF16Ptr(classNameStr)
		wndClass := win.WNDCLASSEX{
			CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
			Style:         win.CS_HREDRAW | win.CS_VREDRAW,
			LpfnWndProc:   syscall.NewCallback(frameWndProc),
			HInstance:     win.GetModuleHandle(nil),
			HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
			HbrBackground: win.HBRUSH(win.GetStockObject(win.WHITE_BRUSH)),
			LpszClassName: className,
		}

		if atom := win.RegisterClassEx(&wndClass); atom == 0 {
			resultCh <- createResult{err: fmt.Errorf("failed to register window class")}
			return
		}
		defer win.UnregisterClass(className)

		geom := cfg.Geometry
		// WS_EX_TOOLWINDOW keeps the frame out of the taskbar and
		// alt-tab; it is a viewfinder, not an application window.
		hwnd := win.CreateWindowEx(
			win.WS_EX_LAYERED|win.WS_EX_TOOLWINDOW,
			className,
			syscall.StringToUTF16Ptr(cfg.Title),
			win.WS_OVERLAPPEDWINDOW|win.WS_VISIBLE,
			int32(geom.X), int32(geom.Y),
			int32(geom.Width), int32(geom.Height),
			0, 0, win.GetModuleHandle(nil), nil,
		)
		if hwnd == 0 {
			resultCh <- createResult{err: fmt.Errorf("failed to create frame window (error %d)", win.GetLastError())}
			return
		}

		// Layered windows start undrawn until an alpha is applied.
		win.SetLayeredWindowAttributes(hwnd, 0, 255, win.LWA_ALPHA)
		win.UpdateWindow(hwnd)

		resultCh <- createResult{hwnd: hwnd}

		var msg win.MSG
		for {
			ret := win.GetMessage(&msg, 0, 0, 0)
			if ret == 0 || ret == -1 {
				return
			}
			win.TranslateMessage(&msg)
			win.DispatchMessage(&msg)
		}
	}()

	res := <-resultCh
	if res.err != nil {
		return nil, res.err
	}

	log.Info().
		Uint64("hwnd", uint64(res.hwnd)).
		Int("x", cfg.Geometry.X).Int("y", cfg.Geometry.Y).
		Int("width", cfg.Geometry.Width).Int("height", cfg.Geometry.Height).
		Msg("Frame window created")

	return &win32Frame{hwnd: res.hwnd}, nil
}

// frameWndProc handles messages for the frame window. The frame has no
// content of its own; everything interesting happens through attribute
// setters from the app loop.
func frameWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// win32Frame implements Frame over an HWND. Attribute setters are safe to
// call from outside the pump thread.
type win32Frame struct {
	hwnd win.HWND
}

// Geometry reads the current window rectangle in screen coordinates.
func (f *win32Frame) Geometry() (config.Geometry, error) {
	var rect win.RECT
	if !win.GetWindowRect(f.hwnd, &rect) {
		return config.Geometry{}, fmt.Errorf("failed to get window rect (error %d)", win.GetLastError())
	}
	return config.Geometry{
		X:      int(rect.Left),
		Y:      int(rect.Top),
		Width:  int(rect.Right - rect.Left),
		Height: int(rect.Bottom - rect.Top),
	}, nil
}

// SetVisible shows or hides the window.
func (f *win32Frame) SetVisible(visible bool) error {
	cmd := int32(win.SW_HIDE)
	if visible {
		cmd = win.SW_SHOW
	}
	win.ShowWindow(f.hwnd, cmd)
	return nil
}

// SetDecorated toggles the caption and sizing border.
func (f *win32Frame) SetDecorated(decorated bool) error {
	style := win.GetWindowLong(f.hwnd, win.GWL_STYLE)
	if decorated {
		style |= win.WS_CAPTION | win.WS_THICKFRAME
	} else {
		style &^= win.WS_CAPTION | win.WS_THICKFRAME
	}
	win.SetWindowLong(f.hwnd, win.GWL_STYLE, style)

	// Style changes take effect only after a frame-changed reposition.
	if !win.SetWindowPos(f.hwnd, 0, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_NOZORDER|win.SWP_NOACTIVATE|win.SWP_FRAMECHANGED) {
		return fmt.Errorf("failed to apply frame change (error %d)", win.GetLastError())
	}
	return nil
}

// SetOpacity sets the layered window alpha.
func (f *win32Frame) SetOpacity(opacity float64) error {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	if !win.SetLayeredWindowAttributes(f.hwnd, 0, byte(opacity*255), win.LWA_ALPHA) {
		return fmt.Errorf("failed to set window alpha (error %d)", win.GetLastError())
	}
	return nil
}

// SetClickThrough toggles WS_EX_TRANSPARENT so input lands behind the frame.
func (f *win32Frame) SetClickThrough(clickThrough bool) error {
	exStyle := win.GetWindowLong(f.hwnd, win.GWL_EXSTYLE)
	if clickThrough {
		exStyle |= win.WS_EX_TRANSPARENT
	} else {
		exStyle &^= win.WS_EX_TRANSPARENT
	}
	win.SetWindowLong(f.hwnd, win.GWL_EXSTYLE, exStyle)
	return nil
}

// SetAlwaysOnTop toggles the topmost z-order band.
func (f *win32Frame) SetAlwaysOnTop(onTop bool) error {
	insertAfter := win.HWND_NOTOPMOST
	if onTop {
		insertAfter = win.HWND_TOPMOST
	}
	if !win.SetWindowPos(f.hwnd, insertAfter, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_NOACTIVATE) {
		return fmt.Errorf("failed to set z-order (error %d)", win.GetLastError())
	}
	return nil
}

// Raise brings the frame to the top of its z-order band once.
func (f *win32Frame) Raise() error {
	if !win.SetWindowPos(f.hwnd, win.HWND_TOP, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_NOACTIVATE) {
		return fmt.Errorf("failed to raise window (error %d)", win.GetLastError())
	}
	return nil
}

// Protector returns the display-affinity adapter for this window.
func (f *win32Frame) Protector() protect.Protector {
	return &win32Protector{hwnd: f.hwnd}
}

// Close destroys the window, which also stops its message pump.
func (f *win32Frame) Close() error {
	win.PostMessage(f.hwnd, win.WM_CLOSE, 0, 0)
	return nil
}

// win32Protector applies SetWindowDisplayAffinity. WDA_EXCLUDEFROMCAPTURE
// removes the window from capture entirely; builds older than Windows 10
// 2004 only support WDA_MONITOR, which blacks the window out instead.
type win32Protector struct {
	hwnd win.HWND
}

func (p *win32Protector) SetExcluded(excluded bool) error {
	affinity := uintptr(wdaNone)
	if excluded {
		affinity = wdaExcludeFromCapture
	}

	ret, _, _ := procSetWindowDisplayAffinity.Call(uintptr(p.hwnd), affinity)
	if ret == 0 && excluded {
		logger.WithComponent("win32-backend").Debug().
			Msg("WDA_EXCLUDEFROMCAPTURE rejected, falling back to WDA_MONITOR")
		ret, _, _ = procSetWindowDisplayAffinity.Call(uintptr(p.hwnd), wdaMonitor)
	}
	if ret == 0 {
		return fmt.Errorf("SetWindowDisplayAffinity failed (error %d)", win.GetLastError())
	}
	return nil
}

// newPlatformBackend selects Win32 on Windows.
func newPlatformBackend() (Backend, error) {
	return NewWin32Backend()
}
