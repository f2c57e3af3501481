//go:build windows

package window

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const wmClose = 0x0010

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW  = user32.NewProc("FindWindowW")
	procSendMessageW = user32.NewProc("SendMessageW")
)

// ClassCloser posts WM_CLOSE to the top-level window registered under Class.
type ClassCloser struct {
	Class string
}

// New takes the window class; the process name is only used on other platforms.
func New(windowClass, _ string) Closer {
	return &ClassCloser{Class: windowClass}
}

func (c *ClassCloser) Close(_ context.Context) (bool, error) {
	if c.Class == "" {
		return false, nil
	}
	if err := procFindWindowW.Find(); err != nil {
		return false, fmt.Errorf("user32 unavailable: %w", err)
	}

	class, err := windows.UTF16PtrFromString(c.Class)
	if err != nil {
		return false, err
	}

	hwnd, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(class)), 0)
	if hwnd == 0 {
		return false, nil
	}

	// SendMessage blocks until the window procedure has handled WM_CLOSE.
	_, _, _ = procSendMessageW.Call(hwnd, wmClose, 0, 0)
	return true, nil
}
