//go:build windows

package win

//unmanaged:handle
type HWND struct {
	HWNDNativeHandle
}
