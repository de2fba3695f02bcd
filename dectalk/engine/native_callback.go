//go:build dectalk

package engine

/*
#include <dtk/ttsapi.h>
*/
import "C"

import (
	"sync"
	"unsafe"
)

// The SDK reports buffer completion through one process-wide C callback with
// no per-instance closure, so the live instance is registered here.
var (
	nativeMu   sync.Mutex
	nativeLive *Native
)

func registerNative(n *Native) {
	nativeMu.Lock()
	nativeLive = n
	nativeMu.Unlock()
}

func unregisterNative(n *Native) {
	nativeMu.Lock()
	if nativeLive == n {
		nativeLive = nil
	}
	nativeMu.Unlock()
}

//export nativeFillBridge
func nativeFillBridge(lParam1 C.LONG, lParam2 C.LONG, dwInstanceData C.DWORD, uiMsg C.UINT) {
	if uiMsg != C.TTS_MSG_BUFFER {
		return
	}
	nativeMu.Lock()
	n := nativeLive
	nativeMu.Unlock()
	if n == nil || n.fill == nil {
		return
	}
	pb := C.LPTTS_BUFFER_T(unsafe.Pointer(uintptr(lParam2)))
	if pb == nil {
		return
	}
	buf := n.deliver(pb)
	if buf == nil {
		return
	}
	// The fill handler re-queues the buffer itself via AddBuffer.
	n.fill(buf)
}
