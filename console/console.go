//go:build js && wasm

package console

import (
	"strings"
	"syscall/js"
)

func Log(args ...any) {
	console := js.Global().Get("console")
	console.Call("log", args...)
}

func Warn(args ...any) {
	console := js.Global().Get("console")
	console.Call("warn", args...)
}

func Error(args ...any) {
	console := js.Global().Get("console")
	console.Call("error", args...)
}

// Writer forwards each write to console.log, one call per line.
type Writer struct{}

func (Writer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		Log(line)
	}
	return len(p), nil
}

// Sync is a no-op; the browser console is unbuffered.
func (Writer) Sync() error { return nil }
