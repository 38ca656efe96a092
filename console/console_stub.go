//go:build !(js && wasm)

package console

// Stub file for non-WASM builds so shared code compiles natively.
// The actual implementation is in console.go with js/wasm build tags.

// Log is a no-op in non-WASM builds.
func Log(args ...any) {}

// Warn is a no-op in non-WASM builds.
func Warn(args ...any) {}

// Error is a no-op in non-WASM builds.
func Error(args ...any) {}

// Writer discards output in non-WASM builds.
type Writer struct{}

func (Writer) Write(p []byte) (int, error) { return len(p), nil }

func (Writer) Sync() error { return nil }
