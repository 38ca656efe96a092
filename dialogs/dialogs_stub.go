//go:build !(js && wasm)

package dialogs

// Confirm declines in non-WASM builds; there is nobody to ask.
func Confirm(message string) bool {
	return false
}
