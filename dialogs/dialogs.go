//go:build js && wasm

package dialogs

import (
	"syscall/js"
)

// Confirm shows the browser's blocking yes/no prompt.
func Confirm(message string) bool {
	result := js.Global().Call("confirm", message)
	return result.Truthy()
}

// Browser confirms through window.confirm.
type Browser struct{}

func (Browser) Confirm(message string) bool {
	return Confirm(message)
}
