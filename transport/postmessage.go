//go:build js && wasm

package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/vcrobe/assignview/protocol"
)

// PostMessage talks to the hosting editor through the webview message API.
type PostMessage struct {
	api      js.Value
	listener js.Func
}

// NewPostMessage acquires the webview API. It may only be acquired once per
// page, so create a single PostMessage and share it.
func NewPostMessage() (*PostMessage, error) {
	acquire := js.Global().Get("acquireVsCodeApi")
	if acquire.Type() != js.TypeFunction {
		return nil, errors.New("acquireVsCodeApi is not available")
	}
	return &PostMessage{api: acquire.Invoke()}, nil
}

// Send posts the message to the host as a plain object.
func (p *PostMessage) Send(msg protocol.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Command, err)
	}
	obj := js.Global().Get("JSON").Call("parse", string(raw))
	p.api.Call("postMessage", obj)
	return nil
}

// Listen registers handle for every message event on window. Events whose
// payload is not a protocol envelope are ignored.
func (p *PostMessage) Listen(handle func(protocol.Message)) {
	p.listener = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		data := args[0].Get("data")
		if !data.Truthy() {
			return nil
		}
		raw := js.Global().Get("JSON").Call("stringify", data).String()
		msg, err := protocol.ParseMessage([]byte(raw))
		if err != nil {
			return nil
		}
		handle(msg)
		return nil
	})
	js.Global().Get("window").Call("addEventListener", "message", p.listener)
}

// Close removes the message listener.
func (p *PostMessage) Close() {
	if p.listener.Truthy() {
		js.Global().Get("window").Call("removeEventListener", "message", p.listener)
		p.listener.Release()
	}
}
