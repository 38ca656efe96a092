//go:build js && wasm

package main

import (
	"syscall/js"

	"go.uber.org/zap"

	"github.com/vcrobe/assignview/console"
	"github.com/vcrobe/assignview/dialogs"
	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/logging"
	"github.com/vcrobe/assignview/panel"
	"github.com/vcrobe/assignview/protocol"
	"github.com/vcrobe/assignview/transport"
)

func main() {
	// 1. Logger writing to the webview console
	logger, err := logging.New(logging.Config{Level: globalString("assignviewLogLevel")})
	if err != nil {
		console.Warn("falling back to info logging:", err.Error())
		logger, _ = logging.New(logging.Config{Level: "info"})
	}

	// 2. The host API. Without it the panel still renders but cannot send.
	opts := panel.Options{Confirm: dialogs.Browser{}, Logger: logger}
	pm, err := transport.NewPostMessage()
	if err != nil {
		logger.Warn("no host connection", zap.Error(err))
	} else {
		opts.Sender = pm
	}

	// 3. First render from the state embedded in the page
	p := panel.New(dom.NewBrowser("#"+panel.IDMount), panel.DecodeInitialState(initialState()), opts)
	p.Start()

	// 4. Every later state arrives as updateState
	if pm != nil {
		pm.Listen(func(msg protocol.Message) { p.HandleMessage(msg) })
	}

	// Keep the Go program running
	select {}
}

// initialState returns the bootstrap payload as JSON text. Hosts may embed it
// either as an object or as a string.
func initialState() string {
	v := js.Global().Get("initialState")
	switch v.Type() {
	case js.TypeUndefined, js.TypeNull:
		return ""
	case js.TypeString:
		return v.String()
	default:
		return js.Global().Get("JSON").Call("stringify", v).String()
	}
}

func globalString(name string) string {
	if v := js.Global().Get(name); v.Type() == js.TypeString {
		return v.String()
	}
	return ""
}
