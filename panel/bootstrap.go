package panel

import (
	"encoding/json"
	"strings"

	"github.com/vcrobe/assignview/protocol"
)

// DecodeInitialState parses the bootstrap payload embedded by the host. A
// missing or malformed payload yields an empty state, which renders the
// placeholder.
func DecodeInitialState(raw string) protocol.ViewState {
	var state protocol.ViewState
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" || raw == "undefined" {
		return state
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return protocol.ViewState{}
	}
	return state
}
