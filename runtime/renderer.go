package runtime

// Renderer defines the runtime operations available to components.
// This interface has NO build tags, making it available to both WASM and native test builds.
type Renderer interface {
	// ReRender re-runs the full render cycle: render, mount, bind.
	// Used by StateHasChanged() when component state changes.
	ReRender()
}
