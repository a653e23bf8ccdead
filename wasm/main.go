//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("GPostNewEditor", js.FuncOf(newEditor))
	js.Global().Set("GPostProcess", js.FuncOf(process))
	js.Global().Set("GPostProcessChunks", js.FuncOf(processChunks))
	js.Global().Set("GPostCloseEditor", js.FuncOf(closeEditor))
	js.Global().Set("GPostGetBuiltinScripts", js.FuncOf(getBuiltinScripts))

	// Keep WASM running
	<-make(chan struct{})
}
