//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/autosave"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/engine"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

const autosaveDelay = 2 * time.Second

var (
	editor *engine.Editor
	saver  *autosave.Task
)

func main() {
	editor = engine.NewEditor(catalog.Default(), nil)
	saver = autosave.New(autosaveDelay, saveToHost)
	editor.Subscribe(onEditorEvent)

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("newDocument", js.FuncOf(newDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("loadCatalog", js.FuncOf(loadCatalog))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("keyDown", js.FuncOf(keyDown))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("resize", js.FuncOf(resize))
	api.Set("resetView", js.FuncOf(resetView))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("deleteSelection", js.FuncOf(deleteSelection))
	api.Set("flipSide", js.FuncOf(flipSide))
	api.Set("setIntermediatePoints", js.FuncOf(setIntermediatePoints))
	api.Set("setDimension", js.FuncOf(setDimension))
	api.Set("flushAutosave", js.FuncOf(flushAutosave))

	// --- Queries (frontend ← editor) ---
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getState", js.FuncOf(getState))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))

	js.Global().Set("valobookEditor", api)
	js.Global().Set("valobookWasmReady", js.ValueOf(true))

	select {}
}

// saveToHost hands autosaved JSON to window.valobookSave when the page defines it.
func saveToHost(_ context.Context, payload []byte) error {
	fn := js.Global().Get("valobookSave")
	if fn.Type() == js.TypeFunction {
		fn.Invoke(string(payload))
	}
	return nil
}

func onEditorEvent(ev engine.Event) {
	if ev.Type == engine.EventDocument {
		if data, err := editor.DocumentJSON(); err == nil {
			saver.Arm(data)
		}
	}
	if fn := js.Global().Get("valobookOnChange"); fn.Type() == js.TypeFunction {
		fn.Invoke(string(ev.Type), string(ev.Change))
	}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

func decodeArg(args []js.Value, v interface{}) bool {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return false
	}
	return json.Unmarshal([]byte(args[0].String()), v) == nil
}

func toJSON(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("document JSON")
	}
	if err := editor.LoadDocument([]byte(args[0].String())); err != nil {
		return fail(err)
	}
	saver.Cancel()
	return ok()
}

func newDocument(this js.Value, args []js.Value) interface{} {
	name, mapRef := "Untitled", ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	if len(args) > 1 && args[1].Type() == js.TypeString {
		mapRef = args[1].String()
	}
	editor.NewDocument(name, mapRef)
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	data, err := document.Marshal(document.NewSampleDocument(typeid.NewDocumentID()))
	if err != nil {
		return fail(err)
	}
	if err := editor.LoadDocument(data); err != nil {
		return fail(err)
	}
	return ok()
}

// loadCatalog replaces the ability catalog of the running editor.
func loadCatalog(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("catalog JSON")
	}
	cat, err := catalog.Parse([]byte(args[0].String()))
	if err != nil {
		return fail(err)
	}
	if err := editor.SetCatalog(cat); err != nil {
		return fail(err)
	}
	return ok()
}

func setTool(this js.Value, args []js.Value) interface{} {
	var t engine.Tool
	if !decodeArg(args, &t) {
		return missing("tool JSON")
	}
	editor.SetTool(t)
	return ok()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	var ev engine.PointerEvent
	if !decodeArg(args, &ev) {
		return missing("pointer event")
	}
	editor.PointerDown(ev)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	var ev engine.PointerEvent
	if !decodeArg(args, &ev) {
		return missing("pointer event")
	}
	editor.PointerMove(ev)
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	var ev engine.PointerEvent
	if !decodeArg(args, &ev) {
		return missing("pointer event")
	}
	editor.PointerUp(ev)
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	var ev engine.KeyEvent
	if !decodeArg(args, &ev) {
		return js.ValueOf(false)
	}
	return js.ValueOf(editor.KeyDown(ev))
}

func wheel(this js.Value, args []js.Value) interface{} {
	var ev engine.WheelEvent
	if !decodeArg(args, &ev) {
		return missing("wheel event")
	}
	editor.Wheel(ev)
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("width and height")
	}
	editor.Resize(args[0].Float(), args[1].Float())
	return nil
}

func resetView(this js.Value, args []js.Value) interface{} {
	editor.Viewport().Reset()
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Redo())
}

func deleteSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.DeleteSelection())
}

func flipSide(this js.Value, args []js.Value) interface{} {
	editor.FlipSide()
	return nil
}

func setIntermediatePoints(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("id and count")
	}
	if err := editor.SetIntermediatePointCount(args[0].String(), args[1].Int()); err != nil {
		return fail(err)
	}
	return ok()
}

func setDimension(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return missing("id, dimension and value")
	}
	dim := catalog.Dimension(args[1].String())
	if err := editor.SetDimension(args[0].String(), dim, args[2].Float()); err != nil {
		return fail(err)
	}
	return ok()
}

func flushAutosave(this js.Value, args []js.Value) interface{} {
	if err := saver.Flush(context.Background()); err != nil {
		return fail(err)
	}
	return ok()
}

// --- Query Handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := editor.DocumentJSON()
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(string(data))
}

func getState(this js.Value, args []js.Value) interface{} {
	sc := editor.Scene()
	return toJSON(map[string]interface{}{
		"tool":      editor.Tool(),
		"selection": editor.Selection().IDs(),
		"overlay":   editor.Overlay(),
		"viewport":  editor.Viewport(),
		"matrix":    editor.Viewport().Matrix().ToSlice(),
		"canUndo":   sc.CanUndo(),
		"canRedo":   sc.CanRedo(),
	})
}

// hitTest takes screen coordinates and returns the topmost element id or "".
func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	x, y := editor.Viewport().ToDocument(args[0].Float(), args[1].Float())
	return js.ValueOf(editor.HitTest(x, y))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return toJSON(editor.SelectionBounds())
}
