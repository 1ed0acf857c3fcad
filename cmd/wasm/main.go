//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/draftroom/draftroom/backend-go/internal/document"
	"github.com/draftroom/draftroom/backend-go/internal/engine"
	"github.com/draftroom/draftroom/backend-go/internal/geom"
	"github.com/draftroom/draftroom/backend-go/internal/snap"
)

var eng *engine.Engine

func main() {
	e, err := engine.New(document.NewSampleDrawing("drw_local"), snap.Nop{})
	if err != nil {
		panic(err)
	}
	eng = e

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	api.Set("activateTool", js.FuncOf(activateTool))
	api.Set("deactivateTool", js.FuncOf(deactivateTool))
	api.Set("submitPoint", js.FuncOf(submitPoint))
	api.Set("finishGesture", js.FuncOf(finishGesture))
	api.Set("cancelGesture", js.FuncOf(cancelGesture))
	api.Set("setView", js.FuncOf(setView))
	api.Set("deleteEntity", js.FuncOf(deleteEntity))
	api.Set("loadDrawing", js.FuncOf(loadDrawing))

	// --- Queries (frontend ← engine) ---
	api.Set("activeTool", js.FuncOf(activeTool))
	api.Set("pendingPoints", js.FuncOf(pendingPoints))
	api.Set("drainEvents", js.FuncOf(drainEvents))
	api.Set("getDrawing", js.FuncOf(getDrawing))

	js.Global().Set("draftroomEngine", api)
	js.Global().Set("draftroomWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func activateTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing tool token")
	}
	if err := eng.ActivateTool(args[0].String()); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func deactivateTool(this js.Value, args []js.Value) interface{} {
	eng.DeactivateTool()
	return ok()
}

func submitPoint(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return fail("missing coordinates")
	}
	eng.SubmitPointer(args[0].Float(), args[1].Float())
	return ok()
}

func finishGesture(this js.Value, args []js.Value) interface{} {
	eng.FinishGesture()
	return ok()
}

func cancelGesture(this js.Value, args []js.Value) interface{} {
	eng.CancelGesture()
	return ok()
}

func setView(this js.Value, args []js.Value) interface{} {
	if len(args) < 6 {
		return fail("view matrix needs 6 numbers")
	}
	var m geom.Matrix
	for i := range m {
		m[i] = args[i].Float()
	}
	if err := eng.SetView(m); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func deleteEntity(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing entity id")
	}
	if err := eng.DeleteEntity(args[0].String()); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func loadDrawing(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing drawing JSON")
	}
	if err := eng.LoadDrawing([]byte(args[0].String())); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func activeTool(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ActiveTool())
}

func pendingPoints(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.PendingPoints())
	return js.ValueOf(string(data))
}

// drainEvents returns the inserted entities and notices accumulated since
// the previous call, as JSON.
func drainEvents(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(map[string]interface{}{
		"inserted": eng.DrainInserted(),
		"notices":  eng.DrainNotices(),
	})
	return js.ValueOf(string(data))
}

func getDrawing(this js.Value, args []js.Value) interface{} {
	data, err := eng.DrawingJSON()
	if err != nil {
		return fail(err.Error())
	}
	return js.ValueOf(string(data))
}
