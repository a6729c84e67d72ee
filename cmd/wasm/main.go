//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"syscall/js"
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/logger"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorNotInitialized
	ErrorUnknownView
	ErrorEngine
)

// initConfig is the argument of erasvizInit.
type initConfig struct {
	Datasets    map[string]erasviz.DatasetSource `json:"datasets"`
	Storyboards map[string]json.RawMessage       `json:"storyboards"`
	// TransitionMS overrides the default transition duration when set.
	TransitionMS *int `json:"transition_ms"`
}

var (
	mu     sync.Mutex
	engine *erasviz.Engine
)

func currentEngine() (*erasviz.Engine, bool) {
	mu.Lock()
	defer mu.Unlock()
	return engine, engine != nil
}

// erasvizInit(configJSON) creates the session engine.
// Returns: {error: number, data: string[] | string}
func erasvizInit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: config JSON string")
	}
	var cfg initConfig
	if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid config: %v", err))
	}

	opts := []erasviz.Option{
		erasviz.WithLogger(logger.GetLogger()),
		erasviz.WithBackend(audioBackend{}),
		erasviz.WithDatasets(cfg.Datasets),
	}
	if cfg.TransitionMS != nil {
		opts = append(opts, erasviz.WithTransition(time.Duration(*cfg.TransitionMS)*time.Millisecond))
	}
	for name, raw := range cfg.Storyboards {
		board, err := highlight.ParseStoryboard(raw)
		if err != nil {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Storyboard %s: %v", name, err))
		}
		opts = append(opts, erasviz.WithStoryboard(name, board))
	}
	for name, ds := range cfg.Datasets {
		if _, err := dataset.ParseKind(string(ds.Kind)); err != nil {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Dataset %s: %v", name, err))
		}
	}

	e, err := erasviz.New(opts...)
	if err != nil {
		return makeErrorResponse(ErrorEngine, err.Error())
	}
	mu.Lock()
	if engine != nil {
		engine.Close()
	}
	engine = e
	mu.Unlock()
	return makeResponse(e.DatasetNames())
}

// erasvizMount(viewConfigJSON) mounts a chart. The dataset fetch cannot
// block the JS event loop, so the result is a Promise of
// {error, data: {id, status, container_height}}.
func erasvizMount(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: view config JSON string")
	}
	e, ok := currentEngine()
	if !ok {
		return makeErrorResponse(ErrorNotInitialized, "erasvizInit has not been called")
	}
	var vc erasviz.ViewConfig
	if err := json.Unmarshal([]byte(args[0].String()), &vc); err != nil {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid view config: %v", err))
	}

	return promise(func() js.Value {
		v, err := e.Mount(context.Background(), vc)
		if err != nil {
			return makeErrorResponse(ErrorEngine, err.Error())
		}
		resp := map[string]any{
			"id":               v.ID(),
			"status":           v.Status(),
			"container_height": v.ContainerHeight(),
		}
		if err := v.Err(); err != nil {
			resp["message"] = err.Error()
		}
		return makeResponse(resp)
	})
}

// erasvizScroll(id, offset) feeds the distance scrolled past the top of the
// pinned region. Returns {error, data: {section_index, progress,
// page_progress, title}}.
func erasvizScroll(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || args[1].Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 2 arguments: id, offset")
	}
	v, errResp, ok := lookupView(args[0])
	if !ok {
		return errResp
	}
	ss, _ := v.Scroll(args[1].Float())
	resp := map[string]any{
		"section_index": ss.SectionIndex,
		"progress":      ss.Progress,
		"page_progress": v.PageProgress(),
	}
	if sec, ok := v.Section(); ok {
		resp["title"] = sec.Title
	}
	return makeResponse(resp)
}

// erasvizPointer(id, event, x, y) drives the tooltip. event is "move" or
// "leave"; a move over a new mark shows its tooltip.
// Returns {error, data: tooltip snapshot}.
func erasvizPointer(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || args[1].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected arguments: id, event, x, y")
	}
	v, errResp, ok := lookupView(args[0])
	if !ok {
		return errResp
	}
	if strings.EqualFold(args[1].String(), "leave") {
		return makeResponse(v.Leave())
	}
	if len(args) < 4 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected arguments: id, event, x, y")
	}
	return makeResponse(v.PointerAt(args[2].Float(), args[3].Float()))
}

// erasvizClick(id, x, y) toggles playback of the track under the pointer.
// Returns a Promise of {error, data: {hit, status, track_id, message}}; a
// rejected play() comes back as status "idle" with a message.
func erasvizClick(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 3 arguments: id, x, y")
	}
	v, errResp, ok := lookupView(args[0])
	if !ok {
		return errResp
	}
	x, y := args[1].Float(), args[2].Float()

	return promise(func() js.Value {
		st, hit, err := v.ClickAt(context.Background(), x, y)
		resp := map[string]any{"hit": hit, "status": st.Status, "track_id": st.TrackID}
		if err != nil {
			resp["message"] = err.Error()
		}
		return makeResponse(resp)
	})
}

// erasvizRender(id) returns the current scene as an SVG string, advancing
// any running transition. Call it from requestAnimationFrame while
// erasvizAnimating(id) is true.
func erasvizRender(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: id")
	}
	v, errResp, ok := lookupView(args[0])
	if !ok {
		return errResp
	}
	v.Tick()
	var b strings.Builder
	if err := v.WriteSVG(&b); err != nil {
		return makeErrorResponse(ErrorEngine, err.Error())
	}
	return makeResponse(b.String())
}

func erasvizAnimating(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return false
	}
	v, _, ok := lookupView(args[0])
	return ok && v.Scene().Animating
}

// erasvizResize(id, width, height, viewportHeight)
func erasvizResize(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 4 arguments: id, width, height, viewportHeight")
	}
	v, errResp, ok := lookupView(args[0])
	if !ok {
		return errResp
	}
	v.Resize(args[1].Float(), args[2].Float(), args[3].Float())
	return makeResponse(map[string]any{"container_height": v.ContainerHeight()})
}

// erasvizUnmount(id) releases the view's scroll subscription and any
// playback it started.
func erasvizUnmount(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: id")
	}
	e, ok := currentEngine()
	if !ok {
		return makeErrorResponse(ErrorNotInitialized, "erasvizInit has not been called")
	}
	return makeResponse(e.Unmount(args[0].String()))
}

func lookupView(id js.Value) (*erasviz.View, js.Value, bool) {
	e, ok := currentEngine()
	if !ok {
		return nil, makeErrorResponse(ErrorNotInitialized, "erasvizInit has not been called"), false
	}
	if id.Type() != js.TypeString {
		return nil, makeErrorResponse(ErrorInvalidArgs, "view id must be a string"), false
	}
	v, ok := e.View(id.String())
	if !ok {
		return nil, makeErrorResponse(ErrorUnknownView, "unknown view "+id.String()), false
	}
	return v, js.Value{}, true
}

// promise runs fn on its own goroutine and resolves with its result.
func promise(fn func() js.Value) js.Value {
	var handler js.Func
	handler = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve := args[0]
		go func() {
			defer handler.Release()
			resolve.Invoke(fn())
		}()
		return nil
	})
	return js.Global().Get("Promise").New(handler)
}

func makeResponse(data any) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	switch d := data.(type) {
	case string:
		result.Set("data", d)
	case bool:
		result.Set("data", d)
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return makeErrorResponse(ErrorEngine, err.Error())
		}
		result.Set("data", js.Global().Get("JSON").Call("parse", string(raw)))
	}
	return result
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	done := make(chan struct{})

	js.Global().Set("erasvizInit", js.FuncOf(erasvizInit))
	js.Global().Set("erasvizMount", js.FuncOf(erasvizMount))
	js.Global().Set("erasvizScroll", js.FuncOf(erasvizScroll))
	js.Global().Set("erasvizPointer", js.FuncOf(erasvizPointer))
	js.Global().Set("erasvizClick", js.FuncOf(erasvizClick))
	js.Global().Set("erasvizRender", js.FuncOf(erasvizRender))
	js.Global().Set("erasvizAnimating", js.FuncOf(erasvizAnimating))
	js.Global().Set("erasvizResize", js.FuncOf(erasvizResize))
	js.Global().Set("erasvizUnmount", js.FuncOf(erasvizUnmount))

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("erasvizReady", eventInit)
		window.Call("dispatchEvent", event)
	} else if !console.IsUndefined() {
		console.Call("error", "erasviz: window object is undefined")
	}

	if !console.IsUndefined() {
		console.Call("log", "erasviz WASM module loaded")
	}
	<-done
}
