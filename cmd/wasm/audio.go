//go:build js && wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall/js"
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
)

// audioBackend plays sources through an HTMLAudioElement.
type audioBackend struct{}

func (audioBackend) Open(ctx context.Context, src playback.Source) (playback.Resource, error) {
	if src.URL == "" {
		return nil, errors.New("only URL sources can play in the browser")
	}
	r := &audioResource{
		el:   js.Global().Get("Audio").New(src.URL),
		done: make(chan struct{}),
	}
	r.onEnded = js.FuncOf(func(js.Value, []js.Value) any {
		r.finish(nil)
		return nil
	})
	r.onError = js.FuncOf(func(js.Value, []js.Value) any {
		r.finish(fmt.Errorf("audio element error loading %s", src.URL))
		return nil
	})
	r.el.Call("addEventListener", "ended", r.onEnded)
	r.el.Call("addEventListener", "error", r.onError)
	return r, nil
}

type audioResource struct {
	el      js.Value
	onEnded js.Func
	onError js.Func

	mu   sync.Mutex
	err  error
	done chan struct{}
	once sync.Once
}

// Play waits for the promise returned by play(). A rejection, such as an
// autoplay block, is returned as the error.
func (r *audioResource) Play() error {
	result := make(chan error, 1)
	resolve := js.FuncOf(func(js.Value, []js.Value) any {
		result <- nil
		return nil
	})
	reject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		msg := "play() rejected"
		if len(args) > 0 && args[0].Truthy() {
			msg += ": " + args[0].Get("name").String()
		}
		result <- errors.New(msg)
		return nil
	})
	defer resolve.Release()
	defer reject.Release()

	r.el.Call("play").Call("then", resolve, reject)
	select {
	case err := <-result:
		return err
	case <-time.After(10 * time.Second):
		return errors.New("play() did not settle")
	}
}

func (r *audioResource) Close() error {
	r.el.Call("pause")
	r.el.Call("removeEventListener", "ended", r.onEnded)
	r.el.Call("removeEventListener", "error", r.onError)
	r.el.Set("src", "")
	r.finish(nil)
	r.onEnded.Release()
	r.onError.Release()
	return nil
}

func (r *audioResource) finish(err error) {
	r.once.Do(func() {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		close(r.done)
	})
}

func (r *audioResource) Done() <-chan struct{} { return r.done }

func (r *audioResource) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *audioResource) Position() time.Duration {
	return time.Duration(r.el.Get("currentTime").Float() * float64(time.Second))
}
