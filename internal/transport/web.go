//go:build js && wasm
// +build js,wasm

package transport

import (
	"context"
	"fmt"
	"io"
	"strings"
	"syscall/js"

	"github.com/pkg/errors"

	"github.com/frankli0324/go-fetch/internal/model"
	"github.com/frankli0324/go-fetch/internal/streaming"
)

// Web executes requests with the browser's fetch API. It must be used from
// a goroutine that may block, never from inside a js.Func callback: the
// event loop has to keep running for the promises to settle.
type Web struct{}

func (Web) Fetch(ctx context.Context, r *model.Request) (*model.Response, error) {
	pr, err := r.PrepareRelative()
	if err != nil {
		return nil, err
	}
	resp, done, err := fetchBase(ctx, pr)
	if err != nil {
		return nil, err
	}
	defer done()
	head, err := partialFromJS(resp)
	if err != nil {
		return nil, err
	}
	buf, err := awaitCall(resp, "arrayBuffer")
	if err != nil {
		if pr.Method == model.MethodHead {
			return head.Complete([]byte{}), nil
		}
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return head.Complete(bytesFromJS(js.Global().Get("Uint8Array").New(buf))), nil
}

func (Web) Open(ctx context.Context, r *model.Request) (*model.PartialResponse, streaming.Body, error) {
	pr, err := r.PrepareRelative()
	if err != nil {
		return nil, nil, err
	}
	resp, done, err := fetchBase(ctx, pr)
	if err != nil {
		return nil, nil, err
	}
	head, err := partialFromJS(resp)
	if err != nil {
		done()
		return nil, nil, err
	}
	// HEAD and 204 responses have a null body
	body := resp.Get("body")
	if body.IsNull() || body.IsUndefined() {
		done()
		return head, emptyBody{}, nil
	}
	reader, err := call(body, "getReader")
	if err != nil {
		done()
		return nil, nil, err
	}
	return head, &webBody{reader: reader, method: pr.Method, done: done}, nil
}

// fetchBase starts the request and waits for the response head. done must
// be called once the response is no longer needed.
func fetchBase(ctx context.Context, pr *model.PreparedRequest) (resp js.Value, done func(), err error) {
	global := js.Global()
	if fetch := global.Get("fetch"); fetch.IsUndefined() {
		return js.Undefined(), nil, errors.New("the fetch API is not available in this environment")
	}

	init := global.Get("Object").New()
	init.Set("method", string(pr.Method))
	init.Set("mode", pr.Mode.String())

	headers := global.Get("Headers").New()
	for _, f := range pr.Header {
		if _, err := call(headers, "append", f.Name, f.Value); err != nil {
			return js.Undefined(), nil, err
		}
	}
	init.Set("headers", headers)

	if len(pr.Request.Body) > 0 {
		body := global.Get("Uint8Array").New(len(pr.Request.Body))
		js.CopyBytesToJS(body, pr.Request.Body)
		init.Set("body", body)
	}

	done = func() {}
	if ac := global.Get("AbortController"); !ac.IsUndefined() {
		controller := ac.New()
		init.Set("signal", controller.Get("signal"))
		stop := context.AfterFunc(ctx, func() { controller.Call("abort") })
		done = func() { stop() }
	}

	resp, err = awaitCall(global, "fetch", pr.U.String(), init)
	if err != nil {
		done()
		if ctx.Err() != nil {
			return js.Undefined(), nil, ctx.Err()
		}
		return js.Undefined(), nil, err
	}
	return resp, done, nil
}

// partialFromJS reads status and headers off a fetch Response. The browser
// already joins repeated headers into one comma separated value.
func partialFromJS(resp js.Value) (*model.PartialResponse, error) {
	var headers model.Headers
	collect := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		// forEach passes (value, name)
		headers.Insert(strings.ToLower(args[1].String()), args[0].String())
		return nil
	})
	defer collect.Release()
	if _, err := call(resp.Get("headers"), "forEach", collect); err != nil {
		return nil, err
	}
	headers.Sort()

	status := resp.Get("status").Int()
	return model.NewPartialResponse(
		resp.Get("url").String(),
		status,
		resp.Get("statusText").String(),
		headers,
	), nil
}

type webBody struct {
	reader js.Value
	method model.Method
	done   func()
	closed bool
}

func (b *webBody) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := awaitCall(b.reader, "read")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if b.method == model.MethodHead {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if res.Get("done").Bool() {
		return nil, io.EOF
	}
	return bytesFromJS(res.Get("value")), nil
}

func (b *webBody) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	// the returned promise is of no interest, cancelling is best effort
	call(b.reader, "cancel")
	b.done()
	return nil
}

func bytesFromJS(v js.Value) []byte {
	b := make([]byte, v.Get("byteLength").Int())
	js.CopyBytesToGo(b, v)
	return b
}

type settled struct {
	value js.Value
	err   error
}

// awaitCall calls method on v and waits for the returned promise.
func awaitCall(v js.Value, method string, args ...interface{}) (js.Value, error) {
	p, err := call(v, method, args...)
	if err != nil {
		return js.Undefined(), err
	}
	return await(p)
}

// await parks the goroutine until p settles. The callbacks run on the event
// loop and only post into a buffered channel.
func await(p js.Value) (js.Value, error) {
	ch := make(chan settled, 1)
	then := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		ch <- settled{value: arg(args)}
		return nil
	})
	defer then.Release()
	catch := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		ch <- settled{err: errorFromJS(arg(args))}
		return nil
	})
	defer catch.Release()
	p.Call("then", then, catch)
	s := <-ch
	return s.value, s.err
}

// call is v.Call that returns exceptions thrown by JavaScript instead of
// panicking.
func call(v js.Value, method string, args ...interface{}) (res js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = errorFromJS(jsErr.Value)
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return v.Call(method, args...), nil
}

func arg(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

// errorFromJS describes a rejection. fetch rejects with a bare TypeError
// whenever the browser prevents a request, which tells nothing on its own.
func errorFromJS(v js.Value) error {
	if typeError := js.Global().Get("TypeError"); !typeError.IsUndefined() && v.InstanceOf(typeError) {
		return errors.Errorf("failed to fetch: %s; the browser blocked the request or could not reach the server. "+
			"Common causes are CORS, mixed content, a content security policy, an ad blocker or no network connection; "+
			"the browser console has details", v.Get("message").String())
	}
	switch v.Type() {
	case js.TypeString:
		return errors.New(v.String())
	case js.TypeObject:
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			if name := v.Get("name"); name.Type() == js.TypeString {
				return errors.New(name.String() + ": " + msg.String())
			}
			return errors.New(msg.String())
		}
	}
	return errors.New(js.Global().Call("String", v).String())
}
