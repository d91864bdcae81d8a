//go:build !js || !wasm
// +build !js !wasm

package fetch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	fetch "github.com/frankli0324/go-fetch"
	"github.com/frankli0324/go-fetch/multipart"
	"github.com/frankli0324/go-fetch/streaming"
)

func newExampleServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			fmt.Fprintf(w, "label=%s", r.FormValue("label"))
			return
		}
		fmt.Fprint(w, "hello")
	}))
}

func ExampleFetch() {
	s := newExampleServer()
	defer s.Close()

	done := make(chan struct{})
	fetch.Fetch(context.Background(), fetch.Get(s.URL+"/missing"), func(resp *fetch.Response, err error) {
		defer close(done)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(resp.OK, resp.Status, resp.StatusText)
	})
	<-done
	// Output: false 404 Not Found
}

func ExampleFetchBlocking() {
	s := newExampleServer()
	defer s.Close()

	resp, err := fetch.FetchBlocking(context.Background(), fetch.Get(s.URL))
	if err != nil {
		fmt.Println(err)
		return
	}
	text, _ := resp.Text()
	fmt.Println(text)
	// Output: hello
}

func ExampleMultipart() {
	s := newExampleServer()
	defer s.Close()

	var b multipart.Builder
	if err := b.AddText("label", "lorem ipsum"); err != nil {
		fmt.Println(err)
		return
	}
	req, err := fetch.Multipart(s.URL, &b)
	if err != nil {
		fmt.Println(err)
		return
	}
	resp, err := fetch.FetchAsync(context.Background(), req)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(resp.Bytes))
	// Output: label=lorem ipsum
}

func ExampleClient_Use() {
	s := newExampleServer()
	defer s.Close()

	c := &fetch.Client{}
	c.Use(func(next fetch.Handler) fetch.Handler {
		return func(ctx context.Context, req *fetch.Request) (*fetch.Response, error) {
			req = req.Clone()
			req.Header.Insert("X-Trace", "1")
			return next(ctx, req)
		}
	})
	resp, err := c.FetchBlocking(context.Background(), fetch.Get(s.URL))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(resp.Status)
	// Output: 200
}

func Example_streaming() {
	s := newExampleServer()
	defer s.Close()

	streaming.FetchBlocking(context.Background(), nil, fetch.Get(s.URL), func(p streaming.Part, err error) streaming.Flow {
		switch {
		case err != nil:
			fmt.Println(err)
		case p.IsHeader():
			fmt.Println("status", p.Header.Status)
		case p.IsEnd():
			fmt.Println("end")
		default:
			fmt.Printf("chunk %q\n", p.Chunk)
		}
		return streaming.Continue
	})
	// Output:
	// status 200
	// chunk "hello"
	// end
}
