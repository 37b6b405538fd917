// Package views renders the complaint list, the complaint detail page and the
// account pages to a terminal. Each view owns its state (filter, complaint
// id) and reloads from the API on demand or from a poller.
package views

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/civicwatch/internal/client/client"
)

// Output serialises writes from views, pollers and the command loop so that
// a rendered block is never interleaved with other output.
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

// Block renders fn into a buffer and writes it in one piece.
func (o *Output) Block(fn func(w io.Writer)) {
	var buf bytes.Buffer
	fn(&buf)
	_, _ = o.Write(buf.Bytes())
}

func (o *Output) Println(a ...any) {
	_, _ = fmt.Fprintln(o, a...)
}

func (o *Output) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o, format, a...)
}

// Error renders err as a one-line "error: <detail>".
func (o *Output) Error(err error) {
	o.Println("error:", client.Detail(err))
}
