//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/dzonerzy/go-clip/clip"
	clipio "github.com/dzonerzy/go-clip/io"
	mw "github.com/dzonerzy/go-clip/middleware"
)

// Category: middleware

func benchApp(root *clip.Command) *clip.App {
	m := clipio.New().WithOut(io.Discard).WithErr(io.Discard).WithIn(&bytes.Buffer{})
	return clip.NewApp(root).WithIO(m)
}

func BenchmarkMiddlewareChain(b *testing.B) {
	root := clip.New("bench", "bench")
	root.Command("run", "").Option("v", "verbose").Back().Action(func(_ *clip.Context) error {
		return nil
	}).Use(mw.Chain(silentLogger(), mw.Recovery(mw.WithStackTrace(false)), mw.Timeout(10*time.Millisecond))...)

	app := benchApp(root)
	args := []string{"run", "-v"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = app.Run(context.Background(), args)
	}
}

func BenchmarkMiddlewareNested(b *testing.B) {
	root := clip.New("bench", "bench")
	root.Use(silentLogger())
	remote := root.Command("remote", "")
	remote.Use(mw.Recovery(mw.WithStackTrace(false)))
	remote.Command("add", "").
		Argument("name").Back().
		Argument("url").Back().
		Action(func(_ *clip.Context) error { return nil }).
		Use(mw.Timeout(10 * time.Millisecond))

	app := benchApp(root).Use(mw.Validate())
	args := []string{"remote", "add", "origin", "https://example.com/repo.git"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = app.Run(context.Background(), args)
	}
}
