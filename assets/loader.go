// Package assets decodes texture images off the render goroutine.
package assets

import (
	"image"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"

	"pbr-viewer/render"
)

// Request names an image to load. Key is echoed back in the Result.
type Request struct {
	Key  string
	Path string
}

type Result struct {
	Key   string
	Image *image.NRGBA
	Err   error
}

type Options struct {
	// Workers bounds concurrent decodes. Zero means GOMAXPROCS.
	Workers int
	// MaxDimension downscales larger images. Zero keeps the source size.
	MaxDimension int
	// Progress receives a progress bar per Load call when non-nil.
	Progress io.Writer
}

// Loader decodes images on background goroutines and hands the results to
// the render goroutine through Poll or Wait.
type Loader struct {
	opts    Options
	sem     chan struct{}
	results chan Result
	quit    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending int
	closed  bool
}

func NewLoader(opts Options) *Loader {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Loader{
		opts:    opts,
		sem:     make(chan struct{}, opts.Workers),
		results: make(chan Result),
		quit:    make(chan struct{}),
	}
}

// Load starts decoding every request. It returns immediately. Requests made
// after Close are ignored.
func (l *Loader) Load(reqs ...Request) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.pending += len(reqs)
	l.wg.Add(len(reqs))
	l.mu.Unlock()

	var bar *progressbar.ProgressBar
	if l.opts.Progress != nil && len(reqs) > 0 {
		bar = progressbar.NewOptions(len(reqs),
			progressbar.OptionSetWriter(l.opts.Progress),
			progressbar.OptionSetDescription("loading assets"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
	}

	for _, req := range reqs {
		go l.run(req, bar)
	}
}

func (l *Loader) run(req Request, bar *progressbar.ProgressBar) {
	defer l.wg.Done()

	select {
	case l.sem <- struct{}{}:
	case <-l.quit:
		return
	}
	img, err := DecodeFile(req.Path, l.opts.MaxDimension)
	<-l.sem

	if bar != nil {
		_ = bar.Add(1)
	}
	if err != nil {
		render.Logger().Warn("assets: load failed", slog.String("key", req.Key), slog.Any("err", err))
	} else {
		render.Logger().Debug("assets: loaded",
			slog.String("key", req.Key),
			slog.Int("width", img.Rect.Dx()),
			slog.Int("height", img.Rect.Dy()))
	}

	select {
	case l.results <- Result{Key: req.Key, Image: img, Err: err}:
	case <-l.quit:
	}
}

// Pending is the number of requests whose results have not been received.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

func (l *Loader) received() {
	l.mu.Lock()
	l.pending--
	l.mu.Unlock()
}

// Poll returns the results that are ready without blocking.
func (l *Loader) Poll() []Result {
	var out []Result
	for {
		select {
		case r := <-l.results:
			l.received()
			out = append(out, r)
		default:
			return out
		}
	}
}

// Wait blocks until every outstanding request has produced a result or the
// loader is closed.
func (l *Loader) Wait() []Result {
	var out []Result
	for l.Pending() > 0 {
		select {
		case r := <-l.results:
			l.received()
			out = append(out, r)
		case <-l.quit:
			return out
		}
	}
	return out
}

// Close stops delivery. Decodes still in flight finish and are dropped.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	close(l.quit)
	l.wg.Wait()
}
