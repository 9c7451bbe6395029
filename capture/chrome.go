package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
)

// ChromeConfig configures the headless browser used for rasterising.
type ChromeConfig struct {
	Headless    bool
	Width       int
	Height      int
	Stylesheets []string
	Origin      string
	SkipFonts   bool
	Timeout     time.Duration
}

// ChromeRasterizer renders the flowchart document in headless Chrome and
// screenshots the #canvas element as PNG. One browser serves every capture;
// each capture gets its own tab.
type ChromeRasterizer struct {
	cfg         ChromeConfig
	stylesheets []string
	log         *zap.Logger

	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc

	mu      sync.Mutex
	started bool
}

// NewChromeRasterizer prepares the browser. The browser process starts on
// the first capture and runs until Close.
func NewChromeRasterizer(ctx context.Context, cfg ChromeConfig, logger *zap.Logger) *ChromeRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	opts = append(opts,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
		chromedp.WindowSize(cfg.Width, cfg.Height),
	)

	r := &ChromeRasterizer{
		cfg:         cfg,
		stylesheets: FilterStylesheets(cfg.Stylesheets, cfg.Origin, cfg.SkipFonts),
		log:         logger.Named("chrome"),
	}
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, opts...)
	r.allocatorCancel = allocatorCancel
	r.browserCtx, r.browserCancel = chromedp.NewContext(allocatorCtx,
		chromedp.WithLogf(r.log.Sugar().Debugf),
		chromedp.WithErrorf(r.log.Sugar().Errorf),
	)

	if dropped := len(cfg.Stylesheets) - len(r.stylesheets); dropped > 0 {
		r.log.Info("Stylesheets excluded from capture", zap.Int("dropped", dropped))
	}
	return r
}

func (r *ChromeRasterizer) Rasterize(ctx context.Context, f *flowchart.Flowchart) (Image, error) {
	doc, err := RenderDocument(f, RenderOptions{Stylesheets: r.stylesheets})
	if err != nil {
		return Image{}, err
	}

	if err := r.startBrowser(); err != nil {
		return Image{}, err
	}

	// A child of the started browser context opens a tab; cancel closes
	// only the tab.
	tabCtx, cancel := chromedp.NewContext(r.browserCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.cfg.Timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(r.cfg.Width), int64(r.cfg.Height)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitVisible("#canvas", chromedp.ByQuery),
		chromedp.Screenshot("#canvas", &buf, chromedp.ByQuery),
	)
	if err != nil {
		return Image{}, fmt.Errorf("capture: chrome screenshot: %w", err)
	}
	return Image{Data: buf, MIME: "image/png", Width: r.cfg.Width, Height: r.cfg.Height}, nil
}

// startBrowser launches the browser on first use.
func (r *ChromeRasterizer) startBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	if err := chromedp.Run(r.browserCtx); err != nil {
		return fmt.Errorf("capture: start chrome: %w", err)
	}
	r.started = true
	r.log.Info("Browser started")
	return nil
}

// Close stops the browser process.
func (r *ChromeRasterizer) Close() {
	r.browserCancel()
	r.allocatorCancel()
}
