// Package raster renders layout results to PNG with fogleman/gg.
package raster

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/olekukonko/ll"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/celltable/layout"
	"github.com/ByLCY/celltable/renderer"
	"github.com/ByLCY/celltable/table"
)

// DefaultDPI maps one pixel to one point.
const DefaultDPI = 72

// Options configures the raster renderer.
type Options struct {
	BaseDir string
	DPI     float64
	Logger  *ll.Logger
}

// Renderer measures text and paints the first page of a result to PNG.
type Renderer struct {
	baseDir string
	scale   float64
	logger  *ll.Logger

	mu          sync.Mutex
	parsedFonts map[string]*opentype.Font
	faces       map[faceKey]font.Face
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer; a DPI of zero means DefaultDPI.
func NewRenderer(opts Options) *Renderer {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{
		baseDir:     opts.BaseDir,
		scale:       dpi / 72,
		logger:      opts.Logger,
		parsedFonts: map[string]*opentype.Font{},
		faces:       map[faceKey]font.Face{},
	}
}

// Render paints the first page on a white background and encodes it as PNG.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	if len(result.Pages) > 1 {
		r.logf("png output keeps page 1 of %d", len(result.Pages))
	}
	page := result.Pages[0]
	w := int(math.Ceil(page.Width * r.scale))
	h := int(math.Ceil(page.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("页面尺寸无效：%gx%g", page.Width, page.Height)
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	drawer := &table.Drawer{Surface: NewSurface(dc, r, page.Height, r.scale), Metrics: r, Logger: r.logger}
	for i, tbl := range page.Tables {
		if err := drawer.Draw(tbl); err != nil {
			return nil, fmt.Errorf("表格 %d 绘制失败: %w", i+1, err)
		}
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Debugf(format, args...)
	}
}
