package canvasrenderer

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/olekukonko/ll"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/celltable/layout"
	"github.com/ByLCY/celltable/renderer"
	"github.com/ByLCY/celltable/table"
)

// Output formats.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
)

// Renderer draws layout results via github.com/tdewolff/canvas. It also
// measures text, so the same instance serves layout and rendering.
type Renderer struct {
	baseDir string
	format  string
	logger  *ll.Logger

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	// Format is pdf (default) or svg; svg renders the first page only.
	Format string
	Logger *ll.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a PDF renderer rooted at baseDir for resolving fonts.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		format:       strings.ToLower(opts.Format),
		logger:       opts.Logger,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.format == "" {
		r.format = FormatPDF
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			// unreadable paths fail later, when the font is first used
			if data, _ := os.ReadFile(res.Path); len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Render renders the result into PDF or SVG bytes.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	switch r.format {
	case FormatPDF:
		return r.renderPDF(result)
	case FormatSVG:
		return r.renderSVG(result)
	default:
		return nil, fmt.Errorf("不支持的输出格式：%s", r.format)
	}
}

func (r *Renderer) renderPDF(result *layout.Result) ([]byte, error) {
	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, mm(first.Width), mm(first.Height), nil)
	keywords := strings.Join(result.Meta.Keywords, ", ")
	writer.SetInfo(result.Meta.Title, result.Meta.Subject, keywords, result.Meta.Author, result.Meta.Creator)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(mm(page.Width), mm(page.Height))
		}
		c, err := r.drawPage(page, i)
		if err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderSVG(result *layout.Result) ([]byte, error) {
	if len(result.Pages) > 1 {
		r.logf("svg output keeps page 1 of %d", len(result.Pages))
	}
	page := result.Pages[0]
	c, err := r.drawPage(page, 0)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writer := svg.New(&buf, mm(page.Width), mm(page.Height), nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPage paints every table of the page onto a fresh canvas.
func (r *Renderer) drawPage(page layout.Page, index int) (*canvas.Canvas, error) {
	c := canvas.New(mm(page.Width), mm(page.Height))
	surface := NewSurface(canvas.NewContext(c), r)
	drawer := &table.Drawer{Surface: surface, Metrics: r, Logger: r.logger}
	for i, tbl := range page.Tables {
		if err := drawer.Draw(tbl); err != nil {
			return nil, fmt.Errorf("第 %d 页表格 %d 绘制失败: %w", index+1, i+1, err)
		}
	}
	return c, nil
}

func (r *Renderer) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Debugf(format, args...)
	}
}
