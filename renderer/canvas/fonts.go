package canvasrenderer

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/celltable/fonts"
	"github.com/ByLCY/celltable/layout"
	"github.com/ByLCY/celltable/style"
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// fontFace returns a face at size pt. Text color is part of a canvas face.
func (r *Renderer) fontFace(font style.Font, size float64, col style.Color) (*canvas.FontFace, error) {
	family, fs, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, toColor(col), fs, canvas.FontNormal), nil
}

// ensureFontFamily loads src, then the font's fallback, then the built-in
// default. The first family that loads is cached under the font key.
func (r *Renderer) ensureFontFamily(font style.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := font.Key()
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	fs := parseFontStyle(font.Style)
	name := font.Name
	if name == "" {
		name = "Body"
	}
	var firstErr error
	for _, src := range []string{font.Src, font.Fallback} {
		if src == "" {
			continue
		}
		family := canvas.NewFontFamily(name)
		err := r.loadFontInto(family, src, fs)
		if err == nil {
			r.fontFamilies[key] = &fontFamilyEntry{family: family, style: fs}
			return family, fs, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		r.logf("font %s: %v", src, err)
	}

	fallback, err := r.fallback()
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return nil, canvas.FontRegular, firstErr
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
	return fallback, canvas.FontRegular, nil
}

func (r *Renderer) loadFontInto(family *canvas.FontFamily, src string, fs canvas.FontStyle) error {
	data, err := r.loadFontBytes(src)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, fs)
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if name, ok := strings.CutPrefix(src, "built-in:"); ok {
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if fonts.IsEmbedded(src) {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// fallback must be called with fontMu held.
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("celltable-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func parseFontStyle(s string) canvas.FontStyle {
	s = strings.ToLower(s)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func toColor(c style.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// mm converts engine points to canvas millimetres.
func mm(pt float64) float64 { return pt * layout.PtToMm }

// pt converts canvas millimetres back to points.
func pt(v float64) float64 { return v * layout.MmToPt }
