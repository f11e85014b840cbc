package raster

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/celltable/fonts"
	"github.com/ByLCY/celltable/style"
)

type faceKey struct {
	font string
	size float64
}

// face returns an opentype face at size. With DPI 72 one face unit is one
// point, so callers pass pt for metrics and px for drawing.
func (r *Renderer) face(f style.Font, size float64) (font.Face, error) {
	parsed, err := r.parsed(f)
	if err != nil {
		return nil, err
	}
	key := faceKey{font: f.Key(), size: size}
	r.mu.Lock()
	defer r.mu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("创建字体 %s 失败: %w", f.Name, err)
	}
	r.faces[key] = face
	return face, nil
}

// parsed tries src, then fallback, then the built-in default.
func (r *Renderer) parsed(f style.Font) (*opentype.Font, error) {
	key := f.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if parsed, ok := r.parsedFonts[key]; ok {
		return parsed, nil
	}
	var firstErr error
	for _, src := range []string{f.Src, f.Fallback, fonts.Default} {
		if src == "" {
			continue
		}
		parsed, err := r.parse(src)
		if err == nil {
			r.parsedFonts[key] = parsed
			return parsed, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		r.logf("font %s: %v", src, err)
	}
	return nil, firstErr
}

func (r *Renderer) parse(src string) (*opentype.Font, error) {
	var (
		data []byte
		err  error
	)
	if fonts.IsEmbedded(src) {
		data, err = fonts.Load(src)
	} else {
		path := src
		if !filepath.IsAbs(path) {
			if r.baseDir == "" {
				return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s", src)
			}
			path = filepath.Join(r.baseDir, path)
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return opentype.Parse(data)
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
