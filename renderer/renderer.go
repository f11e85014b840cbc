package renderer

import "github.com/ByLCY/celltable/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF、SVG 或 PNG。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
