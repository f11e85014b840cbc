package layout

import (
	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/table"
)

// 该文件定义布局结果与资源描述，供渲染与调试 JSON 共用。所有长度单位均为 pt。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录解析出的字体、颜色与样式定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]style.Color  `json:"colors"`
	Styles map[string]Style        `json:"styles"`
}

// FontResource 描述字体资源，src 可以是文件路径或 embed:* 内置字体。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Fallback string `json:"fallback,omitempty"`
}

// Font 返回单元格使用的字体句柄。
func (f FontResource) Font() style.Font {
	return style.Font{Name: f.Name, Src: f.Src, Style: f.Style, Fallback: f.Fallback}
}

// Page 记录页面尺寸、边距与其中已定位的表格。
type Page struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Margin Margin         `json:"margin"`
	Tables []*table.Table `json:"tables"`
}

// ContentTop 是上边距线的 y 坐标。
func (p Page) ContentTop() float64 { return p.Height - p.Margin.Top }

// ContentWidth 是左右边距之间的宽度。
func (p Page) ContentWidth() float64 { return p.Width - p.Margin.Left - p.Margin.Right }

// Margin 以 pt 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Style 是可继承的单元格属性集合。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
