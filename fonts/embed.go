// Package fonts 提供内置的 Go 字体，磁盘上没有字体文件时也能渲染。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是找不到字体时使用的内置字体。
const Default = "embed:goregular"

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomedium":     gomedium.TTF,
	"gomono":       gomono.TTF,
	"gomonobold":   gomonobold.TTF,
}

// IsEmbedded 判断 src 是否指向内置字体。
func IsEmbedded(src string) bool {
	return strings.HasPrefix(src, "embed:")
}

// Load 返回内置字体的字节数据，src 可写为 "embed:gobold" 或直接 "gobold"。
func Load(src string) ([]byte, error) {
	name := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(src, "embed:"), ".ttf"))
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("内置字体 %s 不存在（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 按字母序列出内置字体名。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
