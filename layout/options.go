package layout

import (
	"github.com/olekukonko/ll"

	"github.com/ByLCY/celltable/text"
)

// BuildOptions 配置布局阶段所需的依赖。
type BuildOptions struct {
	// Metrics 用于测量文本，以便在页面上纵向排列表格。
	Metrics text.Metrics
	// Logger 可选，为 nil 时不输出日志。
	Logger *ll.Logger
}
