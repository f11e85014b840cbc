package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/celltable/binding"
	"github.com/ByLCY/celltable/cell"
	"github.com/ByLCY/celltable/dsl"
	"github.com/ByLCY/celltable/fonts"
	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/table"
)

const (
	blockSpacing   = 8.0
	defaultMargin  = 20 * MmToPt
	defaultVarName = "item"
)

var pagePresets = map[string][2]float64{
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
}

var namedColors = map[string]style.Color{
	"black": style.Black,
	"white": style.White,
	"gray":  {R: 128, G: 128, B: 128},
	"red":   {R: 255},
	"green": {G: 128},
	"blue":  {B: 255},
}

// Build 根据 DSL AST 生成页面与表格布局结果。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Metrics == nil {
		return nil, fmt.Errorf("layout: 缺少字体度量 Metrics")
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	b := &builder{res: res, opts: opts}

	var pages []Page
	for _, section := range doc.Sections {
		if section.Page == nil {
			continue
		}
		page, err := b.buildPage(section.Page, binding.NewScope(data))
		if err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", len(pages)+1, err)
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("文档中缺少 page 段落")
	}

	return &Result{
		Pages:     pages,
		Resources: res,
		Meta:      collectMeta(doc),
	}, nil
}

type builder struct {
	res  ResourceSet
	opts BuildOptions
}

func (b *builder) debugf(format string, args ...any) {
	if b.opts.Logger != nil {
		b.opts.Logger.Debugf(format, args...)
	}
}

func (b *builder) warnf(format string, args ...any) {
	if b.opts.Logger != nil {
		b.opts.Logger.Warnf(format, args...)
	}
}

// buildPage 从内容区顶部向下依次排列表格；超出下边距的表格保持原位，只记录警告。
func (b *builder) buildPage(section *dsl.PageSection, scope binding.Scope) (Page, error) {
	width, height, err := resolvePageSize(section)
	if err != nil {
		return Page{}, err
	}
	margin, err := resolveMargin(section.Params)
	if err != nil {
		return Page{}, err
	}
	page := Page{Width: width, Height: height, Margin: margin}
	if section.Block == nil {
		return page, nil
	}

	cursor := page.ContentTop()
	for i, cmd := range section.Block.Commands("table") {
		tbl, err := b.buildTable(cmd, scope, page.ContentWidth())
		if err != nil {
			return Page{}, fmt.Errorf("表格 %d (line %d): %w", i+1, cmd.Pos.Line, err)
		}
		tbl.X = margin.Left
		tbl.Y = cursor
		h, err := tbl.Height(b.opts.Metrics)
		if err != nil {
			return Page{}, fmt.Errorf("表格 %d: %w", i+1, err)
		}
		b.debugf("table %d at y=%.2f height=%.2f", i+1, cursor, h)
		cursor -= h + blockSpacing
		if cursor+blockSpacing < margin.Bottom {
			b.warnf("table %d runs past the bottom margin by %.2fpt", i+1, margin.Bottom-(cursor+blockSpacing))
		}
		page.Tables = append(page.Tables, tbl)
	}
	return page, nil
}

func (b *builder) buildTable(cmd *dsl.Command, scope binding.Scope, contentWidth float64) (*table.Table, error) {
	if cmd.Block == nil {
		return nil, fmt.Errorf("table 缺少内容")
	}
	proto := table.DefaultSettings(b.defaultFont()).NewCell("")
	styleName, attrs, _ := cmd.Attrs(true)
	if err := b.applyCellAttrs(proto, b.mergeStyle(styleName, attrs)); err != nil {
		return nil, err
	}

	columns, err := resolveColumns(cmd.Block, contentWidth)
	if err != nil {
		return nil, err
	}
	tbl := table.New(columns, settingsOf(proto))

	for _, rowCmd := range cmd.Block.Commands("row") {
		rows, err := b.buildRows(rowCmd, proto, scope)
		if err != nil {
			return nil, fmt.Errorf("row (line %d): %w", rowCmd.Pos.Line, err)
		}
		tbl.Rows = append(tbl.Rows, rows...)
	}
	if err := tbl.Validate(); err != nil {
		return nil, err
	}
	return tbl, nil
}

// buildRows 将 `row each "path" [as name]` 展开为每个元素一行。
func (b *builder) buildRows(cmd *dsl.Command, proto *cell.Cell, scope binding.Scope) ([]table.Row, error) {
	_, attrs, _ := cmd.Attrs(false)
	var minHeight float64
	if v, ok := attrs["height"]; ok {
		h, err := parsePt(v)
		if err != nil {
			return nil, err
		}
		minHeight = h
	}

	scopes := []binding.Scope{scope}
	if path, ok := attrs["each"]; ok {
		items, err := scope.Each(path)
		if err != nil {
			return nil, err
		}
		name := attrs["as"]
		if name == "" {
			name = defaultVarName
		}
		scopes = scopes[:0]
		for _, item := range items {
			scopes = append(scopes, scope.With(name, item))
		}
	}

	rows := make([]table.Row, 0, len(scopes))
	for _, sc := range scopes {
		row := table.Row{MinHeight: minHeight}
		for _, cellCmd := range cmd.Block.Commands("cell") {
			c, err := b.buildCell(cellCmd, proto, sc)
			if err != nil {
				return nil, fmt.Errorf("cell (line %d): %w", cellCmd.Pos.Line, err)
			}
			row.Cells = append(row.Cells, c)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (b *builder) buildCell(cmd *dsl.Command, proto *cell.Cell, scope binding.Scope) (*cell.Cell, error) {
	c := cloneCell(proto)
	styleName, attrs, _ := cmd.Attrs(true)
	if err := b.applyCellAttrs(c, b.mergeStyle(styleName, attrs)); err != nil {
		return nil, err
	}
	content, err := scope.Expand(cmd.Block.Text())
	if err != nil {
		return nil, err
	}
	c.Text = norm.NFC.String(content)

	sups := cmd.Block.Commands("sup")
	if len(sups) > 1 {
		return nil, fmt.Errorf("单元格最多只能有一个 sup")
	}
	if len(sups) == 1 {
		sup, err := b.buildSuperscript(sups[0], c, scope)
		if err != nil {
			return nil, err
		}
		c.Superscript = sup
	}
	return c, nil
}

// buildSuperscript 默认沿用单元格的字体与颜色，字号为 60%，抬升半个单元格字号。
func (b *builder) buildSuperscript(cmd *dsl.Command, owner *cell.Cell, scope binding.Scope) (*cell.Superscript, error) {
	content, err := scope.Expand(cmd.Block.Text())
	if err != nil {
		return nil, err
	}
	sup := &cell.Superscript{
		Text:     norm.NFC.String(content),
		Font:     owner.Font,
		FontSize: owner.FontSize * 0.6,
		Color:    owner.TextColor,
		TextRise: owner.FontSize / 2,
	}
	_, attrs, _ := cmd.Attrs(false)
	for _, key := range sortedKeys(attrs) {
		v := attrs[key]
		switch key {
		case "font":
			f, err := b.resolveFont(v)
			if err != nil {
				return nil, err
			}
			sup.Font = f
		case "size":
			if sup.FontSize, err = parsePt(v); err != nil {
				return nil, err
			}
		case "color":
			if sup.Color, err = b.resolveColor(v); err != nil {
				return nil, err
			}
		case "rise":
			if sup.TextRise, err = parsePt(v); err != nil {
				return nil, err
			}
		case "padding-right":
			if sup.PaddingRight, err = parsePt(v); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("sup 不支持属性 %s", key)
		}
	}
	return sup, nil
}

// applyCellAttrs 按固定顺序写入属性，通用键（border）先于具体键（border-left）。
func (b *builder) applyCellAttrs(c *cell.Cell, attrs map[string]string) error {
	for _, key := range sortedKeys(attrs) {
		if err := b.applyCellAttr(c, key, attrs[key]); err != nil {
			return fmt.Errorf("属性 %s=%s: %w", key, attrs[key], err)
		}
	}
	return nil
}

func (b *builder) applyCellAttr(c *cell.Cell, key, v string) error {
	var err error
	switch key {
	case "font":
		c.Font, err = b.resolveFont(v)
	case "size":
		c.FontSize, err = parsePt(v)
	case "color":
		c.TextColor, err = b.resolveColor(v)
	case "align":
		c.HorizontalAlignment, err = style.ParseHorizontalAlignment(v)
	case "valign":
		c.VerticalAlignment, err = style.ParseVerticalAlignment(v)
	case "padding":
		var p float64
		if p, err = parsePt(v); err == nil {
			c.Padding = cell.Uniform(p)
		}
	case "padding-left":
		c.Padding.Left, err = parsePt(v)
	case "padding-right":
		c.Padding.Right, err = parsePt(v)
	case "padding-top":
		c.Padding.Top, err = parsePt(v)
	case "padding-bottom":
		c.Padding.Bottom, err = parsePt(v)
	case "border":
		var w float64
		if w, err = parsePt(v); err == nil {
			c.Border.Top.Width, c.Border.Right.Width, c.Border.Bottom.Width, c.Border.Left.Width = w, w, w, w
		}
	case "border-left":
		c.Border.Left.Width, err = parsePt(v)
	case "border-right":
		c.Border.Right.Width, err = parsePt(v)
	case "border-top":
		c.Border.Top.Width, err = parsePt(v)
	case "border-bottom":
		c.Border.Bottom.Width, err = parsePt(v)
	case "border-color":
		var col style.Color
		if col, err = b.resolveColor(v); err == nil {
			c.Border.Color = col
			c.Border.Top.Color, c.Border.Right.Color, c.Border.Bottom.Color, c.Border.Left.Color = col, col, col, col
		}
	case "border-style":
		var bs style.BorderStyle
		if bs, err = style.ParseBorderStyle(v); err == nil {
			c.Border.Top.Style, c.Border.Right.Style, c.Border.Bottom.Style, c.Border.Left.Style = bs, bs, bs, bs
		}
	case "background":
		if strings.EqualFold(v, "none") {
			c.BackgroundColor = nil
			return nil
		}
		var col style.Color
		if col, err = b.resolveColor(v); err == nil {
			c.BackgroundColor = &col
		}
	case "line-spacing":
		c.LineSpacing, err = strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
	case "wrap":
		switch strings.ToLower(v) {
		case "on", "true", "yes":
			c.WordBreak = true
		case "off", "false", "no", "nowrap":
			c.WordBreak = false
		default:
			err = fmt.Errorf("wrap 只接受 on/off")
		}
	case "colspan":
		c.ColSpan, err = strconv.Atoi(v)
		if err == nil && c.ColSpan < 1 {
			err = fmt.Errorf("colspan 必须 >= 1")
		}
	default:
		err = fmt.Errorf("未知属性")
	}
	return err
}

func (b *builder) mergeStyle(name string, inline map[string]string) map[string]string {
	out := map[string]string{}
	if s, ok := b.res.Styles[name]; ok {
		for k, v := range s.Props {
			out[k] = v
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

func (b *builder) defaultFont() style.Font {
	return b.res.Fonts["Body"].Font()
}

func (b *builder) resolveFont(name string) (style.Font, error) {
	f, ok := b.res.Fonts[name]
	if !ok {
		return style.Font{}, fmt.Errorf("字体 %s 未定义", name)
	}
	return f.Font(), nil
}

func (b *builder) resolveColor(value string) (style.Color, error) {
	if c, ok := b.res.Colors[value]; ok {
		return c, nil
	}
	if c, ok := namedColors[strings.ToLower(value)]; ok {
		return c, nil
	}
	return parseColor(value)
}

func resolveColumns(block *dsl.Block, contentWidth float64) ([]float64, error) {
	columnsCmd := block.Commands("columns")
	if len(columnsCmd) == 0 {
		return nil, fmt.Errorf("table 缺少 columns 定义")
	}
	var widths []float64
	for _, col := range columnsCmd[0].Block.Commands("column") {
		if len(col.Args) == 0 {
			return nil, fmt.Errorf("column 缺少宽度")
		}
		l, err := ParseLength(col.Args[0].Value)
		if err != nil {
			return nil, err
		}
		widths = append(widths, l.Pt(contentWidth))
	}
	return widths, nil
}

func cloneCell(c *cell.Cell) *cell.Cell {
	out := *c
	if c.BackgroundColor != nil {
		bg := *c.BackgroundColor
		out.BackgroundColor = &bg
	}
	out.Superscript = nil
	return &out
}

// settingsOf 把原型单元格上的表格级默认值记录下来。
func settingsOf(proto *cell.Cell) table.Settings {
	s := table.Settings{
		Font:                proto.Font,
		FontSize:            proto.FontSize,
		TextColor:           proto.TextColor,
		Padding:             proto.Padding,
		BorderWidth:         proto.Border.Top.Width,
		BorderColor:         proto.Border.Color,
		BorderStyle:         proto.Border.Top.Style,
		HorizontalAlignment: proto.HorizontalAlignment,
		VerticalAlignment:   proto.VerticalAlignment,
		WordBreak:           proto.WordBreak,
		LineSpacing:         proto.LineSpacing,
	}
	if proto.BackgroundColor != nil {
		bg := *proto.BackgroundColor
		s.BackgroundColor = &bg
	}
	return s
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]style.Color{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		block := section.Resources.Block
		for _, cmd := range block.Commands("font") {
			font := parseFontResource(cmd)
			if font.Name != "" {
				res.Fonts[font.Name] = font
			}
		}
		for _, cmd := range block.Commands("color") {
			if len(cmd.Args) < 2 {
				return res, fmt.Errorf("color 资源缺少取值 (line %d)", cmd.Pos.Line)
			}
			c, err := parseColor(cmd.Args[len(cmd.Args)-1].Value)
			if err != nil {
				return res, err
			}
			res.Colors[cmd.Args[0].Value] = c
		}
		for _, cmd := range block.Commands("style") {
			st := parseStyleResource(cmd)
			if st.Name != "" {
				rawStyles[st.Name] = st
			}
		}
	}

	// 内置 Body/Bold 可被同名资源覆盖
	if _, ok := res.Fonts["Body"]; !ok {
		res.Fonts["Body"] = FontResource{Name: "Body", Src: fonts.Default}
	}
	if _, ok := res.Fonts["Bold"]; !ok {
		res.Fonts["Bold"] = FontResource{Name: "Bold", Src: "embed:gobold", Style: "bold"}
	}

	resolved, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = resolved
	return res, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "celltable"}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for key, val := range section.Meta.Block.Assignments() {
			switch strings.ToLower(key) {
			case "title":
				meta.Title = val.Text()
			case "author":
				meta.Author = val.Text()
			case "subject":
				meta.Subject = val.Text()
			case "creator":
				meta.Creator = val.Text()
			case "keywords":
				meta.Keywords = val.List()
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{Name: cmd.Args[0].Value}
	props := cmd.Block.Assignments()
	font.Src = props["src"].Text()
	font.Style = props["style"].Text()
	font.Fallback = props["fallback"].Text()
	if font.Src == "" {
		font.Src = fonts.Default
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	st := Style{Name: cmd.Args[0].Value, Props: map[string]string{}}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		st.Extends = cmd.Args[2].Value
	}
	for key, val := range cmd.Block.Assignments() {
		if s := val.Text(); s != "" {
			st.Props[strings.ToLower(key)] = s
		}
	}
	return st
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if st, ok := resolved[name]; ok {
			return st, nil
		}
		st, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if st.Extends != "" {
			parent, err := dfs(st.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range st.Props {
			props[k] = v
		}
		st.Props = props
		resolved[name] = st
		delete(visiting, name)
		return st, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func resolvePageSize(section *dsl.PageSection) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(section.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", section.Size)
	}
	width, height := base[0], base[1]
	for _, token := range section.Params {
		if token.Value == "landscape" {
			width, height = height, width
		}
	}
	return width, height, nil
}

// resolveMargin 读取 `margin v1 [v2 [v3 [v4]]]`，顺序同 CSS（上 右 下 左）。
func resolveMargin(params []*dsl.Lexeme) (Margin, error) {
	margin := Margin{Top: defaultMargin, Right: defaultMargin, Bottom: defaultMargin, Left: defaultMargin}
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		var vals []float64
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			if params[j].Type != "Number" {
				break
			}
			v, err := parsePt(params[j].Value)
			if err != nil {
				return margin, err
			}
			vals = append(vals, v)
		}
		switch len(vals) {
		case 0:
			return margin, fmt.Errorf("margin 缺少取值")
		case 1:
			v := vals[0]
			margin = Margin{Top: v, Right: v, Bottom: v, Left: v}
		case 2:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
		case 4:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin, nil
}

func parseColor(value string) (style.Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if hex == value || (len(hex) != 3 && len(hex) != 6) {
		return style.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return style.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return style.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// sortedKeys 让通用键排在带连字符的细化键之前
// （"border" < "border-color" < "border-left"）。
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
