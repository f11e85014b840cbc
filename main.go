package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"

	"github.com/ByLCY/celltable/draw"
	"github.com/ByLCY/celltable/dsl"
	"github.com/ByLCY/celltable/layout"
	"github.com/ByLCY/celltable/renderer"
	canvasrenderer "github.com/ByLCY/celltable/renderer/canvas"
	"github.com/ByLCY/celltable/renderer/raster"
	"github.com/ByLCY/celltable/table"
	"github.com/ByLCY/celltable/text"
)

// engine 同时负责测量与输出。
type engine interface {
	renderer.Renderer
	text.Metrics
}

type config struct {
	input  string
	output string
	debug  string
	ops    string
}

func main() {
	input := flag.String("in", "examples/invoice.ctable", "DSL 文件路径")
	output := flag.String("out", "output/invoice.pdf", "输出路径")
	format := flag.String("format", "pdf", "输出格式：pdf、svg 或 png")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	ops := flag.String("ops", "", "绘制指令记录 JSON 输出路径")
	dpi := flag.Float64("dpi", raster.DefaultDPI, "png 输出分辨率")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	logger := newLogger("celltable", *verbose)
	baseDir := filepath.Dir(*input)
	var e engine
	switch strings.ToLower(*format) {
	case "pdf", "svg":
		e = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir: baseDir,
			Format:  strings.ToLower(*format),
			Logger:  newLogger("celltable/render", *verbose),
		})
	case "png":
		e = raster.NewRenderer(raster.Options{BaseDir: baseDir, DPI: *dpi, Logger: newLogger("celltable/render", *verbose)})
	default:
		log.Fatalf("不支持的输出格式：%s", *format)
	}

	cfg := config{input: *input, output: *output, debug: *debug, ops: *ops}
	if err := run(cfg, inputData, e, logger); err != nil {
		log.Fatalf("生成文件失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", *output)
}

func newLogger(ns string, enabled bool) *ll.Logger {
	logger := ll.New(ns, ll.WithHandler(lh.NewTextHandler(os.Stderr)))
	if enabled {
		logger.Enable()
	} else {
		logger.Disable()
	}
	return logger
}

// run 串联解析、布局与渲染。
func run(cfg config, data any, e engine, logger *ll.Logger) error {
	if e == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Metrics: e,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.debug != "" {
		if err := writeDebug(result, cfg.debug); err != nil {
			return err
		}
	}
	if cfg.ops != "" {
		if err := writeOps(result, e, cfg.ops); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	out, err := e.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}

	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// writeOps 把所有页面的绘制指令依次记录到同一个 Recorder。
func writeOps(result *layout.Result, m text.Metrics, opsPath string) error {
	rec := draw.NewRecorder()
	drawer := &table.Drawer{Surface: rec, Metrics: m}
	for _, page := range result.Pages {
		for _, tbl := range page.Tables {
			if err := drawer.Draw(tbl); err != nil {
				return fmt.Errorf("记录绘制指令失败: %w", err)
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(opsPath), 0o755); err != nil {
		return fmt.Errorf("创建指令目录失败: %w", err)
	}
	if err := rec.WriteJSON(opsPath); err != nil {
		return fmt.Errorf("输出绘制指令失败: %w", err)
	}
	return nil
}
