// Package binding 用 JSON 数据填充单元格文本中的 ${...} 占位符。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Scope 是占位符可见的数据：根数据加上 `row each` 绑定的变量，
// 变量会遮蔽同名的根键。
type Scope struct {
	Root any
	Vars map[string]any
}

// NewScope 以根数据创建作用域。
func NewScope(root any) Scope {
	return Scope{Root: root}
}

// With 返回绑定了 name=v 的作用域副本。
func (s Scope) With(name string, v any) Scope {
	vars := make(map[string]any, len(s.Vars)+1)
	for k, val := range s.Vars {
		vars[k] = val
	}
	vars[name] = v
	return Scope{Root: s.Root, Vars: vars}
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空、路径不存在或表达式求值失败，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	out, _ := NewScope(data).expand(text, false)
	return out
}

// Expand 与 Interpolate 相同，但 ${= expr} 求值失败时返回错误。
// 不存在的路径仍原样保留。
func (s Scope) Expand(text string) (string, error) {
	return s.expand(text, true)
}

func (s Scope) expand(text string, strict bool) (string, error) {
	var (
		vm       *goja.Runtime
		firstErr error
	)
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		body := strings.TrimSpace(groups[1])
		if body == "" {
			return match
		}
		if expr, ok := strings.CutPrefix(body, "="); ok {
			if vm == nil {
				var err error
				if vm, err = s.runtime(); err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return match
				}
			}
			val, err := evaluate(vm, strings.TrimSpace(expr))
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("表达式 %q 求值失败: %w", expr, err)
				}
				return match
			}
			return format(val)
		}
		if val, ok := s.Lookup(body); ok {
			return format(val)
		}
		return match
	})
	if strict && firstErr != nil {
		return text, firstErr
	}
	return out, nil
}

// Lookup 解析 items[0].name 这样的路径。
func (s Scope) Lookup(path string) (any, bool) {
	name, _ := parseSegment(strings.SplitN(path, ".", 2)[0])
	if v, ok := s.Vars[name]; ok {
		return resolvePath(map[string]any{name: v}, path)
	}
	return resolvePath(s.Root, path)
}

// Each 为 `row each` 把路径解析为数组。
func (s Scope) Each(path string) ([]any, error) {
	val, ok := s.Lookup(strings.TrimSpace(path))
	if !ok {
		return nil, fmt.Errorf("数据路径 %s 不存在", path)
	}
	items, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("数据路径 %s 不是数组（%T）", path, val)
	}
	return items, nil
}

// runtime 将根数据的键、data 与作用域变量绑定为全局变量。
// 与只读全局（如 NaN、undefined）同名的键会导致绑定失败。
func (s Scope) runtime() (*goja.Runtime, error) {
	vm := goja.New()
	if root, ok := s.Root.(map[string]any); ok {
		for k, v := range root {
			if err := vm.Set(k, v); err != nil {
				return nil, fmt.Errorf("绑定变量 %s 失败: %w", k, err)
			}
		}
	}
	if err := vm.Set("data", s.Root); err != nil {
		return nil, fmt.Errorf("绑定变量 data 失败: %w", err)
	}
	for k, v := range s.Vars {
		if err := vm.Set(k, v); err != nil {
			return nil, fmt.Errorf("绑定变量 %s 失败: %w", k, err)
		}
	}
	return vm, nil
}

func evaluate(vm *goja.Runtime, expr string) (any, error) {
	val, err := vm.RunString(expr)
	if err != nil {
		return nil, err
	}
	if goja.IsUndefined(val) || goja.IsNull(val) {
		return "", nil
	}
	return val.Export(), nil
}

func format(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil
	}
	name, rest := segment[:i], segment[i:]
	var indexes []string
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}
