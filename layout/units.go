package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 记录长度书写时使用的单位。
type Unit int

const (
	UnitNone    Unit = iota // 无单位数字按 pt 处理
	UnitMM                  // 毫米
	UnitCM                  // 厘米
	UnitIN                  // 英寸
	UnitPT                  // 磅
	UnitPercent             // 相对参考长度的百分比
)

// pt 与 mm 的换算常量。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length 保留数值及其单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Pt 换算为 pt，百分比按 reference（pt）计算。
func (l Length) Pt(reference float64) float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	case UnitPercent:
		return reference * l.Value / 100
	default:
		return l.Value
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"%", UnitPercent}}

// ParseLength 解析带单位的长度，例如 12pt、18mm、30%。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// parsePt 将绝对长度直接解析为 pt。
func parsePt(value string) (float64, error) {
	l, err := ParseLength(value)
	if err != nil {
		return 0, err
	}
	if l.Unit == UnitPercent {
		return 0, fmt.Errorf("%s 不能使用百分比", value)
	}
	return l.Pt(0), nil
}
