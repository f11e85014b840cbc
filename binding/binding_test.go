package binding

import (
	"encoding/json"
	"testing"
)

func sampleData(t *testing.T) any {
	t.Helper()
	var data any
	raw := `{"user":{"name":"Ada"},"items":[{"name":"Pen","qty":2,"price":1.5},{"name":"Ink","qty":1,"price":4}]}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return data
}

func TestInterpolatePaths(t *testing.T) {
	data := sampleData(t)
	got := Interpolate("Hello ${user.name}, first ${items[0].name}, missing ${user.age}", data)
	if got != "Hello Ada, first Pen, missing ${user.age}" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := Interpolate("${user.name}", nil); got != "${user.name}" {
		t.Fatalf("nil data should keep placeholder, got %q", got)
	}
}

func TestExpressions(t *testing.T) {
	scope := NewScope(sampleData(t))
	items, err := scope.Each("items")
	if err != nil {
		t.Fatalf("Each error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	row := scope.With("item", items[0])
	got, err := row.Expand("${item.name}: ${= item.qty * item.price} (${= items.length} lines)")
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if got != "Pen: 3 (2 lines)" {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestExpandReportsScriptErrors(t *testing.T) {
	scope := NewScope(sampleData(t))
	if _, err := scope.Expand("${= nope.field}"); err == nil {
		t.Fatalf("expected error for undefined variable")
	}
	// Interpolate 仍然宽松处理。
	if got := Interpolate("${= nope.field}", sampleData(t)); got != "${= nope.field}" {
		t.Fatalf("unexpected lenient result %q", got)
	}
}

func TestEachRejectsNonArray(t *testing.T) {
	scope := NewScope(sampleData(t))
	if _, err := scope.Each("user"); err == nil {
		t.Fatalf("expected error for object path")
	}
	if _, err := scope.Each("missing"); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestExpandReportsBindingErrors(t *testing.T) {
	scope := NewScope(map[string]any{"NaN": 1.0, "total": 3.0})
	if _, err := scope.Expand("${= total * 2}"); err == nil {
		t.Fatalf("expected error when a key shadows a read-only global")
	}
	// 普通路径不经过脚本运行时
	got, err := scope.Expand("${total}")
	if err != nil || got != "3" {
		t.Fatalf("unexpected path expansion %q (%v)", got, err)
	}
}
