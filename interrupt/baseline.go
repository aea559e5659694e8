package interrupt

import (
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
)

// Baseline 保存编辑开始时各参数的原始字符串化取值。
// 每个键只捕获一次，之后永不改写；它仅用于相等性比较，
// 不是当前值的真实来源。
type Baseline struct {
	values map[string]string
	logger *zap.Logger
}

// NewBaseline 创建空基线快照。
func NewBaseline(logger *zap.Logger) *Baseline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Baseline{
		values: make(map[string]string),
		logger: logger.With(zap.String("component", "baseline")),
	}
}

// NewBaselineFromValues restores a baseline from previously captured
// values, e.g. when re-hydrating a session snapshot from a store.
func NewBaselineFromValues(values map[string]string, logger *zap.Logger) *Baseline {
	b := NewBaseline(logger)
	for k, v := range values {
		b.values[k] = v
	}
	return b
}

// Capture records the stringified value for key, first write wins.
// Seeing the same key again with a different value means the resolver ran
// twice with divergent descriptors for one interrupt: the fault is logged
// and the first-seen baseline is kept.
func (b *Baseline) Capture(key string, value any) {
	s := Stringify(value)
	if prev, ok := b.values[key]; ok {
		if prev != s {
			b.logger.Error("baseline divergence on re-resolution, keeping first-seen value",
				zap.String("key", key),
				zap.String("baseline", prev),
				zap.String("incoming", s),
			)
		}
		return
	}
	b.values[key] = s
}

// Matches reports whether value stringifies to the recorded baseline for
// key. A key with no recorded baseline never matches.
func (b *Baseline) Matches(key string, value any) bool {
	prev, ok := b.values[key]
	return ok && prev == Stringify(value)
}

// Value returns the recorded baseline string for key.
func (b *Baseline) Value(key string) (string, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Values returns a copy of all recorded baseline values.
func (b *Baseline) Values() map[string]string {
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Stringify 将参数值转为用于基线比较的规范字符串：
// 基本类型直接转换，复合类型经 JSON 规范序列化（映射键有序）。
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		data, err := json.Marshal(x)
		if err != nil {
			// Unmarshalable values cannot round-trip the wire either;
			// fall back to a non-matching marker.
			return "<unserializable>"
		}
		return string(data)
	}
}
