package resume

import "strings"

// Category 是恢复调用失败的用户可见分类。
type Category string

const (
	// CategoryGeneric 对应通用的"提交失败"提示。
	CategoryGeneric Category = "generic"
	// CategoryInvalidAssistant 对应助手标识无效的专门提示。
	CategoryInvalidAssistant Category = "invalid_assistant"
)

// invalidAssistantMarker 是底层传输在助手标识无效时返回的消息片段。
// 匹配按大小写不敏感的子串进行，底层没有结构化错误码可用。
const invalidAssistantMarker = "invalid assistant id"

// Classifier 将恢复调用的失败归入用户可见分类。
// 子串匹配天然脆弱，隔离在该接口之后，便于将来换成结构化错误码
// 而不触及调用方。
type Classifier interface {
	Classify(err error) Category
}

// SubstringClassifier 是默认实现：对错误消息做子串匹配。
type SubstringClassifier struct{}

// Classify categorizes err by its message. A nil error is generic; callers
// are expected to classify failures only.
func (SubstringClassifier) Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}
	if strings.Contains(strings.ToLower(err.Error()), invalidAssistantMarker) {
		return CategoryInvalidAssistant
	}
	return CategoryGeneric
}

// Message returns the user-facing notice for a failure category.
func Message(c Category) string {
	switch c {
	case CategoryInvalidAssistant:
		return "Invalid assistant ID. Please update the assistant ID in your settings and try again."
	default:
		return "Failed to submit response."
	}
}
