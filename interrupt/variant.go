package interrupt

// Kind 标识一种响应变体。其字符串值即恢复载荷中的线格式 type 标签。
type Kind string

const (
	KindAccept  Kind = "accept"
	KindEdit    Kind = "edit"
	KindRespond Kind = "response"
	KindIgnore  Kind = "ignore"
	// KindNone 表示没有可用的提交类型。
	KindNone Kind = ""
)

// Variant 是用户响应当前中断的一种合法方式。
// 每个开放中断中每种 Kind 至多存在一个实例。
type Variant struct {
	Kind Kind `json:"kind"`

	// Args 仅对 KindEdit 有效：当前（可能已被编辑的）参数映射。
	Args map[string]any `json:"args,omitempty"`

	// AcceptAllowed 仅对 KindEdit 有效：为 true 时，
	// 未修改的编辑可以折叠为接受提交。
	AcceptAllowed bool `json:"accept_allowed,omitempty"`

	// EditsMade 仅对 KindEdit 有效：当前参数是否偏离基线快照。
	EditsMade bool `json:"edits_made,omitempty"`

	// Text 仅对 KindRespond 有效：自由文本回复，可以为空。
	Text string `json:"text,omitempty"`
}

// cloneArgs 返回参数映射的浅拷贝。变体参数只做不可变更新，
// 旧映射在产生新映射后保持不变。
func cloneArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
