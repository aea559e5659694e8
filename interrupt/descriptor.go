package interrupt

// ActionRequest 是远端运行提议执行的操作及其当前参数值。
type ActionRequest struct {
	Action string         `json:"action"`
	Args   map[string]any `json:"args"`
}

// Capabilities 声明远端运行对本次中断接受哪些响应类型。
// 在单个中断的生命周期内不可变。
type Capabilities struct {
	AllowAccept  bool `json:"allow_accept"`
	AllowEdit    bool `json:"allow_edit"`
	AllowRespond bool `json:"allow_respond"`
	AllowIgnore  bool `json:"allow_ignore"`
}

// Descriptor 是运行暂停时下发的中断描述符。
// 响应成功提交或运行越过该中断后即被销毁或替换。
type Descriptor struct {
	ID            string        `json:"id,omitempty"`
	ActionRequest ActionRequest `json:"action_request"`
	Capabilities  Capabilities  `json:"capabilities"`
	Description   string        `json:"description,omitempty"`
}

// Actionable reports whether at least one response kind is legal.
// A descriptor with all capability flags false is not an error: callers
// must disable submission instead.
func (d Descriptor) Actionable() bool {
	c := d.Capabilities
	return c.AllowAccept || c.AllowEdit || c.AllowRespond || c.AllowIgnore
}
