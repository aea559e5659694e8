package interrupt

import (
	"errors"
	"strings"
)

var (
	// ErrNothingToSubmit 表示变体集合为空，无可提交的响应。
	ErrNothingToSubmit = errors.New("no response variants to submit")
	// ErrNoResponseFound 表示没有线格式条目与选中的提交类型匹配。
	// 这是提交期致命错误：中止提交，不发起恢复调用。
	ErrNoResponseFound = errors.New("no response found")
)

// Entry 是恢复载荷的线格式条目。其 JSON 形状
// {type: string, args: JSONValue} 是本包唯一的位级契约。
type Entry struct {
	Type Kind `json:"type"`
	Args any  `json:"args"`
}

// Assemble 将变体集合压平为线格式条目：
//
//   - 未修改且允许接受的编辑折叠为携带原始 action_request 的 accept；
//   - 已修改或不允许接受的编辑发出携带当前参数的 edit；
//   - 空回复整条丢弃，非空回复发出 response；
//   - 独立 accept 与 ignore 的 args 为 null。
func Assemble(variants []Variant, original ActionRequest) []Entry {
	var entries []Entry
	for _, v := range variants {
		switch v.Kind {
		case KindEdit:
			if v.AcceptAllowed && !v.EditsMade {
				entries = append(entries, Entry{Type: KindAccept, Args: original})
				continue
			}
			entries = append(entries, Entry{
				Type: KindEdit,
				Args: ActionRequest{Action: original.Action, Args: v.Args},
			})
		case KindRespond:
			if strings.TrimSpace(v.Text) == "" {
				// An unanswered optional response must not be sent.
				continue
			}
			entries = append(entries, Entry{Type: KindRespond, Args: v.Text})
		case KindAccept:
			entries = append(entries, Entry{Type: KindAccept, Args: nil})
		case KindIgnore:
			entries = append(entries, Entry{Type: KindIgnore, Args: nil})
		}
	}
	return entries
}

// SelectEntry picks the single assembled entry matching the selected
// submit type. No match is a submission-time error.
func SelectEntry(entries []Entry, selected Kind) (Entry, error) {
	for _, e := range entries {
		if e.Type == selected {
			return e, nil
		}
	}
	return Entry{}, ErrNoResponseFound
}

// BuildPayload assembles the session's variants and returns the resume
// payload: a single-entry array carrying the entry that matches the
// selected submit type.
func (s *Session) BuildPayload() ([]Entry, error) {
	if len(s.variants) == 0 {
		return nil, ErrNothingToSubmit
	}
	entries := Assemble(s.variants, s.descriptor.ActionRequest)
	chosen, err := SelectEntry(entries, s.selected)
	if err != nil {
		return nil, err
	}
	return []Entry{chosen}, nil
}
