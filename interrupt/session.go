package interrupt

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrArityMismatch 表示批量编辑的键与值数组长度不一致。
	ErrArityMismatch = errors.New("mismatched key/value arity")
	// ErrEditNotAllowed 表示当前中断不允许编辑参数。
	ErrEditNotAllowed = errors.New("editing is not allowed for this interrupt")
	// ErrRespondNotAllowed 表示当前中断不允许自由文本回复。
	ErrRespondNotAllowed = errors.New("responding is not allowed for this interrupt")
	// ErrVariantUnavailable 表示显式选择的提交类型没有对应的变体。
	ErrVariantUnavailable = errors.New("no variant available for submit type")
)

// Session 持有一个开放中断的全部可变状态：响应变体、基线快照与
// 当前选中的提交类型。编辑对账逻辑集中在这里，保证"未修改的编辑
// 即接受"在所有调用点上语义一致。
//
// Session 不做内部加锁：除恢复调用外所有操作都是同步变换，
// 由调用方保证单 goroutine 访问。
type Session struct {
	id         string
	descriptor Descriptor
	baseline   *Baseline
	variants   []Variant
	selected   Kind

	hasAddedResponse bool
	logger           *zap.Logger
}

// NewSession resolves the descriptor and returns a session seeded with the
// resolved variants and the default submit type. An empty descriptor ID is
// replaced by a generated one.
func NewSession(d Descriptor, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.ID == "" {
		d.ID = "int_" + uuid.NewString()
	}

	baseline := NewBaseline(logger)
	res := NewResolver(logger).Resolve(d, baseline)

	return &Session{
		id:         d.ID,
		descriptor: d,
		baseline:   baseline,
		variants:   res.Variants,
		selected:   res.DefaultSubmitType,
		logger:     logger.With(zap.String("component", "interrupt_session"), zap.String("interrupt_id", d.ID)),
	}
}

// ID returns the interrupt identifier.
func (s *Session) ID() string { return s.id }

// Descriptor returns the immutable descriptor this session was opened with.
func (s *Session) Descriptor() Descriptor { return s.descriptor }

// Baseline returns the baseline snapshot owned by this session.
func (s *Session) Baseline() *Baseline { return s.baseline }

// SelectedSubmitType returns the current submit type, KindNone when no
// submission is possible.
func (s *Session) SelectedSubmitType() Kind { return s.selected }

// HasAddedResponse reports whether the free-text response is non-trivial.
func (s *Session) HasAddedResponse() bool { return s.hasAddedResponse }

// EditsMade reports whether the current args diverge from the baseline.
func (s *Session) EditsMade() bool {
	if v := s.variant(KindEdit); v != nil {
		return v.EditsMade
	}
	return false
}

// Variants returns a copy of the current variants. Arg maps are cloned so
// callers cannot mutate session state through the returned slice.
func (s *Session) Variants() []Variant {
	out := make([]Variant, len(s.variants))
	for i, v := range s.variants {
		if v.Args != nil {
			v.Args = cloneArgs(v.Args)
		}
		out[i] = v
	}
	return out
}

// CanSubmit reports whether the current state yields a submittable entry.
func (s *Session) CanSubmit() bool {
	switch s.selected {
	case KindNone:
		return false
	case KindRespond:
		return s.hasAddedResponse
	default:
		return true
	}
}

// Select records an explicit user choice of submit type, e.g. pressing
// "Ignore". The kind must be carried by some variant; KindAccept is also
// satisfied by an edit variant with AcceptAllowed, in which case any
// pending edits are reverted to the original values.
func (s *Session) Select(k Kind) error {
	if k == KindAccept && hasAcceptCarrier(s.variants) {
		// Accepting means submitting the original request: pending edits
		// on the carrier are discarded so the entry collapses to accept.
		if edit := s.variant(KindEdit); edit != nil && edit.EditsMade {
			edit.Args = cloneArgs(s.descriptor.ActionRequest.Args)
			s.reconcileEdits(edit)
		}
		s.selected = KindAccept
		return nil
	}
	if !hasKind(s.variants, k) {
		return ErrVariantUnavailable
	}
	s.selected = k
	return nil
}

// SetArg merges a single argument edit, see SetArgs.
func (s *Session) SetArg(key string, value any) error {
	return s.SetArgs([]string{key}, []any{value})
}

// SetArgs merges a batched argument edit into the edit variant and
// recomputes the edit state. Keys and values are parallel arrays;
// mismatched arity is an input error and leaves all state untouched.
//
// The merge is an immutable update: a new args map is produced, prior
// maps handed out earlier stay stable.
func (s *Session) SetArgs(keys []string, values []any) error {
	if len(keys) != len(values) {
		s.logger.Warn("rejecting argument edit",
			zap.Int("keys", len(keys)),
			zap.Int("values", len(values)),
			zap.Error(ErrArityMismatch),
		)
		return ErrArityMismatch
	}
	edit := s.variant(KindEdit)
	if edit == nil {
		return ErrEditNotAllowed
	}

	next := cloneArgs(edit.Args)
	for i, k := range keys {
		next[k] = values[i]
	}
	edit.Args = next

	s.reconcileEdits(edit)
	return nil
}

// ResetEdits re-applies the original argument values in one batched
// update, dropping any keys the user introduced. By the reconciliation
// rule this always lands back on EditsMade == false.
func (s *Session) ResetEdits() error {
	edit := s.variant(KindEdit)
	if edit == nil {
		return ErrEditNotAllowed
	}
	edit.Args = cloneArgs(s.descriptor.ActionRequest.Args)
	s.reconcileEdits(edit)
	return nil
}

// SetResponseText updates the free-text response and recomputes the
// selected submit type. Whitespace-only text counts as empty.
func (s *Session) SetResponseText(text string) error {
	respond := s.variant(KindRespond)
	if respond == nil {
		return ErrRespondNotAllowed
	}
	respond.Text = text

	if strings.TrimSpace(text) == "" {
		s.hasAddedResponse = false
		s.fallbackFromRespond()
		return nil
	}
	s.hasAddedResponse = true
	s.selected = KindRespond
	return nil
}

// reconcileEdits recomputes EditsMade against the baseline and adjusts the
// selected submit type. The switch to Respond only happens on a response
// text event, and to Edit only on an edit event: the selected type always
// reflects the most recent user action.
func (s *Session) reconcileEdits(edit *Variant) {
	diverged := false
	for k, v := range edit.Args {
		if !s.baseline.Matches(k, v) {
			diverged = true
			break
		}
	}

	if diverged {
		edit.EditsMade = true
		s.selected = KindEdit
		return
	}

	edit.EditsMade = false
	if edit.AcceptAllowed || hasKind(s.variants, KindAccept) {
		s.selected = KindAccept
	} else if s.hasAddedResponse {
		s.selected = KindRespond
	}
}

// fallbackFromRespond picks the submit type after the response text was
// cleared: pending edits win, then accept, otherwise nothing is
// submittable.
func (s *Session) fallbackFromRespond() {
	if edit := s.variant(KindEdit); edit != nil && edit.EditsMade {
		s.selected = KindEdit
		return
	}
	if hasAcceptCarrier(s.variants) {
		s.selected = KindAccept
		return
	}
	s.selected = KindNone
}

// variant returns a pointer into the live variant slice, nil when absent.
func (s *Session) variant(k Kind) *Variant {
	for i := range s.variants {
		if s.variants[i].Kind == k {
			return &s.variants[i]
		}
	}
	return nil
}
