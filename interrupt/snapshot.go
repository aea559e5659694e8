package interrupt

import (
	"time"

	"go.uber.org/zap"
)

// Snapshot 是会话状态的可序列化视图，用于在前端重连时从存储层
// 重建进行中的决策。
type Snapshot struct {
	ID               string            `json:"id"`
	Descriptor       Descriptor        `json:"descriptor"`
	Variants         []Variant         `json:"variants"`
	Baseline         map[string]string `json:"baseline"`
	Selected         Kind              `json:"selected"`
	HasAddedResponse bool              `json:"has_added_response"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() *Snapshot {
	return &Snapshot{
		ID:               s.id,
		Descriptor:       s.descriptor,
		Variants:         s.Variants(),
		Baseline:         s.baseline.Values(),
		Selected:         s.selected,
		HasAddedResponse: s.hasAddedResponse,
		UpdatedAt:        time.Now(),
	}
}

// RestoreSession rebuilds a session from a stored snapshot. The baseline
// is restored from the captured values, not re-derived from the
// descriptor, so edit reconciliation picks up exactly where it left off.
func RestoreSession(snap *Snapshot, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	variants := make([]Variant, len(snap.Variants))
	for i, v := range snap.Variants {
		if v.Args != nil {
			v.Args = cloneArgs(v.Args)
		}
		variants[i] = v
	}
	return &Session{
		id:               snap.ID,
		descriptor:       snap.Descriptor,
		baseline:         NewBaselineFromValues(snap.Baseline, logger),
		variants:         variants,
		selected:         snap.Selected,
		hasAddedResponse: snap.HasAddedResponse,
		logger:           logger.With(zap.String("component", "interrupt_session"), zap.String("interrupt_id", snap.ID)),
	}
}
