package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/humanloop/interrupt"
	"github.com/BaSui01/humanloop/resume"
)

func openTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

// --- Interface compliance ---

func TestRecorder_ImplementsDecisionRecorder(t *testing.T) {
	var _ resume.DecisionRecorder = (*Recorder)(nil)
}

// --- Record and query ---

func TestRecorderRecordAndQuery(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t)

	decisions := []resume.Decision{
		{
			InterruptID: "int_1",
			Action:      "book_flight",
			SubmitType:  interrupt.KindAccept,
			Args:        interrupt.ActionRequest{Action: "book_flight", Args: map[string]any{"city": "NYC"}},
			Outcome:     "ok",
			Latency:     120 * time.Millisecond,
		},
		{
			InterruptID: "int_2",
			Action:      "book_flight",
			SubmitType:  interrupt.KindEdit,
			Args:        interrupt.ActionRequest{Action: "book_flight", Args: map[string]any{"city": "LA"}},
			Outcome:     "failed",
			Err:         "connection refused",
			Latency:     3 * time.Second,
		},
		{
			InterruptID: "int_3",
			Action:      "send_email",
			SubmitType:  interrupt.KindIgnore,
			Outcome:     "ok",
		},
	}
	for _, d := range decisions {
		require.NoError(t, r.Record(ctx, d))
	}

	t.Run("ByAction", func(t *testing.T) {
		records, err := r.ByAction(ctx, "book_flight", 10)
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, rec := range records {
			assert.Equal(t, "book_flight", rec.Action)
		}
	})

	t.Run("ByAction respects limit", func(t *testing.T) {
		records, err := r.ByAction(ctx, "book_flight", 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("Recent sees everything", func(t *testing.T) {
		records, err := r.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("fields persisted", func(t *testing.T) {
		records, err := r.ByAction(ctx, "send_email", 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "int_3", rec.InterruptID)
		assert.Equal(t, "ignore", rec.SubmitType)
		assert.Equal(t, "ok", rec.Outcome)
		assert.Empty(t, rec.ArgsJSON)
		assert.False(t, rec.CreatedAt.IsZero())
	})

	t.Run("failure details persisted", func(t *testing.T) {
		records, err := r.ByAction(ctx, "book_flight", 10)
		require.NoError(t, err)
		var failed *Record
		for i := range records {
			if records[i].Outcome == "failed" {
				failed = &records[i]
			}
		}
		require.NotNil(t, failed)
		assert.Equal(t, "connection refused", failed.Error)
		assert.Equal(t, int64(3000), failed.LatencyMS)
		assert.Contains(t, failed.ArgsJSON, `"city":"LA"`)
	})
}

// In-memory database for ad-hoc use.
func TestRecorderInMemory(t *testing.T) {
	r, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Record(context.Background(), resume.Decision{
		InterruptID: "int_mem",
		Action:      "noop",
		SubmitType:  interrupt.KindAccept,
		Outcome:     "ok",
	}))

	records, err := r.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
