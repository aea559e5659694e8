package interrupt

import (
	"testing"

	"pgregory.net/rapid"
)

// Property: resetting always lands on EditsMade == false, no matter how
// many intermediate edits occurred.
func TestProperty_ResetIdempotence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sess := NewSession(testDescriptor(Capabilities{AllowAccept: true, AllowEdit: true}), nil)

		keys := []string{"city", "seats", "extra_a", "extra_b"}
		edits := rapid.IntRange(0, 25).Draw(t, "edits")
		for i := 0; i < edits; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			value := rapid.String().Draw(t, "value")
			if err := sess.SetArg(key, value); err != nil {
				t.Fatalf("SetArg(%q): %v", key, err)
			}
		}

		if err := sess.ResetEdits(); err != nil {
			t.Fatalf("ResetEdits: %v", err)
		}
		if sess.EditsMade() {
			t.Fatalf("edits still pending after reset")
		}
		if sess.SelectedSubmitType() != KindAccept {
			t.Fatalf("expected accept after reset, got %q", sess.SelectedSubmitType())
		}
	})
}

// Property: replaying every edit with its original value is equivalent to
// a reset.
func TestProperty_RevertEqualsReset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := testDescriptor(Capabilities{AllowAccept: true, AllowEdit: true})
		sess := NewSession(d, nil)

		keys := []string{"city", "seats"}
		touched := map[string]bool{}
		edits := rapid.IntRange(1, 10).Draw(t, "edits")
		for i := 0; i < edits; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			touched[key] = true
			if err := sess.SetArg(key, rapid.String().Draw(t, "value")); err != nil {
				t.Fatalf("SetArg(%q): %v", key, err)
			}
		}

		var revertKeys []string
		var revertValues []any
		for key := range touched {
			revertKeys = append(revertKeys, key)
			revertValues = append(revertValues, d.ActionRequest.Args[key])
		}
		if err := sess.SetArgs(revertKeys, revertValues); err != nil {
			t.Fatalf("SetArgs: %v", err)
		}

		if sess.EditsMade() {
			t.Fatalf("reverted edits still marked as made")
		}
		if sess.SelectedSubmitType() != KindAccept {
			t.Fatalf("expected accept after revert, got %q", sess.SelectedSubmitType())
		}
	})
}
