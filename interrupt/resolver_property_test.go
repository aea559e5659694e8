package interrupt

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for every subset of capability flags, the resolved variant
// kinds equal exactly the kinds implied by the true flags, with accept
// folded into the edit variant when both are allowed.
func TestProperty_ResolverCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("variant kinds match capability flags", prop.ForAll(
		func(allowAccept, allowEdit, allowRespond, allowIgnore bool) bool {
			caps := Capabilities{
				AllowAccept:  allowAccept,
				AllowEdit:    allowEdit,
				AllowRespond: allowRespond,
				AllowIgnore:  allowIgnore,
			}
			res := NewResolver(nil).Resolve(testDescriptor(caps), NewBaseline(nil))

			if res.HasKind(KindEdit) != allowEdit {
				return false
			}
			if res.HasKind(KindRespond) != allowRespond {
				return false
			}
			if res.HasKind(KindIgnore) != allowIgnore {
				return false
			}
			if res.HasKind(KindAccept) != (allowAccept && !allowEdit) {
				return false
			}

			// allowAccept always leaves some accept carrier.
			if allowAccept && !hasAcceptCarrier(res.Variants) {
				return false
			}
			// Ignore is never the default.
			if res.DefaultSubmitType == KindIgnore {
				return false
			}
			return true
		},
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
