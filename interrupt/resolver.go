package interrupt

import (
	"go.uber.org/zap"
)

// Resolution 是能力解析的结果：合法响应变体的有序集合与默认提交类型。
type Resolution struct {
	Variants          []Variant `json:"variants"`
	DefaultSubmitType Kind      `json:"default_submit_type"`
}

// HasKind reports whether a variant of the given kind is present.
func (r Resolution) HasKind(k Kind) bool {
	for _, v := range r.Variants {
		if v.Kind == k {
			return true
		}
	}
	return false
}

// Resolver 将中断描述符解析为合法响应变体集合。
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger defaults to a nop logger.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		logger: logger.With(zap.String("component", "capability_resolver")),
	}
}

// Resolve derives the legal response variants and default submit type for
// the descriptor. Argument values are snapshotted into baseline exactly
// once; re-resolving with divergent values is a logged consistency fault
// handled by Baseline.Capture.
//
// A descriptor with all capability flags false yields an empty variant set
// and KindNone: callers must treat this as "no action possible", not as an
// error.
func (r *Resolver) Resolve(d Descriptor, baseline *Baseline) Resolution {
	caps := d.Capabilities
	var variants []Variant

	if caps.AllowEdit {
		args := cloneArgs(d.ActionRequest.Args)
		for k, v := range args {
			baseline.Capture(k, v)
		}
		variants = append(variants, Variant{
			Kind: KindEdit,
			Args: args,
			// Accept is expressed as "submit the edit unmodified"
			// when both capabilities are present.
			AcceptAllowed: caps.AllowAccept,
			EditsMade:     false,
		})
	}

	if caps.AllowRespond {
		variants = append(variants, Variant{Kind: KindRespond, Text: ""})
	}

	if caps.AllowIgnore {
		variants = append(variants, Variant{Kind: KindIgnore})
	}

	if caps.AllowAccept && !hasAcceptCarrier(variants) {
		variants = append(variants, Variant{Kind: KindAccept})
	}

	res := Resolution{
		Variants:          variants,
		DefaultSubmitType: defaultSubmitType(variants),
	}

	r.logger.Debug("resolved interrupt capabilities",
		zap.String("action", d.ActionRequest.Action),
		zap.Int("variants", len(res.Variants)),
		zap.String("default_submit_type", string(res.DefaultSubmitType)),
	)
	return res
}

// hasAcceptCarrier reports whether any variant can already satisfy an
// accept submission, either standalone or as an edit with AcceptAllowed.
func hasAcceptCarrier(variants []Variant) bool {
	for _, v := range variants {
		if v.Kind == KindAccept {
			return true
		}
		if v.Kind == KindEdit && v.AcceptAllowed {
			return true
		}
	}
	return false
}

func hasKind(variants []Variant, k Kind) bool {
	for _, v := range variants {
		if v.Kind == k {
			return true
		}
	}
	return false
}

// defaultSubmitType applies the Accept > Respond > Edit priority.
// Ignore is never a default: it must be an explicit user action.
func defaultSubmitType(variants []Variant) Kind {
	if hasAcceptCarrier(variants) {
		return KindAccept
	}
	if hasKind(variants, KindRespond) {
		return KindRespond
	}
	if hasKind(variants, KindEdit) {
		return KindEdit
	}
	return KindNone
}
