package models

import "errors"

// Error taxonomy for the delivery pipeline. The asset store client wraps
// its failures around these sentinels so callers can classify them with
// errors.Is without inspecting HTTP details.
var (
	ErrNotFound        = errors.New("not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrExternalService = errors.New("external service error")
)

// SideEffect records the outcome of one best-effort step (card move,
// delivery email, share resolution, comment-policy correction). Failures
// are reported here instead of aborting the enclosing workflow.
type SideEffect struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func EffectOK(name string) SideEffect {
	return SideEffect{Name: name, OK: true}
}

func EffectFailed(name string, err error) SideEffect {
	return SideEffect{Name: name, OK: false, Reason: err.Error()}
}
