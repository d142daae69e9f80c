package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

type allHealthChecker []HealthChecker

// All reports healthy only when every non-nil checker does.
func All(checkers ...HealthChecker) HealthChecker {
	var out allHealthChecker
	for _, c := range checkers {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (a allHealthChecker) Healthy(ctx context.Context) bool {
	for _, c := range a {
		if !c.Healthy(ctx) {
			return false
		}
	}
	return true
}
