// Package admission decides whether an incoming request may reach the API.
//
// Rules run in order and the first enforced denial wins. A rule in DRY_RUN mode
// still evaluates and reports its denials, but the request carries on.
package admission

import (
	"context"
	"strings"
	"time"

	"subscription-tracker-be/internal/pkg/logger"
)

const module = "ADMISSION"

type Mode string

const (
	ModeLive   Mode = "LIVE"
	ModeDryRun Mode = "DRY_RUN"
)

// ParseMode falls back to LIVE for anything it does not recognise.
func ParseMode(s string) Mode {
	if Mode(strings.ToUpper(strings.TrimSpace(s))) == ModeDryRun {
		return ModeDryRun
	}
	return ModeLive
}

type Conclusion string

const (
	ConclusionAllow Conclusion = "ALLOW"
	ConclusionDeny  Conclusion = "DENY"
)

type Reason string

const (
	ReasonNone      Reason = ""
	ReasonShield    Reason = "SHIELD"
	ReasonBot       Reason = "BOT"
	ReasonRateLimit Reason = "RATE_LIMIT"
)

// RateLimitInfo is filled by rules that meter the request.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Decision struct {
	Conclusion Conclusion
	Reason     Reason
	Rule       string
	Detail     string
	RateLimit  *RateLimitInfo
}

func (d Decision) IsDenied() bool {
	return d.Conclusion == ConclusionDeny
}

func allow(rule string) Decision {
	return Decision{Conclusion: ConclusionAllow, Rule: rule}
}

func deny(rule string, reason Reason, detail string) Decision {
	return Decision{Conclusion: ConclusionDeny, Reason: reason, Rule: rule, Detail: detail}
}

// Request is the part of an HTTP request the rules look at.
type Request struct {
	IP        string
	Method    string
	Path      string
	RawQuery  string
	UserAgent string
	Headers   map[string]string
}

type Rule interface {
	Name() string
	Mode() Mode
	Evaluate(ctx context.Context, req *Request) (Decision, error)
}

// Observer receives every decision a rule takes.
type Observer interface {
	ObserveDecision(rule, conclusion, mode string)
}

type Engine struct {
	rules    []Rule
	logger   logger.ILogger
	observer Observer
}

func NewEngine(log logger.ILogger, observer Observer, rules ...Rule) *Engine {
	return &Engine{
		rules:    rules,
		logger:   log,
		observer: observer,
	}
}

// Protect runs the rules against req. A rule that fails to evaluate is skipped so
// that a broken store does not take the API down with it.
func (e *Engine) Protect(ctx context.Context, req *Request) Decision {
	final := allow("")

	for _, rule := range e.rules {
		decision, err := rule.Evaluate(ctx, req)
		if err != nil {
			e.logger.Error(module, "Rule evaluation failed", map[string]interface{}{
				"rule":  rule.Name(),
				"ip":    req.IP,
				"error": err,
			})
			continue
		}

		if e.observer != nil {
			e.observer.ObserveDecision(rule.Name(), string(decision.Conclusion), string(rule.Mode()))
		}

		if decision.RateLimit != nil {
			final.RateLimit = decision.RateLimit
		}

		if !decision.IsDenied() {
			continue
		}

		details := map[string]interface{}{
			"rule":   decision.Rule,
			"reason": decision.Reason,
			"detail": decision.Detail,
			"ip":     req.IP,
			"method": req.Method,
			"path":   req.Path,
		}
		if rule.Mode() == ModeDryRun {
			e.logger.Warn(module, "Request would be denied", details)
			continue
		}

		e.logger.Info(module, "Request denied", details)
		return decision
	}

	return final
}
