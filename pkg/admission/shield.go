package admission

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

type signature struct {
	name    string
	pattern *regexp.Regexp
}

var signatures = []signature{
	{"sql_injection", regexp.MustCompile(`(?i)(\bunion\b[\s\S]*\bselect\b|\bor\b\s+['"]?\d+['"]?\s*=\s*['"]?\d+|'\s*(or|and)\s+'|;\s*(drop|delete|insert|update|truncate)\s|--\s*$|/\*[\s\S]*\*/|\bsleep\s*\(|\bbenchmark\s*\()`)},
	{"xss", regexp.MustCompile(`(?i)(<\s*script\b|javascript\s*:|\bon(error|load|click|mouseover|focus)\s*=|<\s*iframe\b|<\s*img[^>]+src\s*=|document\.cookie)`)},
	{"path_traversal", regexp.MustCompile(`(?i)(\.\./|\.\.\\|/etc/passwd|/proc/self/|c:\\windows)`)},
	{"command_injection", regexp.MustCompile(`(?i)(;\s*(cat|ls|id|whoami|uname|wget|curl|nc|bash|sh)\b|\|\s*(cat|ls|id|whoami|bash|sh)\b|\$\([^)]*\)|` + "`" + `[^` + "`" + `]*` + "`" + `)`)},
	{"null_byte", regexp.MustCompile(`\x00`)},
}

// inspectedHeaders are the client-controlled headers worth scanning besides the URL.
var inspectedHeaders = []string{"Referer", "X-Forwarded-Host", "X-Original-Url", "X-Rewrite-Url"}

// ShieldRule blocks requests carrying well-known attack payloads.
type ShieldRule struct {
	mode Mode
}

func NewShieldRule(mode Mode) *ShieldRule {
	return &ShieldRule{mode: mode}
}

func (r *ShieldRule) Name() string { return "shield" }

func (r *ShieldRule) Mode() Mode { return r.mode }

func (r *ShieldRule) Evaluate(ctx context.Context, req *Request) (Decision, error) {
	for _, part := range r.parts(req) {
		for _, sig := range signatures {
			if sig.pattern.MatchString(part) {
				return deny(r.Name(), ReasonShield, sig.name), nil
			}
		}
	}
	return allow(r.Name()), nil
}

// parts returns the raw and decoded forms of the inspected request parts, so that
// percent-encoded payloads are matched too.
func (r *ShieldRule) parts(req *Request) []string {
	raw := []string{req.Path, req.RawQuery}
	for _, h := range inspectedHeaders {
		if v, ok := req.Headers[h]; ok && v != "" {
			raw = append(raw, v)
		}
	}

	parts := make([]string, 0, len(raw)*2)
	for _, p := range raw {
		if p == "" {
			continue
		}
		parts = append(parts, p)
		if decoded, err := url.QueryUnescape(p); err == nil && decoded != p {
			parts = append(parts, decoded)
		}
	}
	return parts
}

func containsAny(s string, needles []string) (string, bool) {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return n, true
		}
	}
	return "", false
}
