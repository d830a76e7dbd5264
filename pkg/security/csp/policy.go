package csp

import (
	"fmt"
	"strings"
)

// CSPBuilder provides a fluent interface for constructing Content-Security-Policy headers.
//
// CSP is a security standard that limits where a page may load scripts, styles and
// other resources from, which blunts cross-site scripting and clickjacking attacks.
// Rendered report pages carry inline styles, so the server needs a policy that is
// strict everywhere except the style-src directive.
//
// Example:
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'self'").
//	    StyleSrc("'self'", "'unsafe-inline'").
//	    Build()
//	// Returns: "default-src 'self'; style-src 'self' 'unsafe-inline'"
//
// Thread Safety: CSPBuilder is not thread-safe. Configure a builder once at startup
// and only call Build and HeaderName on it afterwards.
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder creates an empty builder. A builder with no directives
// produces an empty policy string from Build.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{
		directives: make(map[string][]string),
		reportOnly: false,
	}
}

// DefaultSrc sets the default-src directive, the fallback for every fetch
// directive that is not set explicitly.
//
// Common source values:
//   - "'self'": same-origin resources only
//   - "'none'": block everything
//   - "'unsafe-inline'": allow inline scripts/styles (avoid where possible)
//   - "data:": allow data: URIs
//   - "https://example.com": a specific origin
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder {
	b.directives["default-src"] = sources
	return b
}

// ScriptSrc sets the script-src directive. This is the main lever against
// XSS, so report pages keep it at 'none'.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder {
	b.directives["script-src"] = sources
	return b
}

// StyleSrc sets the style-src directive.
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder {
	b.directives["style-src"] = sources
	return b
}

// ImgSrc sets the img-src directive.
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder {
	b.directives["img-src"] = sources
	return b
}

// FontSrc sets the font-src directive.
func (b *CSPBuilder) FontSrc(sources ...string) *CSPBuilder {
	b.directives["font-src"] = sources
	return b
}

// ConnectSrc sets the connect-src directive, which limits the targets of
// fetch, XHR and WebSocket connections.
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder {
	b.directives["connect-src"] = sources
	return b
}

// FrameAncestors sets the frame-ancestors directive, which controls who may
// embed the page. "'none'" is the modern replacement for X-Frame-Options: DENY.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	b.directives["frame-ancestors"] = sources
	return b
}

// FormAction sets the form-action directive, which limits where forms may submit.
func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder {
	b.directives["form-action"] = sources
	return b
}

// BaseUri sets the base-uri directive, which restricts the <base> element.
func (b *CSPBuilder) BaseUri(sources ...string) *CSPBuilder {
	b.directives["base-uri"] = sources
	return b
}

// ObjectSrc sets the object-src directive covering <object> and <embed>.
func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder {
	b.directives["object-src"] = sources
	return b
}

// ReportUri sets the report-uri directive. Violations are POSTed to the given
// endpoint as JSON. The directive is deprecated in favour of report-to but
// still has the widest browser support.
func (b *CSPBuilder) ReportUri(uri string) *CSPBuilder {
	b.directives["report-uri"] = []string{uri}
	return b
}

// ReportOnly toggles report-only mode. In report-only mode browsers log and
// report violations without blocking anything, which makes it safe to trial a
// policy against live traffic before enforcing it.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	b.reportOnly = enabled
	return b
}

// Build assembles the configured directives into a CSP header value.
//
// Directives appear in a fixed order so the output is stable across calls,
// which keeps header assertions in tests simple. Directives with no sources
// are omitted.
//
// Example:
//
//	value := NewCSPBuilder().DefaultSrc("'self'").ScriptSrc("'none'").Build()
//	// "default-src 'self'; script-src 'none'"
func (b *CSPBuilder) Build() string {
	// Order matters for readability, so we'll use a consistent order
	directiveOrder := []string{
		"default-src",
		"script-src",
		"style-src",
		"img-src",
		"font-src",
		"connect-src",
		"frame-ancestors",
		"form-action",
		"base-uri",
		"object-src",
		"report-uri",
	}

	var parts []string
	for _, directive := range directiveOrder {
		if sources, exists := b.directives[directive]; exists && len(sources) > 0 {
			directiveString := fmt.Sprintf("%s %s", directive, strings.Join(sources, " "))
			parts = append(parts, directiveString)
		}
	}

	return strings.Join(parts, "; ")
}

// HeaderName returns the header name matching the builder's mode:
// "Content-Security-Policy-Report-Only" when report-only is enabled,
// "Content-Security-Policy" otherwise.
//
// Example:
//
//	builder := ReportPagePolicy().ReportOnly(true)
//	w.Header().Set(builder.HeaderName(), builder.Build())
func (b *CSPBuilder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// ReportPagePolicy returns the CSP policy for rendered report pages.
//
// Report pages are static server-rendered HTML. The tables, sort links and
// pagination footer need no JavaScript at all, so scripts are blocked
// outright. The page template embeds its stylesheet in a <style> block, which
// forces 'unsafe-inline' for styles; everything else stays same-origin.
//
// Example:
//
//	policy := ReportPagePolicy().Build()
//	w.Header().Set("Content-Security-Policy", policy)
func ReportPagePolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'none'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:").
		FrameAncestors("'none'").
		BaseUri("'self'").
		FormAction("'self'").
		ObjectSrc("'none'")
}

// StrictPolicy returns a strict CSP policy for non-HTML endpoints.
//
// This policy is highly restrictive and suitable for JSON responses and
// operational endpoints that never serve markup. It blocks most content types
// and only allows same-origin connections.
//
// Example:
//
//	policy := StrictPolicy().Build()
//	w.Header().Set("Content-Security-Policy", policy)
func StrictPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		BaseUri("'self'").
		FormAction("'self'")
}

// RelaxedPolicy returns a permissive policy for development environments
// where browser devtools and local proxies need room to work. It allows
// inline scripts, eval and any HTTPS source.
//
// WARNING: Do not use this policy in production. It provides minimal security.
func RelaxedPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'", "'unsafe-eval'", "https:").
		StyleSrc("'self'", "'unsafe-inline'", "https:").
		ImgSrc("'self'", "data:", "https:").
		FontSrc("'self'", "data:", "https:").
		ConnectSrc("'self'", "https:").
		FrameAncestors("'self'").
		BaseUri("'self'").
		FormAction("'self'")
}
