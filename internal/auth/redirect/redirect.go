// Package redirect guards post-login destinations against open redirects.
//
// A destination survives only if it shares (scheme, host, port) with the
// request it came back on, or is a plain absolute path on the same origin.
// Anything ambiguous fails closed; no attempt is made to canonicalize a
// suspicious URL into an acceptable one.
package redirect

import (
	"fmt"
	"net/url"
	"strings"
)

// Violation reports an untrusted or malformed redirect destination. It must
// terminate the request; the destination is never used.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string {
	return "redirect violation: " + v.Reason
}

func violationf(format string, args ...interface{}) *Violation {
	return &Violation{Reason: fmt.Sprintf(format, args...)}
}

// EnsureSameOrigin returns a *Violation unless candidate is an absolute URL
// on the same origin as reference, or an absolute path with exactly one
// leading slash and no query, fragment, or characters invalid in a URL path.
func EnsureSameOrigin(candidate, reference string) error {
	if candidate == "" {
		return violationf("destination is missing")
	}

	target, err := url.Parse(candidate)
	if err != nil {
		return violationf("destination %q is not a valid URL: %v", candidate, err)
	}

	if target.Scheme != "" || target.Host != "" {
		return ensureMatchingOrigin(target, reference)
	}
	return ensureValidPath(candidate, target)
}

func ensureMatchingOrigin(target *url.URL, reference string) error {
	ref, err := url.Parse(reference)
	if err != nil {
		return violationf("reference %q is not a valid URL: %v", reference, err)
	}

	if target.User != nil {
		return violationf("destination %q carries userinfo", target.Redacted())
	}
	if got, want := originOf(target), originOf(ref); got != want {
		return violationf("destination origin %s does not match request origin %s", got, want)
	}
	return nil
}

// ensureValidPath accepts only absolute paths. One leading slash exactly:
// zero slashes is a relative path, two or more is a protocol- or
// scheme-relative form that browsers may resolve to a different host.
func ensureValidPath(candidate string, target *url.URL) error {
	if !strings.HasPrefix(candidate, "/") {
		return violationf("destination %q is a relative path", candidate)
	}
	if strings.HasPrefix(candidate, "//") {
		return violationf("destination %q is protocol-relative", candidate)
	}
	if target.RawQuery != "" || target.Fragment != "" || strings.ContainsAny(candidate, "?#") {
		return violationf("destination %q carries a query or fragment", candidate)
	}
	for _, r := range candidate {
		if !isPathRune(r) {
			return violationf("destination %q contains invalid path character %q", candidate, r)
		}
	}
	return nil
}

// origin is the (scheme, host, port) trust boundary of a URL. Ports are
// normalized to the scheme default so https://a and https://a:443 compare
// equal.
type origin struct {
	scheme string
	host   string
	port   string
}

func (o origin) String() string {
	return fmt.Sprintf("%s://%s:%s", o.scheme, o.host, o.port)
}

func originOf(u *url.URL) origin {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		}
	}
	return origin{scheme: u.Scheme, host: u.Hostname(), port: port}
}

// isPathRune reports whether r may appear in a URL path segment per RFC 3986
// (pchar, "/" and "%" for escapes). Raw spaces and control characters fail.
func isPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '-', '.', '_', '~', // unreserved
		'!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', // sub-delims
		':', '@', '/', '%':
		return true
	}
	return false
}
