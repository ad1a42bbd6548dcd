// Package button renders the sign-in form the host application embeds in
// its pages: a POST form targeting the authorization endpoint with the
// destination in a hidden field.
package button

import (
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"
)

// SignInButton renders a sign-in form. mountPath is the prefix the service
// is registered under, proceedTo the post-login destination, and label the
// button text. attrs adds attributes to the button element.
func SignInButton(mountPath, proceedTo, label string, attrs map[string]string) template.HTML {
	var b strings.Builder

	fmt.Fprintf(&b, `<form action="%s/authorization" method="post">`, html.EscapeString(mountPath))
	fmt.Fprintf(&b, `<input name="proceed_to" type="hidden" value="%s" autocomplete="off">`, html.EscapeString(proceedTo))
	b.WriteString(`<button type="submit"`)
	for _, key := range sortedKeys(attrs) {
		fmt.Fprintf(&b, ` %s="%s"`, html.EscapeString(key), html.EscapeString(attrs[key]))
	}
	fmt.Fprintf(&b, `>%s</button></form>`, html.EscapeString(label))

	return template.HTML(b.String())
}

func sortedKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
