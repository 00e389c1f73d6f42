package core

import (
	"regexp"
	"strings"
)

// mentionPattern matches a leading @token: the first group captures the target
// display name, the second the message body after the optional separator.
var mentionPattern = regexp.MustCompile(`^@\s*(\w+)[,:\s]*(.*)`)

// RouteKind classifies outgoing chat text.
type RouteKind int

const (
	// RouteBroadcast goes to every joined session and into history.
	RouteBroadcast RouteKind = iota
	// RouteDirect goes to the sender and the resolved recipient only.
	RouteDirect
	// RouteUnresolved names a target no live session carries.
	RouteUnresolved
)

// Route is the outcome of classifying one outgoing message.
type Route struct {
	Kind      RouteKind
	Target    string  // mentioned display name, for direct/unresolved
	Body      string  // text after the mention separator
	Recipient *Client // resolved session, for RouteDirect
}

// ClassifyMessage applies the mention rule to the trimmed text and resolves
// the target against the registry. Classification is evaluated once per
// message; the sender's own name is eligible to match like any other. With
// duplicate display names the first match in join order wins, which is
// best-effort rather than a guarantee callers should lean on.
func ClassifyMessage(text string, reg *Registry) Route {
	m := mentionPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Route{Kind: RouteBroadcast}
	}
	target, body := m[1], m[2]
	if recipient := reg.FindByName(target); recipient != nil {
		return Route{Kind: RouteDirect, Target: target, Body: body, Recipient: recipient}
	}
	return Route{Kind: RouteUnresolved, Target: target, Body: body}
}
