package httpclient

import (
	"net"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	AlternatePort  = "8080"
)

// ResolveBaseURL picks the backend origin. A non-empty override wins;
// otherwise the page origin's scheme and host are kept and the port is
// replaced by AlternatePort; when the origin cannot be parsed the local
// default is used. The result depends only on its arguments.
func ResolveBaseURL(override, pageOrigin string) string {
	if o := strings.TrimSpace(override); o != "" {
		return strings.TrimRight(o, "/")
	}

	u, err := url.Parse(strings.TrimSpace(pageOrigin))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return DefaultBaseURL
	}

	return u.Scheme + "://" + net.JoinHostPort(u.Hostname(), AlternatePort)
}

// WebSocketURL rewrites an http(s) base into its ws(s) counterpart and
// appends path.
func WebSocketURL(baseURL, path string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" {
		return strings.Replace(strings.TrimRight(baseURL, "/"), "http", "ws", 1) + path
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + path

	return u.String()
}
