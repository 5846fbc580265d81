package request

import "strings"

const (
	ClientWeb    = "web"
	ClientMobile = "mobile"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls back
// to sniffing the user agent. Web clients get tokens as httpOnly cookies,
// everything else reads them from the response body.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(header) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "chrome") || strings.Contains(ua, "safari") {
		return ClientWeb
	}
	return ClientMobile
}

func IsWebClient(clientType string) bool {
	return clientType == ClientWeb
}
