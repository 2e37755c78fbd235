package share

import "net/url"

// PathPrefix is the public route under which shared conversations are served.
const PathPrefix = "/share/"

// PathFor returns the relative share path for a conversation ID.
func PathFor(conversationID string) string {
	return PathPrefix + url.PathEscape(conversationID)
}
