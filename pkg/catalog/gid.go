package catalog

import "strings"

// TrailingSegment returns the part of a global ID after the last "/",
// e.g. "gid://shopify/Product/123" -> "123".
// An ID without "/" is returned unchanged.
func TrailingSegment(id string) string {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		return id[i+1:]
	}
	return id
}
