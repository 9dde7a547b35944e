package shopify

import (
	"net/url"
	"strings"
)

// nextPageInfo extracts the page_info cursor from the rel="next" entry
// of a Link response header. Returns "" when no next relation exists,
// which ends pagination.
//
// Header shape:
//
//	<https://shop.example.com/admin/api/2024-01/orders.json?limit=250&page_info=abc>; rel="next"
func nextPageInfo(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	for _, entry := range strings.Split(linkHeader, ",") {
		segments := strings.Split(entry, ";")
		if len(segments) < 2 {
			continue
		}

		isNext := false
		for _, attr := range segments[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				isNext = true
				break
			}
		}
		if !isNext {
			continue
		}

		rawURL := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		u, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		return u.Query().Get("page_info")
	}

	return ""
}
