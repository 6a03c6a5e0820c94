package services

import "regexp"

// escapeRegex quotes user-supplied search text so it matches literally.
func escapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}
