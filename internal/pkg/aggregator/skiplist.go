package aggregator

import (
	"strings"

	"linkscout/internal/pkg/urlutil"
)

// skipSegments marks admin, auth and commerce-flow paths that never
// make useful internal link targets.
var skipSegments = []string{
	"wp-admin",
	"wp-login.php",
	"admin",
	"administrator",
	"login",
	"log-in",
	"signin",
	"sign-in",
	"signup",
	"sign-up",
	"register",
	"logout",
	"auth",
	"cart",
	"checkout",
	"account",
	"my-account",
	"dashboard",
}

// skipExtensions marks file types that are not HTML-rendered content.
var skipExtensions = []string{
	".pdf",
	".doc", ".docx",
	".xls", ".xlsx",
	".ppt", ".pptx",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico", ".bmp",
	".zip", ".rar", ".tar", ".gz", ".7z",
	".css", ".js", ".mjs", ".map",
	".mp3", ".mp4", ".avi", ".mov", ".webm", ".wmv",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".xml", ".json", ".rss", ".atom",
}

// shouldSkip reports whether a canonical URL is filtered from the
// final discovered set.
func shouldSkip(canonical string) bool {
	path := urlutil.Path(canonical)

	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		for _, skip := range skipSegments {
			if segment == skip {
				return true
			}
		}
	}
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
