package assets

import (
	"embed"
	"path/filepath"
	"strings"
)

// SpritesFS holds the sprites of the bundled schemas, one directory per
// schema prefix.
//
//go:embed protoboard/*.png
var SpritesFS embed.FS

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		return s[idx+len("/assets/"):]
	}
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return strings.TrimPrefix(s, "./")
}
