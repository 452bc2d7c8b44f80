package app

import (
	"log/slog"
	"mime"
)

// staticTypes are registered when the host has no mapping for them.
var staticTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".js":  "text/javascript; charset=utf-8",
	".svg": "image/svg+xml",
}

func init() {
	for ext, typ := range staticTypes {
		if mime.TypeByExtension(ext) != "" {
			continue
		}
		if err := mime.AddExtensionType(ext, typ); err != nil {
			slog.Default().Warn("register mime type", slog.String("ext", ext), slog.Any("error", err))
		}
	}
}
