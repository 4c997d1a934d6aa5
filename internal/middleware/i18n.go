// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// I18nMiddleware picks the response language from Accept-Language.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", parseLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// parseLanguage handles headers like "es-CO,es;q=0.9,en;q=0.8" by taking the
// first supported entry.
func parseLanguage(header, defaultLang string) string {
	for _, entry := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.Split(entry, ";")[0]))
		switch {
		case tag == "es" || strings.HasPrefix(tag, "es-") || strings.HasPrefix(tag, "es_"):
			return "es"
		case tag == "en" || strings.HasPrefix(tag, "en-") || strings.HasPrefix(tag, "en_"):
			return "en"
		}
	}
	return defaultLang
}
