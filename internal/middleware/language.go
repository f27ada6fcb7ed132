package middleware

import (
	"go-attendance/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// LanguageMatcher picks a supported language for an Accept-Language value.
type LanguageMatcher interface {
	Match(acceptLanguage string) language.Tag
}

// Language negotiates the response language once per request. A matcher that
// also translates is put on the context so error messages follow the language.
func Language(matcher LanguageMatcher) gin.HandlerFunc {
	translator, _ := matcher.(contextutil.Translator)
	return func(c *gin.Context) {
		tag := matcher.Match(c.GetHeader("Accept-Language"))
		c.Header("Content-Language", tag.String())
		ctx := contextutil.WithLanguage(c.Request.Context(), tag)
		if translator != nil {
			ctx = contextutil.WithTranslator(ctx, translator)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
