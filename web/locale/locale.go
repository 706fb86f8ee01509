// Package locale provides internationalized messages for the web interface.
package locale

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/forumkit/forumkit/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var (
	i18nBundle   *i18n.Bundle
	localizerWeb *i18n.Localizer
)

// InitLocalizer loads the embedded translation bundle. The default language
// is en-US.
func InitLocalizer(i18nFS embed.FS) error {
	i18nBundle = i18n.NewBundle(language.MustParse("en-US"))
	i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return parseTranslationFiles(i18nFS, i18nBundle)
}

func parseTranslationFiles(i18nFS embed.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := bundle.LoadMessageFileFS(i18nFS, path); err != nil {
			return err
		}
		return nil
	})
}

func createTemplateData(params []string) map[string]any {
	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, "==", 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// I18n localizes the message identified by key, with optional "name==value"
// template parameters.
func I18n(key string, params ...string) string {
	if localizerWeb == nil {
		// Localizer not ready; fall back to the key to avoid a nil panic.
		return key
	}

	msg, err := localizerWeb.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Errorf("Failed to localize message %q: %v", key, err)
		return key
	}
	return msg
}

// LocalizerMiddleware selects the request language from the "lang" cookie or
// the Accept-Language header and exposes the i18n function in the gin context.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		localizerWeb = i18n.NewLocalizer(i18nBundle, lang)

		c.Set("localizer", localizerWeb)
		c.Set("I18n", I18n)
		c.Next()
	}
}
