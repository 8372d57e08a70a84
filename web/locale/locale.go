package locale

import (
	"io/fs"
	"strings"

	"github.com/MindDevsDavid/DragonScan/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var (
	i18nBundle       *i18n.Bundle
	defaultLocalizer *i18n.Localizer
)

// InitLocalizer parses the translation files. Spanish is the default
// language of the site; English comes from its own message file. Bundle and
// default localizer are immutable after this call, so sharing them between
// requests is safe.
func InitLocalizer(i18nFS fs.FS) error {
	i18nBundle = i18n.NewBundle(language.MustParse("es-ES"))
	i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(i18nFS, i18nBundle); err != nil {
		return err
	}

	defaultLocalizer = i18n.NewLocalizer(i18nBundle, "es-ES")
	return nil
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

func localize(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		return key
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Errorf("failed to localize message %q: %v", key, err)
		return key
	}
	return msg
}

// I18n localizes with the site default language. Request handlers go
// through the localizer the middleware put in the gin context instead.
func I18n(key string, params ...string) string {
	return localize(defaultLocalizer, key, params...)
}

// LocalizerMiddleware negotiates the request language and stores the
// resulting localizer in the request context only. Nothing request-scoped
// is written to package state, so concurrent requests cannot see each
// other's language.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		localizer := i18n.NewLocalizer(i18nBundle, lang, "es-ES")
		c.Set("localizer", localizer)
		c.Set("I18n", func(key string, params ...string) string {
			return localize(localizer, key, params...)
		})
		c.Next()
	}
}

func parseTranslationFiles(i18nFS fs.FS, i18nBundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			data, err := fs.ReadFile(i18nFS, path)
			if err != nil {
				return err
			}

			_, err = i18nBundle.ParseMessageFileBytes(data, path)
			return err
		})
}
