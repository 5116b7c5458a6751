package discord

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	loc "github.com/jmshal/go-locale"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
)

//go:embed language/*.toml
var languageFiles embed.FS

var locBundle *i18n.Bundle
var localizer *i18n.Localizer

func init() {
	loadLang := func(lang string) {
		locBundle = i18n.NewBundle(language.English)
		locBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		embedded, _ := languageFiles.ReadDir("language")
		for _, f := range embedded {
			path := "language/" + f.Name()
			buf, err := languageFiles.ReadFile(path)
			if err == nil {
				_, err = locBundle.ParseMessageFileBytes(buf, path)
			}
			if err != nil {
				log.WithError(err).WithField("file", path).Error("Could not load embedded language file")
			}
		}

		// Translations in $GUILDBOT_DIR/language override the embedded ones.
		if dir := os.Getenv("GUILDBOT_DIR"); dir != "" {
			files, _ := filepath.Glob(filepath.Join(dir, "language", "active.*.toml"))
			for _, path := range files {
				if _, err := locBundle.LoadMessageFile(path); err != nil {
					log.WithError(err).WithField("file", path).Error("Could not load language file")
				}
			}
		}
		localizer = i18n.NewLocalizer(locBundle, lang, language.English.String())
	}

	uLocale, err := loc.DetectLocale()
	if err != nil {
		loadLang(language.English.String())

		log.WithFields(logrus.Fields{"err": err}).Warn(
			"Could not read localization. Defaulting to English.",
		)
	} else {
		loadLang(uLocale)
	}
}

// localize renders a message from the bundle, falling back to other.
func localize(id, other string, data map[string]string) string {
	lc := &i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: other},
	}
	if data != nil {
		lc.TemplateData = data
	}
	return localizer.MustLocalize(lc)
}
