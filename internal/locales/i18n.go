package locales

import (
	"embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

var (
	mu              sync.RWMutex
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
)

// Init initializes the i18n bundle by loading language files and setting the default language.
func Init(defaultLangCode string) error {
	tag, err := language.Parse(defaultLangCode)
	if err != nil {
		log.WithError(err).Warnf("failed to parse default language code '%s', falling back to Persian", defaultLangCode)
		tag = language.Persian
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := localeFS.ReadDir(".")
	if err != nil {
		return errors.Wrap(err, "failed to read embedded locales directory")
	}

	loadedFiles := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		if _, err := b.LoadMessageFileFS(localeFS, file.Name()); err != nil {
			log.WithError(err).Warnf("failed to load message file '%s'", file.Name())
			continue
		}
		log.Debugf("loaded message file: %s", file.Name())
		loadedFiles++
	}
	if loadedFiles == 0 {
		return errors.New("no message files loaded from locales")
	}

	mu.Lock()
	bundle = b
	defaultLanguage = tag
	mu.Unlock()

	log.Infof("i18n bundle initialized with %d file(s), default language: %s", loadedFiles, tag.String())
	return nil
}

// GetDefaultLanguageTag returns the configured default language tag.
func GetDefaultLanguageTag() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	if bundle == nil {
		log.Panic("attempted to get default language tag before i18n bundle initialization")
	}
	return defaultLanguage
}

// NewLocalizer creates a localizer for the given language preferences.
// It takes language tags (e.g., "fa", "en") or an Accept-Language string.
func NewLocalizer(langPrefs ...string) *i18n.Localizer {
	mu.RLock()
	defer mu.RUnlock()
	if bundle == nil {
		log.Panic("attempted to create localizer before i18n bundle initialization")
	}
	return i18n.NewLocalizer(bundle, langPrefs...)
}

// GetMessage retrieves and formats a message by its ID using the provided localizer.
// It falls back to English and finally to the message ID itself.
func GetMessage(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}, pluralCount *int) string {
	config := &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	}
	if pluralCount != nil {
		config.PluralCount = *pluralCount
	}

	localizedMsg, err := localizer.Localize(config)
	if err == nil {
		return localizedMsg
	}
	log.WithError(err).WithField("msg_id", msgID).Error("failed to localize message, falling back to English")

	fallbackMsg, fallbackErr := NewLocalizer(language.English.String()).Localize(config)
	if fallbackErr == nil {
		return fallbackMsg
	}
	log.WithField("msg_id", msgID).Error("English fallback failed as well, returning message ID")
	return msgID
}
