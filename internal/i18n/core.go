package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var embedded embed.FS

var (
	mu          sync.RWMutex
	translator  *I18n
	defaultLang = cnst.LangEN
)

// SetDefaultLanguage sets the fallback language for messages
func SetDefaultLanguage(lang string) {
	mu.Lock()
	defer mu.Unlock()
	defaultLang = normalizeLang(lang, cnst.LangEN)
}

func getDefaultLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLang
}

// InitTranslator loads the embedded translations and, when dir is not empty,
// the TOML files found there on top of them.
func InitTranslator(dir string) error {
	t := NewI18n(language.English)
	if err := t.LoadFS(embedded, "translations"); err != nil {
		return err
	}
	if dir != "" {
		if err := t.LoadTranslations(dir); err != nil {
			return err
		}
	}
	mu.Lock()
	translator = t
	mu.Unlock()
	return nil
}

// GetTranslator returns the global translator, loading the embedded bundle on first use
func GetTranslator() *I18n {
	mu.RLock()
	t := translator
	mu.RUnlock()
	if t != nil {
		return t
	}
	_ = InitTranslator("")
	mu.RLock()
	defer mu.RUnlock()
	return translator
}

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewI18n creates a new I18n instance with the specified default language
func NewI18n(defaultLang language.Tag) *I18n {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
	}
}

// LoadFS loads every TOML file in dir of fsys
func (i *I18n) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read translations: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFileFS(fsys, path.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("failed to load %s: %w", e.Name(), err)
		}
	}
	return nil
}

// LoadTranslations loads translation files from the specified directory
func (i *I18n) LoadTranslations(translationsDir string) error {
	files, err := os.ReadDir(translationsDir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFile(filepath.Join(translationsDir, file.Name())); err != nil {
			return fmt.Errorf("failed to load %s: %w", file.Name(), err)
		}
	}

	return nil
}

// Translate returns a localized string for the given message ID and language
func (i *I18n) Translate(msgID string, lang string, templateData map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())

	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(templateData) > 0 {
		lc.TemplateData = templateData
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}
	return msg
}

// LanguageMiddleware stores the request language on the gin context
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.XLang, getLanguageFromRequest(c.Request))
		c.Next()
	}
}

// getLanguageFromRequest extracts language preference from HTTP headers
func getLanguageFromRequest(r *http.Request) string {
	fallback := getDefaultLang()
	if lang := r.Header.Get(cnst.XLang); lang != "" {
		return normalizeLang(lang, fallback)
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			base, _ := tags[0].Base()
			return normalizeLang(base.String(), fallback)
		}
	}

	return fallback
}

// normalizeLang reduces a language code to a supported base language
func normalizeLang(lang, fallback string) string {
	langCode := strings.ToLower(strings.Split(strings.Split(lang, "-")[0], "_")[0])
	for _, supported := range cnst.SupportedLangs {
		if langCode == supported {
			return langCode
		}
	}
	return fallback
}

func contextLang(c *gin.Context) string {
	if c != nil {
		if lang, ok := c.Get(cnst.XLang); ok {
			if s, ok := lang.(string); ok && s != "" {
				return s
			}
		}
		if c.Request != nil {
			return getLanguageFromRequest(c.Request)
		}
	}
	return getDefaultLang()
}

// TranslateMessage translates a message ID using the context's language preference
func TranslateMessage(c *gin.Context, msgID string, data map[string]any) string {
	if t := GetTranslator(); t != nil {
		return t.Translate(msgID, contextLang(c), data)
	}
	return msgID
}
