package cnst

const (
	LangEN = "en"
	LangES = "es"
)

// SupportedLangs lists the languages with bundled translations
var SupportedLangs = []string{LangEN, LangES}
