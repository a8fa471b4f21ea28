package classify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/jonwraymond/codeplay/code"
)

// DefaultLocale is used when no locale is configured or matched.
const DefaultLocale = "en"

var supported = []language.Tag{
	language.English,
	language.Russian,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

// Message keys. English text doubles as the key.
const (
	keyLine      = "line %d"
	keyTimedOut  = "the program did not finish in time"
	keyCancelled = "the execution was stopped"
)

var labelKeys = map[code.Category]string{
	code.CategorySyntaxError:        "Syntax error",
	code.CategoryIndentationError:   "Indentation error",
	code.CategoryNameError:          "Name error",
	code.CategoryTypeError:          "Type error",
	code.CategoryValueError:         "Value error",
	code.CategoryZeroDivisionError:  "Division by zero",
	code.CategoryAttributeError:     "Attribute error",
	code.CategoryIndexError:         "Index error",
	code.CategoryKeyError:           "Key error",
	code.CategoryRecursionError:     "Recursion error",
	code.CategoryTimeout:            "Time limit exceeded",
	code.CategoryCancelled:          "Execution cancelled",
	code.CategoryUnknown:            "Error",
	code.CategoryEngineNotReady:     "Engine not ready",
	code.CategoryEngineBusy:         "Engine busy",
	code.CategoryRuntimeUnavailable: "Runtime unavailable",
}

var translations = map[language.Tag]map[string]string{
	language.Russian: {
		"Syntax error":        "Синтаксическая ошибка",
		"Indentation error":   "Ошибка отступа",
		"Name error":          "Ошибка имени",
		"Type error":          "Ошибка типа",
		"Value error":         "Ошибка значения",
		"Division by zero":    "Деление на ноль",
		"Attribute error":     "Ошибка атрибута",
		"Index error":         "Ошибка индекса",
		"Key error":           "Ошибка ключа",
		"Recursion error":     "Ошибка рекурсии",
		"Time limit exceeded": "Превышено время выполнения",
		"Execution cancelled": "Выполнение отменено",
		"Error":               "Ошибка",
		"Engine not ready":    "Среда выполнения не готова",
		"Engine busy":         "Среда выполнения занята",
		"Runtime unavailable": "Среда выполнения недоступна",
		keyLine:               "строка %d",
		keyTimedOut:           "программа не завершилась вовремя",
		keyCancelled:          "выполнение было остановлено",
	},
	language.Spanish: {
		"Syntax error":        "Error de sintaxis",
		"Indentation error":   "Error de sangría",
		"Name error":          "Error de nombre",
		"Type error":          "Error de tipo",
		"Value error":         "Error de valor",
		"Division by zero":    "División por cero",
		"Attribute error":     "Error de atributo",
		"Index error":         "Error de índice",
		"Key error":           "Error de clave",
		"Recursion error":     "Error de recursión",
		"Time limit exceeded": "Tiempo de ejecución agotado",
		"Execution cancelled": "Ejecución cancelada",
		"Error":               "Error",
		"Engine not ready":    "El motor no está listo",
		"Engine busy":         "El motor está ocupado",
		"Runtime unavailable": "Entorno de ejecución no disponible",
		keyLine:               "línea %d",
		keyTimedOut:           "el programa no terminó a tiempo",
		keyCancelled:          "la ejecución fue detenida",
	},
}

// messages is the shared catalog for every classifier.
var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range labelKeys {
		_ = b.SetString(language.English, key, key)
	}
	for _, key := range []string{keyLine, keyTimedOut, keyCancelled} {
		_ = b.SetString(language.English, key, key)
	}
	for tag, entries := range translations {
		for key, msg := range entries {
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}

// matchLocale returns the supported tag closest to locale.
func matchLocale(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	_, index := language.MatchStrings(matcher, locale)
	return supported[index]
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// Locales returns the supported locale names.
func Locales() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = tag.String()
	}
	return out
}
