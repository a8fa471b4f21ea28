package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jonwraymond/codeplay/code"
	"github.com/jonwraymond/codeplay/runtime"
)

// Option configures a Classifier.
type Option func(*Classifier)

// WithLocale selects the message locale. Unsupported locales fall back to
// the closest supported one, and to English when nothing is close.
func WithLocale(locale string) Option {
	return func(c *Classifier) {
		c.tag = matchLocale(locale)
	}
}

// WithRules replaces the rule list.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = append([]Rule(nil), rules...)
	}
}

// WithSyntheticFiles replaces the file names treated as internal markers.
func WithSyntheticFiles(files ...string) Option {
	return func(c *Classifier) {
		c.files = append([]string(nil), files...)
	}
}

// Classifier is the default code.Classifier.
//
// Contract:
// - Concurrency: safe for concurrent use; a Classifier is immutable after New.
// - Purity: Classify performs no I/O.
type Classifier struct {
	tag      language.Tag
	rules    []Rule
	files    []string
	stripper *stripper
	printer  *message.Printer
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		tag:   language.English,
		rules: DefaultRules(),
		files: DefaultSyntheticFiles,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stripper = newStripper(c.files)
	c.printer = newPrinter(c.tag)
	return c
}

// Locale returns the matched locale.
func (c *Classifier) Locale() string {
	return c.tag.String()
}

// Label returns the localized label for category.
func (c *Classifier) Label(category code.Category) string {
	key, ok := labelKeys[category]
	if !ok {
		key = labelKeys[code.CategoryUnknown]
	}
	return c.printer.Sprintf(key)
}

// Classify maps err to a result that carries output verbatim.
func (c *Classifier) Classify(err error, output string) code.ExecuteResult {
	info := c.classify(err)
	return code.ExecuteResult{Output: output, Error: &info}
}

func (c *Classifier) classify(err error) code.ErrorInfo {
	if err == nil {
		return code.ErrorInfo{Category: code.CategoryUnknown, Message: c.Label(code.CategoryUnknown)}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return c.fixed(code.CategoryTimeout, keyTimedOut)
	case errors.Is(err, context.Canceled):
		return c.fixed(code.CategoryCancelled, keyCancelled)
	case errors.Is(err, runtime.ErrRuntimeUnavailable), errors.Is(err, code.ErrRuntimeUnavailable):
		return c.engine(code.CategoryRuntimeUnavailable, err, runtime.ErrRuntimeUnavailable)
	case errors.Is(err, code.ErrEngineNotReady):
		return c.engine(code.CategoryEngineNotReady, err, code.ErrEngineNotReady)
	case errors.Is(err, code.ErrEngineBusy):
		return c.engine(code.CategoryEngineBusy, err, code.ErrEngineBusy)
	}

	kind, raw, line := "", err.Error(), 0
	var ex *runtime.Exception
	if errors.As(err, &ex) {
		kind, raw, line = ex.Kind, ex.Message, ex.Line
	}

	category := code.CategoryUnknown
	for _, rule := range c.rules {
		if rule.Match(kind, raw) {
			category = rule.Category
			break
		}
	}

	detail, markerLine := c.stripper.strip(trimKind(raw, kind))
	if line == 0 {
		line = markerLine
	}

	if category == code.CategoryUnknown {
		return code.ErrorInfo{Category: category, Message: err.Error(), Line: line}
	}
	return code.ErrorInfo{Category: category, Message: c.format(category, line, detail), Line: line}
}

// fixed renders a category whose detail comes from the catalog.
func (c *Classifier) fixed(category code.Category, detailKey string) code.ErrorInfo {
	return code.ErrorInfo{
		Category: category,
		Message:  c.format(category, 0, c.printer.Sprintf(detailKey)),
	}
}

// engine renders an engine condition. The sentinel's own text is replaced by
// the localized label.
func (c *Classifier) engine(category code.Category, err, sentinel error) code.ErrorInfo {
	text := err.Error()
	if text == sentinel.Error() {
		text = ""
	}
	detail, _ := c.stripper.strip(strings.TrimPrefix(text, sentinel.Error()+": "))
	return code.ErrorInfo{Category: category, Message: c.format(category, 0, detail)}
}

// format renders "<Label> (line N): <detail>" or "<Label>: <detail>".
func (c *Classifier) format(category code.Category, line int, detail string) string {
	head := c.Label(category)
	if line > 0 {
		head = fmt.Sprintf("%s (%s)", head, c.printer.Sprintf(keyLine, line))
	}
	if detail == "" {
		return head
	}
	return head + ": " + detail
}

// trimKind drops a leading "Kind: " that repeats the exception kind.
func trimKind(message, kind string) string {
	if kind == "" {
		return message
	}
	return strings.TrimPrefix(message, kind+": ")
}

// Compile-time interface check
var _ code.Classifier = (*Classifier)(nil)
