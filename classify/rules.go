package classify

import (
	"regexp"
	"slices"

	"github.com/jonwraymond/codeplay/code"
)

// Rule maps a failure to a category. A rule matches when Kinds is empty or
// contains the failure's kind, and Pattern is nil or matches its message.
type Rule struct {
	// Category is the result when the rule matches.
	Category code.Category

	// Kinds restricts the rule to these runtime exception kinds.
	Kinds []string

	// Pattern restricts the rule to messages it matches.
	Pattern *regexp.Regexp
}

// Match reports whether the rule applies to kind and message.
func (r Rule) Match(kind, message string) bool {
	if len(r.Kinds) > 0 && !slices.Contains(r.Kinds, kind) {
		return false
	}
	if r.Pattern != nil && !r.Pattern.MatchString(message) {
		return false
	}
	return true
}

// DefaultRules returns the built-in rules, in match order. They cover the
// Starlark and goja runtimes as well as Python-style exception names.
func DefaultRules() []Rule {
	rules := []Rule{
		{
			Category: code.CategoryIndentationError,
			Kinds:    []string{"SyntaxError", "IndentationError", "TabError"},
			Pattern:  regexp.MustCompile(`(?i)\bindent|unindent|\btabs?\b`),
		},
		{
			Category: code.CategoryRecursionError,
			Pattern:  regexp.MustCompile(`(?i)called recursively|maximum (call stack size|recursion depth)|stack overflow`),
		},
		{
			Category: code.CategoryZeroDivisionError,
			Pattern:  regexp.MustCompile(`(?i)(division|modulo) by zero|divided by zero`),
		},
		{
			Category: code.CategoryTimeout,
			Pattern:  regexp.MustCompile(`(?i)too many steps`),
		},
	}

	// Runtimes that already speak in Python exception names.
	for _, c := range []code.Category{
		code.CategorySyntaxError,
		code.CategoryNameError,
		code.CategoryTypeError,
		code.CategoryValueError,
		code.CategoryZeroDivisionError,
		code.CategoryAttributeError,
		code.CategoryIndexError,
		code.CategoryKeyError,
		code.CategoryRecursionError,
	} {
		rules = append(rules, Rule{Category: c, Kinds: []string{string(c)}})
	}

	rules = append(rules,
		Rule{
			Category: code.CategoryNameError,
			Kinds:    []string{"ResolveError", "EvalError", "Error"},
			Pattern:  regexp.MustCompile(`(?i)undefined:|not defined|referenced before assignment|undefined name`),
		},
		Rule{Category: code.CategoryNameError, Kinds: []string{"ReferenceError"}},
		Rule{Category: code.CategorySyntaxError, Kinds: []string{"ResolveError"}},
		Rule{
			Category: code.CategoryAttributeError,
			Pattern:  regexp.MustCompile(`(?i)has no \.?\w+ (field or method|attribute)|no such (field|method|attribute)`),
		},
		Rule{
			Category: code.CategoryKeyError,
			Pattern:  regexp.MustCompile(`(?i)not in dict|key .+ not found`),
		},
		Rule{
			Category: code.CategoryIndexError,
			Pattern:  regexp.MustCompile(`(?i)index .*out of range|out of bounds`),
		},
		Rule{
			Category: code.CategoryTypeError,
			Pattern: regexp.MustCompile(`(?i)unknown (binary|unary) op|unsupported (binary|unary) op|` +
				`not callable|invalid call of non-function|got \w+, want \w+|unhashable|not iterable|` +
				`missing argument|unexpected keyword argument|takes (exactly|at most|at least|no) |` +
				`is not a function`),
		},
		Rule{
			Category: code.CategoryValueError,
			Pattern:  regexp.MustCompile(`(?i)invalid literal|invalid (value|argument)|cannot parse|empty sequence|out of range`),
		},
		Rule{Category: code.CategoryValueError, Kinds: []string{"RangeError"}},
	)
	return rules
}
