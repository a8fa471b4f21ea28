package code

// Classifier maps a raw failure from the interpreter to a result.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Purity: no I/O and no shared mutable state; the same input yields the same result.
// - Output: the returned result keeps output verbatim and always has a non-nil Error.
type Classifier interface {
	Classify(err error, output string) ExecuteResult
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(err error, output string) ExecuteResult

// Classify calls f(err, output).
func (f ClassifierFunc) Classify(err error, output string) ExecuteResult {
	return f(err, output)
}
