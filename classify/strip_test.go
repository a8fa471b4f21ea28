package classify

import "testing"

func TestStripper(t *testing.T) {
	s := newStripper(DefaultSyntheticFiles)
	tests := []struct {
		name     string
		in       string
		want     string
		wantLine int
	}{
		{"starlark position", "main.py:2:9: floating-point division by zero", "floating-point division by zero", 2},
		{"goja line marker", "main.js: Line 1:15 Unexpected end of input", "Unexpected end of input", 1},
		{"goja at marker", "y is not defined at main.js:1:1(3)", "y is not defined", 1},
		{"python file line", `File "<exec>", line 3, in <module>: bad thing`, "bad thing", 3},
		{"eval marker", "boom at <eval>:4:2(1)", "boom", 4},
		{
			"traceback block",
			"Traceback (most recent call last):\n  main.py:2:8: in <toplevel>\nError: boom",
			"Error: boom",
			0,
		},
		{"js stack frames", "boom\n    at f (main.js:3:5(2))\n    at main.js:5:1(7)", "boom", 0},
		{"no markers", "plain message", "plain message", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, line := s.strip(tt.in)
			if got != tt.want {
				t.Errorf("strip() = %q, want %q", got, tt.want)
			}
			if line != tt.wantLine {
				t.Errorf("line = %d, want %d", line, tt.wantLine)
			}
		})
	}
}
