package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultSyntheticFiles are the script names runtimes report for submitted
// source.
var DefaultSyntheticFiles = []string{
	"main.py",
	"main.js",
	"<exec>",
	"<eval>",
	"<string>",
	"<stdin>",
	"(anonymous)",
}

var (
	tracebackBlock = regexp.MustCompile(`(?m)^Traceback \(most recent call last\):\n(?:[ \t]+.*(?:\n|$))*`)
	jsFrameLine    = regexp.MustCompile(`(?m)^[ \t]+at .*$`)
	spaceRun       = regexp.MustCompile(`[ \t]{2,}`)
)

// stripper removes location markers for a fixed set of synthetic files.
type stripper struct {
	markers []*regexp.Regexp
}

func newStripper(files []string) *stripper {
	s := &stripper{}
	for _, f := range files {
		q := regexp.QuoteMeta(f)
		s.markers = append(s.markers,
			// File "main.py", line 3, in <module>
			regexp.MustCompile(`File\s+"`+q+`",\s*line\s+(\d+)(?:,\s*in\s+\S+)?`),
			// at main.js:1:7(3) / main.py:2:9: / main.js: Line 1:15
			regexp.MustCompile(`(?:\bat\s+)?`+q+`(?::\s*|\s+)(?:[Ll]ine\s+)?(\d+)(?::(\d+))?(?:\(\d+\))?:?`),
			// a bare name with no position
			regexp.MustCompile(`(?:\bat\s+|\bin\s+)?`+q+`:?`),
		)
	}
	return s
}

// strip returns text without tracebacks, stack frames and synthetic file
// markers, and the first line number found in a removed marker.
func (s *stripper) strip(text string) (string, int) {
	line := 0
	text = tracebackBlock.ReplaceAllString(text, "")
	text = jsFrameLine.ReplaceAllString(text, "")

	for _, re := range s.markers {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			if line == 0 {
				if sub := re.FindStringSubmatch(match); len(sub) > 1 && sub[1] != "" {
					if n, err := strconv.Atoi(sub[1]); err == nil {
						line = n
					}
				}
			}
			return " "
		})
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(spaceRun.ReplaceAllString(l, " "))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Trim(strings.Join(lines, "\n"), " :;,"), line
}
