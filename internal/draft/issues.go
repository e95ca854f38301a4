package draft

import (
	"fmt"
	"strings"
)

// Issue is one violated rule, attached to the path of the offending value,
// e.g. "tickets[2].price".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Issues lists every violated rule in the order the rules ran.
type Issues []Issue

func (is Issues) Error() string {
	parts := make([]string, len(is))
	for i, issue := range is {
		parts[i] = issue.Path + ": " + issue.Message
	}
	return "invalid draft: " + strings.Join(parts, "; ")
}

// At returns the messages reported for path.
func (is Issues) At(path string) []string {
	var out []string
	for _, issue := range is {
		if issue.Path == path {
			out = append(out, issue.Message)
		}
	}
	return out
}

func (is *Issues) add(path, msg string) {
	*is = append(*is, Issue{Path: path, Message: msg})
}

func (is *Issues) addf(path, format string, args ...any) {
	is.add(path, fmt.Sprintf(format, args...))
}

func index(base string, i int, field string) string {
	p := fmt.Sprintf("%s[%d]", base, i)
	if field != "" {
		p += "." + field
	}
	return p
}
