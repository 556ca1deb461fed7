package course

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// argsPattern matches the line assigning the page arguments.
// The page declares the variable once and assigns it later; the second match is the populated one.
var argsPattern = regexp.MustCompile(`(?m)mArg = (.*);`)

// ParseArgs extracts course arguments from a knowledge card page.
func ParseArgs(html string) (*Args, error) {
	matches := argsPattern.FindAllStringSubmatch(html, -1)
	if len(matches) < 2 {
		return nil, fmt.Errorf("%w: found %d argument markers, want at least 2", ErrParse, len(matches))
	}

	raw := matches[1][1]
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: arguments are not valid JSON", ErrParse)
	}

	doc := gjson.Parse(raw)
	defaults := doc.Get("defaults")
	if !defaults.Exists() {
		return nil, fmt.Errorf("%w: missing defaults", ErrParse)
	}

	args := &Args{
		UserID: defaults.Get("userid").String(),
		CPI:    defaults.Get("cpi").String(),
	}
	for _, a := range doc.Get("attachments").Array() {
		args.Attachments = append(args.Attachments, Attachment{
			Type:      a.Get("type").String(),
			JobID:     a.Get("jobid").String(),
			ObjectID:  a.Get("property.objectid").String(),
			Module:    a.Get("property.module").String(),
			OtherInfo: a.Get("otherInfo").String(),
			Name:      a.Get("property.name").String(),
		})
	}

	return args, nil
}

// CountMarker counts non-overlapping occurrences of marker in body.
// An empty marker counts nothing.
func CountMarker(body, marker string) int {
	if marker == "" {
		return 0
	}
	return strings.Count(body, marker)
}
