// Package bundler merges the documentation tool's resolved bundler
// configuration with a project-wide base configuration. The base's own
// module rules are filtered down to documentation-markup rules only so the
// catalog build does not re-process every asset type the project knows.
package bundler

import (
	"fmt"
	"regexp"
)

// Rule is one module rule of a bundler configuration. Test is a regular
// expression matched against file paths.
type Rule struct {
	Test string   `json:"test"`
	Use  []string `json:"use"`
}

// Resolve holds module resolution settings.
type Resolve struct {
	Extensions []string          `json:"extensions"`
	Alias      map[string]string `json:"alias"`
}

// Config is a resolved bundler configuration object.
type Config struct {
	Rules   []Rule  `json:"rules"`
	Resolve Resolve `json:"resolve"`
}

// markupFiles are representative documentation-markup paths; a base rule
// survives the merge only if its test matches one of them.
var markupFiles = []string{"story.md", "story.mdx"}

// Merge combines the documentation tool's configuration with the project
// base: base rules filtered to documentation-markup rules, docs rules
// appended, resolve extensions unioned in order, aliases merged with docs
// precedence.
func Merge(base, docs Config) (Config, error) {
	var out Config

	for _, rule := range base.Rules {
		re, err := regexp.Compile(rule.Test)
		if err != nil {
			return Config{}, fmt.Errorf("bundler: invalid rule test %q: %w", rule.Test, err)
		}
		for _, f := range markupFiles {
			if re.MatchString(f) {
				out.Rules = append(out.Rules, rule)
				break
			}
		}
	}
	out.Rules = append(out.Rules, docs.Rules...)

	seen := make(map[string]bool)
	for _, ext := range append(append([]string{}, docs.Resolve.Extensions...), base.Resolve.Extensions...) {
		if !seen[ext] {
			seen[ext] = true
			out.Resolve.Extensions = append(out.Resolve.Extensions, ext)
		}
	}

	out.Resolve.Alias = make(map[string]string, len(base.Resolve.Alias)+len(docs.Resolve.Alias))
	for k, v := range base.Resolve.Alias {
		out.Resolve.Alias[k] = v
	}
	for k, v := range docs.Resolve.Alias {
		out.Resolve.Alias[k] = v
	}

	return out, nil
}
