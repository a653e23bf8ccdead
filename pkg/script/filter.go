package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/printkit/gpost/pkg/types"
)

// FilterConfig specifies include and exclude patterns for script filtering.
type FilterConfig struct {
	Include []string // Regex patterns - only matching scripts included
	Exclude []string // Regex patterns - matching scripts excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude patterns to script IDs, keeping order.
// Include is applied first, then exclude.
// Empty include means "include all".
// Returns error if any pattern is invalid regex.
func Filter(scripts []*types.Script, config FilterConfig) ([]*types.Script, error) {
	if len(scripts) == 0 {
		return scripts, nil
	}

	includeRegexes, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	excludeRegexes, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	filtered := scripts
	if len(includeRegexes) > 0 {
		filtered = keep(filtered, func(id string) bool { return matchesAny(id, includeRegexes) })
	}
	if len(excludeRegexes) > 0 {
		filtered = keep(filtered, func(id string) bool { return !matchesAny(id, excludeRegexes) })
	}

	return filtered, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var regexes []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

func keep(scripts []*types.Script, pred func(id string) bool) []*types.Script {
	result := make([]*types.Script, 0, len(scripts))
	for _, s := range scripts {
		if pred(s.ID) {
			result = append(result, s)
		}
	}
	return result
}

func matchesAny(id string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}
