package filter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// RuleSet bundles parsed gitignore patterns with their evaluation mode.
type RuleSet struct {
	Mode     Mode
	Patterns []gitignore.Pattern
}

// ParseRules reads gitignore-style patterns from r.
func ParseRules(mode Mode, r io.Reader) (RuleSet, error) {
	rules := RuleSet{Mode: mode}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules.Patterns = append(rules.Patterns, gitignore.ParsePattern(line, nil))
	}
	if err := scanner.Err(); err != nil {
		return RuleSet{}, err
	}
	return rules, nil
}

// LoadRules loads a rule file. A missing file yields an empty rule set.
func LoadRules(mode Mode, path string) (RuleSet, error) {
	// #nosec G304 -- rule files are user-specified by design.
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RuleSet{Mode: mode}, nil
		}
		return RuleSet{}, fmt.Errorf("open %s rules: %w", mode, err)
	}
	defer file.Close()

	rules, err := ParseRules(mode, file)
	if err != nil {
		return RuleSet{}, fmt.Errorf("parse %s rules from %s: %w", mode, path, err)
	}
	return rules, nil
}

// match reports whether any pattern matches and whether the last match was a negation.
func (r RuleSet) match(path string, isDir bool) (bool, bool) {
	if len(r.Patterns) == 0 {
		return false, false
	}
	parts := strings.Split(path, "/")
	for i := len(r.Patterns) - 1; i >= 0; i-- {
		switch r.Patterns[i].Match(parts, isDir) {
		case gitignore.Exclude:
			return true, false
		case gitignore.Include:
			return true, true
		}
	}
	return false, false
}

// RuleSetFilter applies multiple rule sets in order, letting later matches override earlier ones.
type RuleSetFilter struct {
	BaseMode Mode
	RuleSets []RuleSet
}

// NewRuleSetFilter returns a filter that evaluates rule sets in order. Without
// rule sets a blacklist base includes everything and a whitelist base nothing.
func NewRuleSetFilter(ruleSets []RuleSet, baseMode Mode) PathFilter {
	if len(ruleSets) == 0 && baseMode == ModeBlacklist {
		return AllowAll{}
	}
	return RuleSetFilter{BaseMode: baseMode, RuleSets: ruleSets}
}

func (f RuleSetFilter) Evaluate(path string, isDir bool) Decision {
	decision := decisionForMatch(f.BaseMode, false, false)
	for _, rules := range f.RuleSets {
		matched, negated := rules.match(path, isDir)
		if !matched {
			continue
		}
		decision = decisionForMatch(rules.Mode, matched, negated)
	}
	return decision
}

func decisionForMatch(mode Mode, matched, negated bool) Decision {
	switch mode {
	case ModeWhitelist:
		include := matched && !negated
		return Decision{Include: include, Descend: true}
	case ModeBlacklist:
		ignored := matched && !negated
		return Decision{Include: !ignored, Descend: !ignored}
	}
	return Decision{Include: true, Descend: true}
}
