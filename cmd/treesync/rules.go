package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aatuh/treesync/internal/filter"
	"github.com/aatuh/treesync/internal/pathutil"
)

type ruleSpec struct {
	Mode filter.Mode
	Path string
}

// ruleFlag is a pflag.Value appending rule files of one mode to a list shared
// with the other mode, so --exclude-file and --include-file keep their order.
type ruleFlag struct {
	Mode  filter.Mode
	Specs *[]ruleSpec
}

func (f ruleFlag) Type() string { return "file" }

func (f ruleFlag) String() string {
	if f.Specs == nil {
		return ""
	}
	var b strings.Builder
	for _, spec := range *f.Specs {
		if spec.Mode != f.Mode {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(spec.Path)
	}
	return b.String()
}

func (f ruleFlag) Set(value string) error {
	if f.Specs == nil {
		return errors.New("rule flag has no destination")
	}
	path := strings.TrimSpace(value)
	if path == "" {
		return fmt.Errorf("empty %s rule file", f.Mode)
	}
	*f.Specs = append(*f.Specs, ruleSpec{Mode: f.Mode, Path: path})
	return nil
}

// resolveRulePath looks for a relative rule file in the working directory
// first and under the project root otherwise.
func resolveRulePath(rootAbs, rulePath string) string {
	if rulePath == "" || filepath.IsAbs(rulePath) {
		return rulePath
	}
	if fromCwd, err := filepath.Abs(rulePath); err == nil {
		if _, err := os.Stat(fromCwd); !errors.Is(err, fs.ErrNotExist) {
			return fromCwd
		}
	}
	return filepath.Join(rootAbs, rulePath)
}

func loadRuleSets(rootAbs string, ruleSpecs []ruleSpec) ([]filter.RuleSet, error) {
	ruleSets := make([]filter.RuleSet, len(ruleSpecs))
	for i, spec := range ruleSpecs {
		rules, err := filter.LoadRules(spec.Mode, resolveRulePath(rootAbs, spec.Path))
		if err != nil {
			return nil, err
		}
		ruleSets[i] = rules
	}
	return ruleSets, nil
}

// buildFilter combines the rule files and hides excluded, an absolute path
// such as the state file, when it lies under root.
func buildFilter(root string, ruleSpecs []ruleSpec, excluded ...string) (filter.PathFilter, error) {
	baseMode := filter.ModeBlacklist
	if len(ruleSpecs) > 0 {
		baseMode = ruleSpecs[0].Mode
	}
	ruleSets, err := loadRuleSets(filepath.FromSlash(root), ruleSpecs)
	if err != nil {
		return nil, err
	}

	var excludedRel []string
	for _, p := range excluded {
		p = pathutil.Normalize(filepath.ToSlash(p))
		if p == "" || !pathutil.Within(p, root) {
			continue
		}
		excludedRel = append(excludedRel, pathutil.Relativize(p, root))
	}
	return filter.NewExcludePathFilter(filter.NewRuleSetFilter(ruleSets, baseMode), excludedRel), nil
}

// formatRuleModes describes the rule chain for logs, e.g. "blacklist -> whitelist".
func formatRuleModes(ruleSpecs []ruleSpec) string {
	modes := make([]string, len(ruleSpecs))
	for i, spec := range ruleSpecs {
		modes[i] = spec.Mode.String()
	}
	return strings.Join(modes, " -> ")
}
