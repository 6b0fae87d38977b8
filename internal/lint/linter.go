package lint

import (
	"sort"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/workspace"
)

// Result is one full lint pass over a workspace.
type Result struct {
	Findings []domain.Finding
	Errors   int
	Warnings int
}

func (r *Result) Passed() bool {
	return r.Errors == 0
}

// FindingsFor filters findings down to those under one package path.
func (r *Result) FindingsFor(relPath string) []domain.Finding {
	var out []domain.Finding
	for _, f := range r.Findings {
		if f.Path == relPath || hasPathPrefix(f.Path, relPath) {
			out = append(out, f)
		}
	}
	return out
}

func hasPathPrefix(path, prefix string) bool {
	return len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}

type Linter struct {
	rules []Rule
}

func New(rules ...Rule) *Linter {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Linter{rules: rules}
}

// Run applies every rule to the scanned workspace. Findings come back sorted
// by path then rule id so output is stable.
func (l *Linter) Run(ws *workspace.Workspace) *Result {
	result := &Result{Findings: []domain.Finding{}}

	for _, rule := range l.rules {
		result.Findings = append(result.Findings, rule.Check(ws)...)
	}

	sort.Slice(result.Findings, func(i, j int) bool {
		if result.Findings[i].Path != result.Findings[j].Path {
			return result.Findings[i].Path < result.Findings[j].Path
		}
		return result.Findings[i].RuleID < result.Findings[j].RuleID
	})

	for _, f := range result.Findings {
		if f.Severity == domain.SeverityError {
			result.Errors++
		} else {
			result.Warnings++
		}
	}

	return result
}
