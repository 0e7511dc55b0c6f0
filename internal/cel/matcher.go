// Package cel compiles user supplied CEL predicates that decide which
// autocomplete candidates are shown for a query.
package cel

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// Variable names visible to filter expressions.
const (
	VarCandidate = "candidate"
	VarQuery     = "query"
)

// Matcher evaluates a compiled boolean expression over a candidate and the
// current query. It is safe for concurrent use.
type Matcher struct {
	expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(VarCandidate, cel.StringType),
		cel.Variable(VarQuery, cel.StringType),
		celext.Strings(),
		celext.Encoders(),
	)
}

// NewMatcher compiles expr. The expression must type-check to bool.
func NewMatcher(expr string) (*Matcher, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty filter expression")
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Matcher{expr: expr, prg: prg}, nil
}

// Match reports whether candidate is kept for query. Evaluation errors
// reject the candidate.
func (m *Matcher) Match(candidate, query string) bool {
	out, _, err := m.prg.Eval(map[string]any{
		VarCandidate: candidate,
		VarQuery:     query,
	})
	if err != nil {
		return false
	}
	b, ok := out.(types.Bool)
	return ok && bool(b)
}

// String returns the source expression.
func (m *Matcher) String() string {
	return m.expr
}

// Functions lists the named functions available to filter expressions,
// sorted, without operator overloads.
func Functions() ([]string, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	seen := make(map[string]bool)
	for _, fn := range env.Functions() {
		if isOperator(fn.Name()) {
			continue
		}
		seen[fn.Name()] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// isOperator filters internal operator declarations such as _+_ or @in.
func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, "!") || strings.HasPrefix(name, "-") {
		return true
	}
	return false
}
