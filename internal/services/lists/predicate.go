package lists

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/rzbill/listx/internal/listext"
)

// ErrInvalidExpression is returned when a WHERE expression does not compile
// to a boolean program.
var ErrInvalidExpression = errors.New("ERR invalid expression")

// celPredicate wraps a compiled CEL program evaluated once per visited element.
type celPredicate struct {
	prog cel.Program
}

func newCELPredicate(expr string) (celPredicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celPredicate{}, fmt.Errorf("%w: empty", ErrInvalidExpression)
	}
	env, err := cel.NewEnv(
		cel.Variable("value", cel.StringType),
		// num is 0 unless numeric is true.
		cel.Variable("num", cel.IntType),
		cel.Variable("numeric", cel.BoolType),
		// index is the visit position, counted from the tail.
		cel.Variable("index", cel.IntType),
	)
	if err != nil {
		return celPredicate{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return celPredicate{}, fmt.Errorf("%w: %v", ErrInvalidExpression, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return celPredicate{}, fmt.Errorf("%w: result must be bool, got %s", ErrInvalidExpression, ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return celPredicate{}, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return celPredicate{prog: prog}, nil
}

// Predicate adapts the program to listext. Evaluation errors count as no match.
func (p celPredicate) Predicate() listext.Predicate {
	return func(index int64, elem []byte) ([]byte, bool) {
		v, numeric := listext.ParseInt(elem)
		out, _, err := p.prog.Eval(map[string]any{
			"value":   string(elem),
			"num":     v,
			"numeric": numeric,
			"index":   index,
		})
		if err != nil {
			return nil, false
		}
		keep, ok := out.Value().(bool)
		if !ok || !keep {
			return nil, false
		}
		return elem, true
	}
}
