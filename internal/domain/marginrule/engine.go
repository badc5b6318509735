package marginrule

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/google/cel-go/cel"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
)

// Engine compiles and evaluates rule expressions. The CEL environment is
// built once; compiled programs are cached per expression text.
type Engine struct {
	env      *cel.Env
	programs map[string]cel.Program
}

// NewEngine creates an engine with the item attribute environment.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("item_code", cel.StringType),
		cel.Variable("units", cel.StringType),
		cel.Variable("wrap", cel.StringType),
		cel.Variable("mrp", cel.DoubleType),
		cel.Variable("cost", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}
	return &Engine{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile checks an expression without evaluating it. Used on rule create
// and update so broken filters never reach the catalog.
func (e *Engine) Compile(expression string) error {
	_, err := e.program(expression)
	return err
}

func (e *Engine) program(expression string) (cel.Program, error) {
	if prg, ok := e.programs[expression]; ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, apperror.NewValidation("invalid rule expression").
			WithDetail("expression", expression).
			WithCause(issues.Err())
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
		return nil, apperror.NewValidation("rule expression must evaluate to a boolean").
			WithDetail("expression", expression).
			WithDetail("got", ast.OutputType().String())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build cel program: %w", err)
	}
	e.programs[expression] = prg
	return prg, nil
}

// Matches evaluates one rule against one item.
func (e *Engine) Matches(rule Rule, it item.Item) (bool, error) {
	prg, err := e.program(rule.Expression)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]any{
		"item_code": it.ItemCode,
		"units":     it.Units,
		"wrap":      string(it.Wrap),
		"mrp":       it.MRP.InexactFloat64(),
		"cost":      it.Cost.InexactFloat64(),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate rule %q: %w", rule.Name, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewValidation("rule expression returned a non-boolean").
			WithDetail("name", rule.Name)
	}
	return matched, nil
}

// Apply evaluates the rules against the items and returns the winning rule
// per item ID. Rules run in priority order and the first match wins. Only
// Talabat items are eligible; everything else is passed over because Pasons
// margins are fixed at zero.
func (e *Engine) Apply(rules []Rule, items []item.Item) (map[id.ID]Rule, error) {
	ordered := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Active {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	matches := make(map[id.ID]Rule)
	for _, it := range items {
		if it.Channel != item.ChannelTalabat {
			continue
		}
		for _, r := range ordered {
			matched, err := e.Matches(r, it)
			if err != nil {
				return nil, err
			}
			if matched {
				matches[it.ID] = r
				break
			}
		}
	}
	return matches, nil
}
