package navigation

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

// Rule is a boolean expression evaluated against each candidate item
// of a tree build, see https://expr-lang.org/docs/language-definition
type Rule struct {
	script  string
	program *vm.Program

	compileOnce sync.Once
	compileErr  error
}

func (r *Rule) Match(item *MenuItem, currentURL string) (bool, error) {
	program, err := r.getProgram()
	if err != nil {
		return false, errors.WithStack(err)
	}

	result, err := expr.Run(program, ruleEnv(item, currentURL))
	if err != nil {
		return false, errors.WithStack(err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, errors.Wrapf(ErrInvalidRule, "unexpected rule '%s' result type '%T', expected boolean", r.script, result)
	}

	return matched, nil
}

func (r *Rule) Compile() error {
	_, err := r.getProgram()
	return errors.WithStack(err)
}

func (r *Rule) getProgram() (*vm.Program, error) {
	r.compileOnce.Do(func() {
		program, err := expr.Compile(r.script, expr.AsBool(), expr.Env(ruleEnv(&MenuItem{}, "")))
		if err != nil {
			r.compileErr = errors.Wrapf(ErrInvalidRule, "could not compile '%s': %s", r.script, err)
			return
		}

		r.program = program
	})
	if r.compileErr != nil {
		return nil, errors.WithStack(r.compileErr)
	}

	return r.program, nil
}

func (r *Rule) String() string {
	return r.script
}

func NewRule(script string) *Rule {
	return &Rule{script: script}
}

func ruleEnv(item *MenuItem, currentURL string) map[string]any {
	var parentID int64
	if item.ParentID != nil {
		parentID = *item.ParentID
	}

	return map[string]any{
		"id":              item.ID,
		"label":           item.Label,
		"uri":             item.URI,
		"parentId":        parentID,
		"isRoot":          item.ParentID == nil,
		"order":           item.Order,
		"fragment":        item.Fragment,
		"target":          item.Target,
		"rel":             item.Rel,
		"class":           item.Class,
		"handlerClass":    item.HandlerClass,
		"handlerFunction": item.HandlerFunction,
		"currentUrl":      currentURL,
	}
}
