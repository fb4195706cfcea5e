// Package rules evaluates declarative accept/reject policy for inbound
// attribute set requests, so simple devices can answer the hub without
// hand-written decision code.
package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"gopkg.in/yaml.v3"
)

// Input is the environment a rule filter is evaluated against. Type, Flags
// and Writable are populated from the profile when one is available, zero
// otherwise.
type Input struct {
	AttrID   int
	Length   int
	Value    []byte
	Type     int
	Flags    int
	Writable bool
}

type Rule struct {
	Description string `yaml:"description"`
	Filter      string `yaml:"filter"`
	Accept      bool   `yaml:"accept"`
}

type compiledRule struct {
	description string
	filter      *vm.Program
	accept      bool
}

type document struct {
	Default bool   `yaml:"default"`
	Rules   []Rule `yaml:"rules"`
}

// Engine holds a compiled rule list. Rules are tried in order; the first
// whose filter matches decides, otherwise DefaultAccept does.
type Engine struct {
	DefaultAccept bool

	rules []compiledRule
}

func (e *Engine) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("rules: open: %w", err)
	}
	defer f.Close()

	return e.LoadReader(f)
}

func (e *Engine) LoadString(s string) error {
	return e.LoadReader(strings.NewReader(s))
}

func (e *Engine) LoadReader(r io.Reader) error {
	var doc document

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("rules: decode: %w", err)
	}

	compiled, err := compileRules(doc.Rules)
	if err != nil {
		return err
	}

	e.DefaultAccept = doc.Default
	e.rules = compiled

	return nil
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	var compiled []compiledRule

	for _, rule := range rules {
		cf, err := expr.Compile(rule.Filter, expr.Env(Input{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("rules: %s: filter compilation: %w", rule.Description, err)
		}

		compiled = append(compiled, compiledRule{
			description: rule.Description,
			filter:      cf,
			accept:      rule.Accept,
		})
	}

	return compiled, nil
}

// Execute evaluates the rule list against one set request.
func (e *Engine) Execute(in Input) (bool, error) {
	for _, rule := range e.rules {
		out, err := expr.Run(rule.filter, in)
		if err != nil {
			return false, fmt.Errorf("rules: %s: %w", rule.description, err)
		}

		if out.(bool) {
			return rule.accept, nil
		}
	}

	return e.DefaultAccept, nil
}
