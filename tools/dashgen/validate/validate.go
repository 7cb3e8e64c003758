// Package validate checks that generated dashboards and rules use valid
// PromQL and reference only metrics the daemon exports.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"
	"github.com/tidwall/gjson"

	"github.com/donaldgifford/stock-tracker/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation, warnings do
// not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

var histogramSuffixes = []string{"_bucket", "_count", "_sum"}

func known(name string, metrics map[string]bool) bool {
	if metrics[name] {
		return true
	}
	for _, s := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, s); ok && metrics[base] {
			return true
		}
	}
	return false
}

// Expr parses expr and returns the metric names it selects.
func Expr(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Result) checkExpr(where, expr string, metrics map[string]bool) {
	names, err := Expr(expr)
	if err != nil {
		r.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	for _, name := range names {
		if !known(name, metrics) {
			r.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// Dashboard validates every target expression of a built dashboard. Panels
// may sit at the top level or inside rows.
func Dashboard(dash any, metrics map[string]bool) *Result {
	r := &Result{}

	data, err := json.Marshal(dash)
	if err != nil {
		r.errorf("encoding dashboard: %v", err)
		return r
	}

	var check func(panel gjson.Result)
	check = func(panel gjson.Result) {
		title := panel.Get("title").String()
		if nested := panel.Get("panels"); nested.IsArray() {
			for _, p := range nested.Array() {
				check(p)
			}
			return
		}

		targets := panel.Get("targets").Array()
		if len(targets) == 0 {
			r.warnf("panel %q has no targets", title)
			return
		}
		for _, t := range targets {
			expr := t.Get("expr").String()
			if expr == "" {
				r.errorf("panel %q: target %s has no expression", title, t.Get("refId").String())
				continue
			}
			r.checkExpr(fmt.Sprintf("panel %q", title), expr, metrics)
		}
	}

	for _, p := range gjson.GetBytes(data, "panels").Array() {
		check(p)
	}
	return r
}

// Rules validates every expression of a PrometheusRule CR. Rule names must
// be unique within the CR.
func Rules(cr rules.PrometheusRule, metrics map[string]bool) *Result {
	r := &Result{}
	names := make(map[string]bool)

	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Name()
			if name == "" {
				r.errorf("group %s: rule without record or alert name", g.Name)
				continue
			}
			if names[name] {
				r.errorf("group %s: duplicate rule %s", g.Name, name)
			}
			names[name] = true

			r.checkExpr(fmt.Sprintf("rule %s", name), rule.Expr, metrics)
			if rule.Alert != "" && rule.Annotations["summary"] == "" {
				r.warnf("alert %s has no summary", rule.Alert)
			}
		}
	}
	return r
}
