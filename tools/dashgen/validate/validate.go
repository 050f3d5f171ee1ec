// Package validate checks generated dashboards and rules for PromQL that
// does not parse or that references metrics the server does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/listing-notifier/tools/dashgen/rules"
)

// Result collects problems found while validating an artifact.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found. Warnings do not fail validation.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates every Prometheus target expression in a dashboard
// encoded as Grafana JSON, including panels nested in rows.
func Dashboard(data []byte, known map[string]bool) *Result {
	res := &Result{}

	var dash struct {
		Panels []panel `json:"panels"`
	}
	if err := json.Unmarshal(data, &dash); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	for _, p := range dash.Panels {
		p.check(res, known)
	}
	return res
}

type panel struct {
	Title   string  `json:"title"`
	Panels  []panel `json:"panels"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
}

func (p *panel) check(res *Result, known map[string]bool) {
	for _, child := range p.Panels {
		child.check(res, known)
	}
	if p.Panels == nil && len(p.Targets) == 0 && p.Title != "" {
		res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no targets", p.Title))
	}
	for _, t := range p.Targets {
		Expr(res, "panel "+p.Title, t.Expr, known)
	}
}

// Rules validates every expression in a PrometheusRule. Recording rules
// defined earlier in the same file count as known metrics.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	res := &Result{}
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Alert
			if r.Record != "" {
				name = r.Record
			}
			Expr(res, "rule "+name, r.Expr, known)
		}
	}
	return res
}

// Expr parses a single expression and records any error or unknown metric
// name against where.
func Expr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.Errors = append(res.Errors, where+": empty expression")
		return
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", where, err))
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[metricName(vs.Name)] {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})
}

// metricName strips histogram series suffixes so ln_x_seconds_bucket
// resolves to ln_x_seconds.
func metricName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok {
			return base
		}
	}
	return name
}
