package urdf

import (
	stdmath "math"
	"regexp"
	"strconv"
	"strings"
)

var macroPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// piText is the literal substituted for PI before evaluation.
var piText = formatNumber(stdmath.Pi)

// ExpandMacros replaces every ${expr} in s with its value formatted to ten
// decimals. Supported forms are a single number, or two numbers joined by
// one of / * + - (tried in that order). PI may appear as an operand.
// Anything else, including division by zero, is left unexpanded.
func ExpandMacros(s string) string {
	out, _ := expandMacros(s)
	return out
}

// expandMacros is ExpandMacros that also reports unexpanded expressions.
func expandMacros(s string) (string, []string) {
	var unresolved []string
	out := macroPattern.ReplaceAllStringFunc(s, func(match string) string {
		expr := macroPattern.FindStringSubmatch(match)[1]
		v, ok := evalExpr(expr)
		if !ok {
			unresolved = append(unresolved, match)
			return match
		}
		return formatNumber(v)
	})
	return out, unresolved
}

func evalExpr(expr string) (float64, bool) {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), "PI", piText)

	var v float64
	switch {
	case strings.Contains(expr, "/"):
		a, b, ok := splitOperands(expr, "/")
		if !ok || b == 0 {
			return 0, false
		}
		v = a / b
	case strings.Contains(expr, "*"):
		a, b, ok := splitOperands(expr, "*")
		if !ok {
			return 0, false
		}
		v = a * b
	case strings.Contains(expr, "+"):
		a, b, ok := splitOperands(expr, "+")
		if !ok {
			return 0, false
		}
		v = a + b
	case strings.LastIndex(expr, "-") > 0:
		// A leading '-' is a sign, so only a later one is subtraction.
		idx := strings.LastIndex(expr, "-")
		a, okA := parseOperand(expr[:idx])
		b, okB := parseOperand(expr[idx+1:])
		if !okA || !okB {
			return 0, false
		}
		v = a - b
	default:
		var ok bool
		if v, ok = parseOperand(expr); !ok {
			return 0, false
		}
	}

	if stdmath.IsNaN(v) || stdmath.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// splitOperands requires exactly one occurrence of op.
func splitOperands(expr, op string) (float64, float64, bool) {
	parts := strings.Split(expr, op)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, okA := parseOperand(parts[0])
	b, okB := parseOperand(parts[1])
	return a, b, okA && okB
}

func parseOperand(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 10, 64)
}
