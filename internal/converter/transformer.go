// =============================================================================
// e-SUS Parser - Transformation Engine
// =============================================================================
//
// This module applies per-column value transformations to the normalized
// table. Rules come from the configuration; the default rule set maps the
// SEXO column from MASCULINO/FEMININO to M/F.
//
// TRANSFORMATION TYPES:
//   - Lookup table replacements (with or without a default)
//   - Empty-value defaults
//   - String manipulations (trim, case conversion, prepend, append)
//   - Literal and regular expression replacements
//
// Rules are compiled once (regular expressions included) and then applied
// to every row of the target column. A rule for a column the table does not
// have is a no-op.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/esus-parser/internal/config"
	"github.com/ginjaninja78/esus-parser/internal/types"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles field value transformations.
type Transformer struct {
	rules []compiledRule
}

type compiledRule struct {
	field   string
	actions []compiledAction
}

type compiledAction struct {
	config.TransformationAction
	re *regexp.Regexp
}

// NewTransformer compiles the given rules.
//
// RETURNS:
//   - A new Transformer.
//   - An error if a rule has an unknown type or an invalid pattern.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{rules: make([]compiledRule, 0, len(rules))}

	for _, rule := range rules {
		compiled := compiledRule{field: rule.Field}
		for _, action := range rule.Actions {
			ca, err := compileAction(action)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", rule.Field, err)
			}
			compiled.actions = append(compiled.actions, ca)
		}
		t.rules = append(t.rules, compiled)
	}

	return t, nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// Transform applies the rules for fieldName to value.
// If no rule names the field, value is returned unchanged.
func (t *Transformer) Transform(fieldName, value string) string {
	for _, rule := range t.rules {
		if rule.field != fieldName {
			continue
		}
		for _, action := range rule.actions {
			value = applyAction(value, action)
		}
	}
	return value
}

// TransformTable applies every rule to the matching columns of table, in
// place, and returns the number of cells whose value changed.
func (t *Transformer) TransformTable(table *types.Table) int {
	changed := 0

	for col, name := range table.Columns {
		if !t.handles(name) {
			continue
		}
		for _, row := range table.Rows {
			if value := t.Transform(name, row[col]); value != row[col] {
				row[col] = value
				changed++
			}
		}
	}

	return changed
}

// handles reports whether any rule names fieldName.
func (t *Transformer) handles(fieldName string) bool {
	for _, rule := range t.rules {
		if rule.field == fieldName {
			return true
		}
	}
	return false
}

// compileAction checks the action type and compiles its pattern, if any.
func compileAction(action config.TransformationAction) (compiledAction, error) {
	if !config.SupportedActions[action.Type] {
		return compiledAction{}, fmt.Errorf("unknown transformation type: %s", action.Type)
	}

	ca := compiledAction{TransformationAction: action}
	if action.Type == "regex_replace" && action.Find != "" {
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return compiledAction{}, fmt.Errorf("invalid regex pattern: %w", err)
		}
		ca.re = re
	}

	return ca, nil
}

// applyAction applies one compiled action. Types are validated at compile
// time, so unknown types fall through unchanged.
func applyAction(value string, action compiledAction) string {
	switch action.Type {

	// =========================================================================
	// LOOKUP TABLE REPLACEMENTS
	// =========================================================================

	case "lookup":
		// Replace value using a lookup table.
		//
		// EXAMPLE:
		//   Input: "MASCULINO"
		//   Action: lookup with lookup_table {"MASCULINO": "M", "FEMININO": "F"}
		//   Output: "M"
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement
		}
		return value

	case "lookup_with_default":
		// The default value is specified in action.Value.
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement
		}
		return action.Value

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value
		}
		return value

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "trim":
		return strings.TrimSpace(value)

	case "uppercase":
		return strings.ToUpper(value)

	case "lowercase":
		return strings.ToLower(value)

	case "prepend_string":
		return action.Value + value

	case "append_string":
		return value + action.Value

	case "replace":
		if action.Find == "" {
			return value
		}
		return strings.ReplaceAll(value, action.Find, action.Value)

	case "regex_replace":
		if action.re == nil {
			return value
		}
		return action.re.ReplaceAllString(value, action.Value)

	default:
		return value
	}
}
