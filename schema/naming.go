package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy converts Go identifiers to database identifiers.
type NamingStrategy interface {
	ColumnName(fieldName string) string
	TableName(structName string) string
}

// ColumnNamingType selects a column naming convention.
type ColumnNamingType int

const (
	ColumnSnakeCase ColumnNamingType = iota
	ColumnCamelCase
	ColumnPascalCase
)

// TableNamingType selects a table naming convention.
type TableNamingType int

const (
	TableSnakeCasePlural TableNamingType = iota
	TableSnakeCaseSingular
	TableCamelCasePlural
	TablePascalCasePlural
)

type defaultNamingStrategy struct {
	column ColumnNamingType
	table  TableNamingType
}

// NewNamingStrategy builds a NamingStrategy from a column and table
// convention pair.
func NewNamingStrategy(column ColumnNamingType, table TableNamingType) NamingStrategy {
	return defaultNamingStrategy{column: column, table: table}
}

// DefaultNamingStrategy returns snake_case columns with plural
// snake_case tables, the most common convention and this package's
// default when no strategy is configured.
func DefaultNamingStrategy() NamingStrategy {
	return NewNamingStrategy(ColumnSnakeCase, TableSnakeCasePlural)
}

func (n defaultNamingStrategy) ColumnName(fieldName string) string {
	switch n.column {
	case ColumnCamelCase:
		return toCamelCase(fieldName)
	case ColumnPascalCase:
		return toPascalCase(fieldName)
	default:
		return toSnakeCase(fieldName)
	}
}

func (n defaultNamingStrategy) TableName(structName string) string {
	switch n.table {
	case TableSnakeCaseSingular:
		return toSnakeCase(structName)
	case TableCamelCasePlural:
		return pluralize(toCamelCase(structName))
	case TablePascalCasePlural:
		return pluralize(toPascalCase(structName))
	default:
		return pluralize(toSnakeCase(structName))
	}
}

// toSnakeCase converts any naming convention to snake_case. Handles
// common acronyms explicitly since generic algorithmic splitting gets
// them wrong (ID -> i_d instead of id).
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	case "HTTP":
		return "http"
	case "API":
		return "api"
	case "JSON":
		return "json"
	case "SQL":
		return "sql"
	}

	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return strings.ToLower(name)
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		lower := unicode.ToLower(r)
		needsUnderscore := false

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				needsUnderscore = true
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				needsUnderscore = true
			}
		}

		if needsUnderscore {
			result.WriteByte('_')
		}
		result.WriteRune(lower)
	}

	return result.String()
}

func toCamelCase(name string) string {
	snake := toSnakeCase(name)
	if !strings.Contains(snake, "_") {
		if len(snake) <= 1 {
			return strings.ToLower(snake)
		}
		return strings.ToLower(snake[:1]) + snake[1:]
	}

	parts := strings.Split(snake, "_")
	var result strings.Builder
	result.WriteString(strings.ToLower(parts[0]))
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

func toPascalCase(name string) string {
	camel := toCamelCase(name)
	if camel == "" {
		return camel
	}
	return strings.ToUpper(camel[:1]) + camel[1:]
}

// pluralize converts a singular noun to its plural form.
func pluralize(name string) string {
	if name == "" {
		return ""
	}

	switch strings.ToLower(name) {
	case "person":
		return "people"
	case "child":
		return "children"
	case "datum":
		return "data"
	}

	plural := pluralizeClient.Pluralize(name, 2, false)
	return preserveCase(name, plural)
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		if len(result) == 1 {
			return strings.ToUpper(result)
		}
		return strings.ToUpper(result[:1]) + strings.ToLower(result[1:])
	}
	return strings.ToLower(result)
}
