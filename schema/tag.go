package schema

import (
	"strings"
	"sync"
)

// ParsedTag is the mapping-relevant subset of a `db:"..."` struct tag.
// Validation-only options (min_length, enum, foreign_key, ...) that the
// teacher's tag grammar supports are not part of this package: the
// accessor emitter never reads them, so parsing them here would be dead
// weight.
type ParsedTag struct {
	ColumnName string
	Skip       bool
	Null       bool
	NotNull    bool
}

// IsSkipped reports whether this field should be excluded from mapping
// entirely (db:"-").
func (t *ParsedTag) IsSkipped() bool { return t.Skip }

// TagParser parses and caches `db` struct tags.
type TagParser struct {
	naming  NamingStrategy
	cacheMu sync.RWMutex
	cache   map[string]*ParsedTag
}

// NewTagParser creates a tag parser using naming for default column
// name derivation when a field has no explicit tag or column override.
func NewTagParser(naming NamingStrategy) *TagParser {
	return &TagParser{
		naming: naming,
		cache:  make(map[string]*ParsedTag, 64),
	}
}

// ParseTag parses the `db` tag value for fieldName, with caching.
//
// Supported grammar:
//
//	`db:"column_name"`             explicit column name
//	`db:"column:custom_name"`      explicit column name (key:value form)
//	`db:"null"` / `db:"not_null"`  force nullability classification
//	`db:"-"`                       skip this field entirely
func (p *TagParser) ParseTag(fieldName, tagValue string) *ParsedTag {
	if tagValue == "" {
		return &ParsedTag{ColumnName: p.naming.ColumnName(fieldName)}
	}

	cacheKey := fieldName + ":" + tagValue
	p.cacheMu.RLock()
	if cached, ok := p.cache[cacheKey]; ok {
		p.cacheMu.RUnlock()
		return cached
	}
	p.cacheMu.RUnlock()

	parsed := p.parse(fieldName, tagValue)

	p.cacheMu.Lock()
	p.cache[cacheKey] = parsed
	p.cacheMu.Unlock()

	return parsed
}

func (p *TagParser) parse(fieldName, tagValue string) *ParsedTag {
	if tagValue == "-" {
		return &ParsedTag{Skip: true}
	}

	parsed := &ParsedTag{ColumnName: p.naming.ColumnName(fieldName)}

	if !strings.ContainsAny(tagValue, ";:") {
		switch tagValue {
		case "null":
			parsed.Null = true
		case "not_null", "not null":
			parsed.NotNull = true
		default:
			parsed.ColumnName = tagValue
		}
		return parsed
	}

	for _, option := range strings.Split(tagValue, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if idx := strings.IndexByte(option, ':'); idx != -1 {
			key := strings.TrimSpace(option[:idx])
			value := strings.TrimSpace(option[idx+1:])
			if key == "column" || key == "name" {
				parsed.ColumnName = value
			}
			continue
		}
		switch option {
		case "null":
			parsed.Null = true
		case "not_null", "not null":
			parsed.NotNull = true
		}
	}

	return parsed
}

// ClearCache drops all cached parsed tags. Useful for tests.
func (p *TagParser) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	clear(p.cache)
}
