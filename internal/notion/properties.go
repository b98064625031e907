package notion

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FieldIssue records a property that was missing or malformed and was
// replaced by its default.
type FieldIssue struct {
	Property string
	Problem  string
}

func (i FieldIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Property, i.Problem)
}

// ParseProperties decodes every raw property of a page. Properties that
// fail to decode are omitted from the result and reported as issues.
func ParseProperties(page Page) (map[string]PropertyValue, []FieldIssue) {
	props := make(map[string]PropertyValue, len(page.Properties))
	var issues []FieldIssue

	names := make([]string, 0, len(page.Properties))
	for name := range page.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var value PropertyValue
		if err := json.Unmarshal(page.Properties[name], &value); err != nil {
			issues = append(issues, FieldIssue{Property: name, Problem: fmt.Sprintf("malformed: %v", err)})
			continue
		}
		props[name] = value
	}
	return props, issues
}

// propertyReader reads typed values out of parsed properties. Every
// default substitution goes through lookup, which records why the
// default was used.
type propertyReader struct {
	props  map[string]PropertyValue
	issues []FieldIssue
}

func newPropertyReader(page Page) *propertyReader {
	props, issues := ParseProperties(page)
	return &propertyReader{props: props, issues: issues}
}

func (r *propertyReader) note(name, format string, args ...any) {
	r.issues = append(r.issues, FieldIssue{Property: name, Problem: fmt.Sprintf(format, args...)})
}

func (r *propertyReader) lookup(name, wantType string) (PropertyValue, bool) {
	value, ok := r.props[name]
	if !ok {
		r.note(name, "missing")
		return PropertyValue{}, false
	}
	if value.Type != "" && value.Type != wantType {
		r.note(name, "expected %s, got %s", wantType, value.Type)
		return PropertyValue{}, false
	}
	return value, true
}

// has reports whether a property is present, without recording an issue.
func (r *propertyReader) has(name string) bool {
	_, ok := r.props[name]
	return ok
}

func (r *propertyReader) title(name string) string {
	value, ok := r.lookup(name, TypeTitle)
	if !ok {
		return ""
	}
	return firstPlainText(value.Title)
}

func (r *propertyReader) richText(name string) string {
	value, ok := r.lookup(name, TypeRichText)
	if !ok {
		return ""
	}
	return firstPlainText(value.RichText)
}

func (r *propertyReader) number(name string) float64 {
	value, ok := r.lookup(name, TypeNumber)
	if !ok || value.Number == nil {
		return 0
	}
	return *value.Number
}

func (r *propertyReader) selectName(name string) string {
	value, ok := r.lookup(name, TypeSelect)
	if !ok || value.Select == nil {
		return ""
	}
	return value.Select.Name
}

func (r *propertyReader) dateStart(name string) (string, bool) {
	value, ok := r.lookup(name, TypeDate)
	if !ok || value.Date == nil || value.Date.Start == "" {
		return "", false
	}
	return value.Date.Start, true
}

func (r *propertyReader) people(name string) []string {
	names := []string{}
	value, ok := r.lookup(name, TypePeople)
	if !ok {
		return names
	}
	for _, p := range value.People {
		names = append(names, p.Name)
	}
	return names
}

func (r *propertyReader) firstPerson(name string) string {
	value, ok := r.lookup(name, TypePeople)
	if !ok || len(value.People) == 0 {
		return ""
	}
	return value.People[0].Name
}

func (r *propertyReader) firstRelation(name string) string {
	value, ok := r.lookup(name, TypeRelation)
	if !ok || len(value.Relation) == 0 {
		return ""
	}
	return value.Relation[0].ID
}

func (r *propertyReader) formula(name string) *Formula {
	value, ok := r.lookup(name, TypeFormula)
	if !ok {
		return nil
	}
	return value.Formula
}

func (r *propertyReader) formulaString(name string) string {
	if f := r.formula(name); f != nil && f.String != nil {
		return *f.String
	}
	return ""
}

func (r *propertyReader) formulaNumber(name string) float64 {
	if f := r.formula(name); f != nil && f.Number != nil {
		return *f.Number
	}
	return 0
}

func (r *propertyReader) formulaBool(name string) bool {
	if f := r.formula(name); f != nil && f.Boolean != nil {
		return *f.Boolean
	}
	return false
}

// rollupFirst returns the first element of an array rollup.
func (r *propertyReader) rollupFirst(name string) (PropertyValue, bool) {
	value, ok := r.lookup(name, TypeRollup)
	if !ok || value.Rollup == nil {
		return PropertyValue{}, false
	}
	if len(value.Rollup.Array) == 0 {
		r.note(name, "empty rollup")
		return PropertyValue{}, false
	}
	return value.Rollup.Array[0], true
}

func (r *propertyReader) rollupText(name string) string {
	item, ok := r.rollupFirst(name)
	if !ok {
		return ""
	}
	return item.text()
}

func (r *propertyReader) rollupFormulaString(name string) string {
	item, ok := r.rollupFirst(name)
	if !ok || item.Formula == nil || item.Formula.String == nil {
		return ""
	}
	return *item.Formula.String
}

func (r *propertyReader) rollupSelectName(name string) string {
	item, ok := r.rollupFirst(name)
	if !ok || item.Select == nil {
		return ""
	}
	return item.Select.Name
}

func (r *propertyReader) rollupNumber(name string) float64 {
	item, ok := r.rollupFirst(name)
	if !ok {
		return 0
	}
	if item.Number != nil {
		return *item.Number
	}
	if item.Formula != nil && item.Formula.Number != nil {
		return *item.Formula.Number
	}
	return 0
}

func (r *propertyReader) rollupDateStart(name string) (string, bool) {
	item, ok := r.rollupFirst(name)
	if !ok || item.Date == nil || item.Date.Start == "" {
		return "", false
	}
	return item.Date.Start, true
}

// text returns the first text fragment of a title or rich_text value.
func (v PropertyValue) text() string {
	if len(v.RichText) > 0 {
		return firstPlainText(v.RichText)
	}
	return firstPlainText(v.Title)
}

func firstPlainText(parts []RichText) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[0].PlainText
}

func joinPlainText(parts []RichText) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.PlainText)
	}
	return b.String()
}
