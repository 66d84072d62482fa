package editor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"staybook/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrWrongKind    = errors.New("value does not match field kind")
	ErrNotAList     = errors.New("section has no list")
	ErrUnknownItem  = errors.New("unknown list item")
)

// Patch is the partial update sent to the property API: either
// {sectionKey: cleanedSection} or the cleaned general fields at top level.
type Patch map[string]any

// SaveFunc persists a cleaned patch. The form never talks to the API itself.
type SaveFunc func(ctx context.Context, patch Patch) error

// DirtyFunc is told whenever the form's dirty state flips.
type DirtyFunc func(dirty bool)

// FieldErrors maps a field path to the rule it failed.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// Item is one entry of a list-typed section. Values are raw form text.
type Item struct {
	ID     string
	Values map[string]string
}

func (it Item) clone() Item {
	v := make(map[string]string, len(it.Values))
	for k, x := range it.Values {
		v[k] = x
	}
	return Item{ID: it.ID, Values: v}
}

type fieldState struct {
	enabled bool
	values  map[string]any // string for Text and Number, bool, []string
}

func (s fieldState) clone() fieldState {
	v := make(map[string]any, len(s.values))
	for k, x := range s.values {
		if l, ok := x.([]string); ok {
			x = slices.Clone(l)
		}
		v[k] = x
	}
	return fieldState{enabled: s.enabled, values: v}
}

func (s fieldState) equal(o fieldState) bool {
	if s.enabled != o.enabled || len(s.values) != len(o.values) {
		return false
	}
	for k, a := range s.values {
		b, ok := o.values[k]
		if !ok {
			return false
		}
		la, aList := a.([]string)
		lb, bList := b.([]string)
		if aList || bList {
			if !slices.Equal(la, lb) {
				return false
			}
			continue
		}
		sa, aText := a.(string)
		sb, bText := b.(string)
		if aText && bText {
			if !sameText(sa, sb) {
				return false
			}
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}

// normText folds browser line endings; textareas always post CRLF.
func normText(s string) string { return strings.ReplaceAll(s, "\r\n", "\n") }

// sameText compares text the way Clean will send it, so reposting a
// loaded value unchanged is not an edit.
func sameText(a, b string) bool {
	return strings.TrimSpace(normText(a)) == strings.TrimSpace(normText(b))
}

// Form edits one category of a property. List-typed sections keep their
// entries apart from the scalar fields; any list mutation marks the form
// dirty until the next successful submit.
type Form struct {
	schema      *Schema
	cur         fieldState
	base        fieldState
	items       []Item
	listChanged bool
	lastDirty   bool

	save    SaveFunc
	onDirty DirtyFunc
	newID   func() string
}

// NewForm seeds a form from p's section, or from the schema defaults when
// the section was never saved.
func NewForm(schema *Schema, p *domain.Property, save SaveFunc, onDirty DirtyFunc) *Form {
	f := &Form{schema: schema, save: save, onDirty: onDirty, newID: uuid.NewString}
	doc := propertyDoc(p)

	var sec map[string]any
	present := true
	if schema.Key == "" {
		sec = doc
	} else {
		sec, present = doc[schema.Key].(map[string]any)
	}

	f.cur.values = make(map[string]any, len(schema.Fields))
	if schema.Key == "" {
		f.cur.enabled = true
	} else {
		f.cur.enabled, _ = sec["enabled"].(bool)
	}
	for _, fd := range schema.Fields {
		f.cur.values[fd.Name] = seed(fd, sec, present)
	}
	if schema.List != nil {
		raw, _ := sec[schema.List.Key].([]any)
		for _, r := range raw {
			m, ok := r.(map[string]any)
			if !ok {
				continue
			}
			id, _ := m["id"].(string)
			if id == "" {
				id = f.newID()
			}
			it := Item{ID: id, Values: make(map[string]string, len(schema.List.Fields))}
			for _, fd := range schema.List.Fields {
				it.Values[fd.Name] = asText(seed(fd, m, true))
			}
			f.items = append(f.items, it)
		}
	}
	f.base = f.cur.clone()
	return f
}

func seed(fd Field, sec map[string]any, present bool) any {
	raw := sec[fd.Name]
	switch fd.Kind {
	case Bool:
		if !present {
			def, _ := fd.Default.(bool)
			return def
		}
		b, _ := raw.(bool)
		return b
	case Number:
		switch n := raw.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64)
		case string:
			return n
		}
		return ""
	case StringList:
		var out []string
		if l, ok := raw.([]any); ok {
			for _, x := range l {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
		}
		return out
	default:
		if !present {
			def, _ := fd.Default.(string)
			return def
		}
		s, _ := raw.(string)
		if strings.TrimSpace(s) == "" && fd.Fallback != "" {
			return fd.Fallback
		}
		return s
	}
}

func asText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

func (f *Form) Schema() *Schema { return f.schema }

func (f *Form) Enabled() bool { return f.cur.enabled }

// SetEnabled toggles the section gate. General is always on.
func (f *Form) SetEnabled(on bool) {
	if f.schema.Key == "" {
		return
	}
	f.cur.enabled = on
	f.changed()
}

// Value returns the current raw value: string for text and number fields,
// bool, or []string.
func (f *Form) Value(name string) any {
	v := f.cur.values[name]
	if l, ok := v.([]string); ok {
		return slices.Clone(l)
	}
	return v
}

func (f *Form) Set(name string, value any) error {
	fd, ok := f.schema.field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	switch fd.Kind {
	case Text:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s wants text", ErrWrongKind, name)
		}
		f.cur.values[name] = s
	case Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants a boolean", ErrWrongKind, name)
		}
		f.cur.values[name] = b
	case Number:
		switch n := value.(type) {
		case string:
			f.cur.values[name] = n
		case int:
			f.cur.values[name] = strconv.Itoa(n)
		case float64:
			f.cur.values[name] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			return fmt.Errorf("%w: %s wants a number", ErrWrongKind, name)
		}
	case StringList:
		l, ok := value.([]string)
		if !ok {
			return fmt.Errorf("%w: %s wants a list of strings", ErrWrongKind, name)
		}
		f.cur.values[name] = slices.Clone(l)
	}
	f.changed()
	return nil
}

// SetText sets a field from raw form input: "on"/"true"/"1" for booleans
// and one entry per line for string lists.
func (f *Form) SetText(name, raw string) error {
	fd, ok := f.schema.field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	switch fd.Kind {
	case Bool:
		return f.Set(name, parseFlag(raw))
	case StringList:
		var out []string
		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return f.Set(name, out)
	}
	return f.Set(name, normText(raw))
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (f *Form) AppendTo(name, v string) error {
	fd, ok := f.schema.field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if fd.Kind != StringList {
		return fmt.Errorf("%w: %s is not a list", ErrWrongKind, name)
	}
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	l, _ := f.cur.values[name].([]string)
	f.cur.values[name] = append(slices.Clone(l), v)
	f.changed()
	return nil
}

func (f *Form) RemoveAt(name string, i int) error {
	fd, ok := f.schema.field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if fd.Kind != StringList {
		return fmt.Errorf("%w: %s is not a list", ErrWrongKind, name)
	}
	l, _ := f.cur.values[name].([]string)
	if i < 0 || i >= len(l) {
		return fmt.Errorf("index %d out of range", i)
	}
	f.cur.values[name] = slices.Delete(slices.Clone(l), i, i+1)
	f.changed()
	return nil
}

// Items returns a copy of the list entries in order.
func (f *Form) Items() []Item {
	out := make([]Item, len(f.items))
	for i, it := range f.items {
		out[i] = it.clone()
	}
	return out
}

// AddItem appends a blank entry seeded with item defaults and returns its id.
func (f *Form) AddItem() (string, error) {
	l := f.schema.List
	if l == nil {
		return "", ErrNotAList
	}
	it := Item{ID: f.newID(), Values: make(map[string]string, len(l.Fields))}
	for _, fd := range l.Fields {
		it.Values[fd.Name] = asText(seed(fd, nil, false))
	}
	f.items = append(f.items, it)
	f.listChange()
	return it.ID, nil
}

func (f *Form) UpdateItem(id, name, value string) error {
	l := f.schema.List
	if l == nil {
		return ErrNotAList
	}
	if _, ok := l.field(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	i := f.itemIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if sameText(f.items[i].Values[name], value) {
		return nil
	}
	f.items[i].Values[name] = normText(value)
	f.listChange()
	return nil
}

func (f *Form) RemoveItem(id string) error {
	if f.schema.List == nil {
		return ErrNotAList
	}
	i := f.itemIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	f.items = slices.Delete(f.items, i, i+1)
	f.listChange()
	return nil
}

func (f *Form) itemIndex(id string) int {
	return slices.IndexFunc(f.items, func(it Item) bool { return it.ID == id })
}

func (f *Form) listChange() {
	f.listChanged = true
	f.changed()
}

// Dirty reports unsaved edits relative to the last load or submit.
func (f *Form) Dirty() bool {
	return f.listChanged || !f.cur.equal(f.base)
}

func (f *Form) changed() {
	d := f.Dirty()
	if d == f.lastDirty {
		return
	}
	f.lastDirty = d
	if f.onDirty != nil {
		f.onDirty(d)
	}
}

// Validate reports number fields that do not parse or fall out of range,
// and required fields left blank. Dropped list entries are not checked.
func (f *Form) Validate() FieldErrors {
	errs := FieldErrors{}
	for _, fd := range f.schema.Fields {
		checkField(errs, fd.Name, fd, f.cur.values[fd.Name])
	}
	if l := f.schema.List; l != nil {
		for _, it := range f.items {
			if !identified(l, it) {
				continue
			}
			for _, fd := range l.Fields {
				checkField(errs, l.Key+"."+it.ID+"."+fd.Name, fd, it.Values[fd.Name])
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkField(errs FieldErrors, path string, fd Field, v any) {
	s, _ := v.(string)
	switch fd.Kind {
	case Text:
		if fd.Required && strings.TrimSpace(s) == "" {
			errs[path] = "required"
		}
	case Number:
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		n, err := strconv.ParseFloat(s, 64)
		switch {
		case err != nil:
			errs[path] = "number"
		case math.IsNaN(n) || n == 0:
		case fd.Integer && n != math.Trunc(n):
			errs[path] = "integer"
		case fd.Max > fd.Min && (n < fd.Min || n > fd.Max):
			errs[path] = fmt.Sprintf("between %g and %g", fd.Min, fd.Max)
		}
	}
}

func identified(l *ListSpec, it Item) bool {
	for _, k := range l.Identity {
		if strings.TrimSpace(it.Values[k]) == "" {
			return false
		}
	}
	return true
}

// Clean converts the form state into the patch to submit. Blank optional
// text becomes absent (or its fallback), unusable numbers and empty string
// lists become absent, booleans and enabled pass through, and list entries
// missing an identifying field are dropped.
func (f *Form) Clean() Patch {
	out := map[string]any{}
	if f.schema.Key != "" {
		out["enabled"] = f.cur.enabled
	}
	for _, fd := range f.schema.Fields {
		if v, ok := cleanValue(fd, f.cur.values[fd.Name]); ok {
			out[fd.Name] = v
		}
	}
	if l := f.schema.List; l != nil {
		entries := make([]map[string]any, 0, len(f.items))
		for _, it := range f.items {
			if !identified(l, it) {
				continue
			}
			e := map[string]any{"id": it.ID}
			for _, fd := range l.Fields {
				if v, ok := cleanValue(fd, it.Values[fd.Name]); ok {
					e[fd.Name] = v
				}
			}
			entries = append(entries, e)
		}
		out[l.Key] = entries
	}
	if f.schema.Key == "" {
		return Patch(out)
	}
	return Patch{f.schema.Key: out}
}

func cleanValue(fd Field, v any) (any, bool) {
	switch fd.Kind {
	case Bool:
		b, _ := v.(bool)
		return b, true
	case Number:
		s, _ := v.(string)
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
			return nil, false
		}
		if n == math.Trunc(n) {
			return int64(n), true
		}
		return n, true
	case StringList:
		l, _ := v.([]string)
		var out []string
		for _, x := range l {
			if x = strings.TrimSpace(x); x != "" {
				out = append(out, x)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	default:
		s, _ := v.(string)
		if s = strings.TrimSpace(normText(s)); s != "" {
			return s, true
		}
		if fd.Fallback != "" {
			return fd.Fallback, true
		}
		return nil, false
	}
}

// Submit validates, cleans and hands the patch to the SaveFunc. A save
// error is returned unchanged and the form stays dirty; on success the
// submitted state becomes the new baseline.
func (f *Form) Submit(ctx context.Context) error {
	if errs := f.Validate(); errs != nil {
		return errs
	}
	patch := f.Clean()
	if f.save != nil {
		if err := f.save(ctx, patch); err != nil {
			return err
		}
	}
	f.base = f.cur.clone()
	f.listChanged = false
	f.changed()
	return nil
}
