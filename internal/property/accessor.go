package property

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"torque-generator/internal/match"
)

// TagName is the struct tag naming a field explicitly. Options may follow
// the name after a comma, e.g. `torque:"all-tables,collector"`.
const TagName = "torque"

// CollectorOption marks a slice field whose items are held by a container
// element of their own instead of being direct children.
const CollectorOption = "collector"

// ParseTag splits the torque tag of f into the name and its options.
func ParseTag(f reflect.StructField) (string, []string) {
	tag, ok := f.Tag.Lookup(TagName)
	if !ok {
		return "", nil
	}

	name, rest, _ := strings.Cut(tag, ",")
	if rest == "" {
		return name, nil
	}

	return name, strings.Split(rest, ",")
}

// DefaultSuffixes returns the field and accessor suffixes tried in order.
func DefaultSuffixes() []string {
	return []string{"", "s", "Array", "List"}
}

// DefaultPrefixes returns the field prefixes tried after the suffixes.
// Exported Go names cannot start with an underscore, so the "_" prefix only
// matches torque tags such as `torque:"_size"`.
func DefaultPrefixes() []string {
	return []string{"_", "Is"}
}

// Config controls name resolution and value conversion.
type Config struct {
	Suffixes   []string
	Prefixes   []string
	Converters *ConverterRegistry
}

// DefaultConfig returns the default suffixes, prefixes and converters.
func DefaultConfig() Config {
	return Config{
		Suffixes:   DefaultSuffixes(),
		Prefixes:   DefaultPrefixes(),
		Converters: DefaultConverters(),
	}
}

// Accessor is a property of one target value bound to a field or to accessor methods.
type Accessor struct {
	name    string
	target  reflect.Type
	binding binding
	config  Config
}

// Access resolves name on target with DefaultConfig.
func Access(target any, name string) (*Accessor, error) {
	return DefaultConfig().Access(target, name)
}

// Access resolves name on target. target must be a struct or a pointer to
// one; only pointers allow setting fields.
func (c Config) Access(target any, name string) (*Accessor, error) {
	v := reflect.ValueOf(target)
	if !v.IsValid() {
		return nil, &Error{Kind: ErrNoSuchProperty, Property: name, Target: "<nil>", Reason: "target is nil"}
	}

	recv := v
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, &Error{Kind: ErrNoSuchProperty, Property: name, Target: v.Type().String(), Reason: "target is nil"}
		}

		recv = v
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, &Error{Kind: ErrNoSuchProperty, Property: name, Target: v.Type().String(), Reason: "target is not a struct"}
	}

	goName := match.ToExportedName(name)

	var tried []string

	for _, suffix := range c.Suffixes {
		tried = append(tried, "field "+goName+suffix)

		if f, ok := lookupField(v, name+suffix, goName+suffix); ok {
			return c.bind(name, v.Type(), f), nil
		}
	}

	for _, prefix := range c.Prefixes {
		if prefix == "_" {
			tried = append(tried, "tag "+prefix+name)
		} else {
			tried = append(tried, "field "+prefix+goName)
		}

		if f, ok := lookupField(v, prefix+name, prefix+goName); ok {
			return c.bind(name, v.Type(), f), nil
		}
	}

	for _, suffix := range c.Suffixes {
		candidate := goName + suffix
		tried = append(tried, "methods "+candidate+"/Get"+candidate+"/Set"+candidate)

		if m, ok := lookupMethods(recv, candidate); ok {
			return c.bind(name, v.Type(), m), nil
		}
	}

	return nil, &Error{
		Kind:        ErrNoSuchProperty,
		Property:    name,
		Target:      v.Type().String(),
		Tried:       tried,
		Suggestions: match.Suggest(name, Names(v.Type())),
	}
}

func (c Config) bind(name string, target reflect.Type, b binding) *Accessor {
	return &Accessor{name: name, target: target, binding: b, config: c}
}

// Name returns the property name the accessor was created for.
func (a *Accessor) Name() string {
	return a.name
}

// Type returns the type of the bound field, getter result or setter argument.
func (a *Accessor) Type() reflect.Type {
	return a.binding.valueType()
}

// Binding describes what the property was bound to, e.g. "field Columns".
func (a *Accessor) Binding() string {
	return a.binding.describe()
}

// Field returns the struct field the property is bound to. ok is false for
// method bindings.
func (a *Accessor) Field() (reflect.StructField, bool) {
	if f, ok := a.binding.(*fieldBinding); ok {
		return f.field, true
	}

	return reflect.StructField{}, false
}

// HasOption reports whether the bound field carries the torque tag option opt.
func (a *Accessor) HasOption(opt string) bool {
	f, ok := a.Field()
	if !ok {
		return false
	}

	_, opts := ParseTag(f)

	return slices.Contains(opts, opt)
}

// CanRead reports whether Get can succeed.
func (a *Accessor) CanRead() bool {
	return a.binding.readable()
}

// CanWrite reports whether Set can succeed.
func (a *Accessor) CanWrite() bool {
	return a.binding.writeable()
}

// Get returns the current value.
func (a *Accessor) Get() (any, error) {
	v, err := a.get()
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

func (a *Accessor) get() (reflect.Value, error) {
	if !a.binding.readable() {
		return reflect.Value{}, a.fail(ErrNotReadable, "no getter for "+a.binding.describe())
	}

	v, err := a.binding.get()
	if err != nil {
		return reflect.Value{}, a.fail(ErrNotReadable, err.Error())
	}

	return v, nil
}

// SetProperty sets the property. A single value set on a slice property is
// appended to a copy of the slice; a single value set on a collection
// property (set map, *list.List, Collection) is added to it, creating the
// collection first when it is nil. Anything else is assigned directly.
func (a *Accessor) SetProperty(value any) error {
	t := a.binding.valueType()

	switch {
	case t.Kind() == reflect.Slice && !isContainerValue(value) && !isByteString(t, value):
		return a.appendElement(t, value)
	case collectionOf(t) != notCollection && !isContainerValue(value):
		return a.addToCollection(t, value)
	default:
		return a.SetPropertyStrict(value)
	}
}

// SetPropertyStrict assigns value directly, converting it when a registered
// converter accepts it.
func (a *Accessor) SetPropertyStrict(value any) error {
	v, err := a.assignable(value, a.binding.valueType())
	if err != nil {
		return err
	}

	return a.set(v)
}

func (a *Accessor) set(v reflect.Value) error {
	if !a.binding.writeable() {
		return a.fail(ErrNotWriteable, "no way to set "+a.binding.describe())
	}

	if err := a.binding.set(v); err != nil {
		return a.fail(ErrCannotSet, err.Error())
	}

	return nil
}

func (a *Accessor) appendElement(t reflect.Type, value any) error {
	elem, err := a.assignable(value, t.Elem())
	if err != nil {
		return err
	}

	n := 0

	if a.binding.readable() {
		current, err := a.get()
		if err != nil {
			return err
		}

		if !current.IsNil() {
			n = current.Len()
		}

		grown := reflect.MakeSlice(t, n+1, n+1)
		reflect.Copy(grown, current)
		grown.Index(n).Set(elem)

		return a.set(grown)
	}

	grown := reflect.MakeSlice(t, 1, 1)
	grown.Index(0).Set(elem)

	return a.set(grown)
}

// assignable converts value into a reflect.Value assignable to t.
func (a *Accessor) assignable(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		if nillable(t) {
			return reflect.Zero(t), nil
		}

		return reflect.Value{}, a.fail(ErrCannotSet, fmt.Sprintf("nil cannot be assigned to %s", t))
	}

	if c := a.config.Converters.Find(value, t); c != nil {
		v, err := c.Convert(value, t)
		if err != nil {
			return reflect.Value{}, a.fail(ErrCannotSet, err.Error())
		}

		return v, nil
	}

	v := reflect.ValueOf(value)
	compat := match.ScoreTypeCompatibility(v.Type(), t)

	switch compat.Compatibility {
	case match.TypeIdentical, match.TypeAssignable:
		return v, nil
	case match.TypeConvertible:
		return v.Convert(t), nil
	default:
		return reflect.Value{}, a.fail(ErrCannotSet,
			fmt.Sprintf("%s value cannot be assigned to %s: %s", compat.SourceType, compat.TargetType, compat.Reason))
	}
}

func (a *Accessor) fail(kind error, reason string) error {
	return &Error{Kind: kind, Property: a.name, Target: a.target.String(), Reason: reason}
}

// Names lists the exported field and accessor names of a struct type, used
// for suggestions.
func Names(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil
	}

	var names []string

	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() && !f.Anonymous {
			names = append(names, f.Name)
		}
	}

	pt := reflect.PointerTo(t)
	for i := range pt.NumMethod() {
		names = append(names, pt.Method(i).Name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// isByteString reports whether a string is set on a []byte property, which
// is a conversion rather than an append.
func isByteString(t reflect.Type, value any) bool {
	_, ok := stringValue(value)
	return ok && t.Elem().Kind() == reflect.Uint8
}
