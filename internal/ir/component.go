package ir

import "fmt"

// Builder is the mutable registry the conversion driver populates during
// the build phase. There is exactly one logical writer; the builder is
// not safe for concurrent use and does not need to be.
//
// Build is explicitly two-phase: pass 1 registers definitions (and, via
// MutateObject, appends members that arrive in later declaration blocks
// under name-keyed access); pass 2, Finalize, computes all derived data
// once the full definition set is known and freezes the result. Derived
// data is never computed eagerly per insert: premature derivation would
// see an incomplete object.
type Builder struct {
	namespace string
	universe  *TypeUniverse

	enums     []*Enum
	records   []*Record
	objects   []*Object
	errors    []*ErrorDef
	functions []*Function

	enumsByName     map[string]*Enum
	recordsByName   map[string]*Record
	objectsByName   map[string]*Object
	errorsByName    map[string]*ErrorDef
	functionsByName map[string]*Function

	finalized bool
}

// NewBuilder creates a builder for a component with the given namespace.
// The namespace becomes the prefix of every derived FFI symbol.
func NewBuilder(namespace string) *Builder {
	return &Builder{
		namespace:       namespace,
		universe:        NewTypeUniverse(),
		enumsByName:     make(map[string]*Enum),
		recordsByName:   make(map[string]*Record),
		objectsByName:   make(map[string]*Object),
		errorsByName:    make(map[string]*ErrorDef),
		functionsByName: make(map[string]*Function),
	}
}

// Namespace returns the component namespace.
func (b *Builder) Namespace() string {
	return b.namespace
}

// Types returns the type universe for resolution and registration.
func (b *Builder) Types() *TypeUniverse {
	return b.universe
}

// DeclareEnum registers an enum name ahead of its conversion so forward
// references resolve.
func (b *Builder) DeclareEnum(name string) error {
	return b.universe.DeclareName(name, EnumType(name))
}

// DeclareRecord registers a record name ahead of its conversion.
func (b *Builder) DeclareRecord(name string) error {
	return b.universe.DeclareName(name, RecordType(name))
}

// DeclareObject registers an object name ahead of its conversion.
func (b *Builder) DeclareObject(name string) error {
	return b.universe.DeclareName(name, ObjectType(name))
}

// DeclareError registers an error name ahead of its conversion.
func (b *Builder) DeclareError(name string) error {
	return b.universe.DeclareName(name, ErrorType(name))
}

func (b *Builder) mutable() error {
	if b.finalized {
		return fmt.Errorf("component interface already finalized")
	}
	return nil
}

// AddEnum inserts an enum definition. Names are unique per kind.
func (b *Builder) AddEnum(e *Enum) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if _, ok := b.enumsByName[e.Name]; ok {
		return fmt.Errorf("duplicate enum definition %q", e.Name)
	}
	b.enums = append(b.enums, e)
	b.enumsByName[e.Name] = e
	return nil
}

// AddRecord inserts a record definition.
func (b *Builder) AddRecord(r *Record) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if _, ok := b.recordsByName[r.Name]; ok {
		return fmt.Errorf("duplicate record definition %q", r.Name)
	}
	b.records = append(b.records, r)
	b.recordsByName[r.Name] = r
	return nil
}

// AddObject inserts an object definition. The object may be a bare shell
// at this point; constructors and methods may be appended later through
// MutateObject.
func (b *Builder) AddObject(o *Object) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if _, ok := b.objectsByName[o.Name]; ok {
		return fmt.Errorf("duplicate object definition %q", o.Name)
	}
	b.objects = append(b.objects, o)
	b.objectsByName[o.Name] = o
	return nil
}

// AddError inserts an error definition.
func (b *Builder) AddError(e *ErrorDef) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if _, ok := b.errorsByName[e.Name]; ok {
		return fmt.Errorf("duplicate error definition %q", e.Name)
	}
	b.errors = append(b.errors, e)
	b.errorsByName[e.Name] = e
	return nil
}

// AddFunction inserts a free-standing function definition.
func (b *Builder) AddFunction(f *Function) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if _, ok := b.functionsByName[f.Name]; ok {
		return fmt.Errorf("duplicate function definition %q", f.Name)
	}
	b.functions = append(b.functions, f)
	b.functionsByName[f.Name] = f
	return nil
}

// MutateObject gives fn exclusive mutable access to an already
// registered object, keyed by name. This is how a front end attaches
// constructors and methods that arrive in declaration blocks separate
// from the object's own declaration.
func (b *Builder) MutateObject(name string, fn func(*Object) error) error {
	if err := b.mutable(); err != nil {
		return err
	}
	o, ok := b.objectsByName[name]
	if !ok {
		return fmt.Errorf("no object definition named %q", name)
	}
	return fn(o)
}

// Finalize runs the derivation phase and freezes the model. It
// synthesizes a default constructor for every constructor-less object,
// verifies the definition set is consistent, computes checksums and FFI
// signatures, and returns the read-only ComponentInterface. Finalize
// runs at most once; the builder rejects all mutation afterwards.
func (b *Builder) Finalize() (*ComponentInterface, error) {
	if b.finalized {
		return nil, fmt.Errorf("component interface already finalized")
	}

	// every object ends up with at least one constructor
	for _, o := range b.objects {
		if len(o.Constructors) == 0 {
			o.AppendConstructor(NewDefaultConstructor())
		}
	}

	if err := b.checkConsistency(); err != nil {
		return nil, err
	}

	for _, o := range b.objects {
		if err := o.deriveFFIFuncs(b.namespace); err != nil {
			return nil, err
		}
	}
	for _, f := range b.functions {
		if err := f.deriveFFIFunc(b.namespace); err != nil {
			return nil, err
		}
	}

	ci := &ComponentInterface{
		namespace:       b.namespace,
		universe:        b.universe,
		enums:           b.enums,
		records:         b.records,
		objects:         b.objects,
		errors:          b.errors,
		functions:       b.functions,
		enumsByName:     b.enumsByName,
		recordsByName:   b.recordsByName,
		objectsByName:   b.objectsByName,
		errorsByName:    b.errorsByName,
		functionsByName: b.functionsByName,
	}

	if err := ci.checkSymbolUniqueness(); err != nil {
		return nil, err
	}

	b.finalized = true
	return ci, nil
}

// checkConsistency verifies that the completed definition set hangs
// together: every named type mentioned anywhere has a definition, and
// every throws attribute names a declared error. Individual resolution
// sites only require names to exist; this is where full-definition
// consistency is enforced.
func (b *Builder) checkConsistency() error {
	for _, t := range b.universe.Types() {
		switch t.Kind {
		case TypeEnum:
			if _, ok := b.enumsByName[t.Name]; !ok {
				return fmt.Errorf("enum type %q has no definition", t.Name)
			}
		case TypeRecord:
			if _, ok := b.recordsByName[t.Name]; !ok {
				return fmt.Errorf("record type %q has no definition", t.Name)
			}
		case TypeObject:
			if _, ok := b.objectsByName[t.Name]; !ok {
				return fmt.Errorf("object type %q has no definition", t.Name)
			}
		case TypeError:
			if _, ok := b.errorsByName[t.Name]; !ok {
				return fmt.Errorf("error type %q has no definition", t.Name)
			}
		}
	}

	// object handles never travel inside serialized field data
	checkFields := func(where string, fields []Field) error {
		for i := range fields {
			if fields[i].Type.ContainsObject() {
				return fmt.Errorf("%s field %q embeds an object type", where, fields[i].Name)
			}
		}
		return nil
	}
	for _, e := range b.enums {
		for i := range e.Variants {
			v := &e.Variants[i]
			if err := checkFields(fmt.Sprintf("enum %q variant %q", e.Name, v.Name), v.Fields); err != nil {
				return err
			}
		}
	}
	for _, r := range b.records {
		if err := checkFields(fmt.Sprintf("record %q", r.Name), r.Fields); err != nil {
			return err
		}
	}

	checkThrows := func(where, target string) error {
		if target == "" {
			return nil
		}
		if _, ok := b.errorsByName[target]; !ok {
			return fmt.Errorf("%s throws undeclared error %q", where, target)
		}
		return nil
	}
	for _, f := range b.functions {
		if err := checkThrows(fmt.Sprintf("function %q", f.Name), f.Throws); err != nil {
			return err
		}
	}
	for _, o := range b.objects {
		for i := range o.Constructors {
			c := &o.Constructors[i]
			if err := checkThrows(fmt.Sprintf("constructor %q.%q", o.Name, c.Name), c.Throws); err != nil {
				return err
			}
		}
		for i := range o.Methods {
			m := &o.Methods[i]
			if err := checkThrows(fmt.Sprintf("method %q.%q", o.Name, m.Name), m.Throws); err != nil {
				return err
			}
		}
	}
	return nil
}

// ComponentInterface is the finalized, read-only interface model: name
// keyed lookup and insertion-ordered iteration per definition kind, plus
// the derived flat FFI layer. It is the sole surface consumed by
// per-language binding generators.
type ComponentInterface struct {
	namespace string
	universe  *TypeUniverse

	enums     []*Enum
	records   []*Record
	objects   []*Object
	errors    []*ErrorDef
	functions []*Function

	enumsByName     map[string]*Enum
	recordsByName   map[string]*Record
	objectsByName   map[string]*Object
	errorsByName    map[string]*ErrorDef
	functionsByName map[string]*Function
}

// Namespace returns the component namespace.
func (ci *ComponentInterface) Namespace() string {
	return ci.namespace
}

// Types returns every type mentioned by the interface, first-seen order.
func (ci *ComponentInterface) Types() []Type {
	return ci.universe.Types()
}

// ContainsType reports whether a type with the given canonical name is
// mentioned anywhere in the interface.
func (ci *ComponentInterface) ContainsType(canonical string) bool {
	return ci.universe.ContainsCanonical(canonical)
}

// NamedType looks up a user-declared type by its declared name.
func (ci *ComponentInterface) NamedType(name string) (Type, bool) {
	return ci.universe.NamedType(name)
}

// EnumDefinitions returns all enums in insertion order.
func (ci *ComponentInterface) EnumDefinitions() []*Enum {
	return append([]*Enum(nil), ci.enums...)
}

// GetEnumDefinition looks up an enum by name.
func (ci *ComponentInterface) GetEnumDefinition(name string) (*Enum, bool) {
	e, ok := ci.enumsByName[name]
	return e, ok
}

// RecordDefinitions returns all records in insertion order.
func (ci *ComponentInterface) RecordDefinitions() []*Record {
	return append([]*Record(nil), ci.records...)
}

// GetRecordDefinition looks up a record by name.
func (ci *ComponentInterface) GetRecordDefinition(name string) (*Record, bool) {
	r, ok := ci.recordsByName[name]
	return r, ok
}

// ObjectDefinitions returns all objects in insertion order.
func (ci *ComponentInterface) ObjectDefinitions() []*Object {
	return append([]*Object(nil), ci.objects...)
}

// GetObjectDefinition looks up an object by name.
func (ci *ComponentInterface) GetObjectDefinition(name string) (*Object, bool) {
	o, ok := ci.objectsByName[name]
	return o, ok
}

// ErrorDefinitions returns all error definitions in insertion order.
func (ci *ComponentInterface) ErrorDefinitions() []*ErrorDef {
	return append([]*ErrorDef(nil), ci.errors...)
}

// GetErrorDefinition looks up an error definition by name.
func (ci *ComponentInterface) GetErrorDefinition(name string) (*ErrorDef, bool) {
	e, ok := ci.errorsByName[name]
	return e, ok
}

// FunctionDefinitions returns all free functions in insertion order.
func (ci *ComponentInterface) FunctionDefinitions() []*Function {
	return append([]*Function(nil), ci.functions...)
}

// GetFunctionDefinition looks up a free function by name.
func (ci *ComponentInterface) GetFunctionDefinition(name string) (*Function, bool) {
	f, ok := ci.functionsByName[name]
	return f, ok
}

// FFIFunctions returns every derived flat function in deterministic
// order: free functions first, then per object (insertion order) its
// constructors, methods and free function.
func (ci *ComponentInterface) FFIFunctions() []FFIFunction {
	var funcs []FFIFunction
	for _, f := range ci.functions {
		funcs = append(funcs, f.FFIFunc)
	}
	for _, o := range ci.objects {
		for i := range o.Constructors {
			funcs = append(funcs, o.Constructors[i].FFIFunc)
		}
		for i := range o.Methods {
			funcs = append(funcs, o.Methods[i].FFIFunc)
		}
		funcs = append(funcs, o.FFIFuncFree)
	}
	return funcs
}

// checkSymbolUniqueness verifies the derived symbol names are unique.
func (ci *ComponentInterface) checkSymbolUniqueness() error {
	seen := make(map[string]bool)
	for _, f := range ci.FFIFunctions() {
		if seen[f.Name] {
			return fmt.Errorf("duplicate FFI symbol name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
