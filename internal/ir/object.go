package ir

import "fmt"

// DefaultConstructorName is the fixed token used for constructors that
// carry no explicit name, and the reserved token the native front end
// recognizes as the constructor convention. A method may not use it.
const DefaultConstructorName = "new"

// Object is an opaque type that is instantiated and passed around by
// reference and has methods called on it.
//
// At the FFI layer an object is an opaque integer handle plus a set of
// functions sharing a common prefix: constructors return new handles,
// methods take a handle as first argument, and a synthesized free
// function releases the instance. Foreign binding code stitches these
// back together into a class-like definition.
//
// Threadsafe is inert metadata for downstream generators deciding
// whether foreign-side calls need external synchronization; the core
// performs no locking.
type Object struct {
	Name         string        `json:"name"`
	Constructors []Constructor `json:"constructors"`
	Methods      []Method      `json:"methods"`
	FFIFuncFree  FFIFunction   `json:"ffi_func_free"`
	Threadsafe   bool          `json:"threadsafe"`
	Docs         []string      `json:"docs,omitempty"`
}

// AppendConstructor adds a constructor. Members may arrive across
// several disjoint declaration blocks, so append is the only mutation.
func (o *Object) AppendConstructor(c Constructor) {
	o.Constructors = append(o.Constructors, c)
}

// AppendMethod adds a method, filling in the owning object's name.
// Converters leave ObjectName empty; it is set exactly once, here, when
// the object's name is known.
func (o *Object) AppendMethod(m Method) {
	m.ObjectName = o.Name
	o.Methods = append(o.Methods, m)
}

func (o *Object) checksumContent() IRObject {
	constructors := make(IRArray, 0, len(o.Constructors))
	for i := range o.Constructors {
		constructors = append(constructors, o.Constructors[i].checksumContent())
	}
	methods := make(IRArray, 0, len(o.Methods))
	for i := range o.Methods {
		methods = append(methods, o.Methods[i].checksumContent())
	}
	return IRObject{
		"name":         IRString(o.Name),
		"constructors": constructors,
		"methods":      methods,
		"threadsafe":   IRBool(o.Threadsafe),
	}
}

// deriveFFIFuncs computes the flat signatures for the object's free
// function, constructors and methods.
func (o *Object) deriveFFIFuncs(ciPrefix string) error {
	o.FFIFuncFree = FFIFunction{
		Name: fmt.Sprintf("ffi_%s_%s_object_free", ciPrefix, o.Name),
		Arguments: []FFIArgument{
			{Name: "handle", Type: FFIHandle},
		},
		ReturnType: nil,
	}
	for i := range o.Constructors {
		if err := o.Constructors[i].deriveFFIFunc(ciPrefix, o.Name); err != nil {
			return err
		}
	}
	for i := range o.Methods {
		if err := o.Methods[i].deriveFFIFunc(ciPrefix, o.Name); err != nil {
			return err
		}
	}
	return nil
}

// Constructor is a named constructor for an object type. At the FFI
// layer it is a function returning a handle for a new instance.
type Constructor struct {
	Name      string      `json:"name"`
	Arguments []Argument  `json:"arguments"`
	Throws    string      `json:"throws,omitempty"`
	FFIFunc   FFIFunction `json:"ffi_func"`
	Docs      []string    `json:"docs,omitempty"`
}

// NewDefaultConstructor returns the synthesized default constructor:
// the fixed name token and an empty argument list.
func NewDefaultConstructor() Constructor {
	return Constructor{Name: DefaultConstructorName}
}

func (c *Constructor) checksumContent() IRObject {
	return IRObject{
		"name":      IRString(c.Name),
		"arguments": argumentsContent(c.Arguments),
		"throws":    IRString(c.Throws),
	}
}

func (c *Constructor) deriveFFIFunc(ciPrefix, objPrefix string) error {
	sum, err := Checksum(c)
	if err != nil {
		return fmt.Errorf("constructor %s.%s: %w", objPrefix, c.Name, err)
	}
	handle := FFIHandle
	c.FFIFunc = FFIFunction{
		Name:      fmt.Sprintf("%s_%s_%s_%s", ciPrefix, objPrefix, c.Name, sum),
		Arguments: lowerArguments(c.Arguments),
		// a constructor's return is always the handle type
		ReturnType: &handle,
	}
	return nil
}

// Method is a static or instance method of an object type. For instance
// methods the FFI function takes the owning object's handle as its first
// argument; static methods take no receiver.
type Method struct {
	Name       string      `json:"name"`
	ObjectName string      `json:"object_name"`
	ReturnType *Type       `json:"return_type,omitempty"`
	Arguments  []Argument  `json:"arguments"`
	Static     bool        `json:"static"`
	Throws     string      `json:"throws,omitempty"`
	FFIFunc    FFIFunction `json:"ffi_func"`
	Docs       []string    `json:"docs,omitempty"`
}

// FirstArgument synthesizes the implicit leading receiver argument for
// instance methods: the owning object's own handle type. It participates
// only in FFI derivation and is never part of the logical argument list.
// Static methods have no receiver and return nil.
func (m *Method) FirstArgument() *Argument {
	if m.Static {
		return nil
	}
	return &Argument{
		Name: "handle",
		Type: ObjectType(m.ObjectName),
	}
}

func (m *Method) checksumContent() IRObject {
	content := IRObject{
		"name":        IRString(m.Name),
		"object_name": IRString(m.ObjectName),
		"arguments":   argumentsContent(m.Arguments),
		"static":      IRBool(m.Static),
		"throws":      IRString(m.Throws),
	}
	if m.ReturnType != nil {
		content["return_type"] = IRString(m.ReturnType.CanonicalName())
	}
	return content
}

func (m *Method) deriveFFIFunc(ciPrefix, objPrefix string) error {
	sum, err := Checksum(m)
	if err != nil {
		return fmt.Errorf("method %s.%s: %w", objPrefix, m.Name, err)
	}
	var args []Argument
	if first := m.FirstArgument(); first != nil {
		args = append(args, *first)
	}
	args = append(args, m.Arguments...)
	m.FFIFunc = FFIFunction{
		Name:       fmt.Sprintf("%s_%s_%s_%s", ciPrefix, objPrefix, m.Name, sum),
		Arguments:  lowerArguments(args),
		ReturnType: lowerReturn(m.ReturnType),
	}
	return nil
}
