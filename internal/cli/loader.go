package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ffikit/internal/webidl"
)

// LoadError represents an error that occurred while loading a
// definition file, before conversion proper begins.
type LoadError struct {
	Code    string
	Message string
	Path    string // definition file path if available
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "C001" // Generic/unknown error
	ErrCodeNotFound     = "C002" // Path not found
	ErrCodeReadFailed   = "C003" // File read error
	ErrCodeParseFailed  = "C004" // YAML parse error
	ErrCodeBadType      = "C005" // Malformed type string
	ErrCodeBadAttribute = "C006" // Malformed attribute string
	ErrCodeWriteFailed  = "C007" // File write error
	ErrCodeCompile      = "C010" // Conversion rejected the definitions
)

// documentFile is the YAML schema of a definition file. Unknown keys
// are rejected.
type documentFile struct {
	Namespace    string           `yaml:"namespace"`
	Functions    []functionFile   `yaml:"functions"`
	Enums        []enumFile       `yaml:"enums"`
	Interfaces   []interfaceFile  `yaml:"interfaces"`
	Dictionaries []dictionaryFile `yaml:"dictionaries"`
}

type functionFile struct {
	Name       string    `yaml:"name"`
	Return     string    `yaml:"return"`
	Args       []argFile `yaml:"args"`
	Attributes []string  `yaml:"attributes"`
}

type argFile struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	ByRef    bool       `yaml:"by_ref"`
	Optional bool       `yaml:"optional"`
	Default  *yaml.Node `yaml:"default"`
}

type enumFile struct {
	Name       string   `yaml:"name"`
	Values     []string `yaml:"values"`
	Attributes []string `yaml:"attributes"`
}

type interfaceFile struct {
	Name         string            `yaml:"name"`
	Attributes   []string          `yaml:"attributes"`
	Constructors []constructorFile `yaml:"constructors"`
	Methods      []methodFile      `yaml:"methods"`
	Variants     []variantFile     `yaml:"variants"`
}

type constructorFile struct {
	Args       []argFile `yaml:"args"`
	Attributes []string  `yaml:"attributes"`
}

type methodFile struct {
	Name       string    `yaml:"name"`
	Static     bool      `yaml:"static"`
	Return     string    `yaml:"return"`
	Args       []argFile `yaml:"args"`
	Attributes []string  `yaml:"attributes"`
}

type variantFile struct {
	Name   string    `yaml:"name"`
	Fields []argFile `yaml:"fields"`
}

type dictionaryFile struct {
	Name   string      `yaml:"name"`
	Fields []fieldFile `yaml:"fields"`
}

type fieldFile struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Required bool       `yaml:"required"`
	Default  *yaml.Node `yaml:"default"`
}

// LoadDocument reads a YAML definition file and lowers it into the
// definition tree the converter consumes.
func LoadDocument(path string) (*webidl.Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "definition file not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error()}
	}

	var file documentFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error()}
	}

	return buildDocument(path, &file)
}

func buildDocument(path string, file *documentFile) (*webidl.Document, error) {
	doc := &webidl.Document{}

	ns := &webidl.Namespace{Name: file.Namespace}
	for i := range file.Functions {
		op, err := buildOperation(path, &file.Functions[i])
		if err != nil {
			return nil, err
		}
		ns.Members = append(ns.Members, *op)
	}
	doc.Definitions = append(doc.Definitions, ns)

	for i := range file.Enums {
		e := &file.Enums[i]
		attrs, err := parseAttributeStrings(path, e.Attributes)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, &webidl.EnumDef{
			Name:       e.Name,
			Attributes: attrs,
			Values:     e.Values,
		})
	}

	for i := range file.Interfaces {
		def, err := buildInterface(path, &file.Interfaces[i])
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}

	for i := range file.Dictionaries {
		def, err := buildDictionary(path, &file.Dictionaries[i])
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}

	return doc, nil
}

func buildOperation(path string, f *functionFile) (*webidl.Operation, error) {
	attrs, err := parseAttributeStrings(path, f.Attributes)
	if err != nil {
		return nil, err
	}
	ret, err := parseReturnString(path, f.Return)
	if err != nil {
		return nil, err
	}
	args, err := buildArguments(path, f.Args)
	if err != nil {
		return nil, err
	}
	return &webidl.Operation{
		Name:       f.Name,
		ReturnType: ret,
		Arguments:  args,
		Attributes: attrs,
	}, nil
}

func buildInterface(path string, f *interfaceFile) (*webidl.InterfaceDef, error) {
	attrs, err := parseAttributeStrings(path, f.Attributes)
	if err != nil {
		return nil, err
	}
	def := &webidl.InterfaceDef{Name: f.Name, Attributes: attrs}

	for i := range f.Constructors {
		c := &f.Constructors[i]
		cAttrs, err := parseAttributeStrings(path, c.Attributes)
		if err != nil {
			return nil, err
		}
		args, err := buildArguments(path, c.Args)
		if err != nil {
			return nil, err
		}
		def.Members = append(def.Members, &webidl.ConstructorMember{
			Attributes: cAttrs,
			Arguments:  args,
		})
	}

	for i := range f.Methods {
		m := &f.Methods[i]
		mAttrs, err := parseAttributeStrings(path, m.Attributes)
		if err != nil {
			return nil, err
		}
		ret, err := parseReturnString(path, m.Return)
		if err != nil {
			return nil, err
		}
		args, err := buildArguments(path, m.Args)
		if err != nil {
			return nil, err
		}
		def.Members = append(def.Members, &webidl.Operation{
			Name:       m.Name,
			Static:     m.Static,
			ReturnType: ret,
			Arguments:  args,
			Attributes: mAttrs,
		})
	}

	// variant entries carry the data-carrying enum surface: each lowers
	// to an anonymous operation whose return token is the variant name
	for i := range f.Variants {
		v := &f.Variants[i]
		fields, err := buildArguments(path, v.Fields)
		if err != nil {
			return nil, err
		}
		def.Members = append(def.Members, &webidl.Operation{
			ReturnType: &webidl.TypeExpr{Name: v.Name},
			Arguments:  fields,
		})
	}

	return def, nil
}

func buildDictionary(path string, f *dictionaryFile) (*webidl.DictionaryDef, error) {
	def := &webidl.DictionaryDef{Name: f.Name}
	for i := range f.Fields {
		fd := &f.Fields[i]
		t, err := parseTypeString(path, fd.Type)
		if err != nil {
			return nil, err
		}
		lit, err := buildLiteral(path, fd.Default)
		if err != nil {
			return nil, err
		}
		def.Members = append(def.Members, webidl.DictionaryMember{
			Name:     fd.Name,
			Type:     *t,
			Required: fd.Required,
			Default:  lit,
		})
	}
	return def, nil
}

func buildArguments(path string, args []argFile) ([]webidl.Argument, error) {
	out := make([]webidl.Argument, 0, len(args))
	for i := range args {
		a := &args[i]
		t, err := parseTypeString(path, a.Type)
		if err != nil {
			return nil, err
		}
		lit, err := buildLiteral(path, a.Default)
		if err != nil {
			return nil, err
		}
		arg := webidl.Argument{
			Name:     a.Name,
			Type:     *t,
			Optional: a.Optional,
			Default:  lit,
		}
		if a.ByRef {
			arg.Attributes = []webidl.ExtendedAttribute{{Name: "ByRef"}}
		}
		out = append(out, arg)
	}
	return out, nil
}

func buildLiteral(path string, node *yaml.Node) (*webidl.Literal, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Tag {
	case "!!str":
		return &webidl.Literal{Kind: webidl.LiteralString, String: node.Value}, nil
	case "!!int":
		var v int64
		if err := node.Decode(&v); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error()}
		}
		return &webidl.Literal{Kind: webidl.LiteralInt, Int: v}, nil
	case "!!bool":
		var v bool
		if err := node.Decode(&v); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error()}
		}
		return &webidl.Literal{Kind: webidl.LiteralBool, Bool: v}, nil
	default:
		return nil, &LoadError{
			Code:    ErrCodeParseFailed,
			Path:    path,
			Message: fmt.Sprintf("unsupported default value kind %s", node.Tag),
		}
	}
}

// parseAttributeStrings lowers "Name" and "Name=Value" strings into
// extended attributes.
func parseAttributeStrings(path string, attrs []string) ([]webidl.ExtendedAttribute, error) {
	out := make([]webidl.ExtendedAttribute, 0, len(attrs))
	for _, raw := range attrs {
		name, value, _ := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			return nil, &LoadError{
				Code:    ErrCodeBadAttribute,
				Path:    path,
				Message: fmt.Sprintf("malformed attribute %q", raw),
			}
		}
		out = append(out, webidl.ExtendedAttribute{Name: name, Value: value})
	}
	return out, nil
}

func parseReturnString(path, s string) (*webidl.TypeExpr, error) {
	if s == "" || s == "void" {
		return nil, nil
	}
	return parseTypeString(path, s)
}

// parseTypeString parses the compact type syntax of definition files:
// a bare name, sequence<T>, and a trailing ? for nullable.
func parseTypeString(path, s string) (*webidl.TypeExpr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &LoadError{Code: ErrCodeBadType, Path: path, Message: "empty type"}
	}

	nullable := false
	if strings.HasSuffix(s, "?") {
		nullable = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "?"))
	}

	if inner, ok := cutGeneric(s, "sequence"); ok {
		elem, err := parseTypeString(path, inner)
		if err != nil {
			return nil, err
		}
		return &webidl.TypeExpr{Name: "sequence", Elem: elem, Nullable: nullable}, nil
	}

	if strings.ContainsAny(s, "<>") {
		return nil, &LoadError{
			Code:    ErrCodeBadType,
			Path:    path,
			Message: fmt.Sprintf("malformed type %q", s),
		}
	}

	return &webidl.TypeExpr{Name: s, Nullable: nullable}, nil
}

// cutGeneric returns the bracketed payload of name<payload>, if s has
// that exact shape.
func cutGeneric(s, name string) (string, bool) {
	if !strings.HasPrefix(s, name+"<") || !strings.HasSuffix(s, ">") {
		return "", false
	}
	return strings.TrimSpace(s[len(name)+1 : len(s)-1]), true
}
