package locate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// ErrModuleNotFound is returned by a ModuleLoader when the script does not exist.
var ErrModuleNotFound = errors.New("module not found")

// ExportKind classifies what a script module exports.
type ExportKind int

const (
	ExportUndefined ExportKind = iota
	ExportValue
	ExportFunction
)

func (k ExportKind) String() string {
	switch k {
	case ExportValue:
		return "value"
	case ExportFunction:
		return "function"
	default:
		return "undefined"
	}
}

// Export is one exported binding of a module.
type Export struct {
	Kind  ExportKind
	Value value.Value
}

// ValueExport wraps v as an exported value.
func ValueExport(v value.Value) Export { return Export{Kind: ExportValue, Value: v} }

// FunctionExport is an exported factory function.
func FunctionExport() Export { return Export{Kind: ExportFunction} }

// Module is the result of loading a script.
type Module struct {
	// Exports is what a CommonJS require of the script yields.
	Exports Export
	// ESModule reports the module-interop marker; Default then holds the real export.
	ESModule bool
	Default  Export
}

// CommonJSModule builds a Module from a CommonJS export. An exported object
// carrying a truthy __esModule key is treated as a transpiled ES module.
func CommonJSModule(exp Export) Module {
	mod := Module{Exports: exp}
	if exp.Kind != ExportValue {
		return mod
	}
	marker, ok := exp.Value.Get("__esModule")
	if !ok {
		return mod
	}
	if b, isBool := marker.AsBool(); !isBool || !b {
		return mod
	}
	mod.ESModule = true
	if def, ok := exp.Value.Get("default"); ok && !def.IsNull() {
		mod.Default = ValueExport(def)
	}
	return mod
}

// Resolved applies the module-interop unwrap: the default export for ES modules,
// the plain exports otherwise.
func (m Module) Resolved() Export {
	if m.ESModule {
		return m.Default
	}
	return m.Exports
}

// ModuleLoader loads a script-form override. Implementations must return an
// error wrapping ErrModuleNotFound when the script is missing.
type ModuleLoader interface {
	Load(ctx context.Context, fsys fs.FS, name string) (Module, error)
}

// StaticModuleLoader reads scripts without executing them. It understands a
// single top-level `module.exports = <literal>` or `export default <literal>`
// whose literal is a JSON5-compatible object, plus function and arrow exports.
// `exports.default = <literal>` is plain CommonJS: the exports object is
// {default: <literal>} and carries no interop marker.
type StaticModuleLoader struct{}

var (
	leadingNoise = regexp.MustCompile(`^(?:\s+|//[^\n]*(?:\n|$)|/\*(?s:.*?)\*/|['"]use strict['"];?)*`)
	exportHead   = regexp.MustCompile(`^(?:(module\.exports)\s*=|(exports\.default)\s*=|(export\s+default))\s*`)
	functionHead = regexp.MustCompile(`^(?:async\s+)?(?:function\b|class\b|(?:\([^()]*\)|[A-Za-z_$][\w$]*)\s*=>)`)
)

// Load implements ModuleLoader.
func (StaticModuleLoader) Load(_ context.Context, fsys fs.FS, name string) (Module, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Module{}, fmt.Errorf("%s: %w", name, ErrModuleNotFound)
		}
		return Module{}, err
	}

	src := leadingNoise.ReplaceAllString(string(data), "")
	head := exportHead.FindStringSubmatch(src)
	if head == nil {
		return Module{}, fmt.Errorf("%s: no module.exports or export default statement", name)
	}
	expr := strings.TrimSpace(src[len(head[0]):])
	expr = strings.TrimSpace(strings.TrimSuffix(expr, ";"))

	var exp Export
	if functionHead.MatchString(expr) {
		exp = FunctionExport()
	} else {
		v, err := value.ParseJSON5([]byte(expr))
		if err != nil {
			return Module{}, fmt.Errorf("%s: exported value is not a static literal: %w", name, err)
		}
		exp = ValueExport(v)
	}

	switch {
	case head[1] != "":
		return CommonJSModule(exp), nil
	case head[2] != "":
		if exp.Kind != ExportValue {
			return Module{}, fmt.Errorf("%s: exports.default must be a static literal", name)
		}
		return CommonJSModule(ValueExport(value.MapOf("default", exp.Value))), nil
	}
	return Module{Exports: ValueExport(value.MapOf("__esModule", true)), ESModule: true, Default: nonNull(exp)}, nil
}

func nonNull(exp Export) Export {
	if exp.Kind == ExportValue && exp.Value.IsNull() {
		return Export{}
	}
	return exp
}
