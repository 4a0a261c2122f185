package javascript

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"
	"github.com/imjustablacknerd/docusaurus/logfields"
	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrInvalidBundleExport is returned when a server bundle's default export
// is missing or not callable.
var ErrInvalidBundleExport = errors.New("invalid server bundle export")

const (
	moduleWrapperStart = "(function (exports, require, module) {\n"
	moduleWrapperEnd   = "\n})"

	defaultPoolSize = ssg.DefaultConcurrency
)

type loaderConfig struct {
	globals  map[string]any
	console  *slog.Logger
	poolSize int
}

type LoaderOption func(*loaderConfig)

// WithGlobals adds variables to the global scope of every sandbox. They are
// merged over the defaults, which only define __filename as "".
func WithGlobals(globals map[string]any) LoaderOption {
	return func(c *loaderConfig) {
		for k, v := range globals {
			c.globals[k] = v
		}
	}
}

// WithConsole exposes a console object that forwards to logger.
func WithConsole(logger *slog.Logger) LoaderOption {
	return func(c *loaderConfig) { c.console = logger }
}

// WithPoolSize bounds how many idle runtimes are kept for reuse.
func WithPoolSize(n int) LoaderOption {
	return func(c *loaderConfig) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// ServerEntry is a compiled server bundle whose default export renders pages.
//
// A goja runtime may only be used by one goroutine at a time, so each render
// borrows a runtime from an idle pool and evaluates the bundle in a fresh one
// when the pool is empty.
type ServerEntry struct {
	filename string
	program  *goja.Program
	globals  map[string]any
	console  *slog.Logger
	idle     chan *instance
}

type instance struct {
	vm     *goja.Runtime
	render goja.Callable
}

// LoadServerEntryRenderer reads the bundle at bundlePath and evaluates it.
func LoadServerEntryRenderer(fs afero.Fs, bundlePath string, opts ...LoaderOption) (*ServerEntry, error) {
	source, err := afero.ReadFile(fs, bundlePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading server bundle %s", bundlePath)
	}
	return NewServerEntry(source, filepath.Base(bundlePath), opts...)
}

// NewServerEntry evaluates source once to check that it default-exports a
// function, and fails with ErrInvalidBundleExport otherwise.
func NewServerEntry(source []byte, filename string, opts ...LoaderOption) (*ServerEntry, error) {
	cfg := loaderConfig{
		globals:  map[string]any{"__filename": ""},
		poolSize: defaultPoolSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	code, err := toCommonJS(source, filename)
	if err != nil {
		return nil, err
	}

	program, err := goja.Compile(filename, moduleWrapperStart+code+moduleWrapperEnd, false)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling server bundle %q", filename)
	}

	e := &ServerEntry{
		filename: filename,
		program:  program,
		globals:  cfg.globals,
		console:  cfg.console,
		idle:     make(chan *instance, cfg.poolSize),
	}

	inst, err := e.newInstance()
	if err != nil {
		return nil, err
	}
	e.release(inst)
	return e, nil
}

// Filename is the logical name the bundle was loaded under.
func (e *ServerEntry) Filename() string { return e.filename }

// Renderer exposes the bundle's default export as an ssg.Renderer.
func (e *ServerEntry) Renderer() ssg.Renderer { return e.Render }

// Render calls the default export with the params object and waits for the
// returned HTML. Cancelling ctx interrupts the running script.
func (e *ServerEntry) Render(ctx context.Context, pathname string, params *ssg.Params) (string, error) {
	inst, err := e.acquire()
	if err != nil {
		return "", err
	}

	stop := context.AfterFunc(ctx, func() { inst.vm.Interrupt(ctx.Err()) })
	defer func() {
		// An interrupt that already fired may still land; drop the runtime.
		if !stop() && ctx.Err() != nil {
			return
		}
		inst.vm.ClearInterrupt()
		e.release(inst)
	}()

	result, err := inst.render(goja.Undefined(), e.paramsObject(inst.vm, pathname, params))
	if err != nil {
		return "", errors.Wrapf(err, "rendering %s with %q", pathname, e.filename)
	}
	return awaitHTML(result)
}

func (e *ServerEntry) acquire() (*instance, error) {
	select {
	case inst := <-e.idle:
		return inst, nil
	default:
		return e.newInstance()
	}
}

func (e *ServerEntry) release(inst *instance) {
	select {
	case e.idle <- inst:
	default:
	}
}

// newInstance evaluates the bundle in a new sandbox: ECMAScript builtins plus
// the configured globals, and a require that always throws.
func (e *ServerEntry) newInstance() (*instance, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	for name, value := range e.globals {
		if err := vm.Set(name, value); err != nil {
			return nil, errors.Wrapf(err, "seeding global %s", name)
		}
	}
	if e.console != nil {
		if err := installConsole(vm, e.console, e.filename); err != nil {
			return nil, err
		}
	}

	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, errors.WithStack(err)
	}

	wrapper, err := vm.RunProgram(e.program)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating server bundle %q", e.filename)
	}
	moduleFn, ok := goja.AssertFunction(wrapper)
	if !ok {
		return nil, errors.Errorf("server bundle %q did not evaluate to a module", e.filename)
	}
	if _, err := moduleFn(goja.Undefined(), exports, vm.ToValue(unavailableRequire(vm)), module); err != nil {
		return nil, errors.Wrapf(err, "evaluating server bundle %q", e.filename)
	}

	render, ok := defaultExport(vm, module.Get("exports"))
	if !ok {
		return nil, errors.Wrapf(ErrInvalidBundleExport,
			"server bundle export from %q must be a function that returns an HTML string", e.filename)
	}
	return &instance{vm: vm, render: render}, nil
}

// defaultExport reads exports.default. A throwing getter counts as no export.
func defaultExport(vm *goja.Runtime, exports goja.Value) (goja.Callable, bool) {
	if exports == nil || goja.IsUndefined(exports) || goja.IsNull(exports) {
		return nil, false
	}
	var def goja.Value
	if ex := vm.Try(func() { def = exports.ToObject(vm).Get("default") }); ex != nil {
		return nil, false
	}
	if def == nil {
		return nil, false
	}
	return goja.AssertFunction(def)
}

func unavailableRequire(vm *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		panic(vm.NewGoError(errors.Errorf("cannot require %q: server bundles must be self-contained", call.Argument(0).String())))
	}
}

// paramsObject builds the argument of the default export: the run params
// plus the pathname, with the collectors bound as plain JS functions.
func (e *ServerEntry) paramsObject(vm *goja.Runtime, pathname string, params *ssg.Params) goja.Value {
	obj := vm.NewObject()
	set := func(name string, value any) {
		_ = obj.Set(name, value)
	}

	set("pathname", pathname)
	set("outDir", params.OutDir)
	set("baseUrl", params.BaseURL)
	set("manifestPath", params.ManifestPath)
	set("routesLocation", map[string]string(params.RoutesLocation))
	set("headTags", params.HeadTags)
	set("preBodyTags", params.PreBodyTags)
	set("postBodyTags", params.PostBodyTags)
	set("ssrTemplate", params.SSRTemplate)
	set("noIndex", params.NoIndex)
	set("DOCUSAURUS_VERSION", params.Version)

	set("onLinksCollected", func(call goja.FunctionCall) goja.Value {
		var collected ssg.LinksCollection
		if err := mapstructure.Decode(call.Argument(0).Export(), &collected); err != nil {
			panic(vm.NewTypeError("onLinksCollected: %v", err))
		}
		params.CollectLinks(collected)
		return goja.Undefined()
	})
	set("onHeadTagsCollected", func(call goja.FunctionCall) goja.Value {
		tags := ssg.HeadTags{}
		if arg := call.Argument(1); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
			o := arg.ToObject(vm)
			for _, key := range o.Keys() {
				tags[key] = o.Get(key).String()
			}
		}
		params.CollectHeadTags(call.Argument(0).String(), tags)
		return goja.Undefined()
	})

	return obj
}

// awaitHTML unwraps a settled promise. Promise jobs have already run by the
// time the call into the runtime returns, so a pending promise never settles.
func awaitHTML(v goja.Value) (string, error) {
	if v == nil {
		return "", errors.New("server bundle render returned no HTML")
	}
	if p, ok := v.Export().(*goja.Promise); ok {
		switch p.State() {
		case goja.PromiseStateFulfilled:
			v = p.Result()
		case goja.PromiseStateRejected:
			return "", errors.Errorf("server bundle render rejected: %s", p.Result().String())
		default:
			return "", errors.New("server bundle render returned a promise that never settled")
		}
	}
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return "", errors.New("server bundle render returned no HTML")
	}
	return v.String(), nil
}

func installConsole(vm *goja.Runtime, logger *slog.Logger, filename string) error {
	console := vm.NewObject()
	logAt := func(level slog.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			logger.Log(context.Background(), level, strings.Join(parts, " "), logfields.Bundle(filename))
			return goja.Undefined()
		}
	}

	for name, level := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		if err := console.Set(name, logAt(level)); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(vm.Set("console", console))
}
