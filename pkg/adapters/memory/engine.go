package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

type method func(target domain.Ref, args []any) (any, error)

// Engine is a deterministic, in-process stand-in for the CAD application.
// It keeps documents, profiles, features and variables the way the real
// automation model does, enough to exercise the bridge end to end.
// Safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	running   bool
	attached  bool
	info      domain.AppInfo
	launchErr error
	pingErr   error

	seq      int
	kinds    map[string]int
	docs     map[domain.Ref]*document
	order    []domain.Ref
	profiles map[domain.Ref]*profile

	methods map[string]method
	faults  map[string]error
	calls   []ports.Call
}

// EngineOption configures the simulated engine.
type EngineOption func(*Engine)

// WithRunningInstance makes Attach succeed without a launch.
func WithRunningInstance() EngineOption {
	return func(e *Engine) {
		e.running = true
	}
}

// WithLaunchError makes Launch fail with err.
func WithLaunchError(err error) EngineOption {
	return func(e *Engine) {
		e.launchErr = err
	}
}

// WithAppInfo overrides the reported application identity.
func WithAppInfo(info domain.AppInfo) EngineOption {
	return func(e *Engine) {
		e.info = info
	}
}

// NewEngine creates a simulated engine with no running instance.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		info: domain.AppInfo{
			Version: "sim-1.0",
			Caption: "Simulated Solid Edge",
			Visible: true,
			PID:     4242,
		},
		kinds:    make(map[string]int),
		docs:     make(map[domain.Ref]*document),
		profiles: make(map[domain.Ref]*profile),
		faults:   make(map[string]error),
	}
	e.methods = map[string]method{
		ports.MethodApplicationActivate: e.activateApp,

		ports.MethodDocumentsAdd:       e.addDocument,
		ports.MethodDocumentsOpen:      e.openDocument,
		ports.MethodDocumentsList:      e.listDocuments,
		ports.MethodDocumentActivate:   e.activateDocument,
		ports.MethodDocumentClose:      e.closeDocument,
		ports.MethodDocumentSave:       e.saveDocument,
		ports.MethodDocumentSaveAs:     e.saveDocumentAs,
		ports.MethodDocumentSaveCopyAs: e.saveDocumentCopy,
		ports.MethodDocumentUndo:       e.undo,
		ports.MethodDocumentRedo:       e.redo,
		ports.MethodRefPlanesList:      e.listRefPlanes,

		ports.MethodProfileSetsAdd:  e.addProfile,
		ports.MethodProfileEnd:      e.endProfile,
		ports.MethodProfileInfo:     e.profileInfo,
		ports.MethodLinesAdd:        e.addLine,
		ports.MethodConstructionAdd: e.addConstruction,
		ports.MethodCirclesAdd:      e.addCircle,
		ports.MethodArcsAdd:         e.addArc,
		ports.MethodPointsAdd:       e.addPoint,

		ports.MethodExtrudeFinite:      e.feature("ExtrudedProtrusion", extrudeFinite),
		ports.MethodExtrudeInfinite:    e.feature("ExtrudedProtrusion", extrudeThroughAll),
		ports.MethodExtrudeSymmetric:   e.feature("ExtrudedProtrusion", extrudeSymmetric),
		ports.MethodExtrudeThroughNext: e.feature("ExtrudedProtrusion", extrudeThroughAll),
		ports.MethodExtrudeFromTo:      e.feature("ExtrudedProtrusion", extrudeFromTo),
		ports.MethodExtrudeThinWall:    e.feature("ExtrudedProtrusion", extrudeThinWall),
		ports.MethodRevolveFull:        e.feature("RevolvedProtrusion", revolveFull),
		ports.MethodRevolveFinite:      e.feature("RevolvedProtrusion", revolveFinite),
		ports.MethodCutoutFinite:       e.feature("ExtrudedCutout", cutoutFinite),
		ports.MethodCutoutThroughAll:   e.feature("ExtrudedCutout", cutoutThroughAll),
		ports.MethodRoundAdd:           e.treatment("Round"),
		ports.MethodChamferAdd:         e.treatment("Chamfer"),
		ports.MethodModelsList:         e.listFeatures,

		ports.MethodVariablesList: e.listVariables,
		ports.MethodVariablesEdit: e.editVariable,
		ports.MethodVariablesAdd:  e.addVariable,

		ports.MethodBodyRange:          e.bodyRange,
		ports.MethodBodyVolume:         e.bodyVolume,
		ports.MethodBodyMassProperties: e.massProperties,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attach implements ports.Engine.
func (e *Engine) Attach(ctx context.Context) (domain.AppInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return domain.AppInfo{}, ports.ErrNoInstance
	}
	e.attached = true
	return e.info, nil
}

// Launch implements ports.Engine.
func (e *Engine) Launch(ctx context.Context) (domain.AppInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.launchErr != nil {
		return domain.AppInfo{}, e.launchErr
	}
	e.running = true
	e.attached = true
	return e.info, nil
}

// Quit implements ports.Engine. Every document is discarded.
func (e *Engine) Quit(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.attached {
		return ports.ErrNoInstance
	}
	e.running = false
	e.attached = false
	e.docs = make(map[domain.Ref]*document)
	e.order = nil
	e.profiles = make(map[domain.Ref]*profile)
	return nil
}

// Ping implements ports.Engine.
func (e *Engine) Ping(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pingErr != nil {
		return e.pingErr
	}
	if !e.running || !e.attached {
		return ports.ErrNoInstance
	}
	return nil
}

// Alive implements ports.Engine.
func (e *Engine) Alive(ctx context.Context, ref domain.Ref) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.attached {
		return false
	}
	if _, ok := e.docs[ref]; ok {
		return true
	}
	_, ok := e.profiles[ref]
	return ok
}

// Invoke implements ports.Engine.
func (e *Engine) Invoke(ctx context.Context, call ports.Call) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, call)

	if !e.attached {
		return nil, fmt.Errorf("%s: %w", call.Method, ports.ErrNoInstance)
	}
	if err, ok := e.faults[call.Method]; ok {
		return nil, err
	}
	fn, ok := e.methods[call.Method]
	if !ok {
		return nil, fault(call.Method, "method not supported by the engine")
	}
	return fn(call.Target, call.Args)
}

// --- Test controls ---

// FailNext makes every call to method fail with err until cleared with a nil err.
func (e *Engine) FailNext(method string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.faults, method)
		return
	}
	e.faults[method] = err
}

// Crash makes the instance stop answering pings, as a hung or killed process would.
func (e *Engine) Crash(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pingErr = err
}

// CloseExternally closes a document behind the bridge's back.
func (e *Engine) CloseExternally(ref domain.Ref) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dropDocument(ref)
}

// Calls returns every call received so far.
func (e *Engine) Calls() []ports.Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ports.Call(nil), e.calls...)
}

// CallCount returns how many times method was invoked.
func (e *Engine) CallCount(method string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (e *Engine) nextRef(prefix string) domain.Ref {
	e.seq++
	return domain.Ref(fmt.Sprintf("%s:%d", prefix, e.seq))
}

func fault(method, format string, args ...any) *domain.EngineFault {
	msg := fmt.Sprintf(format, args...)
	return &domain.EngineFault{Method: method, Message: msg, Diagnostic: "sim: " + msg}
}

func (e *Engine) activateApp(domain.Ref, []any) (any, error) {
	e.info.Visible = true
	return map[string]any{"visible": true}, nil
}
