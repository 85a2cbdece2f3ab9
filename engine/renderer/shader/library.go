package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"gopkg.in/yaml.v3"
)

// definitionSuffix is appended to a shader id to locate its definition file.
const definitionSuffix = ".shader.yaml"

// Definition is a shader id resolved to its raw stage sources.
type Definition struct {
	// ID is the logical shader identifier.
	ID string

	// VertexSource is the raw vertex stage source. DefaultVertexSource when the definition names none.
	VertexSource string

	// FragmentSource is the raw fragment stage source. DefaultFragmentSource when the definition names none.
	FragmentSource string

	// ScalingFactor is the declared output scaling factor, 0 when not declared.
	ScalingFactor float64
}

// definitionFile is the YAML layout of a <id>.shader.yaml file.
// Stage paths are relative to the library root.
type definitionFile struct {
	Vertex        string  `yaml:"vertex"`
	Fragment      string  `yaml:"fragment"`
	ScalingFactor float64 `yaml:"scaling_factor"`
}

// library is the implementation of the Library interface.
type library struct {
	fsys   fs.FS
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]Definition

	workers int
}

// Library resolves logical shader ids to stage sources stored in a file system.
// A shader "water_ripple" is described by "water_ripple.shader.yaml":
//
//	vertex: water_ripple.vert
//	fragment: water_ripple.frag
//	scaling_factor: 1
//
// Resolved definitions are cached. Library methods are safe for concurrent use.
type Library interface {
	// Definition resolves id, reading it from the file system on first use.
	//
	// Parameters:
	//   - id: the logical shader identifier
	//
	// Returns:
	//   - Definition: the resolved definition
	//   - error: ErrSourceNotFound (wrapped) if the id has no definition file, or a read/parse error
	Definition(id string) (Definition, error)

	// Prefetch resolves the given ids in parallel on the library's worker pool so later
	// Definition calls on the render thread do not block on file I/O.
	//
	// Parameters:
	//   - ids: the shader ids to resolve
	//
	// Returns:
	//   - error: the joined errors of every id that failed to resolve
	Prefetch(ids ...string) error

	// Forget drops id from the cache so the next Definition call reads it again.
	//
	// Parameters:
	//   - id: the shader id to evict
	Forget(id string)

	// FS returns the file system sources and includes are read from.
	//
	// Returns:
	//   - fs.FS: the library file system
	FS() fs.FS
}

var _ Library = &library{}

// NewLibrary creates a Library reading from fsys.
//
// Parameters:
//   - fsys: the file system holding definition and stage files
//   - options: functional options to configure the library
//
// Returns:
//   - Library: the new library
func NewLibrary(fsys fs.FS, options ...LibraryBuilderOption) Library {
	l := &library{
		fsys:    fsys,
		logger:  slog.New(slog.DiscardHandler),
		cache:   make(map[string]Definition),
		workers: 4,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *library) Definition(id string) (Definition, error) {
	l.mu.Lock()
	def, ok := l.cache[id]
	l.mu.Unlock()
	if ok {
		return def, nil
	}

	def, err := l.read(id)
	if err != nil {
		return Definition{}, err
	}

	l.mu.Lock()
	l.cache[id] = def
	l.mu.Unlock()
	return def, nil
}

func (l *library) Prefetch(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	// One single-worker pool per lane: a pool's Stop only reliably ends its workers
	// when each pool owns exactly one.
	lanes := make([]worker.DynamicWorkerPool, min(l.workers, len(ids)))
	for i := range lanes {
		lanes[i] = worker.NewDynamicWorkerPool(1, len(ids)/len(lanes)+1, time.Second)
	}
	defer func() {
		for _, pool := range lanes {
			pool.Stop()
		}
	}()

	for i, id := range ids {
		wg.Add(1)
		idCap := id
		lanes[i%len(lanes)].SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				_, err := l.Definition(idCap)
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				return nil, err
			},
		})
	}
	wg.Wait()

	l.logger.Debug("shader sources prefetched", "count", len(ids), "failed", len(errs))
	return errors.Join(errs...)
}

func (l *library) Forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, id)
}

func (l *library) FS() fs.FS {
	return l.fsys
}

// read loads and parses the definition file for id and the stage files it names.
func (l *library) read(id string) (Definition, error) {
	if l.fsys == nil {
		return Definition{}, fmt.Errorf("%w: %q (no shader directory configured)", ErrSourceNotFound, id)
	}

	defPath := id + definitionSuffix
	data, err := fs.ReadFile(l.fsys, defPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Definition{}, fmt.Errorf("%w: %q", ErrSourceNotFound, id)
	}
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read shader definition %q: %w", defPath, err)
	}

	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Definition{}, fmt.Errorf("failed to parse shader definition %q: %w", defPath, err)
	}

	def := Definition{
		ID:             id,
		VertexSource:   DefaultVertexSource,
		FragmentSource: DefaultFragmentSource,
		ScalingFactor:  file.ScalingFactor,
	}
	if file.Vertex != "" {
		if def.VertexSource, err = l.readStage(id, file.Vertex); err != nil {
			return Definition{}, err
		}
	}
	if file.Fragment != "" {
		if def.FragmentSource, err = l.readStage(id, file.Fragment); err != nil {
			return Definition{}, err
		}
	}

	l.logger.Debug("shader definition loaded", "id", id, "vertex", file.Vertex, "fragment", file.Fragment)
	return def, nil
}

func (l *library) readStage(id, file string) (string, error) {
	data, err := fs.ReadFile(l.fsys, path.Clean(file))
	if err != nil {
		return "", fmt.Errorf("shader %q: failed to read stage file %q: %w", id, file, err)
	}
	return string(data), nil
}
