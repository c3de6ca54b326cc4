package msgfield

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu      sync.RWMutex
	currentLogger = zap.NewNop()
)

// SetLogger replaces the runtime logger; nil values restore the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	currentLogger = l
	loggerMu.Unlock()
}

func getLogger() *zap.Logger {
	loggerMu.RLock()
	l := currentLogger
	loggerMu.RUnlock()
	return l
}

// GlobalTypes is the process-wide registry used by RepeatedField.
var GlobalTypes = NewRegistry()

// Registry maps message names to descriptors. Files are registered at most
// once per registry no matter how many goroutines race on InitSchemaOnce.
type Registry struct {
	onceMu  sync.Mutex
	entries map[*FileDescriptor]*fileEntry

	mu       sync.RWMutex
	files    map[string]*FileDescriptor
	messages map[string]*Descriptor
	owners   map[string]*FileDescriptor
	inits    int
}

type fileEntry struct {
	once sync.Once
	err  error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  map[*FileDescriptor]*fileEntry{},
		files:    map[string]*FileDescriptor{},
		messages: map[string]*Descriptor{},
		owners:   map[string]*FileDescriptor{},
	}
}

// InitSchemaOnce registers fd and its messages. Only the first call for a
// given descriptor does any work; later and concurrent callers wait for it and
// observe the same result. A failed registration is not retried.
func (r *Registry) InitSchemaOnce(fd *FileDescriptor) error {
	if fd == nil {
		return fmt.Errorf("msgfield: nil file descriptor")
	}
	r.onceMu.Lock()
	e, ok := r.entries[fd]
	if !ok {
		e = &fileEntry{}
		r.entries[fd] = e
	}
	r.onceMu.Unlock()

	e.once.Do(func() { e.err = r.register(fd) })
	return e.err
}

func (r *Registry) register(fd *FileDescriptor) error {
	log := getLogger().With(zap.String("file", fd.Path), zap.String("package", fd.Package))

	r.mu.RLock()
	err := r.checkConflictsLocked(fd)
	r.mu.RUnlock()
	if err != nil {
		log.Warn("schema registration rejected", zap.Error(err))
		return err
	}

	if fd.Init != nil {
		if err := fd.Init(); err != nil {
			log.Warn("schema init failed", zap.Error(err))
			return fmt.Errorf("msgfield: init %s: %w", fd.Path, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// double-check: another file may have claimed a name while Init ran
	if err := r.checkConflictsLocked(fd); err != nil {
		log.Warn("schema registration rejected", zap.Error(err))
		return err
	}
	r.files[fd.Path] = fd
	for _, d := range fd.Messages {
		r.messages[d.FullName] = d
		r.owners[d.FullName] = fd
	}
	r.inits++
	log.Debug("schema registered", zap.Int("messages", len(fd.Messages)))
	return nil
}

func (r *Registry) checkConflictsLocked(fd *FileDescriptor) error {
	if other, ok := r.files[fd.Path]; ok && other != fd {
		return fmt.Errorf("%w: file %q", ErrDuplicateRegistration, fd.Path)
	}
	seen := make(map[string]struct{}, len(fd.Messages))
	for _, d := range fd.Messages {
		if d == nil || d.FullName == "" {
			return fmt.Errorf("msgfield: %s declares an unnamed message", fd.Path)
		}
		if _, dup := seen[d.FullName]; dup {
			return fmt.Errorf("%w: message %q declared twice in %s", ErrDuplicateRegistration, d.FullName, fd.Path)
		}
		seen[d.FullName] = struct{}{}
		if d.File != nil && d.File != fd {
			return fmt.Errorf("msgfield: message %q belongs to %s, not %s", d.FullName, d.File.Path, fd.Path)
		}
		if owner, ok := r.owners[d.FullName]; ok && owner != fd {
			return fmt.Errorf("%w: message %q already registered by %s", ErrDuplicateRegistration, d.FullName, owner.Path)
		}
	}
	return nil
}

// FindMessage looks up a registered message by full name.
func (r *Registry) FindMessage(fullName string) (*Descriptor, bool) {
	r.mu.RLock()
	d, ok := r.messages[fullName]
	r.mu.RUnlock()
	return d, ok
}

// Files returns the registered file paths in sorted order.
func (r *Registry) Files() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.files))
	for p := range r.files {
		out = append(out, p)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Registrations reports how many files were successfully registered.
func (r *Registry) Registrations() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inits
}
