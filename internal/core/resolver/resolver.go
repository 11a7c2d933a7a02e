// Package resolver maps document base names extracted from window titles
// to on-disk KiCad projects, using KiCad's own recently-opened file
// history as the source of truth.
package resolver

import (
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

var (
	// ErrNotFound means the document name has no match in KiCad's file
	// history. Expected during normal operation (brand-new project,
	// cleared history); the tick is suppressed, never failed.
	ErrNotFound = errors.New("project not found in kicad file history")

	// ErrConfigUnreadable means KiCad's settings file is missing or
	// unreadable, so no resolution is possible at all.
	ErrConfigUnreadable = errors.New("kicad settings unreadable")
)

// SettingsReader supplies KiCad's recent-files list, most recent first.
type SettingsReader interface {
	RecentFiles() ([]string, error)
}

// Resolver resolves document names against KiCad's file history with a
// bounded TTL cache in front. It is owned by the engine loop goroutine
// and holds no locks; Resolve and Invalidate must be called from that
// goroutine only.
type Resolver struct {
	reader  SettingsReader
	ttl     time.Duration
	maxSize int

	cache map[string]model.ResolvedProject

	// Anti-flood bookkeeping: one warning per failing name, and one for
	// unreadable settings, per TTL window.
	nameWarnedAt   map[string]time.Time
	configWarnedAt time.Time
}

func New(reader SettingsReader) *Resolver {
	return &Resolver{
		reader:       reader,
		ttl:          constants.ResolutionTTL,
		maxSize:      constants.MaxCachedProjects,
		cache:        make(map[string]model.ResolvedProject),
		nameWarnedAt: make(map[string]time.Time),
	}
}

// Resolve maps a document base name to a project from KiCad's history.
// at is the tick's sample time; cached entries older than the TTL are
// re-resolved. The first history entry whose base name matches wins,
// which keeps the documented "most recently opened project" behavior
// when several projects share a document name.
func (r *Resolver) Resolve(baseName string, at time.Time) (model.ResolvedProject, error) {
	if baseName == "" {
		return model.ResolvedProject{}, ErrNotFound
	}

	if cached, ok := r.cache[baseName]; ok {
		if at.Sub(cached.ResolvedAt) <= r.ttl {
			return cached, nil
		}
		delete(r.cache, baseName)
	}

	files, err := r.reader.RecentFiles()
	if err != nil {
		r.warnConfig(at, err)
		return model.ResolvedProject{}, fmt.Errorf("%w: %v", ErrConfigUnreadable, err)
	}

	for _, path := range files {
		if baseNameOf(path) != baseName {
			continue
		}
		project := model.ResolvedProject{
			Name:       baseName,
			Path:       path,
			ResolvedAt: at,
		}
		r.store(baseName, project)
		delete(r.nameWarnedAt, baseName)
		return project, nil
	}

	r.warnName(baseName, at)
	return model.ResolvedProject{}, fmt.Errorf("%w: %s", ErrNotFound, baseName)
}

// Invalidate empties the cache so history changes surface before the TTL
// elapses. Called when KiCad rewrites its settings file.
func (r *Resolver) Invalidate() {
	r.cache = make(map[string]model.ResolvedProject)
}

func (r *Resolver) store(name string, project model.ResolvedProject) {
	r.cache[name] = project
	if len(r.cache) <= r.maxSize {
		return
	}

	oldestName := ""
	var oldestAt time.Time
	for n, p := range r.cache {
		if oldestName == "" || p.ResolvedAt.Before(oldestAt) {
			oldestName = n
			oldestAt = p.ResolvedAt
		}
	}
	delete(r.cache, oldestName)
}

func (r *Resolver) warnName(name string, at time.Time) {
	if last, ok := r.nameWarnedAt[name]; ok && at.Sub(last) < r.ttl {
		return
	}
	if len(r.nameWarnedAt) > 4*r.maxSize {
		for n, t := range r.nameWarnedAt {
			if at.Sub(t) >= r.ttl {
				delete(r.nameWarnedAt, n)
			}
		}
	}
	r.nameWarnedAt[name] = at
	util.LogWarnf("Document %q has no match in KiCad's recent projects", name)
}

func (r *Resolver) warnConfig(at time.Time, err error) {
	if !r.configWarnedAt.IsZero() && at.Sub(r.configWarnedAt) < r.ttl {
		return
	}
	r.configWarnedAt = at
	util.LogWarnf("KiCad settings unavailable, heartbeats suspended: %v", err)
}
