package resolver

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
)

// fakeReader counts reads so tests can prove cache hits do no I/O.
type fakeReader struct {
	files []string
	err   error
	reads int
}

func (f *fakeReader) RecentFiles() ([]string, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return f.files, nil
}

func TestResolveFromHistory(t *testing.T) {
	reader := &fakeReader{files: []string{
		"/home/u/boards/amp/amp.kicad_pro",
		"/home/u/boards/board1/board1.kicad_pro",
	}}
	r := New(reader)
	at := time.Now()

	project, err := r.Resolve("board1", at)

	require.NoError(t, err)
	assert.Equal(t, "board1", project.Name)
	assert.Equal(t, "/home/u/boards/board1/board1.kicad_pro", project.Path)
	assert.Equal(t, at, project.ResolvedAt)
}

func TestResolveMostRecentWins(t *testing.T) {
	// Two projects share the document name; KiCad lists the most
	// recently opened first and that one must win.
	reader := &fakeReader{files: []string{
		"/home/u/boards/rev2/board1.kicad_pro",
		"/home/u/boards/rev1/board1.kicad_pro",
	}}
	r := New(reader)

	project, err := r.Resolve("board1", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "/home/u/boards/rev2/board1.kicad_pro", project.Path)
}

func TestResolveCacheHitDoesNotRead(t *testing.T) {
	reader := &fakeReader{files: []string{"/home/u/boards/board1/board1.kicad_pro"}}
	r := New(reader)
	at := time.Now()

	first, err := r.Resolve("board1", at)
	require.NoError(t, err)

	second, err := r.Resolve("board1", at.Add(constants.ResolutionTTL/2))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reader.reads)
}

func TestResolveCacheExpires(t *testing.T) {
	reader := &fakeReader{files: []string{"/home/u/boards/board1/board1.kicad_pro"}}
	r := New(reader)
	at := time.Now()

	_, err := r.Resolve("board1", at)
	require.NoError(t, err)

	_, err = r.Resolve("board1", at.Add(constants.ResolutionTTL+time.Second))
	require.NoError(t, err)

	assert.Equal(t, 2, reader.reads)
}

func TestResolveInvalidateForcesReread(t *testing.T) {
	reader := &fakeReader{files: []string{"/home/u/boards/board1/board1.kicad_pro"}}
	r := New(reader)
	at := time.Now()

	_, err := r.Resolve("board1", at)
	require.NoError(t, err)

	r.Invalidate()

	_, err = r.Resolve("board1", at.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 2, reader.reads)
}

func TestResolveNotFound(t *testing.T) {
	reader := &fakeReader{files: []string{"/home/u/boards/amp/amp.kicad_pro"}}
	r := New(reader)

	_, err := r.Resolve("board1", time.Now())

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveEmptyNameSkipsRead(t *testing.T) {
	reader := &fakeReader{}
	r := New(reader)

	_, err := r.Resolve("", time.Now())

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, reader.reads)
}

func TestResolveConfigUnreadable(t *testing.T) {
	reader := &fakeReader{err: errors.New("permission denied")}
	r := New(reader)

	_, err := r.Resolve("board1", time.Now())

	assert.True(t, errors.Is(err, ErrConfigUnreadable))
}

func TestResolveEvictsOldest(t *testing.T) {
	var files []string
	for i := 0; i <= constants.MaxCachedProjects; i++ {
		files = append(files, fmt.Sprintf("/home/u/boards/p%d/p%d.kicad_pro", i, i))
	}
	reader := &fakeReader{files: files}
	r := New(reader)
	at := time.Now()

	// Fill one past the cache bound; p0 is the oldest entry.
	for i := 0; i <= constants.MaxCachedProjects; i++ {
		_, err := r.Resolve(fmt.Sprintf("p%d", i), at.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	readsAfterFill := reader.reads

	// p0 was evicted so resolving it reads again; the newest entry is
	// still cached.
	_, err := r.Resolve("p0", at.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, readsAfterFill+1, reader.reads)

	newest := fmt.Sprintf("p%d", constants.MaxCachedProjects)
	_, err = r.Resolve(newest, at.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, readsAfterFill+1, reader.reads)
}
