package preview

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent_FiltersEditorNoise(t *testing.T) {
	ignored := []string{
		"content/.index.md.swx",
		"content/#guide.md#",
		"content/guide.md.swp",
		"content/guide.md~",
		".git",
	}
	for _, path := range ignored {
		require.True(t, shouldIgnoreEvent(path), path)
	}

	watched := []string{
		"content/guide.md",
		"content/house-rules/rope-jam.md",
		"template.html",
		"content/v1.2/notes.md",
	}
	for _, path := range watched {
		require.False(t, shouldIgnoreEvent(path), path)
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	rebuildReq, trigger := debouncer()

	for i := 0; i < 5; i++ {
		trigger()
	}

	select {
	case <-rebuildReq:
	case <-time.After(2 * debounceDelay):
		t.Fatal("expected a rebuild request after the debounce delay")
	}

	// A burst collapses into a single queued rebuild.
	select {
	case <-rebuildReq:
		t.Fatal("burst produced more than one rebuild request")
	case <-time.After(2 * debounceDelay):
	}
}

func TestNewServer_ServesOutputAndHealth(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "index.html"), []byte("<html>home</html>"), 0o644))

	srv := newServer(outputDir, nil, 0)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "home")
}
