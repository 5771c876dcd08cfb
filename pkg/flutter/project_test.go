package flutter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestScanProject(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "pubspec.yaml", "name: shop_app\ndescription: A shop.\n")
	writeProjectFile(t, root, "lib/main.dart", `final a = Icon(Icons.menu);`)
	writeProjectFile(t, root, "lib/widgets/card.dart", `final b = IconButton(onPressed: f, icon: x);`)
	writeProjectFile(t, root, "lib/gen/api.g.dart", `final c = Icon(Icons.error);`)
	writeProjectFile(t, root, "test/widget_test.dart", `final d = Icon(Icons.bug_report);`)

	proj, err := ScanProject(context.Background(), root, nil, []string{"**/*.g.dart"})

	require.NoError(t, err)
	assert.Equal(t, "shop_app", proj.App)
	assert.Equal(t, "shop_app", proj.Pubspec.Name)
	assert.Equal(t, 2, proj.Files)
	require.Len(t, proj.Elements, 2)

	files := []string{proj.Elements[0].File, proj.Elements[1].File}
	assert.ElementsMatch(t, []string{"lib/main.dart", "lib/widgets/card.dart"}, files)
}

func TestScanProject_NoPubspec(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "lib/main.dart", `final a = Icon(Icons.menu);`)

	proj, err := ScanProject(context.Background(), root, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, filepath.Base(root), proj.App)
	assert.Len(t, proj.Elements, 1)
}

func TestScanProject_SkipsHiddenAndBuildDirs(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "lib/main.dart", `final a = Icon(Icons.menu);`)
	writeProjectFile(t, root, "build/lib/out.dart", `final b = Icon(Icons.close);`)
	writeProjectFile(t, root, ".dart_tool/lib/cache.dart", `final c = Icon(Icons.cached);`)

	proj, err := ScanProject(context.Background(), root, []string{"**/*.dart"}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, proj.Files)
}

func TestScanProject_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "lib/main.dart", `final a = Icon(Icons.menu);`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanProject(ctx, root, nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPubspec(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "pubspec.yaml", "name: demo\ndescription: Demo app.\nversion: 1.0.0\n")

	p, err := LoadPubspec(root)

	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, "Demo app.", p.Description)
}

func TestLoadPubspec_Missing(t *testing.T) {
	p, err := LoadPubspec(t.TempDir())

	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestLoadPubspec_Malformed(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "pubspec.yaml", "name: [unclosed\n")

	_, err := LoadPubspec(root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse pubspec")
}
