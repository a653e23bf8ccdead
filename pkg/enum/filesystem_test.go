package enum

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/printkit/gpost/pkg/types"
)

const sampleGCode = ";FLAVOR:Marlin\n;LAYER:0\nG1 Z0.2\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

// enumerateNames runs the enumerator and returns the sorted base names it yielded.
func enumerateNames(t *testing.T, config Config) []string {
	t.Helper()

	var (
		mu    sync.Mutex
		names []string
	)
	err := NewFilesystemEnumerator(config).Enumerate(context.Background(), func(content []byte, id types.ContentID, prov types.Provenance) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, filepath.Base(prov.Path()))
		return nil
	})
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	sort.Strings(names)
	return names
}

func TestFilesystemEnumerator(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, "a.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, "b.GCO"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, "notes.txt"), "not gcode")
	writeFile(t, filepath.Join(tmpDir, "subdir", "c.g"), sampleGCode)

	var (
		mu    sync.Mutex
		found []string
	)
	err := NewFilesystemEnumerator(Config{Root: tmpDir}).Enumerate(context.Background(), func(content []byte, id types.ContentID, prov types.Provenance) error {
		mu.Lock()
		defer mu.Unlock()
		found = append(found, filepath.Base(prov.Path()))
		if id != types.ComputeContentID(content) {
			t.Errorf("content ID mismatch for %s", prov.Path())
		}
		if prov.Kind() != "file" {
			t.Errorf("expected file provenance, got %s", prov.Kind())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}

	sort.Strings(found)
	want := []string{"a.gcode", "b.GCO", "c.g"}
	if len(found) != len(want) {
		t.Fatalf("expected %v, got %v", want, found)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("expected %s, got %s", want[i], found[i])
		}
	}
}

func TestFilesystemEnumerator_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "print.txt")
	writeFile(t, path, sampleGCode)

	// a file named explicitly is read whatever its extension
	names := enumerateNames(t, Config{Root: path})
	if len(names) != 1 || names[0] != "print.txt" {
		t.Errorf("expected [print.txt], got %v", names)
	}
}

func TestFilesystemEnumerator_MissingRoot(t *testing.T) {
	err := NewFilesystemEnumerator(Config{Root: filepath.Join(t.TempDir(), "nope")}).Enumerate(context.Background(),
		func(content []byte, id types.ContentID, prov types.Provenance) error { return nil })
	if err == nil {
		t.Error("expected error for missing root")
	}
}

func TestFilesystemEnumerator_SkipsOutputFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "part.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, "part_GE.gcode"), sampleGCode)

	names := enumerateNames(t, Config{Root: tmpDir, SkipSuffix: "_GE"})
	if len(names) != 1 || names[0] != "part.gcode" {
		t.Errorf("expected [part.gcode], got %v", names)
	}

	names = enumerateNames(t, Config{Root: tmpDir})
	if len(names) != 2 {
		t.Errorf("expected 2 files without a skip suffix, got %v", names)
	}
}

func TestFilesystemEnumerator_CustomExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, "b.nc"), sampleGCode)

	names := enumerateNames(t, Config{Root: tmpDir, Extensions: []string{".nc"}})
	if len(names) != 1 || names[0] != "b.nc" {
		t.Errorf("expected [b.nc], got %v", names)
	}
}

func TestFilesystemEnumerator_HiddenFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "visible.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, ".hidden.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, ".cache", "cached.gcode"), sampleGCode)

	names := enumerateNames(t, Config{Root: tmpDir})
	if len(names) != 1 || names[0] != "visible.gcode" {
		t.Errorf("expected [visible.gcode], got %v", names)
	}

	names = enumerateNames(t, Config{Root: tmpDir, IncludeHidden: true})
	if len(names) != 3 {
		t.Errorf("expected 3 files, got %v", names)
	}
}

func TestFilesystemEnumerator_MaxFileSize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "small.gcode"), "G28\n")
	large := make([]byte, 2000)
	for i := range large {
		large[i] = 'G'
	}
	writeFile(t, filepath.Join(tmpDir, "large.gcode"), string(large))

	names := enumerateNames(t, Config{Root: tmpDir, MaxFileSize: 1000})
	if len(names) != 1 || names[0] != "small.gcode" {
		t.Errorf("expected [small.gcode], got %v", names)
	}
}

func TestFilesystemEnumerator_BinaryFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "text.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, "binary.gcode"), string([]byte{0x47, 0x43, 0x44, 0x45, 0x00, 0x01}))

	names := enumerateNames(t, Config{Root: tmpDir})
	if len(names) != 1 || names[0] != "text.gcode" {
		t.Errorf("expected [text.gcode], got %v", names)
	}
}

func TestFilesystemEnumerator_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gitignore"), "ignored.gcode\n*_draft.gcode\n")
	writeFile(t, filepath.Join(tmpDir, "included.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, "ignored.gcode"), sampleGCode)
	writeFile(t, filepath.Join(tmpDir, "part_draft.gcode"), sampleGCode)

	names := enumerateNames(t, Config{Root: tmpDir})
	if len(names) != 1 || names[0] != "included.gcode" {
		t.Errorf("expected [included.gcode], got %v", names)
	}
}

func TestFilesystemEnumerator_CurrentDirectory(t *testing.T) {
	// Regression test: walking "." must not skip everything because "." starts with a dot
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "part.gcode"), sampleGCode)

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	defer os.Chdir(originalDir)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to temp directory: %v", err)
	}

	names := enumerateNames(t, Config{Root: "."})
	if len(names) != 1 || names[0] != "part.gcode" {
		t.Errorf("expected [part.gcode] when walking '.', got %v", names)
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"current dir", ".", false},
		{"parent dir", "..", false},
		{"hidden file", ".hidden.gcode", true},
		{"hidden directory", ".git", true},
		{"normal file", "part.gcode", false},
		{"normal directory", "prints", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHidden(tt.filename); got != tt.want {
				t.Errorf("isHidden(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFilesystemEnumerator_ContextCancellation(t *testing.T) {
	tmpDir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, filepath.Join(tmpDir, string(rune('a'+i))+".gcode"), sampleGCode)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu    sync.Mutex
		count int
	)
	err := NewFilesystemEnumerator(Config{Root: tmpDir}).Enumerate(ctx, func(content []byte, id types.ContentID, prov types.Provenance) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		if count == 3 {
			cancel()
		}
		return nil
	})

	if err != context.Canceled {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
}
