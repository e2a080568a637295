package storage_test

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/roastery/pkg/storage"
)

func newTestAssets(t *testing.T) (*storage.Assets, string) {
	t.Helper()
	root := t.TempDir()
	disk := storage.NewLocalDisk(root, "/storage")
	assets := storage.NewAssets(disk, "local", storage.AssetOptions{
		MaxBytes:    5 << 20,
		AllowedMIME: []string{"image/png", "image/jpg", "image/jpeg"},
	})
	return assets, root
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return n
}

func pngUpload(name string, data []byte) storage.Upload {
	return storage.Upload{Name: name, ContentType: "image/png", Data: data}
}

func TestSaveAndRemove(t *testing.T) {
	assets, root := newTestAssets(t)

	ref, err := assets.Save(pngUpload("beans.png", []byte("fake png bytes")), "products")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref == "" {
		t.Fatal("Save returned an empty reference")
	}
	if countFiles(t, root) != 1 {
		t.Fatalf("expected 1 stored file, found %d", countFiles(t, root))
	}

	if err := assets.Remove(ref); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if countFiles(t, root) != 0 {
		t.Fatal("file still present after Remove")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	assets, _ := newTestAssets(t)

	// A reference that was never stored must delete as a silent no-op.
	if err := assets.Remove("products/never-stored.png"); err != nil {
		t.Fatalf("Remove of missing reference returned %v, want nil", err)
	}

	ref, err := assets.Save(pngUpload("a.png", []byte("x")), "products")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := assets.Remove(ref); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := assets.Remove(ref); err != nil {
		t.Fatalf("second Remove returned %v, want nil", err)
	}
}

func TestAcceptanceRunsBeforeIO(t *testing.T) {
	root := t.TempDir()
	disk := storage.NewLocalDisk(root, "/storage")
	assets := storage.NewAssets(disk, "local", storage.AssetOptions{
		MaxBytes:    16,
		AllowedMIME: []string{"image/png"},
	})

	cases := []struct {
		name string
		up   storage.Upload
	}{
		{"oversize", pngUpload("big.png", bytes.Repeat([]byte("a"), 17))},
		{"bad content type", storage.Upload{Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("x")}},
		{"empty", pngUpload("empty.png", nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := assets.Save(tc.up, "products")
			if !storage.IsStoreError(err) {
				t.Fatalf("expected a StoreError, got %v", err)
			}
			if countFiles(t, root) != 0 {
				t.Fatal("rejected upload reached the disk")
			}
		})
	}
}

// failingDisk wraps a real disk and fails Put for payloads marked FAIL.
type failingDisk struct {
	storage.Disk
}

func (d *failingDisk) Put(path string, content []byte) error {
	if bytes.HasPrefix(content, []byte("FAIL")) {
		return errors.New("disk full")
	}
	return d.Disk.Put(path, content)
}

func TestSaveAllDeletesSiblingsOnPartialFailure(t *testing.T) {
	root := t.TempDir()
	disk := &failingDisk{Disk: storage.NewLocalDisk(root, "/storage")}
	assets := storage.NewAssets(disk, "local", storage.AssetOptions{
		MaxBytes:    5 << 20,
		AllowedMIME: []string{"image/png"},
	})

	ups := []storage.Upload{
		pngUpload("one.png", []byte("first image")),
		pngUpload("two.png", []byte("FAIL marker")),
		pngUpload("three.png", []byte("third image")),
	}

	refs, err := assets.SaveAll(ups, "products")
	if err == nil {
		t.Fatal("expected SaveAll to fail")
	}
	if refs != nil {
		t.Fatalf("expected no references on failure, got %v", refs)
	}
	if countFiles(t, root) != 0 {
		t.Fatalf("expected siblings deleted after partial failure, found %d files", countFiles(t, root))
	}
}

func TestSaveAllStoresEveryUpload(t *testing.T) {
	assets, root := newTestAssets(t)

	ups := []storage.Upload{
		pngUpload("one.png", []byte("first")),
		pngUpload("two.png", []byte("second")),
		pngUpload("three.png", []byte("third")),
	}

	refs, err := assets.SaveAll(ups, "products")
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if len(refs) != len(ups) {
		t.Fatalf("expected %d references, got %d", len(ups), len(refs))
	}
	if countFiles(t, root) != len(ups) {
		t.Fatalf("expected %d stored files, found %d", len(ups), countFiles(t, root))
	}
}

func TestRemoveAllBestEffort(t *testing.T) {
	assets, root := newTestAssets(t)

	ref1, _ := assets.Save(pngUpload("a.png", []byte("a")), "products")
	ref2, _ := assets.Save(pngUpload("b.png", []byte("b")), "products")

	// A missing reference in the batch must not stop the others.
	assets.RemoveAll([]string{ref1, "products/ghost.png", ref2})

	if countFiles(t, root) != 0 {
		t.Fatalf("expected all stored files removed, found %d", countFiles(t, root))
	}
}
