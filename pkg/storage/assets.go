package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/roastery/config"
	"github.com/shashiranjanraj/roastery/pkg/logger"
	"github.com/shashiranjanraj/roastery/pkg/metrics"
	"github.com/shashiranjanraj/roastery/pkg/workerpool"
)

// Upload is one binary attachment received with a request, parsed out of the
// multipart body before any workflow runs. The metadata part of a request is
// never mixed into this type.
type Upload struct {
	Name        string // client filename, used only for the extension
	ContentType string
	Data        []byte
}

// StoreError reports an upload acceptance or transfer failure.
type StoreError struct {
	Reason string
	Err    error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asset store: %s: %v", e.Reason, e.Err)
	}
	return "asset store: " + e.Reason
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err is a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// AssetOptions configures acceptance rules for an Assets store.
type AssetOptions struct {
	MaxBytes    int64
	AllowedMIME []string
	Pool        *workerpool.Pool // optional; bounds upload/delete concurrency
}

// DefaultAssetOptions reads the acceptance rules from config.
func DefaultAssetOptions() AssetOptions {
	return AssetOptions{
		MaxBytes:    config.UploadMaxBytes(),
		AllowedMIME: config.UploadAllowedMIME(),
	}
}

// Assets stores and deletes binary image assets on a Disk, enforcing the
// acceptance rules (size ceiling, content-type allow list) before any I/O.
// References returned by Save are opaque strings owned by exactly one record.
type Assets struct {
	disk     Disk
	diskName string
	maxBytes int64
	allowed  map[string]struct{}
	pool     *workerpool.Pool
}

// NewAssets builds an asset store over the given disk.
func NewAssets(disk Disk, diskName string, opts AssetOptions) *Assets {
	allowed := make(map[string]struct{}, len(opts.AllowedMIME))
	for _, m := range opts.AllowedMIME {
		allowed[strings.ToLower(m)] = struct{}{}
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.UploadMaxBytes()
	}
	return &Assets{
		disk:     disk,
		diskName: diskName,
		maxBytes: maxBytes,
		allowed:  allowed,
		pool:     opts.Pool,
	}
}

// Save persists one upload under folder and returns its asset reference.
// Acceptance rules are checked before any disk I/O is attempted.
func (a *Assets) Save(up Upload, folder string) (string, error) {
	if err := a.accept(up); err != nil {
		metrics.AssetUploads.WithLabelValues(a.diskName, "rejected").Inc()
		return "", err
	}

	ref := a.newRef(up, folder)
	if err := a.disk.Put(ref, up.Data); err != nil {
		metrics.AssetUploads.WithLabelValues(a.diskName, "failed").Inc()
		return "", &StoreError{Reason: "write " + ref, Err: err}
	}

	metrics.AssetUploads.WithLabelValues(a.diskName, "ok").Inc()
	metrics.AssetUploadBytes.Observe(float64(len(up.Data)))
	logger.Debug("asset stored", "ref", ref, "bytes", len(up.Data), "disk", a.diskName)
	return ref, nil
}

// SaveAll persists every upload concurrently and joins before returning.
// If any single upload fails the whole batch fails: siblings that were
// already stored in this call are deleted before the error is returned, so a
// partial batch never leaks assets.
func (a *Assets) SaveAll(ups []Upload, folder string) ([]string, error) {
	if len(ups) == 0 {
		return nil, nil
	}

	refs := make([]string, len(ups))
	errs := make([]error, len(ups))

	var wg sync.WaitGroup
	for i := range ups {
		wg.Add(1)
		i := i
		a.run(func() {
			defer wg.Done()
			refs[i], errs[i] = a.Save(ups[i], folder)
		})
	}
	wg.Wait()

	var failed error
	for _, err := range errs {
		if err != nil {
			failed = err
			break
		}
	}
	if failed == nil {
		return refs, nil
	}

	// Compensate: delete the siblings that did make it.
	var stored []string
	for _, ref := range refs {
		if ref != "" {
			stored = append(stored, ref)
		}
	}
	a.RemoveAll(stored)
	return nil, failed
}

// Remove deletes one asset reference. Deleting a reference that does not
// exist is a no-op, observable only via log and metric — never an error.
func (a *Assets) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	if !a.disk.Exists(ref) {
		metrics.AssetDeletes.WithLabelValues(a.diskName, "noop").Inc()
		logger.Debug("asset delete no-op, reference missing", "ref", ref, "disk", a.diskName)
		return nil
	}
	if err := a.disk.Delete(ref); err != nil {
		metrics.AssetDeletes.WithLabelValues(a.diskName, "failed").Inc()
		logger.Warn("asset delete failed", "ref", ref, "disk", a.diskName, "error", err)
		return err
	}
	metrics.AssetDeletes.WithLabelValues(a.diskName, "ok").Inc()
	logger.Debug("asset deleted", "ref", ref, "disk", a.diskName)
	return nil
}

// RemoveAll deletes every reference pointwise, best-effort: each deletion is
// attempted independently, failures are logged and never returned, and a
// failure in one never aborts the rest.
func (a *Assets) RemoveAll(refs []string) {
	if len(refs) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, ref := range refs {
		ref := ref
		wg.Add(1)
		a.run(func() {
			defer wg.Done()
			_ = a.Remove(ref) // already logged inside Remove
		})
	}
	wg.Wait()
}

// URL resolves an asset reference to its public URL.
func (a *Assets) URL(ref string) string { return a.disk.URL(ref) }

// ─── Internals ────────────────────────────────────────────────────────────────

func (a *Assets) accept(up Upload) error {
	if len(up.Data) == 0 {
		return &StoreError{Reason: "empty file"}
	}
	if int64(len(up.Data)) > a.maxBytes {
		return &StoreError{Reason: fmt.Sprintf("file exceeds %d bytes", a.maxBytes)}
	}

	ct := strings.ToLower(strings.TrimSpace(up.ContentType))
	if idx := strings.IndexByte(ct, ';'); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ct == "" {
		ct = strings.ToLower(http.DetectContentType(up.Data))
	}
	if _, ok := a.allowed[ct]; !ok {
		return &StoreError{Reason: fmt.Sprintf("content type %q is not allowed", ct)}
	}
	return nil
}

// newRef builds an opaque, collision-free reference: folder/timestamp-random.ext
func (a *Assets) newRef(up Upload, folder string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)

	ext := strings.ToLower(path.Ext(up.Name))
	if ext == "" {
		ext = extForMIME(up.ContentType)
	}

	name := time.Now().UTC().Format("20060102150405") + "-" + hex.EncodeToString(b) + ext
	return path.Join(strings.Trim(folder, "/"), name)
}

func extForMIME(ct string) string {
	switch strings.ToLower(ct) {
	case "image/png":
		return ".png"
	case "image/jpg", "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}

// run executes task on the shared pool when one is attached, falling back to
// an inline goroutine under backpressure or when no pool is configured.
func (a *Assets) run(task func()) {
	if a.pool != nil {
		if err := a.pool.Submit(task); err == nil {
			return
		}
	}
	go task()
}
