package bind

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/roastery/pkg/storage"
)

// maxMultipartMemory is the in-memory threshold for multipart parsing;
// larger parts spill to temp files.
const maxMultipartMemory = 8 << 20 // 8 MB

// Multipart parses a multipart/form-data request into two explicit halves:
// the text fields are bound into dest by `json` tag, and every file under
// fileField is read into a storage.Upload.
//
// No validation runs here. The workflow that receives the halves validates
// the metadata itself, so nothing is uploaded for an invalid request. Size
// and content-type enforcement likewise belongs to the asset store.
func Multipart(r *http.Request, dest interface{}, fileField string) (files []storage.Upload, err error) {
	if err = r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	if err = bindForm(dest, r.MultipartForm.Value); err != nil {
		return nil, err
	}

	for _, header := range r.MultipartForm.File[fileField] {
		up, readErr := readUpload(header)
		if readErr != nil {
			return nil, fmt.Errorf("reading %q: %w", header.Filename, readErr)
		}
		files = append(files, up)
	}

	return files, nil
}

func readUpload(header *multipart.FileHeader) (storage.Upload, error) {
	f, err := header.Open()
	if err != nil {
		return storage.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return storage.Upload{}, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return storage.Upload{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// bindForm assigns form values into struct fields matched by `json` tag
// (falling back to the lowercased field name). Empty values leave the
// field untouched so `nullable` rules and model defaults apply.
func bindForm(dest interface{}, values map[string][]string) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: dest must be a pointer to struct, got %T", dest)
	}

	elem := v.Elem()
	t := elem.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		vals, ok := values[name]
		if !ok || len(vals) == 0 || vals[0] == "" {
			continue
		}

		if err := setField(elem.Field(i), vals[0]); err != nil {
			return fmt.Errorf("bind: field %q: %w", name, err)
		}
	}

	return nil
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return strings.ToLower(field.Name)
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return strings.ToLower(field.Name)
	}
	return tag
}

func setField(fv reflect.Value, raw string) error {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		fv.SetFloat(n)
	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}

	return nil
}
