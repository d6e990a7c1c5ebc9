package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"

	"unaligned/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to a temporary file.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, names: make(map[string]struct{})}, nil
}

// item is either a file read when report is closed or content captured when
// it was stored.
type item struct {
	name     string
	path     string
	data     []byte
	deferred bool
	stamp    time.Time
}

// Report collects everything necessary to troubleshoot a single run. On Close
// items are packed into zip archive, MANIFEST first, then items in the order
// they were stored. Nil report ignores everything.
// NOTE: not to be used concurrently!
type Report struct {
	file  *os.File
	items []item
	names map[string]struct{}
}

func (r *Report) add(it item) {
	if _, exists := r.names[it.name]; exists {
		panic(fmt.Sprintf("Attempt to overwrite entry in the report [%s]", it.name))
	}
	r.names[it.name] = struct{}{}
	r.items = append(r.items, it)
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	return r.file.Name()
}

// Store remembers file to be read when report is closed, so it will have
// content at that time. Absent files are skipped.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	r.add(item{name: name, path: path, deferred: true, stamp: time.Now()})
}

func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.add(item{name: name, data: data, stamp: time.Now()})
}

// StoreCopy captures current content of the file.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r.add(item{name: name, path: path, data: data, stamp: time.Now()})
	return nil
}

func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		// no report has been requested
		return nil
	}
	arc := zip.NewWriter(r.file)
	err = r.write(arc)
	err = multierr.Append(err, arc.Close())
	err = multierr.Append(err, r.file.Close())
	r.file = nil
	return err
}

func (r *Report) write(arc *zip.Writer) error {
	manifest := new(bytes.Buffer)
	for _, it := range r.items {
		fmt.Fprintf(manifest, "%s\t%s\t%s\n", it.stamp.UTC().Format(time.RFC3339), it.name, it.path)
	}
	if err := saveFile(arc, "MANIFEST", time.Now(), manifest); err != nil {
		return err
	}

	for _, it := range r.items {
		if !it.deferred {
			if err := saveFile(arc, it.name, it.stamp, bytes.NewReader(it.data)); err != nil {
				return err
			}
			continue
		}
		if err := saveStored(arc, it.name, it.path); err != nil {
			return err
		}
	}
	return nil
}

func saveStored(arc *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		// run may end before file was created
		return nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	return saveFile(arc, name, info.ModTime(), f)
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
