package fasta

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func collect(t *testing.T, src Source) ([]Record, error) {
	t.Helper()

	var out []Record
	for rec, err := range src.Records(context.Background()) {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func equalRecords(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !bytes.Equal(a[i].Seq, b[i].Seq) {
			return false
		}
	}
	return true
}

const twoRecords = ">s1 first contig\nACGT\nTTGA\n>s2\nGG\n"

var twoRecordsWant = []Record{
	{ID: "s1", Seq: []byte("ACGTTTGA")},
	{ID: "s2", Seq: []byte("GG")},
}

func TestFile_Records(t *testing.T) {
	f, err := Open(writeFile(t, "a.fa", []byte(twoRecords)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := collect(t, f)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if !equalRecords(got, twoRecordsWant) {
		t.Errorf("Records() = %+v, want %+v", got, twoRecordsWant)
	}
	if got[0].Len() != 8 {
		t.Errorf("Len() = %d, want 8", got[0].Len())
	}
}

func TestFile_Restartable(t *testing.T) {
	f, err := Open(writeFile(t, "a.fa", []byte(twoRecords)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	first, err := collect(t, f)
	if err != nil {
		t.Fatal(err)
	}
	second, err := collect(t, f)
	if err != nil {
		t.Fatal(err)
	}
	if !equalRecords(first, second) {
		t.Errorf("second pass differs: %+v vs %+v", first, second)
	}
}

func TestFile_EarlyStop(t *testing.T) {
	f, err := Open(writeFile(t, "a.fa", []byte(twoRecords)))
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, err := range f.Records(context.Background()) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		break
	}
	if n != 1 {
		t.Errorf("visited %d records, want 1", n)
	}
}

func TestFile_Empty(t *testing.T) {
	f, err := Open(writeFile(t, "empty.fa", nil))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, err := collect(t, f)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Records() = %+v, want none", got)
	}
}

func TestFile_HeaderWhitespace(t *testing.T) {
	f, err := Open(writeFile(t, "a.fa", []byte("> seq2 desc\nAAAA\n>seq3\tx\nCC\n>\t seq4\nG\n")))
	if err != nil {
		t.Fatal(err)
	}
	got, err := collect(t, f)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	want := []Record{
		{ID: "seq2", Seq: []byte("AAAA")},
		{ID: "seq3", Seq: []byte("CC")},
		{ID: "seq4", Seq: []byte("G")},
	}
	if !equalRecords(got, want) {
		t.Errorf("Records() = %+v, want %+v", got, want)
	}
}

func TestFile_EmptySequence(t *testing.T) {
	f, err := Open(writeFile(t, "a.fa", []byte(">e\n>s\nAC\n")))
	if err != nil {
		t.Fatal(err)
	}
	got, err := collect(t, f)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	want := []Record{{ID: "e"}, {ID: "s", Seq: []byte("AC")}}
	if !equalRecords(got, want) {
		t.Errorf("Records() = %+v, want %+v", got, want)
	}
}

func TestFile_Malformed(t *testing.T) {
	path := writeFile(t, "bad.fa", []byte("ACGT\n>s\nAC\n"))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err = collect(t, f)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Records() error = %v, want *FormatError", err)
	}
	if fe.Path != path {
		t.Errorf("FormatError.Path = %q, want %q", fe.Path, path)
	}
	if fe.Unwrap() == nil {
		t.Error("FormatError should wrap parser error")
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.fa"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open() error = %v, want fs.ErrNotExist", err)
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		t.Error("missing file must not be reported as format error")
	}
}

func TestOpen_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(twoRecords)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	// extension is irrelevant, content is sniffed
	f, err := Open(writeFile(t, "a.fa", buf.Bytes()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, err := collect(t, f)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if !equalRecords(got, twoRecordsWant) {
		t.Errorf("Records() = %+v, want %+v", got, twoRecordsWant)
	}
}

func TestOpen_ZipMember(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("assembly/a.fa")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(twoRecords)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	arc := writeFile(t, "contigs.zip", buf.Bytes())

	t.Run("member", func(t *testing.T) {
		f, err := Open(filepath.Join(arc, "assembly", "a.fa"))
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		got, err := collect(t, f)
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		if !equalRecords(got, twoRecordsWant) {
			t.Errorf("Records() = %+v, want %+v", got, twoRecordsWant)
		}
	})

	t.Run("missing member", func(t *testing.T) {
		if _, err := Open(filepath.Join(arc, "assembly", "b.fa")); err == nil {
			t.Error("expected error for missing member")
		}
	})

	t.Run("plain file is not an archive", func(t *testing.T) {
		plain := writeFile(t, "plain.fa", []byte(twoRecords))
		_, err := Open(filepath.Join(plain, "a.fa"))
		if err == nil {
			t.Error("expected error when parent is not an archive")
		}
	})
}

func TestRecords_Cancelled(t *testing.T) {
	f, err := Open(writeFile(t, "a.fa", []byte(twoRecords)))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, err := range f.Records(ctx) {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Records() error = %v, want context.Canceled", err)
		}
		break
	}
}

func TestCache(t *testing.T) {
	path := writeFile(t, "a.fa", []byte(twoRecords))
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCache(f)

	first, err := collect(t, c)
	if err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	if !equalRecords(first, twoRecordsWant) {
		t.Fatalf("first pass = %+v", first)
	}

	// second pass must not touch the file
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := collect(t, c)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}
	if !equalRecords(second, twoRecordsWant) {
		t.Errorf("second pass = %+v", second)
	}
}

func TestCache_IncompletePassNotKept(t *testing.T) {
	path := writeFile(t, "a.fa", []byte(twoRecords))
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCache(f)

	for range c.Records(context.Background()) {
		break
	}
	if c.loaded {
		t.Fatal("partial pass should not be cached")
	}

	got, err := collect(t, c)
	if err != nil {
		t.Fatal(err)
	}
	if !equalRecords(got, twoRecordsWant) {
		t.Errorf("Records() = %+v", got)
	}
	if !c.loaded {
		t.Error("complete pass should be cached")
	}
}

func TestCache_Error(t *testing.T) {
	f, err := Open(writeFile(t, "bad.fa", []byte(">s\nAC\n")))
	if err != nil {
		t.Fatal(err)
	}
	// make file malformed after it has been opened
	if err := os.WriteFile(f.Path(), []byte("AC\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(f)
	_, err = collect(t, c)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("Records() error = %v, want *FormatError", err)
	}
	if c.loaded {
		t.Error("failed pass should not be cached")
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.Write("s1", []byte("AC")); err != nil {
		t.Fatal(err)
	}
	if err := w.Write("s1", nil); err != nil {
		t.Fatal(err)
	}
	if err := w.Write("s2", []byte("GTAC")); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := ">s1\nAC\n>s1\n\n>s2\nGTAC\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
