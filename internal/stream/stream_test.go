package stream

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stream-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return f.Name()
}

func TestFileStreamReadToEOF(t *testing.T) {
	want := []byte("hello streaming world")
	path := writeTempFile(t, want)

	fs, err := NewFileStream(path)
	if err != nil {
		t.Fatalf("NewFileStream: %v", err)
	}
	defer fs.Close()

	got, err := fs.Contents()
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Contents() mismatch:\n%s", diff)
	}
	if !fs.Eof() {
		t.Error("expected Eof() true after reading to end")
	}
}

func TestFileStreamSeekAndTell(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	fs, err := NewFileStream(path)
	if err != nil {
		t.Fatalf("NewFileStream: %v", err)
	}
	defer fs.Close()

	if _, err := fs.Seek(5, SET); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if fs.Tell() != 5 {
		t.Fatalf("Tell() = %d, want 5", fs.Tell())
	}
	got, err := fs.Read(3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "567" {
		t.Fatalf("Read() = %q, want %q", got, "567")
	}
}

func TestFileStreamSize(t *testing.T) {
	path := writeTempFile(t, make([]byte, 1234))
	fs, err := NewFileStream(path)
	if err != nil {
		t.Fatalf("NewFileStream: %v", err)
	}
	defer fs.Close()

	size, ok := fs.Size()
	if !ok || size != 1234 {
		t.Fatalf("Size() = (%d, %v), want (1234, true)", size, ok)
	}
}

func TestBoundedStreamWindow(t *testing.T) {
	path := writeTempFile(t, []byte("abcdefghijklmnopqrstuvwxyz"))
	fs, err := NewFileStream(path)
	if err != nil {
		t.Fatalf("NewFileStream: %v", err)
	}
	defer fs.Close()

	bs, err := NewBoundedStream(fs, 5, 10)
	if err != nil {
		t.Fatalf("NewBoundedStream: %v", err)
	}
	got, err := bs.Contents()
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	if string(got) != "fghijklmno" {
		t.Fatalf("Contents() = %q, want %q", got, "fghijklmno")
	}
}

func TestBoundedStreamBackwardSeek(t *testing.T) {
	path := writeTempFile(t, []byte("abcdefghijklmnopqrstuvwxyz"))
	fs, err := NewFileStream(path)
	if err != nil {
		t.Fatalf("NewFileStream: %v", err)
	}
	defer fs.Close()

	bs, err := NewBoundedStream(fs, 0, 26)
	if err != nil {
		t.Fatalf("NewBoundedStream: %v", err)
	}
	if _, err := bs.Read(20); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := bs.Seek(2, SET); err != nil {
		t.Fatalf("Seek backward: %v", err)
	}
	got, err := bs.Read(3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "cde" {
		t.Fatalf("Read() after backward seek = %q, want %q", got, "cde")
	}
}

func TestBoundedStreamEofAtWindowEnd(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	fs, err := NewFileStream(path)
	if err != nil {
		t.Fatalf("NewFileStream: %v", err)
	}
	defer fs.Close()

	bs, err := NewBoundedStream(fs, 2, 4)
	if err != nil {
		t.Fatalf("NewBoundedStream: %v", err)
	}
	got, err := bs.Read(100)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "2345" {
		t.Fatalf("Read() = %q, want %q", got, "2345")
	}
	if !bs.Eof() {
		t.Error("expected Eof() true at window end")
	}
}
