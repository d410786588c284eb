package ali

import (
	"bytes"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	f := &File{
		Version: "1",
		Unit:    "MATH_UTILS",
		Withs:   []With{{Unit: "STANDARD", MTime: 42}},
		Depends: []string{"STANDARD"},
		Exports: []Export{
			{MangledName: "MATH_UTILS__SQUARE", Return: ArgI64, Args: []ArgKind{ArgI64}},
			{MangledName: "MATH_UTILS__RESET", Return: ArgVoid},
		},
		Exceptions:  []string{"CONSTRAINT_ERROR"},
		Elaboration: 1,
	}

	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Unit != f.Unit || got.Version != f.Version || got.Elaboration != f.Elaboration {
		t.Fatalf("header mismatch: got %+v", got)
	}
	if len(got.Withs) != 1 || got.Withs[0].Unit != "STANDARD" || got.Withs[0].MTime != 42 {
		t.Fatalf("withs mismatch: got %+v", got.Withs)
	}
	if len(got.Exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(got.Exports))
	}
	sq := got.Exports[0]
	if sq.MangledName != "MATH_UTILS__SQUARE" || sq.Return != ArgI64 || len(sq.Args) != 1 || sq.Args[0] != ArgI64 {
		t.Fatalf("export 0 mismatch: got %+v", sq)
	}
	if len(got.Exceptions) != 1 || got.Exceptions[0] != "CONSTRAINT_ERROR" {
		t.Fatalf("exceptions mismatch: got %+v", got.Exceptions)
	}
}

func TestReadRejectsUnknownRecord(t *testing.T) {
	_, err := Read(bytes.NewBufferString("V 1\nUnit X\nZ bogus\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown record tag")
	}
}
