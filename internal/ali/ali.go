// Package ali reads and writes the per-unit interface descriptor that
// lets a compilation resolve with'd units without re-parsing their
// bodies (§6). The on-disk interchange format is a flat ASCII line
// format; an optional msgpack-encoded .alic companion caches the same
// information keyed by source mtime so repeated builds in one tree
// skip re-parsing a .ali that hasn't changed, mirroring the teacher's
// own text-interchange-plus-binary-cache split for its module
// metadata.
package ali

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ArgKind is the LLVM scalar kind of an exported subprogram's
// parameter or return value, as recorded in an X record.
type ArgKind string

const (
	ArgVoid   ArgKind = "void"
	ArgI64    ArgKind = "i64"
	ArgDouble ArgKind = "double"
	ArgPtr    ArgKind = "ptr"
)

// With is one W record: a unit this unit's context clause names,
// together with that unit's source mtime at the time this .ali was
// written (used to decide whether a cached read is stale).
type With struct {
	Unit  string
	MTime int64
}

// Export is one X record: an externally callable subprogram's mangled
// name and signature, enough for a caller to emit a `declare` without
// having seen the body.
type Export struct {
	MangledName string
	Return      ArgKind
	Args        []ArgKind
}

// File is one fully-parsed .ali file's contents.
type File struct {
	Version    string
	Unit       string
	Withs      []With
	Depends    []string // D records: depended-package names, order preserved
	Exports    []Export
	Exceptions []string // H records
	Elaboration int     // E record
}

// Write renders f in the §6 ASCII record format.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "V %s\n", nonEmpty(f.Version, "1.0"))
	fmt.Fprintf(bw, "Unit %s\n", f.Unit)
	for _, wi := range f.Withs {
		fmt.Fprintf(bw, "W %s %d\n", wi.Unit, wi.MTime)
	}
	for _, d := range f.Depends {
		fmt.Fprintf(bw, "D %s\n", d)
	}
	for _, x := range f.Exports {
		parts := make([]string, 0, len(x.Args)+2)
		parts = append(parts, x.MangledName, string(x.Return))
		for _, a := range x.Args {
			parts = append(parts, string(a))
		}
		fmt.Fprintf(bw, "X %s\n", strings.Join(parts, " "))
	}
	for _, h := range f.Exceptions {
		fmt.Fprintf(bw, "H %s\n", h)
	}
	fmt.Fprintf(bw, "E %d\n", f.Elaboration)
	return bw.Flush()
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Read parses a .ali file's ASCII records out of r.
func Read(r io.Reader) (*File, error) {
	f := &File{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tag, rest, _ := strings.Cut(line, " ")
		switch tag {
		case "V":
			f.Version = rest
		case "Unit":
			f.Unit = rest
		case "W":
			fields := strings.Fields(rest)
			if len(fields) != 2 {
				return nil, fmt.Errorf("ali: malformed W record %q", line)
			}
			mt, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("ali: malformed W mtime %q: %w", line, err)
			}
			f.Withs = append(f.Withs, With{Unit: fields[0], MTime: mt})
		case "D":
			f.Depends = append(f.Depends, rest)
		case "X":
			fields := strings.Fields(rest)
			if len(fields) < 2 {
				return nil, fmt.Errorf("ali: malformed X record %q", line)
			}
			x := Export{MangledName: fields[0], Return: ArgKind(fields[1])}
			for _, a := range fields[2:] {
				x.Args = append(x.Args, ArgKind(a))
			}
			f.Exports = append(f.Exports, x)
		case "H":
			f.Exceptions = append(f.Exceptions, rest)
		case "E":
			n, err := strconv.Atoi(rest)
			if err != nil {
				return nil, fmt.Errorf("ali: malformed E record %q: %w", line, err)
			}
			f.Elaboration = n
		default:
			return nil, fmt.Errorf("ali: unknown record tag %q", tag)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return f, nil
}
