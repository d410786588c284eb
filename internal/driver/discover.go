// Package driver resolves a compilation unit's context clause, finds
// with'd units along include paths, orders elaboration, and drives a
// compilation end to end (§4.8, §6's source discovery rules).
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Includes is an ordered list of directories searched for a with'd
// unit's source file, exactly as -I options accumulate in order.
type Includes []string

// Find locates the source file for a fully-qualified unit name such as
// "A.B" by trying, in include-path order, lower-cased "a.b.ads",
// "a.b.adb", then "a.b.ada" (§6).
func (inc Includes) Find(unitName string) (string, error) {
	base := strings.ToLower(unitName)
	for _, dir := range inc {
		for _, ext := range []string{".ads", ".adb", ".ada"} {
			candidate := filepath.Join(dir, base+ext)
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("driver: unit %q not found on include path", unitName)
}

// FindSpec is Find restricted to a spec file (.ads), used when parsing
// a subunit's `separate (P)` parent before the subunit's own body.
func (inc Includes) FindSpec(unitName string) (string, error) {
	base := strings.ToLower(unitName)
	for _, dir := range inc {
		candidate := filepath.Join(dir, base+".ads")
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("driver: spec for unit %q not found on include path", unitName)
}
