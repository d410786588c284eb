package driver

import (
	"fmt"

	"adalite/internal/ast"
	"adalite/internal/source"
)

// elaborationUnit pairs one parsed library unit with the name it was
// discovered under.
type elaborationUnit struct {
	Name source.StringID
	Unit ast.Unit
}

// elaborate resolves rootPath's full with-closure and returns every
// unit that must be resolved, in dependency order (a with'd unit
// always precedes its dependent, matching §4.8's elaboration rule).
func (c *Context) elaborate(rootPath string) ([]elaborationUnit, error) {
	var order []elaborationUnit
	visiting := make(map[source.StringID]bool)
	visited := make(map[source.StringID]bool)

	var visitFile func(path string, asName source.StringID) error
	visitFile = func(path string, asName source.StringID) error {
		emit(c.Progress, path, StageParse, StatusWorking, nil, 0)
		f, err := c.parseFile(path)
		if err != nil {
			emit(c.Progress, path, StageParse, StatusError, err, 0)
			return err
		}
		for i := range f.Units {
			u := f.Units[i]
			name := unitName(c.Builder, u)
			if name == source.NoStringID {
				name = asName
			}
			if visited[name] {
				continue
			}
			if visiting[name] {
				return fmt.Errorf("circular with-dependency involving unit %q", c.Strings.Spelling(name))
			}
			visiting[name] = true
			for _, w := range u.Context.Withs {
				if visited[w.Name] {
					continue
				}
				wp, ferr := c.Includes.Find(c.Strings.Spelling(w.Name))
				if ferr != nil {
					return fmt.Errorf("unit %q: %w", c.Strings.Spelling(w.Name), ferr)
				}
				if err := visitFile(wp, w.Name); err != nil {
					return err
				}
			}
			visiting[name] = false
			visited[name] = true
			emit(c.Progress, c.Strings.Spelling(name), StageParse, StatusDone, nil, 0)
			order = append(order, elaborationUnit{Name: name, Unit: u})
		}
		return nil
	}

	if err := visitFile(rootPath, source.NoStringID); err != nil {
		return nil, err
	}
	return order, nil
}

// unitName recovers the declared name of a library unit's top-level
// declaration, for with-closure bookkeeping.
func unitName(b *ast.Builder, u ast.Unit) source.StringID {
	switch u.Kind {
	case ast.UnitPackageSpec:
		return b.Decls.PackageSpec(u.Decl).Name
	case ast.UnitPackageBody:
		return b.Decls.PackageBody(u.Decl).Name
	case ast.UnitSubprogramSpec:
		return b.Decls.SubprogramSpec(u.Decl).Name
	case ast.UnitSubprogramBody:
		body := b.Decls.SubprogramBody(u.Decl)
		if spec := b.Decls.SubprogramSpec(body.Spec); spec != nil {
			return spec.Name
		}
	}
	return source.NoStringID
}
