package types

// Default bit widths for predefined scalar kinds, used when a
// descriptor's Size/Align were never explicitly set (e.g. STANDARD's
// predefined types).
const (
	defaultScalarBits = 64
	byteBits          = 8
	ptrBits           = 64
)

// Freeze computes id's layout (and recursively that of every type it
// references) and marks it Frozen. It is idempotent: a type already
// frozen is left untouched. It returns newlyFrozen so its caller,
// symbols.Table.CloseScope, knows whether to invoke the resolver's
// operator synthesizer for a nominal record/array type (§4.2).
//
// The `freezing` flag guards reentrancy for a record whose component
// is `access T` where T is the record itself (or mutually recursive
// through a chain of access types): an access type's own size/align
// are always pointer-sized and never depend on its designated type
// being frozen, so recursion stops there (§9).
func (t *Table) Freeze(id TypeID) (newlyFrozen bool) {
	ty := t.Get(id)
	if ty == nil || ty.Frozen || ty.freezing {
		return false
	}
	ty.freezing = true
	defer func() { ty.freezing = false }()

	switch ty.Kind {
	case KindAccess:
		ty.Size, ty.Align = ptrBits, ptrBits
		// The designated type is frozen lazily at dereference/alloc
		// sites, not here, so an incomplete (self-referential) access
		// type never deadlocks the freezer (§9).
	case KindRecord:
		t.freezeRecord(ty)
	case KindArray:
		t.freezeArray(ty)
	case KindFatPointer, KindString:
		ty.Size, ty.Align = ptrBits*2, ptrBits
	default:
		if ty.Base != NoTypeID {
			t.Freeze(ty.Base)
			base := t.Get(ty.Base)
			ty.Size, ty.Align = base.Size, base.Align
		} else if ty.Size == 0 {
			ty.Size, ty.Align = defaultScalarBits, defaultScalarBits
		}
	}
	ty.Frozen = true
	return true
}

// freezeRecord lays out components sequentially, rounding each offset
// up to its component's alignment and taking the maximum component
// alignment as the record's own (§4.2). Per REDESIGN note (c) in the
// source design, variant parts are NOT given per-variant offset reuse:
// every component across every variant branch gets its own offset,
// matching the teacher's straightforward sequential layout rather than
// the source's ambiguous overlapping scheme (§9 open question b).
func (t *Table) freezeRecord(ty *Type) {
	var offset, maxAlign uint64
	for i := range ty.Components {
		c := &ty.Components[i]
		t.Freeze(c.Type)
		ct := t.Get(c.Type)
		align := ct.Align
		if align == 0 {
			align = defaultScalarBits
		}
		if rem := offset % align; rem != 0 {
			offset += align - rem
		}
		c.Offset = offset
		offset += ct.Size
		if align > maxAlign {
			maxAlign = align
		}
	}
	if maxAlign == 0 {
		maxAlign = byteBits
	}
	if rem := offset % maxAlign; rem != 0 {
		offset += maxAlign - rem
	}
	ty.Size, ty.Align = offset, maxAlign
}

// freezeArray sizes a constrained array as element-size * length;
// unconstrained arrays size as a fat pointer (§4.7).
func (t *Table) freezeArray(ty *Type) {
	t.Freeze(ty.Elem)
	elem := t.Get(ty.Elem)
	align := elem.Align
	if align == 0 {
		align = byteBits
	}
	if !ty.HasBounds {
		ty.Size, ty.Align = ptrBits*2, ptrBits // fat pointer representation
		return
	}
	length := staticLength(ty.Low, ty.High)
	ty.Size, ty.Align = elem.Size*uint64(length), align
}

func staticLength(low, high ConstValue) int64 {
	if !low.Valid || !high.Valid || low.Int == nil || high.Int == nil {
		return 0
	}
	diff := new(int64)
	*diff = high.Int.Int64() - low.Int.Int64() + 1
	if *diff < 0 {
		return 0
	}
	return *diff
}
