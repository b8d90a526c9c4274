package value

// The two merge primitives below break ties in opposite directions and are kept
// separate on purpose: MergeLastWins overlays fragments, DefaultsDeep fills gaps.

// MergeLastWins overlays fragments onto an empty map in order. Later fragments win
// on conflicting leaves; maps merge key by key and lists merge index by index,
// so a shorter later list only replaces the positions it covers. When the two sides
// of a conflict have different kinds the later side replaces the earlier one. Null
// fragments are skipped. Inputs are never modified.
func MergeLastWins(fragments ...Value) Value {
	acc := EmptyMap()
	for _, f := range fragments {
		if f.IsNull() {
			continue
		}
		acc = overlay(acc, f)
	}
	return acc
}

// overlay merges src on top of dst and returns the result. dst is owned by the
// caller and may be reused; src is cloned where it is kept.
func overlay(dst, src Value) Value {
	switch {
	case dst.kind == KindMap && src.kind == KindMap:
		src.m.Range(func(k string, sv Value) bool {
			if dv, ok := dst.m.Get(k); ok {
				dst.m.Set(k, overlay(dv, sv))
			} else {
				dst.m.Set(k, sv.Clone())
			}
			return true
		})
		return dst
	case dst.kind == KindList && src.kind == KindList:
		for i, sv := range src.list {
			if i < len(dst.list) {
				dst.list[i] = overlay(dst.list[i], sv)
			} else {
				dst.list = append(dst.list, sv.Clone())
			}
		}
		return dst
	default:
		return src.Clone()
	}
}

// DefaultsDeep returns authoritative with every missing field filled in from
// defaults. Fields present on the authoritative side always win, including an
// explicit null. Where both sides hold maps (or both hold lists) the fill recurses,
// so list elements are addressed by position: defaults' elements beyond the
// authoritative list's length are appended. Inputs are never modified.
func DefaultsDeep(authoritative, defaults Value) Value {
	return fillGaps(authoritative.Clone(), defaults)
}

func fillGaps(dst, src Value) Value {
	switch {
	case dst.kind == KindMap && src.kind == KindMap:
		src.m.Range(func(k string, sv Value) bool {
			dv, ok := dst.m.Get(k)
			if !ok {
				dst.m.Set(k, sv.Clone())
				return true
			}
			if dv.IsContainer() && dv.kind == sv.kind {
				dst.m.Set(k, fillGaps(dv, sv))
			}
			return true
		})
		return dst
	case dst.kind == KindList && src.kind == KindList:
		for i, sv := range src.list {
			if i >= len(dst.list) {
				dst.list = append(dst.list, sv.Clone())
				continue
			}
			if dv := dst.list[i]; dv.IsContainer() && dv.kind == sv.kind {
				dst.list[i] = fillGaps(dv, sv)
			}
		}
		return dst
	default:
		return dst
	}
}
