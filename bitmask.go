package kariru

// bitmask256 represents a set of up to 256 component IDs. Each bit corresponds
// to one registered component type; archetypes and lenses are identified by
// the mask of the components they carry.
type bitmask256 [4]uint64

// set enables the bit for the given component ID.
func (m *bitmask256) set(bit uint8) {
	m[bit>>6] |= uint64(1) << uint64(bit&63)
}

// unset disables the bit for the given component ID.
func (m *bitmask256) unset(bit uint8) {
	m[bit>>6] &^= uint64(1) << uint64(bit&63)
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit uint8) bool {
	return (m[bit>>6] & (uint64(1) << uint64(bit&63))) != 0
}

// contains checks if every bit set in sub is also set in m. Used to decide
// whether an archetype's component set satisfies a filter or lens signature.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// intersects checks if m and other have any bit in common.
func (m bitmask256) intersects(other bitmask256) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// union returns the bitwise OR of m and other.
func (m bitmask256) union(other bitmask256) bitmask256 {
	return bitmask256{m[0] | other[0], m[1] | other[1], m[2] | other[2], m[3] | other[3]}
}

// difference returns the bits of m that are not set in other.
func (m bitmask256) difference(other bitmask256) bitmask256 {
	return bitmask256{m[0] &^ other[0], m[1] &^ other[1], m[2] &^ other[2], m[3] &^ other[3]}
}

// mask1 builds a mask holding a single component ID.
func mask1(id uint8) bitmask256 {
	var m bitmask256
	m.set(id)
	return m
}

// mask2 builds a mask holding two component IDs.
func mask2(id1, id2 uint8) bitmask256 {
	var m bitmask256
	m.set(id1)
	m.set(id2)
	return m
}

// mask3 builds a mask holding three component IDs.
func mask3(id1, id2, id3 uint8) bitmask256 {
	var m bitmask256
	m.set(id1)
	m.set(id2)
	m.set(id3)
	return m
}
