package classfile

import "encoding/binary"

// SetTargetVersion overwrites a finished class file's major_version
// field (JVMS 4.1, bytes 6-7 after the 4-byte magic and 2-byte minor
// version) with target, unless target is lower than the version the
// builder already chose — raising the floor is always safe, lowering
// it could silently produce a file a Java 7 VM would reject despite
// containing, say, an invokedynamic instruction (spec.md §6.1's
// automatic 50->52 promotion). Used by cmd/javac-go's `--target` flag
// (SPEC_FULL.md §4.C); CompileUnit itself has no notion of an
// externally requested target, only the two fixed versions its own
// feature detection promotes between.
func SetTargetVersion(data []byte, target uint16) []byte {
	if len(data) < 8 {
		return data
	}
	current := binary.BigEndian.Uint16(data[6:8])
	if target <= current {
		return data
	}
	out := make([]byte, len(data))
	copy(out, data)
	binary.BigEndian.PutUint16(out[6:8], target)
	return out
}
