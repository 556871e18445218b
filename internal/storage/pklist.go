// internal/storage/pklist.go
package storage

import "encoding/binary"

// encodePKList packs primary keys as concatenated little-endian int32s,
// matching the original GatorDB's np.int32 pointer-list encoding and
// spec.md's on-disk PK-list format.
func encodePKList(pks []int64) []byte {
	buf := make([]byte, 4*len(pks))
	for i, pk := range pks {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(int32(pk)))
	}
	return buf
}

// decodePKList unpacks a PK list; list length is bytes/4.
func decodePKList(b []byte) []int64 {
	n := len(b) / 4
	pks := make([]int64, n)
	for i := 0; i < n; i++ {
		pks[i] = int64(int32(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return pks
}

// appendPK appends pk to the end of an encoded PK list.
func appendPK(b []byte, pk int64) []byte {
	tail := make([]byte, 4)
	binary.LittleEndian.PutUint32(tail, uint32(int32(pk)))
	return append(b, tail...)
}

// removePK removes the first occurrence of pk from an encoded PK list.
// It reports whether the resulting list is empty.
func removePK(b []byte, pk int64) ([]byte, bool) {
	pks := decodePKList(b)
	for i, v := range pks {
		if v == pk {
			pks = append(pks[:i], pks[i+1:]...)
			break
		}
	}
	return encodePKList(pks), len(pks) == 0
}
