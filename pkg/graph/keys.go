package graph

import "encoding/binary"

// VertexID identifies a vertex. Zero is never allocated and means "no such vertex".
type VertexID uint32

// NoVertex is the absent-vertex sentinel.
const NoVertex VertexID = 0

// Key layout
//
//	counter      0x1d 0x00                    -> 4-byte LE counter
//	name index   namespaced name bytes        -> 4-byte LE id
//	alias list   "vtx" 0x00 + 4-byte LE id    -> NUL-terminated names
//	adjacency    "edg" 0x00 + 4-byte LE id    -> packed 4-byte LE ids
//
// The NUL after each family tag keeps the families apart from names, which are
// NUL-free.
const (
	idSize  = 4
	keySize = 4 + idSize
)

var (
	counterKey   = []byte{0x1d, 0x00}
	vertexPrefix = []byte{'v', 't', 'x', 0x00}
	edgePrefix   = []byte{'e', 'd', 'g', 0x00}
)

func familyKey(prefix []byte, id VertexID) []byte {
	k := make([]byte, keySize)
	copy(k, prefix)
	binary.LittleEndian.PutUint32(k[len(prefix):], uint32(id))
	return k
}

func idFromFamilyKey(prefix, key []byte) VertexID {
	if len(key) != keySize || string(key[:len(prefix)]) != string(prefix) {
		return NoVertex
	}
	return VertexID(binary.LittleEndian.Uint32(key[len(prefix):]))
}

// vertexKey returns the key of id's alias list.
func vertexKey(id VertexID) []byte { return familyKey(vertexPrefix, id) }

// edgeKey returns the key of id's adjacency list.
func edgeKey(id VertexID) []byte { return familyKey(edgePrefix, id) }

// idFromVertexKey inverts vertexKey; malformed keys yield NoVertex.
func idFromVertexKey(key []byte) VertexID { return idFromFamilyKey(vertexPrefix, key) }

// idFromEdgeKey inverts edgeKey; malformed keys yield NoVertex.
func idFromEdgeKey(key []byte) VertexID { return idFromFamilyKey(edgePrefix, key) }

func encodeID(id VertexID) []byte {
	b := make([]byte, idSize)
	binary.LittleEndian.PutUint32(b, uint32(id))
	return b
}

// decodeID reads a stored id. Values of the wrong size yield NoVertex.
func decodeID(b []byte) VertexID {
	if len(b) != idSize {
		return NoVertex
	}
	return VertexID(binary.LittleEndian.Uint32(b))
}
