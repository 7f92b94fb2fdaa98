package builder

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MSGPACK_VERSION is stored next to msgpack payloads so old blobs can be told apart
const MSGPACK_VERSION = 1

type msgpackEnvelope struct {
	Magic   uint32   `msgpack:"magic"`
	Version uint32   `msgpack:"version"`
	Mesh    *NavMesh `msgpack:"mesh"`
}

// EncodeMsgpack serializes the mesh with msgpack
func EncodeMsgpack(navMesh *NavMesh) ([]byte, error) {
	if err := navMesh.Validate(); err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(&msgpackEnvelope{
		Magic:   NAVMESH_FILE_MAGIC,
		Version: MSGPACK_VERSION,
		Mesh:    navMesh,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal navmesh: %w", err)
	}
	return data, nil
}

// DecodeMsgpack is the inverse of EncodeMsgpack
func DecodeMsgpack(data []byte) (*NavMesh, error) {
	envelope := new(msgpackEnvelope)
	if err := msgpack.Unmarshal(data, envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongMagic, err)
	}
	if envelope.Magic != NAVMESH_FILE_MAGIC {
		return nil, ErrWrongMagic
	}
	if envelope.Version != MSGPACK_VERSION {
		return nil, fmt.Errorf("%w: %d", ErrWrongVersion, envelope.Version)
	}
	if envelope.Mesh == nil {
		return nil, fmt.Errorf("%w: missing mesh", ErrInvalidMesh)
	}
	if err := envelope.Mesh.Validate(); err != nil {
		return nil, err
	}
	return envelope.Mesh, nil
}
