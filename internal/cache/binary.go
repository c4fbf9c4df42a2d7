package cache

// file binary.go implements the low-level integer/string encoding
// CompiledProgram's MarshalBinary/UnmarshalBinary build on, in the same
// manual varint-plus-length-prefix style as the teacher's
// internal/tunascript/binary.go -- this module's rezi dependency (see
// cache.go) only handles the outer encoding.BinaryMarshaler framing, so
// the tagged-union payload itself is still hand-encoded exactly as the
// teacher's AST binary format was before it adopted rezi.

import (
	"encoding/binary"
	"fmt"
)

func encInt(i int) []byte {
	buf := make([]byte, 0, 8)
	return binary.AppendVarint(buf, int64(i))
}

func decInt(data []byte) (int, int, error) {
	v, n := binary.Varint(data)
	if n <= 0 {
		return 0, 0, fmt.Errorf("malformed cache entry: truncated integer")
	}
	return int(v), n, nil
}

func encString(s string) []byte {
	out := encInt(len(s))
	out = append(out, []byte(s)...)
	return out
}

func decString(data []byte) (string, int, error) {
	l, n, err := decInt(data)
	if err != nil {
		return "", 0, err
	}
	if l < 0 || n+l > len(data) {
		return "", 0, fmt.Errorf("malformed cache entry: truncated string")
	}
	return string(data[n : n+l]), n + l, nil
}

func encBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("malformed cache entry: truncated bool")
	}
	return data[0] != 0, 1, nil
}
