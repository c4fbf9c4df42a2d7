// Package cache implements the compiled-program store backing the rpal
// CLI's -o/-run-compiled flags (SPEC_FULL.md C.1): a flattened program's
// δ-blocks are serialized with github.com/dekarrin/rezi and written to a
// file, so a later run can skip lexing, parsing, standardizing, and
// flattening entirely.
package cache

import (
	"encoding"
	"fmt"
	"os"

	"github.com/dekarrin/rezi"

	"github.com/dewminawijekoon/rpal/internal/rpallang"
)

// CompiledProgram is the cacheable, already-flattened form of an RPAL
// program: its indexed δ-blocks. It implements encoding.BinaryMarshaler
// and encoding.BinaryUnmarshaler so rezi.EncBinary/DecBinary can frame it.
type CompiledProgram struct {
	Blocks [][]rpallang.Symbol
}

var (
	_ encoding.BinaryMarshaler   = (*CompiledProgram)(nil)
	_ encoding.BinaryUnmarshaler = (*CompiledProgram)(nil)
)

// Save writes already-flattened blocks to path as a rezi-framed
// CompiledProgram.
func Save(path string, blocks [][]rpallang.Symbol) error {
	cp := &CompiledProgram{Blocks: blocks}
	data := rezi.EncBinary(cp)
	return os.WriteFile(path, data, 0o644)
}

// Load reads a CompiledProgram previously written by Save.
func Load(path string) ([][]rpallang.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cp := &CompiledProgram{}
	n, err := rezi.DecBinary(data, cp)
	if err != nil {
		return nil, fmt.Errorf("decode compiled program: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("decode compiled program: consumed %d/%d bytes", n, len(data))
	}
	return cp.Blocks, nil
}

func (cp *CompiledProgram) MarshalBinary() ([]byte, error) {
	out := encInt(len(cp.Blocks))
	for _, block := range cp.Blocks {
		out = append(out, encInt(len(block))...)
		for _, sym := range block {
			out = append(out, encSymbol(sym)...)
		}
	}
	return out, nil
}

func (cp *CompiledProgram) UnmarshalBinary(data []byte) error {
	blockCount, n, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	blocks := make([][]rpallang.Symbol, blockCount)
	for i := 0; i < blockCount; i++ {
		symCount, m, err := decInt(data)
		if err != nil {
			return err
		}
		data = data[m:]

		block := make([]rpallang.Symbol, symCount)
		for j := 0; j < symCount; j++ {
			sym, consumed, err := decSymbol(data)
			if err != nil {
				return err
			}
			block[j] = sym
			data = data[consumed:]
		}
		blocks[i] = block
	}
	cp.Blocks = blocks
	return nil
}

func encSymbol(s rpallang.Symbol) []byte {
	out := []byte{byte(s.Kind)}
	switch s.Kind {
	case rpallang.SymId, rpallang.SymUop, rpallang.SymBop:
		out = append(out, encString(s.Name)...)
	case rpallang.SymConst:
		out = append(out, encValue(s.Const)...)
	case rpallang.SymTau, rpallang.SymDelta:
		out = append(out, encInt(s.N)...)
	case rpallang.SymLambda:
		out = append(out, encNode(s.Param)...)
		out = append(out, encInt(s.BodyIndex)...)
	case rpallang.SymGamma, rpallang.SymBeta, rpallang.SymEnvMark:
		// no payload
	}
	return out
}

func decSymbol(data []byte) (rpallang.Symbol, int, error) {
	if len(data) < 1 {
		return rpallang.Symbol{}, 0, fmt.Errorf("malformed cache entry: truncated symbol")
	}
	kind := rpallang.SymKind(data[0])
	consumed := 1
	data = data[1:]

	sym := rpallang.Symbol{Kind: kind}
	switch kind {
	case rpallang.SymId, rpallang.SymUop, rpallang.SymBop:
		name, n, err := decString(data)
		if err != nil {
			return rpallang.Symbol{}, 0, err
		}
		sym.Name = name
		consumed += n
	case rpallang.SymConst:
		v, n, err := decValue(data)
		if err != nil {
			return rpallang.Symbol{}, 0, err
		}
		sym.Const = v
		consumed += n
	case rpallang.SymTau, rpallang.SymDelta:
		n, m, err := decInt(data)
		if err != nil {
			return rpallang.Symbol{}, 0, err
		}
		sym.N = n
		consumed += m
	case rpallang.SymLambda:
		node, n, err := decNode(data)
		if err != nil {
			return rpallang.Symbol{}, 0, err
		}
		sym.Param = node
		data = data[n:]
		consumed += n
		body, m, err := decInt(data)
		if err != nil {
			return rpallang.Symbol{}, 0, err
		}
		sym.BodyIndex = body
		consumed += m
	}
	return sym, consumed, nil
}

// encValue serializes the constant-leaf subset of rpallang.Value that
// SymConst ever carries: Int, Str, Bool, Nil, Dummy, Ystar.
func encValue(v rpallang.Value) []byte {
	out := []byte{byte(v.Kind)}
	switch v.Kind {
	case rpallang.KindInt:
		out = append(out, encInt(v.Int)...)
	case rpallang.KindStr:
		out = append(out, encString(v.Str)...)
	case rpallang.KindBool:
		out = append(out, encBool(v.Bool)...)
	}
	return out
}

func decValue(data []byte) (rpallang.Value, int, error) {
	if len(data) < 1 {
		return rpallang.Value{}, 0, fmt.Errorf("malformed cache entry: truncated value")
	}
	kind := rpallang.Kind(data[0])
	consumed := 1
	data = data[1:]

	switch kind {
	case rpallang.KindInt:
		i, n, err := decInt(data)
		if err != nil {
			return rpallang.Value{}, 0, err
		}
		return rpallang.NewInt(i), consumed + n, nil
	case rpallang.KindStr:
		s, n, err := decString(data)
		if err != nil {
			return rpallang.Value{}, 0, err
		}
		return rpallang.NewStr(s), consumed + n, nil
	case rpallang.KindBool:
		b, n, err := decBool(data)
		if err != nil {
			return rpallang.Value{}, 0, err
		}
		return rpallang.NewBool(b), consumed + n, nil
	case rpallang.KindNil:
		return rpallang.NewNil(), consumed, nil
	case rpallang.KindDummy:
		return rpallang.NewDummy(), consumed, nil
	case rpallang.KindYstar:
		return rpallang.Value{Kind: rpallang.KindYstar}, consumed, nil
	default:
		return rpallang.Value{}, 0, fmt.Errorf("malformed cache entry: unknown const kind %d", kind)
	}
}

func encNode(n *rpallang.Node) []byte {
	out := encInt(int(n.Kind))
	out = append(out, encString(n.Value)...)
	out = append(out, encInt(len(n.Children))...)
	for _, c := range n.Children {
		out = append(out, encNode(c)...)
	}
	return out
}

func decNode(data []byte) (*rpallang.Node, int, error) {
	kindInt, n1, err := decInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[n1:]

	value, n2, err := decString(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[n2:]

	childCount, n3, err := decInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[n3:]

	consumed := n1 + n2 + n3
	children := make([]*rpallang.Node, childCount)
	for i := 0; i < childCount; i++ {
		child, n, err := decNode(data)
		if err != nil {
			return nil, 0, err
		}
		children[i] = child
		data = data[n:]
		consumed += n
	}

	return &rpallang.Node{Kind: rpallang.NodeKind(kindInt), Value: value, Children: children}, consumed, nil
}
