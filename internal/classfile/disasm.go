package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Disassemble renders a complete .class file's bytes as a human-
// readable per-method bytecode listing, the same shape go-dws's own
// CLI prints via `bytecode.NewDisassembler(chunk, os.Stderr).Disassemble()`
// (cmd/dwscript/cmd/compile.go's --disassemble flag), generalized from
// that package's in-memory Chunk to a parsed-from-bytes class file
// since this compiler's "chunk" is the class file itself. It re-parses
// data independently of Builder (which only ever writes) and of
// internal/classpath's reader (which only keeps the subset a resolver
// needs, discarding Code bytes) — a disassembler needs the full
// constant pool plus every method's raw instruction stream.
func Disassemble(data []byte) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("classfile: malformed class file: %w", e)
			} else {
				err = fmt.Errorf("classfile: malformed class file: %v", rec)
			}
			out = ""
		}
	}()

	r := &disasmReader{data: data}
	if len(data) < 10 {
		return "", fmt.Errorf("classfile: truncated class file (%d bytes)", len(data))
	}
	if magic := r.u4(); magic != 0xCAFEBABE {
		return "", fmt.Errorf("classfile: bad magic 0x%08X", magic)
	}
	minor := r.u2()
	major := r.u2()
	r.readPool()

	var sb strings.Builder
	accessFlags := r.u2()
	thisIdx := r.u2()
	superIdx := r.u2()
	fmt.Fprintf(&sb, "class %s extends %s  // version %d.%d, flags 0x%04X\n",
		r.className(thisIdx), r.className(superIdx), major, minor, accessFlags)

	ifaceCount := int(r.u2())
	for i := 0; i < ifaceCount; i++ {
		fmt.Fprintf(&sb, "  implements %s\n", r.className(r.u2()))
	}

	fieldCount := int(r.u2())
	for i := 0; i < fieldCount; i++ {
		access := r.u2()
		name := r.utf8(r.u2())
		desc := r.utf8(r.u2())
		r.skipAttributes()
		fmt.Fprintf(&sb, "  field 0x%04X %s %s\n", access, name, desc)
	}

	methodCount := int(r.u2())
	for i := 0; i < methodCount; i++ {
		r.readMethod(&sb)
	}

	return sb.String(), nil
}

// disasmEntry is a single constant-pool slot as seen by the byte-stream
// reader below. It is deliberately distinct from ConstantPool's own
// cpEntry (constantpool.go): that one is the writer's de-duplicating
// cache key, this one is whatever a parsed-from-bytes class file
// actually contains, which this reader must accept even if malformed.
type disasmEntry struct {
	tag        byte
	utf8       string
	idx1, idx2 uint16
	num        uint64
}

const (
	cpUTF8               = 1
	cpInteger            = 3
	cpFloat              = 4
	cpLong               = 5
	cpDouble             = 6
	cpClass              = 7
	cpString             = 8
	cpFieldref           = 9
	cpMethodref          = 10
	cpInterfaceMethodref = 11
	cpNameAndType        = 12
	cpMethodHandle       = 15
	cpMethodType         = 16
	cpInvokeDynamic      = 18
)

type disasmReader struct {
	data []byte
	pos  int
	pool []disasmEntry
}

func (r *disasmReader) u1() byte {
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *disasmReader) u2() uint16 {
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *disasmReader) u4() uint32 {
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *disasmReader) bytes(n int) []byte {
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *disasmReader) utf8(idx uint16) string {
	if idx == 0 || int(idx) >= len(r.pool) {
		return ""
	}
	return r.pool[idx].utf8
}

func (r *disasmReader) className(idx uint16) string {
	if idx == 0 || int(idx) >= len(r.pool) {
		return ""
	}
	return r.utf8(r.pool[idx].idx1)
}

func (r *disasmReader) readPool() {
	count := int(r.u2())
	r.pool = make([]disasmEntry, count)
	for i := 1; i < count; i++ {
		tag := r.u1()
		switch tag {
		case cpUTF8:
			n := int(r.u2())
			r.pool[i] = disasmEntry{tag: tag, utf8: string(r.bytes(n))}
		case cpInteger, cpFloat:
			r.pool[i] = disasmEntry{tag: tag, num: uint64(r.u4())}
		case cpLong, cpDouble:
			hi, lo := r.u4(), r.u4()
			r.pool[i] = disasmEntry{tag: tag, num: uint64(hi)<<32 | uint64(lo)}
			i++
		case cpClass, cpString, cpMethodType:
			r.pool[i] = disasmEntry{tag: tag, idx1: r.u2()}
		case cpFieldref, cpMethodref, cpInterfaceMethodref, cpNameAndType, cpInvokeDynamic:
			a, b := r.u2(), r.u2()
			r.pool[i] = disasmEntry{tag: tag, idx1: a, idx2: b}
		case cpMethodHandle:
			r.u1()
			r.pool[i] = disasmEntry{tag: tag, idx1: r.u2()}
		default:
			panic(fmt.Errorf("classfile: unknown constant pool tag %d at index %d", tag, i))
		}
	}
}

// refString renders a Fieldref/Methodref/InterfaceMethodref/NameAndType
// constant-pool entry as "Owner.name:descriptor", for operand display.
func (r *disasmReader) refString(idx uint16) string {
	if idx == 0 || int(idx) >= len(r.pool) {
		return "?"
	}
	e := r.pool[idx]
	switch e.tag {
	case cpClass:
		return r.className(idx)
	case cpString:
		return fmt.Sprintf("%q", r.utf8(e.idx1))
	case cpFieldref, cpMethodref, cpInterfaceMethodref:
		owner := r.className(e.idx1)
		nt := r.pool[e.idx2]
		return fmt.Sprintf("%s.%s:%s", owner, r.utf8(nt.idx1), r.utf8(nt.idx2))
	case cpNameAndType:
		return fmt.Sprintf("%s:%s", r.utf8(e.idx1), r.utf8(e.idx2))
	case cpInteger:
		return fmt.Sprintf("%d", int32(e.num))
	case cpFloat:
		return fmt.Sprintf("%v", math.Float32frombits(uint32(e.num)))
	case cpLong:
		return fmt.Sprintf("%dL", int64(e.num))
	case cpDouble:
		return fmt.Sprintf("%v", math.Float64frombits(e.num))
	case cpInvokeDynamic:
		nt := r.pool[e.idx2]
		return fmt.Sprintf("InvokeDynamic#%d %s:%s", e.idx1, r.utf8(nt.idx1), r.utf8(nt.idx2))
	default:
		return "?"
	}
}

func (r *disasmReader) skipAttributes() []rawAttr {
	count := int(r.u2())
	attrs := make([]rawAttr, 0, count)
	for i := 0; i < count; i++ {
		nameIdx := r.u2()
		length := r.u4()
		attrs = append(attrs, rawAttr{name: r.utf8(nameIdx), data: r.bytes(int(length))})
	}
	return attrs
}

type rawAttr struct {
	name string
	data []byte
}

func (r *disasmReader) readMethod(sb *strings.Builder) {
	access := r.u2()
	name := r.utf8(r.u2())
	desc := r.utf8(r.u2())
	attrs := r.skipAttributes()

	fmt.Fprintf(sb, "  method 0x%04X %s%s\n", access, name, desc)

	for _, a := range attrs {
		if a.name != "Code" {
			continue
		}
		cr := &disasmReader{data: a.data, pool: r.pool}
		maxStack := cr.u2()
		maxLocals := cr.u2()
		codeLen := cr.u4()
		code := cr.bytes(int(codeLen))
		fmt.Fprintf(sb, "    stack=%d, locals=%d, code_length=%d\n", maxStack, maxLocals, len(code))
		disassembleCode(sb, code, r)
	}
}

// disassembleCode decodes one method's instruction stream, resolving
// constant-pool operands through cp (the enclosing class's reader).
func disassembleCode(sb *strings.Builder, code []byte, cp *disasmReader) {
	for pc := 0; pc < len(code); {
		op := code[pc]
		mnemonic, ok := opMnemonics[op]
		if !ok {
			fmt.Fprintf(sb, "      %4d: unknown opcode 0x%02X\n", pc, op)
			pc++
			continue
		}
		length, operand := decodeOperand(op, code, pc, cp)
		if operand == "" {
			fmt.Fprintf(sb, "      %4d: %s\n", pc, mnemonic)
		} else {
			fmt.Fprintf(sb, "      %4d: %-15s %s\n", pc, mnemonic, operand)
		}
		pc += length
	}
}
