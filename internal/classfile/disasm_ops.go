package classfile

import "fmt"

// opMnemonics maps every opcode in internal/emitter's Op table (JVMS
// chapter 6) to its javap-style mnemonic, the text disassemblers in
// this corpus print (e.g. go-dws's own bytecode.Disassembler).
var opMnemonics = map[byte]string{
	0x00: "nop",
	0x01: "aconst_null",
	0x02: "iconst_m1",
	0x03: "iconst_0",
	0x04: "iconst_1",
	0x05: "iconst_2",
	0x06: "iconst_3",
	0x07: "iconst_4",
	0x08: "iconst_5",
	0x09: "lconst_0",
	0x0A: "lconst_1",
	0x0B: "fconst_0",
	0x0C: "fconst_1",
	0x0D: "fconst_2",
	0x0E: "dconst_0",
	0x0F: "dconst_1",
	0x10: "bipush",
	0x11: "sipush",
	0x12: "ldc",
	0x13: "ldc_w",
	0x14: "ldc2_w",
	0x15: "iload",
	0x16: "lload",
	0x17: "fload",
	0x18: "dload",
	0x19: "aload",
	0x1A: "iload_0",
	0x1B: "iload_1",
	0x1C: "iload_2",
	0x1D: "iload_3",
	0x1E: "lload_0",
	0x1F: "lload_1",
	0x20: "lload_2",
	0x21: "lload_3",
	0x22: "fload_0",
	0x23: "fload_1",
	0x24: "fload_2",
	0x25: "fload_3",
	0x26: "dload_0",
	0x27: "dload_1",
	0x28: "dload_2",
	0x29: "dload_3",
	0x2A: "aload_0",
	0x2B: "aload_1",
	0x2C: "aload_2",
	0x2D: "aload_3",
	0x2E: "iaload",
	0x2F: "laload",
	0x30: "faload",
	0x31: "daload",
	0x32: "aaload",
	0x33: "baload",
	0x34: "caload",
	0x35: "saload",
	0x36: "istore",
	0x37: "lstore",
	0x38: "fstore",
	0x39: "dstore",
	0x3A: "astore",
	0x3B: "istore_0",
	0x3C: "istore_1",
	0x3D: "istore_2",
	0x3E: "istore_3",
	0x3F: "lstore_0",
	0x40: "lstore_1",
	0x41: "lstore_2",
	0x42: "lstore_3",
	0x43: "fstore_0",
	0x44: "fstore_1",
	0x45: "fstore_2",
	0x46: "fstore_3",
	0x47: "dstore_0",
	0x48: "dstore_1",
	0x49: "dstore_2",
	0x4A: "dstore_3",
	0x4B: "astore_0",
	0x4C: "astore_1",
	0x4D: "astore_2",
	0x4E: "astore_3",
	0x4F: "iastore",
	0x50: "lastore",
	0x51: "fastore",
	0x52: "dastore",
	0x53: "aastore",
	0x54: "bastore",
	0x55: "castore",
	0x56: "sastore",
	0x57: "pop",
	0x58: "pop2",
	0x59: "dup",
	0x5A: "dup_x1",
	0x5B: "dup_x2",
	0x5C: "dup2",
	0x5D: "dup2_x1",
	0x5E: "dup2_x2",
	0x5F: "swap",
	0x60: "iadd",
	0x61: "ladd",
	0x62: "fadd",
	0x63: "dadd",
	0x64: "isub",
	0x65: "lsub",
	0x66: "fsub",
	0x67: "dsub",
	0x68: "imul",
	0x69: "lmul",
	0x6A: "fmul",
	0x6B: "dmul",
	0x6C: "idiv",
	0x6D: "ldiv",
	0x6E: "fdiv",
	0x6F: "ddiv",
	0x70: "irem",
	0x71: "lrem",
	0x72: "frem",
	0x73: "drem",
	0x74: "ineg",
	0x75: "lneg",
	0x76: "fneg",
	0x77: "dneg",
	0x78: "ishl",
	0x79: "lshl",
	0x7A: "ishr",
	0x7B: "lshr",
	0x7C: "iushr",
	0x7D: "lushr",
	0x7E: "iand",
	0x7F: "land",
	0x80: "ior",
	0x81: "lor",
	0x82: "ixor",
	0x83: "lxor",
	0x84: "iinc",
	0x85: "i2l",
	0x86: "i2f",
	0x87: "i2d",
	0x88: "l2i",
	0x89: "l2f",
	0x8A: "l2d",
	0x8B: "f2i",
	0x8C: "f2l",
	0x8D: "f2d",
	0x8E: "d2i",
	0x8F: "d2l",
	0x90: "d2f",
	0x91: "i2b",
	0x92: "i2c",
	0x93: "i2s",
	0x94: "lcmp",
	0x95: "fcmpl",
	0x96: "fcmpg",
	0x97: "dcmpl",
	0x98: "dcmpg",
	0x99: "ifeq",
	0x9A: "ifne",
	0x9B: "iflt",
	0x9C: "ifge",
	0x9D: "ifgt",
	0x9E: "ifle",
	0x9F: "if_icmpeq",
	0xA0: "if_icmpne",
	0xA1: "if_icmplt",
	0xA2: "if_icmpge",
	0xA3: "if_icmpgt",
	0xA4: "if_icmple",
	0xA5: "if_acmpeq",
	0xA6: "if_acmpne",
	0xA7: "goto",
	0xA8: "jsr",
	0xA9: "ret",
	0xAA: "tableswitch",
	0xAB: "lookupswitch",
	0xAC: "ireturn",
	0xAD: "lreturn",
	0xAE: "freturn",
	0xAF: "dreturn",
	0xB0: "areturn",
	0xB1: "return",
	0xB2: "getstatic",
	0xB3: "putstatic",
	0xB4: "getfield",
	0xB5: "putfield",
	0xB6: "invokevirtual",
	0xB7: "invokespecial",
	0xB8: "invokestatic",
	0xB9: "invokeinterface",
	0xBA: "invokedynamic",
	0xBB: "new",
	0xBC: "newarray",
	0xBD: "anewarray",
	0xBE: "arraylength",
	0xBF: "athrow",
	0xC0: "checkcast",
	0xC1: "instanceof",
	0xC2: "monitorenter",
	0xC3: "monitorexit",
	0xC4: "wide",
	0xC5: "multianewarray",
	0xC6: "ifnull",
	0xC7: "ifnonnull",
	0xC8: "goto_w",
	0xC9: "jsr_w",
}

var newarrayTypeNames = map[byte]string{
	4: "boolean", 5: "char", 6: "float", 7: "double",
	8: "byte", 9: "short", 10: "int", 11: "long",
}

// decodeOperand returns the total instruction length (opcode byte
// included) and a formatted operand string (empty if the instruction
// takes none). cp resolves constant-pool-indexed operands to readable
// names via refString.
func decodeOperand(op byte, code []byte, pc int, cp *disasmReader) (int, string) {
	u1 := func(off int) byte { return code[pc+off] }
	u2 := func(off int) uint16 { return uint16(code[pc+off])<<8 | uint16(code[pc+off+1]) }
	s2 := func(off int) int16 { return int16(u2(off)) }
	s4 := func(off int) int32 {
		return int32(code[pc+off])<<24 | int32(code[pc+off+1])<<16 |
			int32(code[pc+off+2])<<8 | int32(code[pc+off+3])
	}

	switch op {
	case 0xAA: // tableswitch
		base := pc + 1
		pad := (4 - base%4) % 4
		p := base + pad
		defaultOff := s4(p - pc)
		low := s4(p - pc + 4)
		high := s4(p - pc + 8)
		n := int(high-low) + 1
		entriesStart := p + 12
		length := entriesStart - pc + n*4
		return length, fmt.Sprintf("default=%d, low=%d, high=%d, %d offsets", defaultOff, low, high, n)
	case 0xAB: // lookupswitch
		base := pc + 1
		pad := (4 - base%4) % 4
		p := base + pad
		defaultOff := s4(p - pc)
		npairs := s4(p - pc + 4)
		entriesStart := p + 8
		length := entriesStart - pc + int(npairs)*8
		return length, fmt.Sprintf("default=%d, %d pairs", defaultOff, npairs)
	case 0xC4: // wide
		if pc+1 >= len(code) {
			return 2, "<truncated>"
		}
		modified := code[pc+1]
		if modified == 0x84 { // iinc
			return 6, fmt.Sprintf("iinc index=%d const=%d", u2(2), s2(4))
		}
		return 4, fmt.Sprintf("%s index=%d", opMnemonics[modified], u2(2))
	case 0xC5: // multianewarray
		idx := u2(1)
		dims := u1(3)
		return 4, fmt.Sprintf("%s dims=%d", cp.refString(idx), dims)
	case 0xB9: // invokeinterface
		idx := u2(1)
		count := u1(3)
		return 5, fmt.Sprintf("%s count=%d", cp.refString(idx), count)
	case 0xBA: // invokedynamic
		idx := u2(1)
		return 5, cp.refString(idx)
	case 0x84: // iinc
		return 3, fmt.Sprintf("index=%d const=%d", u1(1), int8(u1(2)))
	case 0x10, 0x19, 0x15, 0x16, 0x17, 0x18, 0x36, 0x37, 0x38, 0x39, 0x3A: // bipush, *load/*store with index byte
		switch op {
		case 0x10:
			return 2, fmt.Sprintf("%d", int8(u1(1)))
		default:
			return 2, fmt.Sprintf("index=%d", u1(1))
		}
	case 0x11: // sipush
		return 3, fmt.Sprintf("%d", s2(1))
	case 0x12: // ldc
		return 2, cp.refString(uint16(u1(1)))
	case 0x13, 0x14: // ldc_w, ldc2_w
		return 3, cp.refString(u2(1))
	case 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7, 0xB8, 0xBB, 0xBD, 0xC0, 0xC1:
		// get/putstatic, get/putfield, invoke{virtual,special,static}, new, anewarray, checkcast, instanceof
		return 3, cp.refString(u2(1))
	case 0xBC: // newarray
		return 2, newarrayTypeNames[u1(1)]
	case 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F, 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7, 0xA8, 0xC6, 0xC7:
		// if*, goto, jsr, ifnull, ifnonnull — signed 2-byte branch offset relative to pc
		return 3, fmt.Sprintf("%d", pc+int(s2(1)))
	case 0xA9: // ret
		return 2, fmt.Sprintf("index=%d", u1(1))
	case 0xC8, 0xC9: // goto_w, jsr_w
		return 5, fmt.Sprintf("%d", pc+int(s4(1)))
	default:
		return 1, ""
	}
}
