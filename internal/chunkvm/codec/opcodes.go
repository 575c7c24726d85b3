// Package codec implements the chunk wire format: encoding an
// opcode+operand as a checksummed product of primes, and the constants
// that give canonical meaning to each reserved prime index.
package codec

// Canonical prime-index assignments (spec §6). These are compatibility
// critical: an implementation that assigns different opcodes to these
// indices cannot interoperate with chunks produced elsewhere.
const (
	IdxPush        = 0
	IdxAdd         = 1
	IdxPrint       = 2
	IdxBlockTag    = 3
	IdxNTTTag      = 4
	IdxSpectralMod = 5 // modulus for the spectral transform, not an opcode
	IdxSub         = 6
	IdxMul         = 7
	IdxLoad        = 8
	IdxStore       = 9
	IdxJmp         = 10
	IdxJz          = 11
	IdxJnz         = 12
	IdxNegFlag     = 13
	IdxCall        = 14
	IdxRet         = 15
	IdxAlloc       = 16
	IdxFree        = 17
	IdxInput       = 18
	IdxOutput      = 19
	IdxNetSend     = 20
	IdxNetRecv     = 21
	IdxThreadStart = 22
	IdxThreadJoin  = 23
	IdxCheckpoint  = 24
	IdxUnCreate    = 25
	IdxUnGrade     = 26
	IdxUnInner     = 27
	IdxUnNorm      = 28
	IdxUnTrans     = 29
	IdxUnDwt       = 30
	IdxDiv         = 31
	IdxMod         = 32
	IdxAnd         = 33
	IdxOr          = 34
	IdxXor         = 35
	IdxShl         = 36
	IdxShr         = 37
	IdxNeg         = 38
	IdxFmul        = 39
	IdxFdiv        = 40
	IdxF2i         = 41
	IdxI2f         = 42
	IdxSyscall     = 43
	IdxInt         = 44
	IdxHalt        = 45
	IdxNop         = 46
	IdxHash        = 47
	IdxSign        = 48
	IdxVerify      = 49
	IdxRng         = 50
	IdxBrk         = 51
	IdxTrace       = 52

	// DataOffset is added to every non-signed operand before prime
	// lookup, so a zero-valued operand still encodes to a prime with a
	// positive index. The reference implementation fixes this at 50.
	DataOffset = 50

	// NTTRoot is the fixed generator used to derive the root of unity
	// for the spectral round-trip check.
	NTTRoot = 2
)

// Names maps canonical indices to their opcode/tag name, for
// diagnostics and disassembly.
var Names = map[int]string{
	IdxPush: "PUSH", IdxAdd: "ADD", IdxPrint: "PRINT",
	IdxBlockTag: "BLOCK_TAG", IdxNTTTag: "NTT_TAG", IdxSpectralMod: "MOD(spectral)",
	IdxSub: "SUB", IdxMul: "MUL", IdxLoad: "LOAD", IdxStore: "STORE",
	IdxJmp: "JMP", IdxJz: "JZ", IdxJnz: "JNZ", IdxNegFlag: "NEG_FLAG",
	IdxCall: "CALL", IdxRet: "RET", IdxAlloc: "ALLOC", IdxFree: "FREE",
	IdxInput: "INPUT", IdxOutput: "OUTPUT",
	IdxNetSend: "NET_SEND", IdxNetRecv: "NET_RECV",
	IdxThreadStart: "THREAD_START", IdxThreadJoin: "THREAD_JOIN",
	IdxCheckpoint: "CHECKPOINT",
	IdxUnCreate:   "UN_CREATE", IdxUnGrade: "UN_GRADE", IdxUnInner: "UN_INNER",
	IdxUnNorm: "UN_NORM", IdxUnTrans: "UN_TRANS", IdxUnDwt: "UN_DWT",
	IdxDiv: "DIV", IdxMod: "MOD", IdxAnd: "AND", IdxOr: "OR", IdxXor: "XOR",
	IdxShl: "SHL", IdxShr: "SHR", IdxNeg: "NEG",
	IdxFmul: "FMUL", IdxFdiv: "FDIV", IdxF2i: "F2I", IdxI2f: "I2F",
	IdxSyscall: "SYSCALL", IdxInt: "INT", IdxHalt: "HALT", IdxNop: "NOP",
	IdxHash: "HASH", IdxSign: "SIGN", IdxVerify: "VERIFY", IdxRng: "RNG",
	IdxBrk: "BRK", IdxTrace: "TRACE",
}
