// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

// packedWord packs two uint32 halves into one uint64 so that a single CAS
// on an atomix.Uint64 atomically updates both logical fields at once. This
// ports the original C++ design's reinterpret-the-struct-as-uint64_t trick
// (HTSHandle / PosRef) into explicit Go bit arithmetic: the high 32 bits
// hold the first field, the low 32 bits the second. The in-memory order is
// an implementation choice; what matters is that every reader of a given
// packed word uses the same pack/unpack pair, which these two functions
// guarantee by construction.
type packedWord uint64

func packWord(hi, lo uint32) packedWord {
	return packedWord(uint64(hi)<<32 | uint64(lo))
}

func (w packedWord) hi() uint32 {
	return uint32(w >> 32)
}

func (w packedWord) lo() uint32 {
	return uint32(w)
}
