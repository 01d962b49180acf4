package dna

// Q is the number of bases summarised by one fingerprint.
const Q = 4

// Bases are encoded by bits 1-2 of their ASCII code, which separates the four
// letters regardless of case:
//
//	A = 0100_0001 -> 00
//	C = 0100_0011 -> 01
//	G = 0100_0111 -> 11
//	T = 0101_0100 -> 10
//
// Any other byte also lands on one of the four codes, so a fingerprint is
// only a filter: equal fingerprints do not imply equal bytes.

// Code returns the 2-bit code of b.
func Code(b byte) byte {
	return (b & 6) >> 1
}

// Fingerprint packs the codes of four consecutive bytes into one byte, the
// first byte in the most significant bits.
func Fingerprint(b0, b1, b2, b3 byte) byte {
	return (b0&6)<<5 | (b1&6)<<3 | (b2&6)<<1 | (b3&6)>>1
}

// FingerprintAt returns the fingerprint of s[i:i+Q].
func FingerprintAt(s []byte, i int) byte {
	_ = s[i+3]
	return (s[i]&6)<<5 | (s[i+1]&6)<<3 | (s[i+2]&6)<<1 | (s[i+3]&6)>>1
}

// CountCG returns how many of the four codes in fp stand for C or G.
// Both have the low code bit set.
func CountCG(fp byte) int {
	return int(fp>>6&1 + fp>>4&1 + fp>>2&1 + fp&1)
}
