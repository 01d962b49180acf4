package dna

// Weights holds the relative frequency of each byte in DNA text, scaled so the
// four bases sum to 1000. Bytes outside the alphabet weigh nothing: they never
// contribute to the expected shift of a scan position.
//
// Frequency data source: average base composition of sequenced genomes,
// freq(A) = freq(T) = 0.293, freq(C) = freq(G) = 0.207.
var Weights = [256]uint32{
	'A': 293,
	'C': 207,
	'G': 207,
	'T': 293,
}

// cgWeights is the weight of a 4-gram by the number of C/G bases it holds:
// (0.293)^(4-k) * (0.207)^k scaled by 10^4.
var cgWeights = [Q + 1]uint32{
	74, // AAAA-like: (0.293)^4
	52, // (0.293)^3 * (0.207)
	37, // (0.293)^2 * (0.207)^2
	26, // (0.293) * (0.207)^3
	18, // CCCC-like: (0.207)^4
}

// FingerprintWeights holds the relative frequency of each 4-gram fingerprint.
// Fingerprints with the same number of C/G codes share a weight.
var FingerprintWeights [256]uint32

func init() {
	for fp := 0; fp < 256; fp++ {
		FingerprintWeights[fp] = cgWeights[CountCG(byte(fp))]
	}
}
