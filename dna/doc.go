// Package dna holds the nucleotide frequency tables, the 4-gram fingerprint
// encoding and the alphabet checks shared by the maximal average shift
// matchers.
package dna
