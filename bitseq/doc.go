// Package bitseq provides a densely packed, growable sequence of bits.
//
// Bits are grouped into 64-bit words so that Hamming distance is computed
// with one XOR and one population count per word instead of per bit. This is
// the hot path of k-NN classification and k-means assignment over binary
// descriptors, where distances are evaluated O(n*m) times.
//
// # Usage
//
//	a, _ := bitseq.Parse("1010")
//	b, _ := bitseq.Parse("0101")
//	d := bitseq.Hamming(a, b) // 4
package bitseq
