// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build limbs_purego

package limbs

import "math/big"

// Word is a single limb.
type Word = big.Word

func addVV(z, x, y []Word) (c Word) {
	return addVVg(z, x, y)
}

func subVV(z, x, y []Word) (c Word) {
	return subVVg(z, x, y)
}

func addVW(z, x []Word, y Word) (c Word) {
	return addVWg(z, x, y)
}

func subVW(z, x []Word, y Word) (c Word) {
	return subVWg(z, x, y)
}

func shlVU(z, x []Word, s uint) (c Word) {
	return shlVUg(z, x, s)
}

func mulAddVWW(z, x []Word, y, r Word) (c Word) {
	return mulAddVWWg(z, x, y, r)
}

func addMulVVW(z, x []Word, y Word) (c Word) {
	return addMulVVWg(z, x, y)
}
