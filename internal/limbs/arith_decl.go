// Copyright 2010 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !limbs_purego

// The declarations below use //go:linkname to reach the assembly vector
// kernels of math/big. These symbols are not part of the public API of
// math/big; they are kept reachable for external packages, but their
// signatures must match exactly. Build with -tags limbs_purego to replace
// them with the portable versions in arith_generic.go.

package limbs

import (
	"math/big"
	_ "unsafe" // Required for go:linkname
)

// Word is a single limb.
type Word = big.Word

// addVV sets z = x + y over len(z) limbs and returns the carry.
//
//go:linkname addVV math/big.addVV
func addVV(z, x, y []Word) (c Word)

// subVV sets z = x - y over len(z) limbs and returns the borrow.
//
//go:linkname subVV math/big.subVV
func subVV(z, x, y []Word) (c Word)

// addVW sets z = x + y for a single limb y and returns the carry.
//
//go:linkname addVW math/big.addVW
func addVW(z, x []Word, y Word) (c Word)

// subVW sets z = x - y for a single limb y and returns the borrow.
//
//go:linkname subVW math/big.subVW
func subVW(z, x []Word, y Word) (c Word)

// shlVU sets z = x << s and returns the bits shifted out of the top limb.
//
//go:linkname shlVU math/big.shlVU
func shlVU(z, x []Word, s uint) (c Word)

// mulAddVWW sets z = x*y + r and returns the high limb.
//
//go:linkname mulAddVWW math/big.mulAddVWW
func mulAddVWW(z, x []Word, y, r Word) (c Word)

// addMulVVW sets z += x*y and returns the carry limb.
//
//go:linkname addMulVVW math/big.addMulVVW
func addMulVVW(z, x []Word, y Word) (c Word)
