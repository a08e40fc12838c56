// Command generate-golden writes the reference vectors checked by the
// natural package tests. Every value is computed with math/big alone.
//
//	go run ./cmd/generate-golden -out internal/natural/testdata/golden.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"math/rand"
	"os"
	"path/filepath"
)

// Case is one reference vector. Values are hexadecimal with a 0x prefix and
// an optional minus sign.
type Case struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	X    string `json:"x,omitempty"`
	D    string `json:"d,omitempty"`
	// Bits is the modulus exponent of an inverse, a multiple of 64 so the
	// vector holds on both limb sizes.
	Bits int    `json:"bits,omitempty"`
	Want string `json:"want"`
}

// File is the document written by the generator.
type File struct {
	Seed  int64  `json:"seed"`
	Cases []Case `json:"cases"`
}

// Operand sizes in 64-bit words; they straddle the default crossovers.
var (
	squareWords   = []int{1, 2, 3, 27, 28, 29, 93, 100, 251}
	divexactWords = [][2]int{{1, 1}, {3, 1}, {4, 2}, {20, 8}, {45, 44}, {105, 60}, {300, 100}}
	invertWords   = []int{1, 2, 5, 33, 120, 230}
)

func hex(x *big.Int) string {
	if x.Sign() < 0 {
		return "-0x" + new(big.Int).Neg(x).Text(16)
	}
	return "0x" + x.Text(16)
}

// randomValue returns a value of exactly words 64-bit words.
func randomValue(r *rand.Rand, words int) *big.Int {
	bits := words * 64
	x := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
	return x.SetBit(x, bits-1, 1)
}

func allOnes(words int) *big.Int {
	one := big.NewInt(1)
	return new(big.Int).Sub(new(big.Int).Lsh(one, uint(words*64)), one)
}

func squareCase(name string, x *big.Int) Case {
	return Case{Name: name, Kind: "square", X: hex(x), Want: hex(new(big.Int).Mul(x, x))}
}

func divexactCase(name string, q, d *big.Int) Case {
	return Case{Name: name, Kind: "divexact", X: hex(new(big.Int).Mul(q, d)), D: hex(d), Want: hex(q)}
}

func invertCase(name string, d *big.Int, words int) Case {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(words*64))
	return Case{Name: name, Kind: "invert", D: hex(d), Bits: words * 64, Want: hex(new(big.Int).ModInverse(d, mod))}
}

// generate builds the vectors of seed.
func generate(seed int64) File {
	r := rand.New(rand.NewSource(seed))
	f := File{Seed: seed}
	add := func(c Case) { f.Cases = append(f.Cases, c) }

	add(squareCase("square zero", new(big.Int)))
	for _, w := range squareWords {
		add(squareCase(fmt.Sprintf("square %d words", w), randomValue(r, w)))
		add(squareCase(fmt.Sprintf("square %d words all ones", w), allOnes(w)))
	}
	add(squareCase("square negative", new(big.Int).Neg(randomValue(r, 30))))

	for _, p := range divexactWords {
		q, d := randomValue(r, p[0]), randomValue(r, p[1])
		add(divexactCase(fmt.Sprintf("divexact %dx%d words", p[0], p[1]), q, d))
	}
	add(divexactCase("divexact even divisor", randomValue(r, 12), new(big.Int).Lsh(randomValue(r, 5), 70)))
	add(divexactCase("divexact negative dividend", new(big.Int).Neg(randomValue(r, 9)), randomValue(r, 4)))
	add(divexactCase("divexact all ones", allOnes(50), allOnes(50)))

	for _, w := range invertWords {
		d := randomValue(r, w)
		d.SetBit(d, 0, 1)
		add(invertCase(fmt.Sprintf("invert %d words", w), d, w))
	}
	add(invertCase("invert all ones", allOnes(40), 40))
	add(invertCase("invert one", big.NewInt(1), 3))
	return f
}

func main() {
	out := flag.String("out", filepath.Join("internal", "natural", "testdata", "golden.json"), "output file")
	seed := flag.Int64("seed", 20240601, "operand seed")
	flag.Parse()

	f := generate(*seed)
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d cases to %s\n", len(f.Cases), *out)
}
