package effect

import (
	"fmt"

	"github.com/gogpu/naga"
)

// Compiler turns WGSL source into SPIR-V bytes.
type Compiler func(source string) ([]byte, error)

// NagaCompiler compiles WGSL with naga. It is the default Compiler.
func NagaCompiler(source string) ([]byte, error) {
	return naga.Compile(source)
}

// compileToWords compiles source and converts the result to SPIR-V words.
func compileToWords(c Compiler, source string) ([]uint32, error) {
	spirvBytes, err := c(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("failed to compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
