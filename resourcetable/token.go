// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package resourcetable

import "slices"

// Token layout, low to high: 8 bits bind index, 16 bits resource index,
// 6 bits uniform buffer index.
const (
	BindIndexBits     = 8
	ResourceIndexBits = 16
	UniformBufferBits = 6

	BindIndexMask     = 1<<BindIndexBits - 1
	ResourceIndexMask = 1<<ResourceIndexBits - 1
	UniformBufferMask = 1<<UniformBufferBits - 1

	resourceIndexShift = BindIndexBits
	uniformBufferShift = BindIndexBits + ResourceIndexBits

	// EndOfStreamToken terminates a non-empty token stream.
	EndOfStreamToken uint32 = 0xFFFFFFFF
)

// Token encodes where a resource lives and where it must be bound.
func Token(uniformBuffer, resourceIndex, bindIndex uint16) uint32 {
	return uint32(uniformBuffer&UniformBufferMask)<<uniformBufferShift |
		uint32(resourceIndex&ResourceIndexMask)<<resourceIndexShift |
		uint32(bindIndex&BindIndexMask)
}

// TokenUniformBuffer returns the uniform buffer slot of a token.
func TokenUniformBuffer(t uint32) uint16 {
	return uint16(t>>uniformBufferShift) & UniformBufferMask
}

// TokenResourceIndex returns the index inside the uniform buffer.
func TokenResourceIndex(t uint32) uint16 {
	return uint16(t>>resourceIndexShift) & ResourceIndexMask
}

// TokenBindIndex returns the shader slot of a token.
func TokenBindIndex(t uint32) uint16 {
	return uint16(t) & BindIndexMask
}

// BuildTokenStream turns a list of tokens into the runtime stream.
//
// The stream starts with maxBound+1 words, word i holding the stream offset
// of the first token of uniform buffer i (0 if the buffer has none). The
// sorted tokens follow, then EndOfStreamToken. No tokens yield an empty
// stream.
func BuildTokenStream(tokens []uint32, maxBound int) []uint32 {
	if len(tokens) == 0 || maxBound < 0 {
		return nil
	}
	sorted := slices.Clone(tokens)
	slices.Sort(sorted)

	stream := make([]uint32, maxBound+1, maxBound+2+len(sorted))
	last := -1
	for _, t := range sorted {
		ub := int(TokenUniformBuffer(t))
		if ub != last {
			stream[ub] = uint32(len(stream))
			last = ub
		}
		stream = append(stream, t)
	}
	return append(stream, EndOfStreamToken)
}
