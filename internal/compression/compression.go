// MIT License
//
// Copyright (c) 2024-2026 Quorumline
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package compression provides the payload encodings an envelope may carry.
// The encoding name travels in the envelope, so a receiver picks the codec
// from the wire rather than from configuration.
package compression

// Codec compresses and decompresses envelope payloads. Implementations are
// safe for concurrent use.
type Codec interface {
	// Name is the identifier carried in the envelope
	Name() string
	// Compress returns the compressed form of data
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress
	Decompress(data []byte) ([]byte, error)
}

// ByName returns the built-in codec carrying the given envelope identifier.
func ByName(name string) (Codec, bool) {
	switch name {
	case ZstdName:
		return Zstd(), true
	case BrotliName:
		return Brotli(), true
	default:
		return nil, false
	}
}
