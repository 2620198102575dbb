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

package compression

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdName is the envelope identifier of the Zstandard codec.
const ZstdName = "zstd"

type zstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var (
	zstdOnce     sync.Once
	zstdInstance *zstdCodec
)

// Zstd returns the shared Zstandard codec. EncodeAll and DecodeAll are safe
// for concurrent use, so one encoder and one decoder serve the process.
func Zstd() Codec {
	zstdOnce.Do(func() {
		encoder, _ := zstd.NewWriter(nil)
		decoder, _ := zstd.NewReader(nil)
		zstdInstance = &zstdCodec{encoder: encoder, decoder: decoder}
	})
	return zstdInstance
}

func (c *zstdCodec) Name() string { return ZstdName }

func (c *zstdCodec) Compress(data []byte) ([]byte, error) {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (c *zstdCodec) Decompress(data []byte) ([]byte, error) {
	return c.decoder.DecodeAll(data, nil)
}
