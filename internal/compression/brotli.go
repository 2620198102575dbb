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
	"bytes"
	"io"
	"sync"

	"github.com/andybalholm/brotli"

	"github.com/quorumline/amqpserde/internal/bufferpool"
)

// BrotliName is the envelope identifier of the Brotli codec.
const BrotliName = "brotli"

type brotliCodec struct{}

var brotliWriterPool = sync.Pool{
	New: func() any {
		return brotli.NewWriter(nil)
	},
}

var brotliReaderPool = sync.Pool{
	New: func() any {
		return brotli.NewReader(nil)
	},
}

// Brotli returns the Brotli codec. Writers and readers are pooled per call.
func Brotli() Codec {
	return brotliCodec{}
}

func (brotliCodec) Name() string { return BrotliName }

func (brotliCodec) Compress(data []byte) ([]byte, error) {
	w := brotliWriterPool.Get().(*brotli.Writer)
	defer brotliWriterPool.Put(w)

	buf := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(buf)

	w.Reset(buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func (brotliCodec) Decompress(data []byte) ([]byte, error) {
	r := brotliReaderPool.Get().(*brotli.Reader)
	defer brotliReaderPool.Put(r)

	if err := r.Reset(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
