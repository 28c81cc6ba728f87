package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/stegcodec"
	stegtest "github.com/zoobzio/stegcodec/testing"
)

const (
	benchMessage  = "Secret message"
	benchCapacity = 100000
)

func BenchmarkProcessor_Encode(b *testing.B) {
	proc := stegtest.TestProcessor(b, stegcodec.DefaultConfig())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Encode(ctx, benchMessage, benchCapacity)
	}
}

func BenchmarkProcessor_Decode_Clean(b *testing.B) {
	proc := stegtest.TestProcessor(b, stegcodec.DefaultConfig())
	ctx := context.Background()
	payload, _ := proc.Encode(ctx, benchMessage, benchCapacity)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Decode(ctx, payload)
	}
}

func BenchmarkProcessor_Decode_Noisy(b *testing.B) {
	proc := stegtest.TestProcessor(b, stegcodec.DefaultConfig())
	ctx := context.Background()
	payload, _ := proc.Encode(ctx, benchMessage, benchCapacity)
	noisy := stegtest.FlipBits(payload, 0.05, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Decode(ctx, noisy)
	}
}

func BenchmarkProcessor_Compression(b *testing.B) {
	algos := []stegcodec.CompressAlgo{
		stegcodec.CompressZlib,
		stegcodec.CompressFlate,
		stegcodec.CompressZstd,
		stegcodec.CompressLZ4,
		stegcodec.CompressNone,
	}
	ctx := context.Background()

	for _, algo := range algos {
		b.Run(string(algo), func(b *testing.B) {
			cfg := stegcodec.DefaultConfig()
			cfg.Compression = algo
			proc := stegtest.TestProcessor(b, cfg)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				codeword, _ := proc.EncodeMessage(ctx, benchMessage)
				_, _ = proc.DecodeCodeword(ctx, codeword)
			}
		})
	}
}

func BenchmarkReedSolomon_Decode(b *testing.B) {
	fec, _ := stegcodec.UseReedSolomon(250)
	codeword := fec.Encode([]byte("benchmark data block"))
	noisy := stegcodec.BitsToBytes(stegtest.FlipBits(stegcodec.BytesToBits(codeword), 0.05, 7))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fec.Decode(noisy)
	}
}

func BenchmarkEnvelope_Seal(b *testing.B) {
	env := stegtest.TestEnvelope(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = env.Seal(ctx, benchMessage)
	}
}

func BenchmarkEnvelope_Open(b *testing.B) {
	env := stegtest.TestEnvelope(b)
	ctx := context.Background()
	sealed, _ := env.Seal(ctx, benchMessage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = env.Open(ctx, sealed)
	}
}
