package stegcodec

import (
	"context"
	"sync"
	"time"
)

// Processor encodes messages into fixed-capacity bit payloads and recovers
// them from noisy copies.
//
// Processors are safe for concurrent use. Configuration methods (SetEnvelope,
// SetCompressor, SetFEC) may be called at any time, for example to rotate
// keys; each operation uses the configuration current when it starts.
type Processor struct {
	cfg Config

	// Mutable configuration protected by mu
	mu   sync.RWMutex
	env  *Envelope
	comp Compressor
	fec  ForwardErrorCorrection
}

// pipeline is a snapshot of the processor configuration for one operation.
type pipeline struct {
	env  *Envelope
	comp Compressor
	fec  ForwardErrorCorrection
}

// NewProcessor validates cfg and returns a processor using the shared
// Reed–Solomon and compressor instances it names. No envelope is set.
func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fec, err := UseReedSolomon(cfg.ParityBytes)
	if err != nil {
		return nil, err
	}
	comp, err := UseCompressor(cfg.Compression, cfg.MaxDecompressedBytes)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		cfg:  cfg,
		comp: comp,
		fec:  fec,
	}

	emitProcessorCreated(context.Background(), cfg.Compression, cfg.ParityBytes)
	return p, nil
}

// Config returns the configuration the processor was built with.
func (p *Processor) Config() Config {
	return p.cfg
}

// SetEnvelope enables encryption; nil disables it.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetEnvelope(env *Envelope) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.env = env
	return p
}

// SetCompressor replaces the compressor.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetCompressor(c Compressor) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comp = c
	return p
}

// SetFEC replaces the forward error correction.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetFEC(f ForwardErrorCorrection) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fec = f
	return p
}

// Encrypted reports whether an envelope is set.
func (p *Processor) Encrypted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.env != nil
}

func (p *Processor) snapshot() pipeline {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return pipeline{env: p.env, comp: p.comp, fec: p.fec}
}

// EncodeMessage seals (when an envelope is set), compresses and applies FEC,
// returning one codeword.
func (p *Processor) EncodeMessage(ctx context.Context, message string) ([]byte, error) {
	return p.encodeMessage(ctx, p.snapshot(), message)
}

func (p *Processor) encodeMessage(ctx context.Context, pl pipeline, message string) ([]byte, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	text := message
	if pl.env != nil {
		sealed, err := pl.env.Seal(ctx, message)
		if err != nil {
			return nil, err
		}
		text = sealed
	}

	compressed, err := pl.comp.Compress([]byte(text))
	if err != nil {
		return nil, err
	}
	return pl.fec.Encode(compressed), nil
}

// DecodeCodeword reverses EncodeMessage for a single codeword.
func (p *Processor) DecodeCodeword(ctx context.Context, codeword []byte) (string, error) {
	pl := p.snapshot()
	text, err := DecodeCodeword(pl.fec, pl.comp, codeword)
	if err != nil {
		return "", err
	}
	return p.open(ctx, pl, text)
}

// RequiredCapacity returns the bits in one framed unit for message: the
// smallest capacity at which Encode carries a complete copy.
//
// With an envelope set the result varies by a few bytes between calls,
// since each seal draws a fresh key and IV that compress differently.
func (p *Processor) RequiredCapacity(ctx context.Context, message string) (int, error) {
	codeword, err := p.EncodeMessage(ctx, message)
	if err != nil {
		return 0, err
	}
	return 8 * (len(codeword) + p.cfg.TerminatorLength), nil
}

// Encode builds a capacity-bit payload carrying as many copies of message
// as fit.
//
// If one framed copy needs more than capacity bits the result is a
// *CapacityError wrapping ErrPayloadTooSmall, unless the config allows
// truncation.
func (p *Processor) Encode(ctx context.Context, message string, capacity int) ([]uint8, error) {
	start := time.Now()
	emitEncodeStart(ctx, capacity, len(message))

	var retErr error
	var codewordSize int
	defer func() {
		emitEncodeComplete(ctx, capacity, codewordSize, time.Since(start), retErr)
	}()

	codeword, err := p.encodeMessage(ctx, p.snapshot(), message)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	codewordSize = len(codeword)

	unit := BytesToBits(FrameUnit(codeword, p.cfg.TerminatorLength))
	if len(unit) > capacity && !p.cfg.AllowTruncation {
		retErr = &CapacityError{Err: ErrPayloadTooSmall, Capacity: capacity, Required: len(unit)}
		return nil, retErr
	}

	payload, err := BuildPayload(capacity, unit)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return payload, nil
}

// Decode recovers the message from channel bits. See Consensus.Decode for
// the candidate selection rules.
func (p *Processor) Decode(ctx context.Context, raw []uint8) (string, error) {
	report, err := p.DecodeReport(ctx, raw)
	if err != nil {
		return "", err
	}
	return report.Message, nil
}

// DecodeReport is Decode with decoding statistics. With an envelope set,
// Message holds the opened plaintext.
func (p *Processor) DecodeReport(ctx context.Context, raw []uint8) (DecodeReport, error) {
	start := time.Now()
	emitDecodeStart(ctx, len(raw)/8)

	var retErr error
	var report DecodeReport
	defer func() {
		emitDecodeComplete(ctx, report, time.Since(start), retErr)
	}()

	pl := p.snapshot()
	consensus := &Consensus{
		FEC:                pl.fec,
		Compressor:         pl.comp,
		TerminatorLength:   p.cfg.TerminatorLength,
		CandidateMinLength: p.cfg.CandidateMinLength,
		MaxAttempts:        p.cfg.MaxDecodeAttempts,
	}

	report, retErr = consensus.Decode(ctx, raw)
	if retErr != nil {
		return report, retErr
	}

	msg, err := p.open(ctx, pl, report.Message)
	if err != nil {
		retErr = err
		report.Message = ""
		return report, retErr
	}
	report.Message = msg
	return report, nil
}

func (p *Processor) open(ctx context.Context, pl pipeline, text string) (string, error) {
	if pl.env == nil {
		return text, nil
	}
	return pl.env.Open(ctx, text)
}
