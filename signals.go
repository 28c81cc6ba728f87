package stegcodec

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events. Message contents are never attached.
var (
	SignalProcessorCreated = capitan.NewSignal("stegcodec.processor.created", "Processor instantiated")
	SignalEncodeStart      = capitan.NewSignal("stegcodec.encode.start", "Encode operation beginning")
	SignalEncodeComplete   = capitan.NewSignal("stegcodec.encode.complete", "Encode operation finished")
	SignalDecodeStart      = capitan.NewSignal("stegcodec.decode.start", "Decode operation beginning")
	SignalDecodeComplete   = capitan.NewSignal("stegcodec.decode.complete", "Decode operation finished")
	SignalDecodeVote       = capitan.NewSignal("stegcodec.decode.vote", "Early-accept budget spent, voting")
	SignalEnvelopeSeal     = capitan.NewSignal("stegcodec.envelope.seal", "Envelope sealed")
	SignalEnvelopeOpen     = capitan.NewSignal("stegcodec.envelope.open", "Envelope opened")
)

// Keys for typed event data.
var (
	KeyCompression  = capitan.NewStringKey("compression")
	KeyRecipient    = capitan.NewStringKey("key_fingerprint")
	KeyPhase        = capitan.NewStringKey("phase")
	KeyParity       = capitan.NewIntKey("parity")
	KeyCapacity     = capitan.NewIntKey("capacity")
	KeyMessageSize  = capitan.NewIntKey("message_size")
	KeyCodewordSize = capitan.NewIntKey("codeword_size")
	KeyRawSize      = capitan.NewIntKey("raw_size")
	KeyCandidates   = capitan.NewIntKey("candidates")
	KeyAttempts     = capitan.NewIntKey("attempts")
	KeyVotes        = capitan.NewIntKey("votes")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, compression CompressAlgo, parity int) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyCompression.Field(string(compression)),
		KeyParity.Field(parity),
	)
}

// emitEncodeStart emits an event when encode begins.
func emitEncodeStart(ctx context.Context, capacity, messageSize int) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyCapacity.Field(capacity),
		KeyMessageSize.Field(messageSize),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, capacity, codewordSize int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyCapacity.Field(capacity),
		KeyCodewordSize.Field(codewordSize),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeStart emits an event when decode begins.
func emitDecodeStart(ctx context.Context, rawSize int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyRawSize.Field(rawSize),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, report DecodeReport, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPhase.Field(report.Phase.String()),
		KeyCandidates.Field(report.Candidates),
		KeyAttempts.Field(report.Attempts),
		KeyVotes.Field(report.Votes),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitDecodeVote emits an event when the early-accept budget runs out.
func emitDecodeVote(ctx context.Context, attempts, candidates int) {
	capitan.Emit(ctx, SignalDecodeVote,
		KeyAttempts.Field(attempts),
		KeyCandidates.Field(candidates),
	)
}

// emitEnvelopeSeal emits an event when an envelope is sealed.
func emitEnvelopeSeal(ctx context.Context, fingerprint string, size int, duration time.Duration, err error) {
	emitEnvelope(ctx, SignalEnvelopeSeal, fingerprint, size, duration, err)
}

// emitEnvelopeOpen emits an event when an envelope is opened.
func emitEnvelopeOpen(ctx context.Context, fingerprint string, size int, duration time.Duration, err error) {
	emitEnvelope(ctx, SignalEnvelopeOpen, fingerprint, size, duration, err)
}

func emitEnvelope(ctx context.Context, signal capitan.Signal, fingerprint string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyRecipient.Field(fingerprint),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, signal, fields...)
	} else {
		capitan.Emit(ctx, signal, fields...)
	}
}
