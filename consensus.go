package stegcodec

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxDecodeAttempts bounds the early-accept phase. The voting phase
// may inspect as many again.
const DefaultMaxDecodeAttempts = 50

// DefaultCandidateMinLength drops fragments produced by the truncated tail
// of a tiled payload.
const DefaultCandidateMinLength = 10

// Phase identifies which consensus phase produced a message.
type Phase int

const (
	// PhaseNone means no message was recovered.
	PhaseNone Phase = iota

	// PhaseEarlyAccept means the first successfully decoded candidate won.
	PhaseEarlyAccept

	// PhaseVote means the message won the vote among decoded candidates.
	PhaseVote
)

func (p Phase) String() string {
	switch p {
	case PhaseEarlyAccept:
		return "early-accept"
	case PhaseVote:
		return "vote"
	default:
		return "none"
	}
}

// DecodeReport describes the outcome of a consensus decode.
type DecodeReport struct {
	Message    string // Recovered message; empty on failure
	Phase      Phase  // Phase that produced Message
	Attempts   int    // Candidates run through FEC and decompression
	Candidates int    // Candidates that passed the length filter
	Votes      int    // Successful decodes agreeing with Message
	RawBytes   int    // Bytes recovered from the raw bit array
}

// Consensus resolves a noisy, tiled payload to one message.
// It holds no state between calls and is safe for concurrent use.
type Consensus struct {
	FEC                ForwardErrorCorrection
	Compressor         Compressor
	TerminatorLength   int
	CandidateMinLength int
	MaxAttempts        int
}

// DecodeCodeword runs one candidate through FEC, decompression and UTF-8
// validation. Failures are ordinary error values wrapping
// ErrFecUncorrectable, ErrCorruptCompressedData or ErrInvalidUTF8.
func DecodeCodeword(fec ForwardErrorCorrection, comp Compressor, codeword []byte) (string, error) {
	compressed, err := fec.Decode(codeword)
	if err != nil {
		return "", err
	}
	plain, err := comp.Decompress(compressed)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", ErrInvalidUTF8
	}
	return string(plain), nil
}

// Candidates splits raw bytes on the terminator and drops runs shorter
// than minLength.
func Candidates(raw []byte, terminatorLength, minLength int) [][]byte {
	parts := bytes.Split(raw, Terminator(terminatorLength))
	out := parts[:0]
	for _, part := range parts {
		if len(part) >= minLength {
			out = append(out, part)
		}
	}
	return out
}

// Decode recovers a message from channel bits.
//
// Candidates are tried in order. The first to decode is returned unless
// MaxAttempts candidates fail first; decoding then continues up to
// 2×MaxAttempts candidates in total, returning the first message decoded
// twice, or else the most frequent one. If nothing decodes the error is a
// *DecodeError wrapping ErrDecodeExhausted.
func (c *Consensus) Decode(ctx context.Context, raw []uint8) (DecodeReport, error) {
	terminatorLength := c.TerminatorLength
	if terminatorLength <= 0 {
		terminatorLength = DefaultTerminatorLength
	}

	data := BitsToBytes(raw)
	candidates := Candidates(data, terminatorLength, c.CandidateMinLength)

	report := DecodeReport{
		Candidates: len(candidates),
		RawBytes:   len(data),
	}

	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxDecodeAttempts
	}

	next := 0
	for next < len(candidates) && report.Attempts < maxAttempts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		candidate := candidates[next]
		next++
		report.Attempts++

		msg, err := DecodeCodeword(c.FEC, c.Compressor, candidate)
		if err != nil {
			continue
		}
		report.Message = msg
		report.Phase = PhaseEarlyAccept
		report.Votes = 1
		return report, nil
	}

	if next < len(candidates) {
		emitDecodeVote(ctx, report.Attempts, report.Candidates)
	}

	votes := make(map[string]int)
	var order []string
	for next < len(candidates) && report.Attempts < 2*maxAttempts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		candidate := candidates[next]
		next++
		report.Attempts++

		msg, err := DecodeCodeword(c.FEC, c.Compressor, candidate)
		if err != nil {
			continue
		}
		if votes[msg] == 0 {
			order = append(order, msg)
		}
		votes[msg]++
		if votes[msg] >= 2 {
			report.Message = msg
			report.Phase = PhaseVote
			report.Votes = votes[msg]
			return report, nil
		}
	}

	if len(order) == 0 {
		return report, &DecodeError{
			Err:        ErrDecodeExhausted,
			Attempts:   report.Attempts,
			Candidates: report.Candidates,
			RawBytes:   report.RawBytes,
		}
	}

	// Most frequent wins; ties go to the earliest decoded.
	best := order[0]
	for _, msg := range order[1:] {
		if votes[msg] > votes[best] {
			best = msg
		}
	}
	report.Message = best
	report.Phase = PhaseVote
	report.Votes = votes[best]
	return report, nil
}

// String summarizes the report without the message contents.
func (r DecodeReport) String() string {
	return fmt.Sprintf("phase=%s attempts=%d candidates=%d votes=%d bytes=%d",
		r.Phase, r.Attempts, r.Candidates, r.Votes, r.RawBytes)
}
