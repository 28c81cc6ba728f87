// stegcodec encodes text into fixed-capacity bit payloads that survive
// channel noise, and decodes them back.
//
// Usage:
//
//	stegcodec encode --text "Secret message" --width 100 --height 100 --depth 3 --out payload.bin --manifest payload.yaml
//	stegcodec decode --in payload.bin --manifest payload.yaml
//	stegcodec keygen --bits 2048 --out recipient
//	stegcodec inspect --manifest payload.yaml
//
// Payload files hold the bits packed eight to a byte, most significant
// first. The manifest format follows its extension: .json, .yaml, .xml,
// .msgpack or .bson.
package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/zoobzio/stegcodec"
	"github.com/zoobzio/stegcodec/internal/channel"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("missing command")
	}

	level := os.Getenv("STEGCODEC_LOG_LEVEL")
	logger, err := newLogger(level)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	switch args[0] {
	case "encode":
		return runEncode(ctx, logger, args[1:])
	case "decode":
		return runDecode(ctx, logger, args[1:])
	case "keygen":
		return runKeygen(logger, args[1:])
	case "inspect":
		return runInspect(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: stegcodec <encode|decode|keygen|inspect> [flags]")
}

// parse handles --help uniformly. It reports false when the command
// should stop without error.
func parse(fs *pflag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func runEncode(ctx context.Context, logger *zap.Logger, args []string) error {
	var (
		text, out, manifestPath, configPath, publicKey string
		width, height, depth                           int
	)
	fs := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	fs.StringVarP(&text, "text", "t", "", "message to encode")
	fs.IntVar(&width, "width", 100, "image width in pixels")
	fs.IntVar(&height, "height", 100, "image height in pixels")
	fs.IntVar(&depth, "depth", 3, "payload bits per pixel")
	fs.StringVarP(&out, "out", "o", "payload.bin", "payload output file")
	fs.StringVarP(&manifestPath, "manifest", "m", "payload.yaml", "manifest output file")
	fs.StringVarP(&configPath, "config", "c", "", "config file (defaults apply when empty)")
	fs.StringVar(&publicKey, "public-key", "", "recipient PEM public key; seals the message when set")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if text == "" {
		return errors.New("--text is required")
	}

	cfg, err := readConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	proc, err := stegcodec.NewProcessor(cfg)
	if err != nil {
		return err
	}

	manifest := stegcodec.NewManifest(cfg, width, height, depth)
	if publicKey != "" {
		env, err := readPublicKey(publicKey, cfg)
		if err != nil {
			return fmt.Errorf("loading public key: %w", err)
		}
		proc.SetEnvelope(env)
		manifest.Encrypted = true
		manifest.KeyFingerprint = env.Fingerprint()
	}

	start := time.Now()
	payload, err := proc.Encode(ctx, text, manifest.Capacity)
	if err != nil {
		var capErr *stegcodec.CapacityError
		if errors.As(err, &capErr) {
			logger.Error("payload does not fit",
				zap.Int("capacity", capErr.Capacity),
				zap.Int("required", capErr.Required))
		}
		return err
	}

	if err := writeBits(out, payload); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}
	if err := writeManifest(manifestPath, manifest); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	logger.Info("encoded",
		zap.String("payload", out),
		zap.String("manifest", manifestPath),
		zap.Int("capacity", manifest.Capacity),
		zap.String("compression", string(cfg.Compression)),
		zap.Bool("encrypted", manifest.Encrypted),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func runDecode(ctx context.Context, logger *zap.Logger, args []string) error {
	var (
		in, manifestPath, privateKey string
		noise                        float64
		seed                         uint64
	)
	fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	fs.StringVarP(&in, "in", "i", "payload.bin", "payload input file")
	fs.StringVarP(&manifestPath, "manifest", "m", "payload.yaml", "manifest file")
	fs.StringVar(&privateKey, "private-key", "", "PEM private key for sealed payloads")
	fs.Float64Var(&noise, "noise", 0, "flip each bit with this probability before decoding")
	fs.Uint64Var(&seed, "seed", 1, "noise seed")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	manifest, err := readManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	proc, err := stegcodec.NewProcessor(manifest.Config)
	if err != nil {
		return err
	}

	if manifest.Encrypted {
		if privateKey == "" {
			return fmt.Errorf("%w: manifest marks the payload sealed; pass --private-key", stegcodec.ErrMissingKey)
		}
		env, err := readPrivateKey(privateKey, manifest.Config)
		if err != nil {
			return fmt.Errorf("loading private key: %w", err)
		}
		if manifest.KeyFingerprint != "" && env.Fingerprint() != manifest.KeyFingerprint {
			logger.Warn("key fingerprint mismatch",
				zap.String("manifest", manifest.KeyFingerprint),
				zap.String("key", env.Fingerprint()))
		}
		proc.SetEnvelope(env)
	}

	bits, err := readBits(in, manifest.Capacity)
	if err != nil {
		return err
	}
	if noise > 0 {
		bits = channel.FlipBits(bits, noise, seed)
		logger.Debug("noise applied", zap.Float64("rate", noise), zap.Uint64("seed", seed))
	}

	report, err := proc.DecodeReport(ctx, bits)
	if err != nil {
		var decErr *stegcodec.DecodeError
		if errors.As(err, &decErr) {
			logger.Error("decode exhausted",
				zap.Int("attempts", decErr.Attempts),
				zap.Int("candidates", decErr.Candidates),
				zap.Int("bytes", decErr.RawBytes))
		}
		return err
	}

	logger.Info("decoded",
		zap.String("phase", report.Phase.String()),
		zap.Int("attempts", report.Attempts),
		zap.Int("candidates", report.Candidates),
		zap.Int("votes", report.Votes))
	fmt.Println(report.Message)
	return nil
}

func runKeygen(logger *zap.Logger, args []string) error {
	var (
		bits int
		out  string
	)
	fs := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	fs.IntVar(&bits, "bits", 2048, "RSA modulus size: 1024, 2048, 3072 or 4096")
	fs.StringVarP(&out, "out", "o", "stegcodec", "output prefix; writes <prefix>.pem and <prefix>.pub.pem")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	switch bits {
	case 1024, 2048, 3072, 4096:
	default:
		return fmt.Errorf("%w: unsupported key size %d", stegcodec.ErrInvalidKey, bits)
	}

	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return err
	}
	pubPEM, err := stegcodec.MarshalPublicKeyPEM(&priv.PublicKey)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out+".pem", stegcodec.MarshalPrivateKeyPEM(priv), 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(out+".pub.pem", pubPEM, 0o644); err != nil {
		return err
	}

	logger.Info("key pair written",
		zap.String("private", out+".pem"),
		zap.String("public", out+".pub.pem"),
		zap.String("fingerprint", stegcodec.KeyFingerprint(&priv.PublicKey)))
	return nil
}

func runInspect(args []string) error {
	var manifestPath string
	fs := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	fs.StringVarP(&manifestPath, "manifest", "m", "payload.yaml", "manifest file")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	m, err := readManifest(manifestPath)
	if err != nil {
		return err
	}
	fmt.Printf("version:      %d\n", m.Version)
	fmt.Printf("geometry:     %dx%dx%d\n", m.Width, m.Height, m.Depth)
	fmt.Printf("capacity:     %d bits\n", m.Capacity)
	fmt.Printf("compression:  %s\n", m.Config.Compression)
	fmt.Printf("parity:       %d bytes per block\n", m.Config.ParityBytes)
	fmt.Printf("encrypted:    %t\n", m.Encrypted)
	if m.KeyFingerprint != "" {
		fmt.Printf("fingerprint:  %s\n", m.KeyFingerprint)
	}
	return nil
}
