// Command cryptflow drives the streaming cipher transformers against real
// files: encrypt, decrypt, or hash a file without loading it into memory.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/cryptflow/cryptflow/internal/cipher"
	"github.com/cryptflow/cryptflow/internal/config"
	"github.com/cryptflow/cryptflow/internal/stream"
	"github.com/cryptflow/cryptflow/internal/transform"
)

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// readSecret reads raw hex-encoded bytes from the controlling TTY without
// echoing them, so a key or IV never lands in shell history or a process
// listing. It does not hash or stretch the input — this module performs no
// key derivation.
func readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading secret from terminal: %w", err)
	}
	return hex.DecodeString(string(raw))
}

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	var (
		mode       = flag.String("mode", "", "encrypt, decrypt, or hash")
		inPath     = flag.String("in", "", "input file path")
		outPath    = flag.String("out", "", "output file path (defaults to stdout)")
		cipherName = flag.String("cipher", cfg.OpenSSLName(), "cipher method name, e.g. aes-256-ctr")
		ivHex      = flag.String("iv", "", "hex-encoded 16-byte IV")
		keyHex     = flag.String("key", "", "hex-encoded key (omit to be prompted securely)")
		hashAlg    = flag.String("hash", "sha256", "hash algorithm for -mode=hash: md5, sha1, sha256, sha512")
		hmacKeyHex = flag.String("hmac-key", "", "hex-encoded HMAC key for -mode=hash (omit for a plain hash)")
	)
	flag.Parse()

	if *mode == "" || *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: cryptflow -mode={encrypt,decrypt,hash} -in=FILE [-out=FILE] [-cipher=NAME] [-iv=HEX] [-key=HEX]")
		os.Exit(2)
	}

	source, err := stream.NewFileStream(*inPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *inPath).Msg("failed to open input")
	}
	defer source.Close()

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *outPath).Msg("failed to create output")
		}
		defer f.Close()
		out = f
	}

	var result stream.Stream

	switch *mode {
	case "encrypt", "decrypt":
		key, err := resolveKey(*keyHex)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to resolve key")
		}
		iv, err := resolveIV(*ivHex)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to resolve iv")
		}
		method, err := cipher.NewMethod(*cipherName, iv)
		if err != nil {
			log.Fatal().Err(err).Str("cipher", *cipherName).Msg("failed to construct cipher method")
		}
		if *mode == "encrypt" {
			result, err = transform.NewEncrypting(source, key, method)
		} else {
			result, err = transform.NewDecrypting(source, key, method)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("failed to construct transformer")
		}

	case "hash":
		var hmacKey []byte
		if *hmacKeyHex != "" {
			hmacKey, err = hex.DecodeString(*hmacKeyHex)
			if err != nil {
				log.Fatal().Err(err).Msg("invalid hmac key hex")
			}
		}
		var digest []byte
		h, err := transform.NewHashing(source, *hashAlg, hmacKey, func(d []byte) { digest = d })
		if err != nil {
			log.Fatal().Err(err).Msg("failed to construct hashing transformer")
		}
		if _, err := io.Copy(out, stream.AsReader(h)); err != nil {
			log.Fatal().Err(err).Msg("hashing failed")
		}
		fmt.Fprintf(os.Stderr, "%s: %x\n", *hashAlg, digest)
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	if _, err := io.Copy(out, stream.AsReader(result)); err != nil {
		log.Fatal().Err(err).Msg("stream transform failed")
	}
}

func resolveKey(keyHex string) ([]byte, error) {
	if keyHex != "" {
		return hex.DecodeString(keyHex)
	}
	return readSecret("key (hex): ")
}

func resolveIV(ivHex string) ([]byte, error) {
	if ivHex != "" {
		return hex.DecodeString(ivHex)
	}
	return readSecret("iv (hex): ")
}
