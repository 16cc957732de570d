// Command mpackdump inspects MessagePack data: it renders each item in
// diagnostic notation (default) or as JSON, or just validates that the
// input is a well-formed item sequence.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	mpack "github.com/wirepack/mpack.go/runtime"
)

// CLI defines the mpackdump command-line interface.
//
// Input is a file path or "-" for stdin. With --hex the input is
// hex-encoded text (whitespace ignored), which is handy for pasting
// captures.
type CLI struct {
	Input    string `arg:"" optional:"" help:"Input file (defaults to stdin)" default:"-"`
	Hex      bool   `short:"x" help:"Treat input as hex text"`
	JSON     bool   `short:"j" help:"Emit JSON instead of diagnostic notation"`
	Validate bool   `help:"Only validate; print nothing on success"`
	Verbose  bool   `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mpackdump"),
		kong.Description("Dump MessagePack data as diagnostic notation or JSON."),
	)

	if err := run(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run(cli *CLI) error {
	logger := zap.NewNop()
	if cli.Verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = dev
		defer logger.Sync()
	}

	data, err := readInput(cli.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if cli.Hex {
		data, err = decodeHexText(data)
		if err != nil {
			return fmt.Errorf("decode hex: %w", err)
		}
	}
	logger.Info("input loaded", zap.Int("bytes", len(data)))

	if cli.Validate {
		if err := mpack.ValidateDocument(data); err != nil {
			return err
		}
		logger.Info("document is well-formed")
		return nil
	}

	item := 0
	for len(data) > 0 {
		var out string
		var rest []byte
		if cli.JSON {
			var js []byte
			js, rest, err = mpack.ToJSONBytes(data)
			out = string(js)
		} else {
			out, rest, err = mpack.DiagBytes(data)
		}
		if err != nil {
			return fmt.Errorf("item %d: %w", item, err)
		}
		logger.Debug("decoded item",
			zap.Int("index", item),
			zap.Int("encoded_bytes", len(data)-len(rest)),
			zap.Stringer("type", mpack.NextType(data)))
		fmt.Println(out)
		data = rest
		item++
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func decodeHexText(in []byte) ([]byte, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, string(in))
	return hex.DecodeString(s)
}
