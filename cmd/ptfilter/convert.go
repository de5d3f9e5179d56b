package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cms-cvs-history/trajfilter/codec"
	"github.com/cms-cvs-history/trajfilter/trace"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	fromCodec string
	toCodec   string
}

func newConvertCmd() *cobra.Command {
	var o convertOptions
	cmd := &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Re-encode a trace file",
		Long: `Re-encode a local trace file. The compression of each side follows its
file suffix (.lz4, .zst, or none).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := convertTrace(args[0], args[1], o)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "converted %d candidates to %s\n", n, args[1])
			return err
		},
	}
	cmd.Flags().StringVar(&o.fromCodec, "from-codec", "go-json", "codec of SRC (json or go-json)")
	cmd.Flags().StringVar(&o.toCodec, "to-codec", "go-json", "codec of DST (json or go-json)")
	return cmd
}

func convertTrace(src, dst string, o convertOptions) (n int, err error) {
	from, ok := codec.ByName(o.fromCodec)
	if !ok {
		return 0, fmt.Errorf("unknown codec %q", o.fromCodec)
	}
	to, ok := codec.ByName(o.toCodec)
	if !ok {
		return 0, fmt.Errorf("unknown codec %q", o.toCodec)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	rd, err := trace.NewReader(in, trace.CompressionForName(src), from)
	if err != nil {
		return 0, err
	}
	defer rd.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	w, err := trace.NewWriter(out, trace.CompressionForName(dst), to)
	if err != nil {
		return 0, err
	}
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = w.Close()
			return w.Count(), err
		}
		if err := w.Write(rec); err != nil {
			_ = w.Close()
			return w.Count(), err
		}
	}
	return w.Count(), w.Close()
}
