// Command bencode inspects and converts bencode files.
//
//	bencode dump file.torrent          print the decoded tree
//	bencode info file.torrent          print a metainfo summary
//	bencode transcode -f json file     re-encode as json, cbor or msgpack
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/bencode"
	"github.com/unkn0wn-root/bencode/codec"
	zaplog "github.com/unkn0wn-root/bencode/log/zap"
	"github.com/unkn0wn-root/bencode/metainfo"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "bencode",
		Short:         "Inspect and convert bencode files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logger := func() bencode.Logger {
		if !verbose {
			return bencode.NopLogger{}
		}
		zl, err := zap.NewDevelopment()
		if err != nil {
			return bencode.NopLogger{}
		}
		return zaplog.ZapLogger{L: zl}
	}

	root.AddCommand(dumpCmd(), infoCmd(logger), transcodeCmd())
	return root
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Parse a file and print each top-level value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			r := bencode.NewReader(f)
			for {
				v, err := r.NextValue()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
		},
	}
}

func infoCmd(logger func() bencode.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print a torrent metainfo summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mi, err := metainfo.Load(args[0], metainfo.Options{Logger: logger()})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:         %s\n", mi.Info.Name)
			fmt.Fprintf(out, "info hash:    %s\n", mi.HexInfoHash())
			fmt.Fprintf(out, "announce:     %s\n", mi.Announce)
			fmt.Fprintf(out, "total length: %d\n", mi.TotalLength())
			fmt.Fprintf(out, "piece length: %d\n", mi.Info.PieceLength)
			fmt.Fprintf(out, "pieces:       %d\n", mi.PieceCount())
			fmt.Fprintf(out, "files:        %d\n", mi.NumFiles())
			if mi.Comment != nil {
				fmt.Fprintf(out, "comment:      %s\n", *mi.Comment)
			}
			return nil
		},
	}
}

func transcodeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "transcode <file>",
		Short: "Re-encode one bencode value as json, cbor or msgpack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			v, err := bencode.DecodeValue(data)
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "json":
				out, err = codec.JSONCodec[any]{}.Encode(v.Interface())
			case "cbor":
				out, err = codec.MustCBOR[any](true).Encode(v.Interface())
			case "msgpack":
				out, err = codec.Msgpack[any]{}.Encode(v.Interface())
			default:
				return fmt.Errorf("unknown format %q (want json, cbor or msgpack)", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, cbor or msgpack")
	return cmd
}
