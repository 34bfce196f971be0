package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/syncstash/syncstash/internal/server/store"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List object keys in the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		backend, err := store.NewBackend(&config.Store)
		if err != nil {
			return err
		}
		defer func() {
			if closer, ok := backend.(io.Closer); ok {
				closer.Close()
			}
		}()

		objects, err := backend.ListObjects(cmd.Context())
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		pattern, _ := cmd.Flags().GetString("glob")

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "KEY\tSIZE\tREVISION\tMODIFIED")
		for _, obj := range objects {
			if ok, _ := doublestar.Match(pattern, obj.Key); !ok {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				obj.Key,
				humanize.Bytes(uint64(obj.Size)),
				obj.ETag,
				humanize.Time(obj.LastModified),
			)
		}
		return nil
	},
}

func init() {
	keysCmd.Flags().StringP("glob", "g", "**", "Only list keys matching this glob")
}
