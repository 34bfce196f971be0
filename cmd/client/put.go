package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rjeczalik/notify"
	"github.com/spf13/cobra"

	"github.com/syncstash/syncstash/internal/stashsdk"
	"github.com/syncstash/syncstash/internal/utils"
)

func init() {
	rootCmd.AddCommand(newPutCmd())
}

func newPutCmd() *cobra.Command {
	var file string
	var revision string
	var force bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "Upload an object",
		Long: "Put reads the body from --file, or stdin when no file is given, and prints the revision\n" +
			"assigned to the new content. With --revision the write only succeeds while the gateway\n" +
			"still holds that exact revision; --force overwrites unconditionally.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			remote, _ := newRemote(cmd)
			path := args[0]

			if watch {
				if file == "" {
					return errors.New("--watch requires --file")
				}
				return watchAndUpload(cmd.Context(), remote, path, file, revision, force)
			}

			body, err := readBody(file)
			if err != nil {
				return err
			}

			rev, err := remote.Upload(cmd.Context(), &stashsdk.UploadParams{
				Path:     path,
				Body:     body,
				Revision: revision,
				Force:    force,
			})
			if err != nil {
				return err
			}

			fmt.Println(rev)
			return nil
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the object body from this file instead of stdin")
	cmd.Flags().StringVarP(&revision, "revision", "r", "", "last-known revision; the write fails if the object moved past it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite regardless of the stored revision")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and re-upload whenever --file changes")

	return cmd
}

// readBody reads the object body from path, or from stdin when path is empty.
func readBody(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// watchAndUpload uploads file once, then re-uploads it on every local change
// until ctx is cancelled. Each upload is conditional on the revision the
// previous one returned, so the loop halts the moment someone else moves the
// object on the gateway.
func watchAndUpload(ctx context.Context, remote *stashsdk.RemoteFile, path, file, revision string, force bool) error {
	abs, err := utils.ResolvePath(file)
	if err != nil {
		return err
	}

	var lastHash string

	upload := func(rev string) (string, error) {
		body, err := readBody(abs)
		if err != nil {
			return "", err
		}

		// Editors fire several events per save; only changed content goes out.
		hash := utils.ContentHash([]byte(body))
		if hash == lastHash {
			return rev, nil
		}

		newRev, err := remote.Upload(ctx, &stashsdk.UploadParams{
			Path:     path,
			Body:     body,
			Revision: rev,
			Force:    force,
		})
		if err != nil {
			return "", err
		}
		lastHash = hash
		return newRev, nil
	}

	// Watch the parent directory: editors save via rename about as often as
	// via write, and a rename swaps the file node a direct watch would pin.
	events := make(chan notify.EventInfo, 1)
	if err := notify.Watch(filepath.Dir(abs), events, notify.Write|notify.Create|notify.Rename); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	defer notify.Stop(events)

	rev, err := upload(revision)
	if err != nil {
		return err
	}
	slog.Info("uploaded", "path", path, "revision", rev)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ei := <-events:
			if ei.Path() != abs {
				continue
			}
			newRev, err := upload(rev)
			if errors.Is(err, stashsdk.ErrConflict) {
				return fmt.Errorf("%w: someone else updated %s; download the latest revision and restart", err, path)
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				slog.Warn("upload failed, retrying on next change", "path", path, "error", err)
				continue
			}
			if newRev != rev {
				rev = newRev
				slog.Info("uploaded", "path", path, "revision", rev)
			}
		}
	}
}
