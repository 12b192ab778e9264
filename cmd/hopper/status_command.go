package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"hopper/internal/config"
	"hopper/internal/diskspace"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon state and per-option directory counts",
		Long: "Status is derived entirely from the filesystem: the daemon lock file,\n" +
			"free space at the work directory, and file counts in each conversion\n" +
			"option's input/output/originals/failed subdirectories.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(out, line)
			}
			if daemonRunning(cfg) {
				fmt.Fprintln(out, renderStatusLine("daemon", statusOK, "running (lock held)", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("daemon", statusInfo, "not running", colorize))
			}

			free, err := diskspace.FreeMB(cfg.AbsWorkDir())
			switch {
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("free space", statusWarn, err.Error(), colorize))
			case free < cfg.MinFreeMB:
				fmt.Fprintln(out, renderStatusLine("free space", statusWarn,
					fmt.Sprintf("%s free, below the %d MB floor; transcodes deferred",
						humanize.IBytes(uint64(free)*1024*1024), cfg.MinFreeMB), colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("free space", statusOK,
					humanize.IBytes(uint64(free)*1024*1024)+" free", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("video root", statusInfo, cfg.VideoRoot, colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Conversion options", colorize) {
				fmt.Fprintln(out, line)
			}
			rows := make([][]string, 0, len(cfg.OptionKeys()))
			for _, key := range cfg.OptionKeys() {
				option := cfg.OptionDir(key)
				rows = append(rows, []string{
					key,
					strconv.Itoa(countFiles(filepath.Join(option, cfg.InputSubdir))),
					strconv.Itoa(countFiles(filepath.Join(option, cfg.OutputSubdir))),
					strconv.Itoa(countFiles(filepath.Join(option, cfg.SuccessfulOriginalsSubdir))),
					strconv.Itoa(countFiles(filepath.Join(option, cfg.FailedOriginalsSubdir))),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Option", "Input", "Output", "Originals", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

// daemonRunning probes the daemon lock without holding it.
func daemonRunning(cfg *config.Config) bool {
	lock := flock.New(cfg.LockFilePath())
	ok, err := lock.TryLock()
	if err != nil {
		return false
	}
	if ok {
		_ = lock.Unlock()
		return false
	}
	return true
}

// countFiles counts regular files under dir, skipping dotfiles the same way
// the scanner does.
func countFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") && path != dir {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() {
			count++
		}
		return nil
	})
	return count
}
