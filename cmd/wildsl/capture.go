package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wildsl/internal/capture"
	"wildsl/internal/config"
	"wildsl/internal/web"
)

func newCaptureCmd(getConf func() *config.Config) *cobra.Command {
	opts := capture.Options{}
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Screenshot a page of a running server into the preview image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := getConf()
			if opts.URL == "" {
				opts.URL = "http://" + localAddr(conf.Listen) + "/"
			}
			if opts.OutputPath == "" {
				opts.OutputPath = filepath.Join(conf.Data.CacheDir, web.PreviewFile)
			}
			ctx, cancel := signalContext()
			defer cancel()
			return capture.CapturePagePNG(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "Page to capture (default: the configured listen address)")
	cmd.Flags().StringVar(&opts.OutputPath, "out", "", "Output PNG path (default: <cache_dir>/preview.png, served at /preview.png)")
	cmd.Flags().IntVar(&opts.Width, "width", capture.DefaultWidth, "Viewport width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", capture.DefaultHeight, "Viewport height in pixels")
	cmd.Flags().StringVar(&opts.WaitSelector, "wait", capture.DefaultWaitSelector, "CSS selector that must be visible before capturing")
	cmd.Flags().BoolVar(&opts.FullPage, "full-page", false, "Capture the whole page instead of the viewport")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", capture.DefaultTimeout, "Overall capture timeout")
	return cmd
}

// localAddr turns a wildcard listen address into one a browser can dial.
func localAddr(listen string) string {
	switch {
	case strings.HasPrefix(listen, ":"):
		return "127.0.0.1" + listen
	case strings.HasPrefix(listen, "0.0.0.0:"):
		return "127.0.0.1" + strings.TrimPrefix(listen, "0.0.0.0")
	default:
		return listen
	}
}
