package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/persistorai/graphboard/client"
)

// renderFormat picks the image format from the output file extension.
func renderFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return client.FormatSVG, nil
	case ".png":
		return client.FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported output %q: use a .svg or .png file", path)
	}
}

func newRenderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export the board as an SVG or PNG image",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			format, err := renderFormat(out)
			if err != nil {
				fatal("render", err)
			}
			data, err := apiClient.Graph.Render(cmd.Context(), format)
			if err != nil {
				fatal("render", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // exported images are not secret.
				fatal("write "+out, err)
			}
			output(map[string]any{"file": out, "format": format, "bytes": len(data)}, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (.svg or .png)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
