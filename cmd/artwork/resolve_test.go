package main

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var (
		out    bytes.Buffer
		appCtx = &appContext{logger: zaptest.NewLogger(t)}
		app    = &cli.App{
			Name:   "artwork",
			Writer: &out,
			Commands: []*cli.Command{
				{Name: "url", Flags: imageFlags(), Action: appCtx.handleURL},
				{
					Name: "placeholder",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "hash"},
						&cli.IntFlag{Name: "width"},
						&cli.IntFlag{Name: "height"},
						&cli.IntFlag{Name: "punch"},
						&cli.StringFlag{Name: "out"},
					},
					Action: appCtx.handlePlaceholder,
				},
			},
		}
	)

	err := app.Run(append([]string{"artwork"}, args...))
	return strings.TrimSpace(out.String()), err
}

func TestURLCommand(t *testing.T) {
	out, err := runApp(t, "url", "--base-url", "http://host", "--item-id", "42", "--tag", "t1", "--max-height", "200", "--quality", "80")
	require.NoError(t, err)
	assert.Equal(t, "http://host/Items/42/Images/Primary?tag=t1&quality=80&maxHeight=200", out)

	out, err = runApp(t, "url", "--base-url", "http://host", "--pixel-ratio", "2", "-i", "42", "-t", "backdrop", "--max-width", "100", "--limit-by-width")
	require.NoError(t, err)
	assert.Equal(t, "http://host/Items/42/Images/Backdrop?quality=90&maxWidth=200", out)
}

func TestURLCommand_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"http://configured\"\nquality = 70"), 0o644))

	out, err := runApp(t, "url", "-c", path, "-i", "42")
	require.NoError(t, err)
	assert.Equal(t, "http://configured/Items/42/Images/Primary?quality=70", out)
}

func TestURLCommand_Errors(t *testing.T) {
	_, err := runApp(t, "url", "--base-url", "http://host")
	assert.Error(t, err, "missing item id")

	_, err = runApp(t, "url", "-i", "42")
	assert.Error(t, err, "missing base url")

	_, err = runApp(t, "url", "--base-url", "http://host", "-i", "42", "-t", "poster")
	assert.Error(t, err, "unknown image type")
}

func TestPlaceholderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "placeholder.jpg")

	_, err := runApp(t, "placeholder", "--hash", "LEHV6nWB2yk8pyo0adR*.7kCMdnj", "--width", "64", "--height", "48", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xff, 0xd8}), "expected a JPEG file")
}
