package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/psptex/decode"
	"github.com/bodgit/psptex/texfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writePNG(t *testing.T, file string, width, height int) {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), 0x80, 0xff})
		}
	}
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, ioutil.WriteFile(file, b.Bytes(), 0o644))
}

func runApp(args ...string) (string, string, error) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"psptex"}, args...))
	return stdout.String(), stderr.String(), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runApp(args...)
	require.NoError(t, err, stderr)
	return stdout
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "assets", "cell_brick.png"), 30, 16)

	out := run(t, "--root", dir, "inspect", "assets/cell_brick.png")
	assert.Contains(t, out, "cell_brick.png\t30x16\tpitch 32\t8x2 tiles\t2048 bytes\trefs 1/0")
	assert.Contains(t, out, "1 textures, 2048 bytes resident")
}

func TestPackAndList(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "src", "brick.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "src", "sub", "font.png"), 16, 8)
	pack := filepath.Join(dir, "pack.db")

	out := run(t, "--pack", pack, "pack", filepath.Join(dir, "src"))
	assert.Contains(t, out, "Imported 2 images")

	out = run(t, "--pack", pack, "list")
	assert.Contains(t, out, "brick.png\t8x8")
	assert.Contains(t, out, "font.png\t16x8")

	out = run(t, "--pack", pack, "inspect", "ms0:/psp/font.png")
	assert.Contains(t, out, "font.png\t16x8\tpitch 16\t4x1 tiles")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "brick.png"), 30, 16)
	output := filepath.Join(dir, "brick"+texfile.Extension)

	run(t, "--root", dir, "convert", "brick.png", output)

	b, err := ioutil.ReadFile(output)
	require.NoError(t, err)

	var f texfile.File
	require.NoError(t, f.UnmarshalBinary(b))
	assert.Equal(t, 30, f.Width)
	assert.Equal(t, 16, f.Height)
	assert.Equal(t, 32, f.Pitch)
	assert.True(t, f.Swizzled)
	assert.Len(t, f.Data, 2048)
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "brick.png"), 30, 16)
	config := filepath.Join(dir, "psptex.toml")
	require.NoError(t, ioutil.WriteFile(config, []byte("root = \".\"\n\n[preview]\nscale = 2\n"), 0o644))

	for _, name := range []string{"out.png", "out.gif", "out.webp"} {
		output := filepath.Join(dir, name)
		run(t, "--config", config, "preview", "brick.png", output)

		b, err := ioutil.ReadFile(output)
		require.NoError(t, err)
		w, h, _, err := decode.Decode(b)
		require.NoError(t, err, name)
		assert.Equal(t, 60, w, name)
		assert.Equal(t, 32, h, name)
	}

	output := filepath.Join(dir, "forced.out")
	run(t, "--root", dir, "preview", "--format", "gif", "--scale", "3", "brick.png", output)
	b, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	cfg, format, err := decode.Config(b)
	require.NoError(t, err)
	assert.Equal(t, "gif", format)
	assert.Equal(t, 90, cfg.Width)
}

func TestFailures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "brick.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "odd.png"), 8, 12)

	tables := []struct {
		name   string
		args   []string
		stderr string
		err    string
	}{
		{
			name:   "missing",
			args:   []string{"--root", dir, "inspect", "missing.png"},
			stderr: "psptex: load \"missing.png\"",
		},
		{
			name:   "height",
			args:   []string{"--root", dir, "inspect", "brick.png", "odd.png"},
			stderr: "psptex: tile \"odd.png\"",
		},
		{
			name: "no pack",
			args: []string{"--root", dir, "list"},
			err:  "no asset pack configured",
		},
		{
			name: "format",
			args: []string{"--root", dir, "preview", "--format", "bmp", "brick.png", filepath.Join(dir, "out")},
			err:  "bmp",
		},
		{
			name: "convert",
			args: []string{"--root", dir, "convert", "missing.png", filepath.Join(dir, "out.gtex")},
			err:  "missing.png",
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, stderr, err := runApp(table.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), table.err)
			assert.Contains(t, stderr, table.stderr)
		})
	}
}
