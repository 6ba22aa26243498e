package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	diffdd "github.com/jansucan/diff-dd"
	"github.com/jansucan/diff-dd/options"
	"github.com/jansucan/diff-dd/restore"
)

func main() {
	app := &cli.App{
		Name:    "diff-dd",
		Usage:   "create and restore differential binary image diffs",
		Version: "2.0.0",
		Commands: []*cli.Command{
			createCommand(),
			restoreCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "record the differences between a base and new file",
		ArgsUsage: "",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "buffer-size", Aliases: []string{"B"}, Value: options.DefaultBufferSize, Usage: "I/O buffer size in bytes"},
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "path to the new file"},
			&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Required: true, Usage: "path to the base file"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "path to write the diff image to"},
		},
		Action: runCreate,
	}
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "apply a diff image to a copy of the base file",
		ArgsUsage: "",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "buffer-size", Aliases: []string{"B"}, Value: options.DefaultBufferSize, Usage: "I/O buffer size in bytes"},
			&cli.StringFlag{Name: "diff", Aliases: []string{"d"}, Required: true, Usage: "path to the diff image"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "path to the file to patch in place"},
		},
		Action: runRestore,
	}
}

func runCreate(c *cli.Context) error {
	opts := options.Create{
		BufferSize:   uint32(c.Uint("buffer-size")),
		InFilePath:   c.String("in"),
		BaseFilePath: c.String("base"),
		OutFilePath:  c.String("out"),
	}

	inFile, err := os.Open(opts.InFilePath)
	if err != nil {
		return fmt.Errorf("cannot open input file: %w", err)
	}
	defer inFile.Close()

	baseFile, err := os.Open(opts.BaseFilePath)
	if err != nil {
		return fmt.Errorf("cannot open base file: %w", err)
	}
	defer baseFile.Close()

	outFile, err := os.Create(opts.OutFilePath)
	if err != nil {
		return fmt.Errorf("cannot open output file: %w", err)
	}
	defer outFile.Close()

	return diffdd.Create(baseFile, inFile, outFile, int(opts.BufferSize))
}

func runRestore(c *cli.Context) error {
	opts := options.Restore{
		BufferSize:   uint32(c.Uint("buffer-size")),
		DiffFilePath: c.String("diff"),
		OutFilePath:  c.String("out"),
	}

	diffFile, err := os.Open(opts.DiffFilePath)
	if err != nil {
		return fmt.Errorf("cannot open diff file: %w", err)
	}
	defer diffFile.Close()

	outFile, err := os.OpenFile(opts.OutFilePath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("cannot open output file: %w", err)
	}
	defer outFile.Close()

	return restore.Apply(diffFile, outFile, int(opts.BufferSize))
}
