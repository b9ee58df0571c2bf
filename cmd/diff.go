package cmd

import (
	"fmt"

	"github.com/Ahmadalmuhidat/bittrack/core"
	"github.com/Ahmadalmuhidat/bittrack/internal/diff"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	diffStaged  bool
	diffWorking bool

	hunkColor   = color.New(color.FgCyan)
	delColor    = color.New(color.FgRed)
	addColor    = color.New(color.FgGreen)
	delEmphasis = color.New(color.FgRed, color.Bold, color.Underline)
	addEmphasis = color.New(color.FgGreen, color.Bold, color.Underline)
)

// DiffHandler shows line-level differences. Modes: staged vs last commit
// (--staged), working tree vs last commit (--working), unstaged files vs
// their last committed blob (default), or two commits given as arguments.
func DiffHandler(repo *core.Repository, args []string) error {
	var (
		diffs []diff.FileDiff
		err   error
	)
	switch {
	case len(args) == 2:
		diffs, err = diff.Commits(repo, args[0], args[1])
	case diffStaged:
		diffs, err = diff.Staged(repo)
	case diffWorking:
		diffs, err = diff.Working(repo)
	default:
		diffs, err = diff.Unstaged(repo)
	}
	if err != nil {
		return err
	}

	shown := false
	for _, fileDiff := range diffs {
		if fileDiff.Result.Binary {
			fmt.Printf("Binary files %s differ\n", fileDiff.Path)
			shown = true
			continue
		}
		if len(fileDiff.Result.Hunks) == 0 {
			continue
		}
		shown = true
		fmt.Printf("--- a/%s\n", fileDiff.Path)
		fmt.Printf("+++ b/%s\n", fileDiff.Path)
		for _, hunk := range fileDiff.Result.Hunks {
			hunkColor.Println(hunk.Header)
			printHunkLines(hunk.Lines)
		}
	}
	if !shown {
		fmt.Println("No differences found")
	}
	return nil
}

// printHunkLines renders a hunk, highlighting the changed spans inside a
// deletion/addition pair produced by the same line index.
func printHunkLines(lines []diff.Line) {
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch line.Type {
		case diff.Deletion:
			if i+1 < len(lines) && lines[i+1].Type == diff.Addition && lines[i+1].Number == line.Number {
				printChangedPair(line.Content, lines[i+1].Content)
				i++
				continue
			}
			delColor.Printf("-%s\n", line.Content)
		case diff.Addition:
			addColor.Printf("+%s\n", line.Content)
		default:
			fmt.Printf(" %s\n", line.Content)
		}
	}
}

func printChangedPair(oldLine, newLine string) {
	dmp := diffmatchpatch.New()
	spans := dmp.DiffMain(oldLine, newLine, false)
	spans = dmp.DiffCleanupSemantic(spans)

	delColor.Print("-")
	for _, span := range spans {
		switch span.Type {
		case diffmatchpatch.DiffEqual:
			delColor.Print(span.Text)
		case diffmatchpatch.DiffDelete:
			delEmphasis.Print(span.Text)
		}
	}
	fmt.Println()

	addColor.Print("+")
	for _, span := range spans {
		switch span.Type {
		case diffmatchpatch.DiffEqual:
			addColor.Print(span.Text)
		case diffmatchpatch.DiffInsert:
			addEmphasis.Print(span.Text)
		}
	}
	fmt.Println()
}

func init() {
	diffCmd := NewCommand(
		"diff [<commit> <commit>]",
		"Show line-level differences",
		DiffHandler,
		0,
	)
	diffCmd.Flags().BoolVar(&diffStaged, "staged", false, "Diff staged files against the last commit")
	diffCmd.Flags().BoolVar(&diffWorking, "working", false, "Diff the working tree against the last commit")
	rootCmd.AddCommand(diffCmd)
}
