// Package decide implements the interactive prompt layer. The engines never
// touch the terminal; every judgement call arrives here through the
// DecisionSource interface.
package decide

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"mediasort/internal/sorter"
)

// Terminal asks the user on stdin/stdout. When stdin is not a TTY every
// prompt falls back to its safe answer (keep or skip) so piped runs never
// destroy anything and never hang.
type Terminal struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewTerminal builds a Terminal on the process's stdin and stdout.
func NewTerminal() *Terminal {
	return NewTerminalWith(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// NewTerminalWith builds a Terminal on explicit streams. Used by tests.
func NewTerminalWith(in io.Reader, out io.Writer, interactive bool) *Terminal {
	return &Terminal{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// readLine returns the next trimmed, lowercased input line. ok is false when
// input is exhausted or unreadable; callers treat that as quit.
func (t *Terminal) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(line)), true
}

func (t *Terminal) DecideFolder(path string) sorter.FolderChoice {
	if !t.interactive {
		return sorter.FolderSkip
	}
	for {
		fmt.Fprintf(t.out, "\nfolder %s\n", path)
		fmt.Fprintf(t.out, "  [k]eep  [s]ort inside  [d]isperse into years  [n]ext  [q]uit: ")
		answer, ok := t.readLine()
		if !ok {
			return sorter.FolderQuit
		}
		switch answer {
		case "k", "keep":
			return sorter.FolderKeep
		case "s", "sort":
			return sorter.FolderSortInside
		case "d", "disperse":
			return sorter.FolderSortIntoYears
		case "n", "next", "":
			return sorter.FolderSkip
		case "q", "quit":
			return sorter.FolderQuit
		}
		fmt.Fprintf(t.out, "unrecognized answer %q\n", answer)
	}
}

func (t *Terminal) PickRelocationTarget(path string) (string, bool) {
	if !t.interactive {
		return "", false
	}
	fmt.Fprintf(t.out, "move %s somewhere else? enter a target directory or leave blank: ", path)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	target := strings.TrimSpace(line)
	if target == "" {
		return "", false
	}
	return target, true
}

func (t *Terminal) DecideDuplicate(group sorter.DuplicateGroup, canonical int) sorter.DupDecision {
	if !t.interactive {
		return sorter.DupDecision{Action: sorter.DupKeepAll}
	}
	for {
		fmt.Fprintf(t.out, "\n%d identical files (%d bytes):\n", len(group.Files), group.Key.Size)
		for i, f := range group.Files {
			marker := " "
			if i == canonical {
				marker = "*"
			}
			fmt.Fprintf(t.out, "  %s %d: %s\n", marker, i, f)
		}
		fmt.Fprintf(t.out, "  [enter] keep %d, trash the rest  [number] keep that one  [a]ll keep  [t]rash all  [q]uit: ", canonical)
		answer, ok := t.readLine()
		if !ok {
			return sorter.DupDecision{Action: sorter.DupQuit}
		}
		switch answer {
		case "":
			return sorter.DupDecision{Action: sorter.DupConfirm}
		case "a", "all":
			return sorter.DupDecision{Action: sorter.DupKeepAll}
		case "t", "trash":
			return sorter.DupDecision{Action: sorter.DupTrashAll}
		case "q", "quit":
			return sorter.DupDecision{Action: sorter.DupQuit}
		default:
			if i, err := strconv.Atoi(answer); err == nil && i >= 0 && i < len(group.Files) {
				return sorter.DupDecision{Action: sorter.DupKeepOne, Index: i}
			}
		}
		fmt.Fprintf(t.out, "unrecognized answer %q\n", answer)
	}
}

func (t *Terminal) DecideImage(path string) sorter.ImageChoice {
	if !t.interactive {
		return sorter.ImageKeep
	}
	for {
		fmt.Fprintf(t.out, "%s  [enter] keep  [j]unk  [m]eme  [s]kip folder  [q]uit: ", path)
		answer, ok := t.readLine()
		if !ok {
			return sorter.ImageQuit
		}
		switch answer {
		case "", "k", "keep":
			return sorter.ImageKeep
		case "j", "junk":
			return sorter.ImageJunk
		case "m", "meme":
			return sorter.ImageMeme
		case "s", "skip":
			return sorter.ImageSkipFolder
		case "q", "quit":
			return sorter.ImageQuit
		}
		fmt.Fprintf(t.out, "unrecognized answer %q\n", answer)
	}
}

func (t *Terminal) DecideLive(path string) sorter.LiveChoice {
	if !t.interactive {
		return sorter.LiveKeep
	}
	for {
		fmt.Fprintf(t.out, "%s  [enter] keep  [t]rash  [q]uit: ", path)
		answer, ok := t.readLine()
		if !ok {
			return sorter.LiveQuit
		}
		switch answer {
		case "", "k", "keep":
			return sorter.LiveKeep
		case "t", "trash":
			return sorter.LiveTrash
		case "q", "quit":
			return sorter.LiveQuit
		}
		fmt.Fprintf(t.out, "unrecognized answer %q\n", answer)
	}
}

// Compile-time check
var _ sorter.DecisionSource = (*Terminal)(nil)
