// Package console implements the hbnb command shell: a line-oriented
// interpreter that creates, shows, updates and destroys stored objects.
//
// Commands take the form "command Class [id] [args]". The dotted form
// Class.command(args) is rewritten into it before dispatch. Every
// user-facing failure is a fixed diagnostic line; nothing is mutated when a
// command fails.
package console

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// DefaultPrompt is shown before each line when input is a terminal.
const DefaultPrompt = "(hbnb) "

// Diagnostics printed by the shell.
const (
	msgClassMissing = "** class name missing **"
	msgClassUnknown = "** class doesn't exist **"
	msgIDMissing    = "** instance id missing **"
	msgNotFound     = "** no instance found **"
	msgAttrMissing  = "** attribute name missing **"
	msgValueMissing = "** value missing **"
	msgValueType    = "** value type incorrect **"
)

// command is a shell command handler. It returns true to stop the shell.
type command struct {
	run  func(sh *Shell, arg string) bool
	help string
}

// commands is populated in init because doHelp reads it.
var commands map[string]command

func init() {
	commands = map[string]command{
		"quit":    {run: (*Shell).doQuit, help: "Exits the program with formatting"},
		"EOF":     {run: (*Shell).doEOF, help: "Exits the program without formatting"},
		"create":  {run: (*Shell).doCreate, help: "Creates a class of any type\n[Usage]: create <className> [<key>=<value> ...]"},
		"show":    {run: (*Shell).doShow, help: "Shows an individual instance of a class\n[Usage]: show <className> <objectId>"},
		"destroy": {run: (*Shell).doDestroy, help: "Destroys an individual instance of a class\n[Usage]: destroy <className> <objectId>"},
		"all":     {run: (*Shell).doAll, help: "Shows all objects, or all of a class\n[Usage]: all <className>"},
		"count":   {run: (*Shell).doCount, help: "Counts the instances of a class\n[Usage]: count <className>"},
		"update":  {run: (*Shell).doUpdate, help: "Updates an object with new information\n[Usage]: update <className> <id> <attName> <attVal>\n[Usage]: update <className> <id> {<attName>: <attVal>, ...}"},
		"help":    {run: (*Shell).doHelp, help: "Lists commands, or shows help for one\n[Usage]: help [<command>]"},
	}
}

// Shell reads commands from an input stream and applies them to a store.
type Shell struct {
	store  types.Storage
	in     io.Reader
	out    io.Writer
	prompt string
	logger *slog.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt sets the prompt written before each line. An empty prompt
// writes nothing.
func WithPrompt(prompt string) Option {
	return func(sh *Shell) { sh.prompt = prompt }
}

// WithLogger sets the logger for diagnostics that are not shown to the user.
func WithLogger(logger *slog.Logger) Option {
	return func(sh *Shell) { sh.logger = logger }
}

// New creates a Shell over store. The shell does not own the store.
func New(store types.Storage, in io.Reader, out io.Writer, opts ...Option) *Shell {
	sh := &Shell{store: store, in: in, out: out, logger: slog.Default()}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// Run reads and executes lines until a command stops the shell or input
// ends. End of input runs the EOF command.
func (sh *Shell) Run() error {
	scanner := bufio.NewScanner(sh.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if sh.prompt != "" {
			fmt.Fprint(sh.out, sh.prompt)
		}
		if !scanner.Scan() {
			break
		}
		if sh.Execute(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	sh.Execute("EOF")
	return nil
}

// Execute runs one command line and reports whether the shell should stop.
func (sh *Shell) Execute(line string) bool {
	line = strings.TrimSpace(rewrite(line))
	if line == "" {
		return false
	}

	name, arg := splitCommand(line)
	if name == "" {
		sh.println("*** Unknown syntax: " + line)
		return false
	}
	cmd, ok := commands[name]
	if !ok {
		sh.println("*** Unknown syntax: " + line)
		return false
	}
	return cmd.run(sh, arg)
}

// splitCommand separates the leading command word from its argument.
// "?" is shorthand for help.
func splitCommand(line string) (name, arg string) {
	if strings.HasPrefix(line, "?") {
		return "help", strings.TrimSpace(line[1:])
	}
	i := 0
	for i < len(line) && isIdentChar(line[i]) {
		i++
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func isIdentChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (sh *Shell) println(s string) {
	fmt.Fprintln(sh.out, s)
}

// storeError prints a storage failure that has no fixed diagnostic.
func (sh *Shell) storeError(err error) {
	sh.logger.Debug("command failed", "error", err)
	sh.println("** " + err.Error() + " **")
}

func (sh *Shell) doQuit(string) bool {
	return true
}

func (sh *Shell) doEOF(string) bool {
	sh.println("")
	return true
}

func (sh *Shell) doHelp(arg string) bool {
	if arg != "" {
		topic, _, _ := strings.Cut(arg, " ")
		cmd, ok := commands[topic]
		if !ok {
			sh.println("*** No help on " + topic)
			return false
		}
		sh.println(cmd.help)
		sh.println("")
		return false
	}

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	header := "Documented commands (type help <topic>):"
	sh.println("")
	sh.println(header)
	sh.println(strings.Repeat("=", len(header)))
	sh.println(strings.Join(names, "  "))
	sh.println("")
	return false
}
