package console

import "strings"

// dotCommands are the commands reachable through Class.command(args).
var dotCommands = map[string]bool{
	"all":     true,
	"count":   true,
	"show":    true,
	"destroy": true,
	"update":  true,
}

// rewrite turns the dotted form
//
//	Class.command("id", args...)
//
// into "command Class id args". The first argument is the id with its
// quotes removed. A trailing mapping literal is passed through verbatim;
// any other argument list loses its commas and quotes. Lines that do not
// fit the form are returned unchanged.
func rewrite(line string) string {
	if !strings.Contains(line, ".") || !strings.Contains(line, "(") || !strings.Contains(line, ")") {
		return line
	}

	dot := strings.Index(line, ".")
	open := strings.Index(line, "(")
	if open <= dot {
		return line
	}
	class := line[:dot]
	cmd := line[dot+1 : open]
	if !dotCommands[cmd] {
		return line
	}

	var inner string
	if end := strings.Index(line, ")"); end > open {
		inner = line[open+1 : end]
	}

	var id, args string
	if inner != "" {
		head, rest, _ := strings.Cut(inner, ", ")
		id = strings.ReplaceAll(head, `"`, "")

		rest = strings.TrimSpace(rest)
		if rest != "" {
			if strings.HasPrefix(rest, "{") && strings.HasSuffix(rest, "}") {
				if _, err := parseMapping(rest); err != nil {
					return line
				}
				args = rest
			} else {
				args = strings.ReplaceAll(rest, ",", "")
				args = strings.ReplaceAll(args, `"`, "")
			}
		}
	}

	return strings.Join([]string{cmd, class, id, args}, " ")
}
