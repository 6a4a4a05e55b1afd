package session

import (
	"regexp"
	"strings"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/textnorm"
)

// CommandKind classifies an incremental turn. Highest-priority match
// wins; anything unrecognized is a merge turn that goes back through
// the resolver.
type CommandKind int

const (
	CommandTurn CommandKind = iota
	CommandDone
	CommandReset
	CommandClearCategories
	CommandShowAll
	CommandRemoveCampus
)

// String returns the command name for logs and metrics.
func (k CommandKind) String() string {
	switch k {
	case CommandDone:
		return "done"
	case CommandReset:
		return "reset"
	case CommandClearCategories:
		return "clear_categories"
	case CommandShowAll:
		return "show_all"
	case CommandRemoveCampus:
		return "remove_campus"
	default:
		return "turn"
	}
}

// Command is a parsed incremental instruction.
type Command struct {
	Kind CommandKind

	// Campuses holds the campuses named by a remove command.
	Campuses []campus.Key
}

var removePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bremove\s+(.+)`),
	regexp.MustCompile(`\bdrop\s+(.+)`),
	regexp.MustCompile(`\bexclude\s+(.+)`),
}

// ParseCommand pattern-matches a turn against the recognized
// incremental commands over normalized text.
func ParseCommand(text string) Command {
	low := strings.TrimSpace(textnorm.Normalize(text))

	switch low {
	case "done":
		return Command{Kind: CommandDone}
	case "reset":
		return Command{Kind: CommandReset}
	case "show all":
		return Command{Kind: CommandShowAll}
	}

	if strings.Contains(low, "clear categories") {
		return Command{Kind: CommandClearCategories}
	}

	for _, pat := range removePatterns {
		if m := pat.FindStringSubmatch(low); m != nil {
			if keys := campus.Detect(m[1]); len(keys) > 0 {
				return Command{Kind: CommandRemoveCampus, Campuses: keys}
			}
		}
	}

	return Command{Kind: CommandTurn}
}
