package session

import (
	"slices"
	"testing"

	"github.com/dvc-advising/transferbot-go/internal/campus"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		text         string
		wantKind     CommandKind
		wantCampuses []campus.Key
	}{
		{name: "done", text: "done", wantKind: CommandDone},
		{name: "done with whitespace", text: "  Done  ", wantKind: CommandDone},
		{name: "reset", text: "reset", wantKind: CommandReset},
		{name: "show all", text: "show all", wantKind: CommandShowAll},
		{name: "clear categories", text: "please clear categories now", wantKind: CommandClearCategories},
		{
			name:         "remove campus",
			text:         "remove uc davis",
			wantKind:     CommandRemoveCampus,
			wantCampuses: []campus.Key{campus.UCD},
		},
		{
			name:         "drop campus by alias",
			text:         "drop ucsd",
			wantKind:     CommandRemoveCampus,
			wantCampuses: []campus.Key{campus.UCSD},
		},
		{
			name:         "exclude two campuses",
			text:         "exclude berkeley and uc davis",
			wantKind:     CommandRemoveCampus,
			wantCampuses: []campus.Key{campus.UCB, campus.UCD},
		},
		{name: "remove without a campus is a turn", text: "remove the math courses", wantKind: CommandTurn},
		{name: "done inside a sentence is a turn", text: "i am done with math 192", wantKind: CommandTurn},
		{name: "plain query", text: "what do i need for uc berkeley", wantKind: CommandTurn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := ParseCommand(tt.text)
			if cmd.Kind != tt.wantKind {
				t.Fatalf("ParseCommand(%q).Kind = %v, want %v", tt.text, cmd.Kind, tt.wantKind)
			}
			if !slices.Equal(cmd.Campuses, tt.wantCampuses) {
				t.Errorf("ParseCommand(%q).Campuses = %v, want %v", tt.text, cmd.Campuses, tt.wantCampuses)
			}
		})
	}
}

func TestCommandKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind CommandKind
		want string
	}{
		{CommandTurn, "turn"},
		{CommandDone, "done"},
		{CommandReset, "reset"},
		{CommandClearCategories, "clear_categories"},
		{CommandShowAll, "show_all"},
		{CommandRemoveCampus, "remove_campus"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
