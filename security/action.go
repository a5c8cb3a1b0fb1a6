package security

import (
	"strings"

	"golang.org/x/xerrors"
)

// Action is a named operation that is subject to authorization, scoped by a
// context to keep identifiers from different modules apart.
type Action struct {
	Context    string
	Identifier string
}

// Actions defined by the system itself.
var (
	ReadAction    = NewAction(SystemContext, "read")
	WriteAction   = NewAction(SystemContext, "write")
	AppendAction  = NewAction(SystemContext, "append")
	DeleteAction  = NewAction(SystemContext, "delete")
	ModifyAction  = NewAction(SystemContext, "modify")
	ListAction    = NewAction(SystemContext, "list")
	ManageAction  = NewAction(SystemContext, "manage")
	PublishAction = NewAction(SystemContext, "publish")
)

// NewAction returns the action with the given context and identifier.
func NewAction(context, identifier string) Action {
	return Action{Context: context, Identifier: identifier}
}

// ParseAction returns the action described by its string form
// "context:identifier".
func ParseAction(s string) (Action, error) {
	index := strings.Index(s, ":")
	if index <= 0 || index == len(s)-1 {
		return Action{}, xerrors.Errorf("malformed action '%s'", s)
	}

	return NewAction(s[:index], s[index+1:]), nil
}

// SystemActions returns the actions defined by the system.
func SystemActions() []Action {
	return []Action{
		ReadAction,
		WriteAction,
		AppendAction,
		DeleteAction,
		ModifyAction,
		ListAction,
		ManageAction,
		PublishAction,
	}
}

// String returns the string form of the action.
func (a Action) String() string {
	return a.Context + ":" + a.Identifier
}
