package domain

// Command is the envelope for remote-control messages exchanged over an
// established session. Params defaults to empty when absent. The special
// command "open" carries a URL and instructs the receiver to load new
// content instead of invoking a named action.
type Command struct {
	Cmd    string `json:"cmd" mapstructure:"cmd"`
	Params []any  `json:"params,omitempty" mapstructure:"params"`
	URL    string `json:"url,omitempty" mapstructure:"url"`
}

// CmdOpen is the reserved command name that loads new content on the
// receiver rather than dispatching to the command executor.
const CmdOpen = "open"
