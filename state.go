package vizsync

// State is the shared coordination state passed to every command.
type State struct {
	// AddMode makes discrete clicks toggle instead of replace.
	AddMode bool
}
