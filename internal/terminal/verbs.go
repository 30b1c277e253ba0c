package terminal

type Kind string

const (
	KindNavigation Kind = "navigation"
	KindRead       Kind = "read"
	KindProgram    Kind = "program"
	KindProtocol   Kind = "protocol"
	KindSession    Kind = "session"
	KindUnknown    Kind = "unknown"
)

// Verbs in the order help and completion present them.
var Verbs = []string{
	"ls", "cd", "back", "open", "cat", "run", "history", "clear", "help",
	"bloom", "calibrate", "aim", "atlas", "transmit",
}

// VerbKind maps verb → kind (static, deterministic).
// The kind labels the dispatch log line.
var VerbKind = map[string]Kind{
	// Filesystem
	"ls":   KindNavigation,
	"cd":   KindNavigation,
	"back": KindNavigation,
	"open": KindRead,
	"cat":  KindRead,

	// Programs and their shorthands
	"run":      KindProgram,
	"atlas":    KindProgram,
	"transmit": KindProgram,

	// Clearance and protocol
	"bloom":     KindProtocol,
	"calibrate": KindProtocol,
	"aim":       KindProtocol,

	// Session
	"history": KindSession,
	"clear":   KindSession,
	"help":    KindSession,
}

// Shorthands expand a verb into a program run.
var Shorthands = map[string]string{
	"atlas":    ProgramAtlas,
	"transmit": ProgramTransmit,
}

// KindOf returns the kind of a verb.
// Returns KindUnknown for unknown verbs.
func KindOf(verb string) Kind {
	if k, ok := VerbKind[verb]; ok {
		return k
	}
	return KindUnknown
}

// pathVerbs complete their argument against the tree.
var pathVerbs = map[string]bool{
	"ls":   true,
	"cd":   true,
	"open": true,
	"cat":  true,
}

const helpText = "Commands: ls, cd, back, open|cat, run <exe>, history, clear, help, bloom, calibrate, aim, atlas, transmit"
