package domain

type WhitelistEntry struct {
	ID    string
	Kind  WhitelistKind
	Value string
}

type Keyword struct {
	ID   string
	Text string
}

type Setting struct {
	Key   string
	Value string
}
