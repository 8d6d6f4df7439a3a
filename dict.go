package main

const nameMax = 15

type entryKind uint8

const (
	kindPrimitive entryKind = iota
	kindColon
	kindVariable
	kindDoes
)

var kindNames = [...]string{"primitive", "colon", "variable", "does"}

func (kind entryKind) String() string {
	if int(kind) < len(kindNames) {
		return kindNames[kind]
	}
	return "invalid"
}

// entry is one dictionary word. Colon words run code starting at pfa;
// variable words push the data address pfa; does words push pfa and then
// run code starting at doesIP.
type entry struct {
	link      int
	name      string
	immediate bool
	kind      entryKind
	xt        int
	pfa       int
	doesIP    int
}

func (ent *entry) threaded() bool {
	return ent.kind == kindColon || ent.kind == kindDoes
}

// dictionary is an append-only list of entries, searched newest first by
// following links from latest.
type dictionary struct {
	entries []entry
	latest  int
	limit   int
}

func truncName(name string) string {
	if len(name) > nameMax {
		return name[:nameMax]
	}
	return name
}

func (dict *dictionary) add(name string, kind entryKind, immediate bool) int {
	if len(dict.entries) >= dict.limit {
		panic(errDictFull)
	}
	wi := len(dict.entries)
	dict.entries = append(dict.entries, entry{
		link:      dict.latest,
		name:      truncName(name),
		immediate: immediate,
		kind:      kind,
	})
	dict.latest = wi
	return wi
}

// lookup returns the newest entry matching name, or -1.
func (dict *dictionary) lookup(name string) int {
	name = truncName(name)
	for wi := dict.latest; wi >= 0; wi = dict.entries[wi].link {
		if dict.entries[wi].name == name {
			return wi
		}
	}
	return -1
}

func (dict *dictionary) validWord(wi int) bool {
	return wi >= 0 && wi < len(dict.entries)
}
