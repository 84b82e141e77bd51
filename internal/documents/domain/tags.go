package domain

// The fixed tag vocabulary of the archive. Tags on documents are drawn from
// this list; the picker in the UI and the write validation here are the only
// places that know it.
var tagVocabulary = []string{
	"BERGISCHE WACHT",
	"ENTNAZIFIZIERUNG",
	"NACHKRIEFSZEIT",
	"ROBERT LEY",
	"WILHELM RIPHAHN",
	"EDMUND SCHIEFELING",
	"HEIMATPFLEGE",
	"WIEDERAUFBAU",
	"DRUCKEREI",
	"BURGERMEISTER",
	"PRESSEFREIHEIT",
	"SAALSCHLACHT",
	"VERHAFTUNG",
	"KONZENTRATIONSLAGER",
	"ERSTER WELTKRIEG",
	"FLUCHT",
	"NATIONALSOZIALISMUS",
	"OBERBERGISCHER BOTE",
	"WEIMARER REPUBLIK",
	"ZENSUR",
	"ZWEITER WELTKRIEG",
	"ENGELSKIRCHEN",
}

var tagSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(tagVocabulary))
	for _, t := range tagVocabulary {
		m[t] = struct{}{}
	}
	return m
}()

// Vocabulary returns a copy of the fixed tag list.
func Vocabulary() []string {
	out := make([]string, len(tagVocabulary))
	copy(out, tagVocabulary)
	return out
}

func IsKnownTag(tag string) bool {
	_, ok := tagSet[tag]
	return ok
}
