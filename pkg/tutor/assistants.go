package tutor

// defaultAssistants maps a subject key to the hosted assistant serving it.
var defaultAssistants = map[string]string{
	"math":           "f6ee185a-5dc0-4721-94a4-eba68acf525d",
	"science":        "9ad04ac3-2f32-4df1-a1ce-97925446bbd4",
	"english":        "dddfa691-fbf2-46a6-b9e1-0dc1673718bb",
	"history":        "2ad69ce7-de9a-4ebb-90a4-f82bed3d2eea",
	"coding":         "4a8effac-25ed-4e46-8f2e-6d93c83b0a4f",
	"social science": "70e30427-dad5-4f04-98db-51ad374375ed",
	"economics":      "6b634bc3-7db2-4222-9183-77fa6d67f58e",
}

// Directory resolves assistant selectors per subject.
type Directory struct {
	selectors map[string]string
	bySel     map[string]string
}

// NewDirectory builds a directory from the built-in selectors, replaced by any
// non-empty entry in overrides.
func NewDirectory(overrides map[string]string) *Directory {
	d := &Directory{
		selectors: make(map[string]string, len(defaultAssistants)),
		bySel:     make(map[string]string, len(defaultAssistants)),
	}
	for subject, sel := range defaultAssistants {
		d.selectors[subject] = sel
	}
	for subject, sel := range overrides {
		if sel == "" {
			continue
		}
		d.selectors[Normalize(subject)] = sel
	}
	for subject, sel := range d.selectors {
		d.bySel[sel] = subject
	}
	return d
}

// Selector returns the assistant selector for subject. Unknown subjects use the
// math assistant, matching BySubject.
func (d *Directory) Selector(subject string) string {
	if sel, ok := d.selectors[Normalize(subject)]; ok {
		return sel
	}
	return d.selectors[DefaultSubject]
}

// SubjectFor reverses Selector.
func (d *Directory) SubjectFor(selector string) (string, bool) {
	s, ok := d.bySel[selector]
	return s, ok
}
