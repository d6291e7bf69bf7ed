package anki

import (
	"strings"

	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/script"
)

// NoteFor builds the note of one generated form. show converts SLP1 to the
// display script; trace may be empty.
func NoteFor(root lexicon.RootEntry, f paradigm.Form, show func(string) string, trace string) FormNote {
	tags := []string{"dhatu", "root::" + root.Code, string(f.Type)}
	if f.Type == paradigm.TypeTin {
		tags = append(tags, "lakara::"+f.Lakara.String(), "prayoga::"+f.Prayoga.String())
	} else {
		tags = append(tags, "krt::"+f.Krt.String())
	}

	rootText := show(strings.TrimSpace(script.StripSvaras(root.Upadesha)))
	if root.Artha != "" {
		rootText += " (" + root.Artha + ")"
	}

	return FormNote{
		Form:    show(f.Text),
		Root:    rootText,
		Grammar: f.Label(),
		Trace:   trace,
		Tags:    tags,
	}
}
