package ankiconnect

// NoteType is the fixed Anki note type every Wordcraft card uses. It is
// created once if missing and never modified afterwards.
type NoteType struct {
	Name      string
	Fields    []string // order matters: Anki maps fields positionally
	CSS       string
	Templates []CardTemplate
}

// CardTemplate is one card rendering of a note type.
type CardTemplate struct {
	Name  string `json:"Name"`
	Front string `json:"Front"`
	Back  string `json:"Back"`
}

// ModelName is the Anki name of the Wordcraft note type.
const ModelName = "Wordcraft"

// NoteTags are attached to every note Wordcraft adds.
var NoteTags = []string{"wordcraft", "language_learning"}

// WordcraftNoteType returns the note type definition. A fresh value is
// returned so callers cannot mutate a shared copy.
func WordcraftNoteType() NoteType {
	return NoteType{
		Name:   ModelName,
		Fields: []string{"Front", "Back", "Example", "ExampleTranslation"},
		CSS:    wordcraftCSS,
		Templates: []CardTemplate{
			{
				Name:  "Card 1",
				Front: `<div class="front">{{Front}}</div>`,
				Back: `{{FrontSide}}
<hr id="answer">
<div class="back">{{Back}}</div>
<div class="example">{{Example}}</div>
<div class="example-translation">{{ExampleTranslation}}</div>`,
			},
		},
	}
}

const wordcraftCSS = `.card {
  font-family: "Hiragino Sans", "Noto Sans CJK JP", Arial, sans-serif;
  font-size: 22px;
  text-align: center;
  color: #1f2328;
  background-color: #ffffff;
}
.front {
  font-size: 34px;
}
.back {
  font-size: 26px;
  margin-bottom: 16px;
}
.example {
  font-size: 20px;
  color: #3b5b92;
}
.example-translation {
  font-size: 18px;
  color: #6e7781;
  font-style: italic;
}`
