package anki

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// schemaStatements is the collection database layout Anki expects inside a
// package: collection metadata, notes, cards, an empty review log, an empty
// tombstone table, and the standard indexes. Executed one statement at a
// time against a fresh database.
var schemaStatements = []string{
	`CREATE TABLE col (
		id     integer PRIMARY KEY,
		crt    integer NOT NULL,
		mod    integer NOT NULL,
		scm    integer NOT NULL,
		ver    integer NOT NULL,
		dty    integer NOT NULL,
		usn    integer NOT NULL,
		ls     integer NOT NULL,
		conf   text NOT NULL,
		models text NOT NULL,
		decks  text NOT NULL,
		dconf  text NOT NULL,
		tags   text NOT NULL
	)`,
	`CREATE TABLE notes (
		id    integer PRIMARY KEY,
		guid  text NOT NULL,
		mid   integer NOT NULL,
		mod   integer NOT NULL,
		usn   integer NOT NULL,
		tags  text NOT NULL,
		flds  text NOT NULL,
		sfld  integer NOT NULL,
		csum  integer NOT NULL,
		flags integer NOT NULL,
		data  text NOT NULL
	)`,
	`CREATE TABLE cards (
		id     integer PRIMARY KEY,
		nid    integer NOT NULL,
		did    integer NOT NULL,
		ord    integer NOT NULL,
		mod    integer NOT NULL,
		usn    integer NOT NULL,
		type   integer NOT NULL,
		queue  integer NOT NULL,
		due    integer NOT NULL,
		ivl    integer NOT NULL,
		factor integer NOT NULL,
		reps   integer NOT NULL,
		lapses integer NOT NULL,
		left   integer NOT NULL,
		odue   integer NOT NULL,
		odid   integer NOT NULL,
		flags  integer NOT NULL,
		data   text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id      integer PRIMARY KEY,
		cid     integer NOT NULL,
		usn     integer NOT NULL,
		ease    integer NOT NULL,
		ivl     integer NOT NULL,
		lastIvl integer NOT NULL,
		factor  integer NOT NULL,
		time    integer NOT NULL,
		type    integer NOT NULL
	)`,
	`CREATE TABLE graves (
		usn  integer NOT NULL,
		oid  integer NOT NULL,
		type integer NOT NULL
	)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

const modelCSS = `.card {
 font-family: arial;
 font-size: 20px;
 text-align: center;
 color: black;
 background-color: white;
}`

// Template holds the per-run schema parameters. The model and deck get
// fresh time-derived identifiers each run: reusing the literal defaults
// across repeated imports into one collection would make Anki merge
// unrelated decks.
type Template struct {
	ModelID  int64
	DeckID   int64
	DeckName string
	Created  time.Time
}

func NewTemplate(deckName string, now time.Time) *Template {
	base := now.UnixMilli()
	return &Template{
		ModelID:  base,
		DeckID:   base + 1,
		DeckName: deckName,
		Created:  now,
	}
}

func (t *Template) ConfJSON() (string, error) {
	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{t.DeckID},
		"sortType":      "noteFld",
		"timeLim":       0,
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       t.DeckID,
		"newBury":       true,
		"newSpread":     0,
		"dueCounts":     true,
		"curModel":      strconv.FormatInt(t.ModelID, 10),
		"collapseTime":  1200,
	}
	return marshalBlob(conf)
}

// ModelsJSON declares the single two-field note type this engine emits:
// fields Front and Back, one template rendering Front on the question side
// and Front plus Back on the answer side.
func (t *Template) ModelsJSON() (string, error) {
	model := map[string]any{
		"id":    t.ModelID,
		"name":  t.DeckName,
		"type":  0,
		"mod":   t.Created.Unix(),
		"usn":   -1,
		"sortf": 0,
		"did":   t.DeckID,
		"tmpls": []map[string]any{
			{
				"name":  "Card 1",
				"ord":   0,
				"qfmt":  "{{Front}}",
				"afmt":  "{{FrontSide}}\n\n<hr id=\"answer\">\n\n{{Back}}",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"flds": []map[string]any{
			{"name": "Front", "ord": 0, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}},
			{"name": "Back", "ord": 1, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}},
		},
		"css":       modelCSS,
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		"latexPost": "\\end{document}",
		"vers":      []string{},
		"tags":      []string{},
		"req":       []any{[]any{0, "all", []int{0}}},
	}
	return marshalBlob(map[string]any{strconv.FormatInt(t.ModelID, 10): model})
}

// DecksJSON keeps Anki's built-in Default deck (id 1) alongside the export
// deck; the importer expects the default to exist.
func (t *Template) DecksJSON() (string, error) {
	decks := map[string]any{
		"1":                             deckMap(1, "Default", t.Created),
		strconv.FormatInt(t.DeckID, 10): deckMap(t.DeckID, t.DeckName, t.Created),
	}
	return marshalBlob(decks)
}

func deckMap(id int64, name string, created time.Time) map[string]any {
	return map[string]any{
		"id":        id,
		"name":      name,
		"mod":       created.Unix(),
		"usn":       -1,
		"lrnToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"newToday":  []int{0, 0},
		"timeToday": []int{0, 0},
		"dyn":       0,
		"extendNew": 10,
		"extendRev": 50,
		"conf":      1,
		"desc":      "",
		"collapsed": false,
	}
}

// DConfJSON is the single scheduling preset. The exported cards are all
// "new"; these values only seed the importer's defaults.
func (t *Template) DConfJSON() (string, error) {
	preset := map[string]any{
		"id":       1,
		"name":     "Default",
		"mod":      0,
		"usn":      0,
		"maxTaken": 60,
		"timer":    0,
		"autoplay": true,
		"replayq":  true,
		"new": map[string]any{
			"bury":          true,
			"delays":        []int{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"rev": map[string]any{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
		"lapse": map[string]any{
			"delays":      []int{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
	}
	return marshalBlob(map[string]any{"1": preset})
}

func marshalBlob(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshaling collection blob: %w", err)
	}
	return string(raw), nil
}
