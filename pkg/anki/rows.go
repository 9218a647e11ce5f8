package anki

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
)

// Card is one flashcard record handed to the export engine. Image and Audio
// hold a remote URL or data URI; empty means no media for that slot.
type Card struct {
	Word       string
	Definition string
	Examples   []string
	Synonyms   []string
	Difficulty string
	Image      string
	Audio      string
}

// Row is the front/back pair derived from one Card, in input order.
type Row struct {
	Front     string
	Back      string
	ImageFile string
	AudioFile string
}

// MediaFile is a named asset registered during row building. Names are
// unique within one export.
type MediaFile struct {
	Name string
	Data []byte
}

type RowOptions struct {
	// Inline embeds images as data URIs in the back fragment instead of
	// registering media files. Used by the plain-table format, which has no
	// media channel; audio is dropped there.
	Inline        bool
	IncludeImages bool
	IncludeAudio  bool
}

// RowBuilder assembles export rows one card at a time, resolving media
// strictly in input order so registration ordinals and filenames stay
// deterministic.
type RowBuilder struct {
	resolver *Resolver
	opts     RowOptions
	used     map[string]bool
	media    []MediaFile
}

func NewRowBuilder(resolver *Resolver, opts RowOptions) *RowBuilder {
	return &RowBuilder{
		resolver: resolver,
		opts:     opts,
		used:     make(map[string]bool),
	}
}

// Build produces one row per card. Media failures never drop a card, only
// the failed slot.
func (b *RowBuilder) Build(ctx context.Context, cards []Card) ([]Row, []MediaFile) {
	rows := make([]Row, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, b.buildRow(ctx, card))
	}
	return rows, b.media
}

func (b *RowBuilder) buildRow(ctx context.Context, card Card) Row {
	row := Row{Front: Sanitize(card.Word)}
	slug := Slugify(card.Word)
	var back strings.Builder

	if b.opts.IncludeImages && card.Image != "" {
		media, err := b.resolver.Resolve(ctx, card.Image)
		if err != nil {
			logger.Warn("skipping image for card", "word", card.Word, "error", err)
		} else if b.opts.Inline {
			back.WriteString(inlineImageTag(media))
		} else {
			name := b.register(slug, media)
			row.ImageFile = name
			fmt.Fprintf(&back, `<img src="%s">`, name)
		}
	}

	if !b.opts.Inline && b.opts.IncludeAudio && card.Audio != "" {
		media, err := b.resolver.Resolve(ctx, card.Audio)
		if err != nil {
			logger.Warn("skipping audio for card", "word", card.Word, "error", err)
		} else {
			name := b.register(slug, media)
			row.AudioFile = name
			row.Front += fmt.Sprintf(" [sound:%s]", name)
		}
	}

	if card.Definition != "" {
		fmt.Fprintf(&back, "<p>%s</p>", Sanitize(CleanHTML(card.Definition)))
	}
	if len(card.Examples) > 0 {
		back.WriteString("<ul>")
		for _, example := range card.Examples {
			fmt.Fprintf(&back, "<li>%s</li>", Sanitize(CleanHTML(example)))
		}
		back.WriteString("</ul>")
	}
	if len(card.Synonyms) > 0 {
		cleaned := make([]string, 0, len(card.Synonyms))
		for _, synonym := range card.Synonyms {
			cleaned = append(cleaned, Sanitize(CleanHTML(synonym)))
		}
		fmt.Fprintf(&back, "<p>Synonyms: %s</p>", strings.Join(cleaned, ", "))
	}
	if card.Difficulty != "" {
		fmt.Fprintf(&back, "<p>Difficulty: %s</p>", Sanitize(card.Difficulty))
	}

	row.Back = back.String()
	return row
}

// register stores the asset under <slug>.<ext>, suffixing the slug when two
// words collide so an earlier asset is never overwritten.
func (b *RowBuilder) register(slug string, media Media) string {
	name := slug + "." + media.Ext
	for i := 2; b.used[name]; i++ {
		name = fmt.Sprintf("%s-%d.%s", slug, i, media.Ext)
	}
	b.used[name] = true
	b.media = append(b.media, MediaFile{Name: name, Data: media.Data})
	return name
}

func inlineImageTag(media Media) string {
	mimeType := media.MIME
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	encoded := base64.StdEncoding.EncodeToString(media.Data)
	return fmt.Sprintf(`<img src="data:%s;base64,%s">`, mimeType, encoded)
}
