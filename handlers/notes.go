package handlers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/smartedu/smartedu/backend/go-services/internal/apperrors"
	"github.com/smartedu/smartedu/backend/go-services/internal/content"
	"github.com/smartedu/smartedu/backend/go-services/internal/export"
	"github.com/smartedu/smartedu/backend/go-services/internal/generation"
	"github.com/smartedu/smartedu/backend/go-services/internal/storage"
)

// NewNotesHandler binds the notes kind: lenient blank-line splitting of the
// completion, a slide-list body, slide-per-block PDF export.
func NewNotesHandler(svc *content.Service, gen generation.Client, archive *storage.ExportArchive) *ContentHandler {
	return &ContentHandler{
		kind: Kind{
			Name: "note",
			Path: "/notes",
			Prompt: func(topic, _ string) string {
				return generation.NotePrompt(topic)
			},
			Produce: func(raw string) (json.RawMessage, error) {
				return json.Marshal(generation.SplitSlides(raw))
			},
			Validate: func(body json.RawMessage) error {
				var slides []string
				if err := json.Unmarshal(body, &slides); err != nil {
					return fmt.Errorf("%w: body must be a list of slide strings", apperrors.ErrValidation)
				}
				return nil
			},
			Render: func(w io.Writer, topic string, body json.RawMessage) error {
				slides, err := export.DecodeSlides(body)
				if err != nil {
					return err
				}
				return export.RenderNote(w, topic, slides)
			},
		},
		svc:     svc,
		gen:     gen,
		archive: archive,
	}
}
