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

// NewAssignmentsHandler binds the assignments kind: strict JSON question
// parsing of the completion (a parse failure fails the request), a
// question-list body, question-per-block PDF export. The grouping label
// (university) also tailors the prompt.
func NewAssignmentsHandler(svc *content.Service, gen generation.Client, archive *storage.ExportArchive) *ContentHandler {
	return &ContentHandler{
		kind: Kind{
			Name:   "assignment",
			Path:   "/assignments",
			Prompt: generation.AssignmentPrompt,
			Produce: func(raw string) (json.RawMessage, error) {
				qs, err := generation.ParseQuestions(raw)
				if err != nil {
					return nil, err
				}
				return json.Marshal(qs)
			},
			Validate: func(body json.RawMessage) error {
				var qs []content.Question
				if err := json.Unmarshal(body, &qs); err != nil {
					return fmt.Errorf("%w: body must be a list of question records", apperrors.ErrValidation)
				}
				return nil
			},
			Render: func(w io.Writer, topic string, body json.RawMessage) error {
				qs, err := export.DecodeQuestions(body)
				if err != nil {
					return err
				}
				return export.RenderAssignment(w, topic, qs)
			},
		},
		svc:     svc,
		gen:     gen,
		archive: archive,
	}
}
