// Package export renders stored documents to PDF byte streams.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/smartedu/smartedu/backend/go-services/internal/apperrors"
	"github.com/smartedu/smartedu/backend/go-services/internal/content"
)

// DecodeSlides decodes a note body into its slide sequence. A body that does
// not decode fails with ErrCorruptContent.
func DecodeSlides(body json.RawMessage) ([]string, error) {
	var slides []string
	if err := json.Unmarshal(body, &slides); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptContent, err)
	}
	return slides, nil
}

// DecodeQuestions decodes an assignment body into its question records.
func DecodeQuestions(body json.RawMessage) ([]content.Question, error) {
	var qs []content.Question
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptContent, err)
	}
	return qs, nil
}

// RenderNote writes a PDF with the note title followed by one block per slide.
func RenderNote(w io.Writer, topic string, slides []string) error {
	pdf := newDoc()
	writeTitle(pdf, "Notes on "+topic)
	for i, slide := range slides {
		writeHeading(pdf, fmt.Sprintf("Slide %d:", i+1))
		writeBody(pdf, slide)
		pdf.Ln(6)
	}
	return pdf.Output(w)
}

// RenderAssignment writes a PDF with the assignment title followed by one
// block per question (text, options for MCQs, answer).
func RenderAssignment(w io.Writer, topic string, questions []content.Question) error {
	pdf := newDoc()
	writeTitle(pdf, "Assignment: "+topic)
	for i, q := range questions {
		writeHeading(pdf, fmt.Sprintf("Question %d:", i+1))
		writeBody(pdf, q.Question)
		if q.Type == "MCQ" && len(q.Options) > 0 {
			pdf.Ln(2)
			writeBody(pdf, "Options: "+strings.Join(q.Options, ", "))
		}
		answer := q.Answer
		if answer == "" {
			answer = "N/A"
		}
		pdf.Ln(2)
		writeBody(pdf, "Answer: "+answer)
		pdf.Ln(6)
	}
	return pdf.Output(w)
}

func newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	return pdf
}

func writeTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, title, "", "C", false)
	pdf.Ln(8)
}

func writeHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "BU", 14)
	pdf.MultiCell(0, 7, text, "", "L", false)
	pdf.Ln(1)
}

func writeBody(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, text, "", "L", false)
}
