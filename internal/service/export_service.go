package service

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/model"
)

// Page geometry for A4 portrait, in points.
const (
	pageMarginX   = 40.0
	pageMarginTop = 40.0
	pageBottom    = 800.0
	contentWidth  = 515.0
	lineHeight    = 14.0
)

// ExportService renders submission reviews as PDF documents.
type ExportService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(cfg *config.Config, log zerolog.Logger) *ExportService {
	return &ExportService{
		cfg: cfg,
		log: log.With().Str("component", "export_service").Logger(),
	}
}

// SubmissionPDF renders a full submission review: learner details, score
// summary, and every question with the learner's answer, the reference
// answer, and any grader comment.
func (s *ExportService) SubmissionPDF(submission *model.Submission) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("body", s.cfg.PDFFontPath); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	w := &pdfWriter{pdf: &pdf, y: pageMarginTop}

	if err := w.heading("Quiz Submission Review", 16); err != nil {
		return nil, err
	}
	w.space(6)

	if err := w.lines(11, []string{
		fmt.Sprintf("Learner: %s (%s)", submission.UserName, submission.UserEmail),
		fmt.Sprintf("Chapter %d: %s", submission.ChapterNumber, submission.ChapterTitle),
		fmt.Sprintf("Submitted: %s", submission.SubmittedAt.Format("Jan 2, 2006 3:04 PM")),
		fmt.Sprintf("Score: %d / %d (%d%%)", submission.Score, submission.MaxScore, submission.Percentage),
		fmt.Sprintf("Status: %s", statusLabel(submission.Status)),
	}); err != nil {
		return nil, err
	}
	if submission.GradedAt != nil {
		if err := w.lines(11, []string{
			fmt.Sprintf("Graded: %s", submission.GradedAt.Format("Jan 2, 2006 3:04 PM")),
		}); err != nil {
			return nil, err
		}
	}
	w.space(10)

	for i, result := range submission.QuestionResults {
		if err := w.heading(fmt.Sprintf("Question %d (%d/%d points)", i+1, result.Points, result.MaxPoints), 12); err != nil {
			return nil, err
		}
		if err := w.wrapped(11, result.Question); err != nil {
			return nil, err
		}

		if err := w.wrapped(11, "Answer: "+result.UserAnswer.Display()); err != nil {
			return nil, err
		}
		if result.CorrectAnswer != "" {
			label := "Correct answer: "
			if result.NeedsManualGrading {
				label = "Reference answer: "
			}
			if err := w.wrapped(11, label+result.CorrectAnswer); err != nil {
				return nil, err
			}
		}
		if result.AdminComment != "" {
			if err := w.wrapped(11, "Grader comment: "+result.AdminComment); err != nil {
				return nil, err
			}
		}
		if result.Explanation != "" {
			if err := w.wrapped(11, "Explanation: "+result.Explanation); err != nil {
				return nil, err
			}
		}
		w.space(8)
	}

	return pdf.GetBytesPdf(), nil
}

func statusLabel(status model.SubmissionStatus) string {
	if status == model.SubmissionStatusGraded {
		return "Graded"
	}
	return "Pending Review"
}

// pdfWriter tracks the cursor and handles page breaks.
type pdfWriter struct {
	pdf *gopdf.GoPdf
	y   float64
}

func (w *pdfWriter) ensureRoom(height float64) {
	if w.y+height > pageBottom {
		w.pdf.AddPage()
		w.y = pageMarginTop
	}
}

func (w *pdfWriter) space(pts float64) {
	w.y += pts
}

func (w *pdfWriter) heading(text string, size float64) error {
	if err := w.pdf.SetFont("body", "", size); err != nil {
		return err
	}
	w.ensureRoom(size + 4)
	w.pdf.SetXY(pageMarginX, w.y)
	if err := w.pdf.Cell(nil, text); err != nil {
		return err
	}
	w.y += size + 4
	return nil
}

// lines writes pre-split lines without wrapping.
func (w *pdfWriter) lines(size float64, texts []string) error {
	if err := w.pdf.SetFont("body", "", size); err != nil {
		return err
	}
	for _, text := range texts {
		w.ensureRoom(lineHeight)
		w.pdf.SetXY(pageMarginX, w.y)
		if err := w.pdf.Cell(nil, text); err != nil {
			return err
		}
		w.y += lineHeight
	}
	return nil
}

// wrapped writes text wrapped to the content width. Embedded newlines
// (profile/strategy answers) start fresh lines.
func (w *pdfWriter) wrapped(size float64, text string) error {
	if err := w.pdf.SetFont("body", "", size); err != nil {
		return err
	}
	for _, paragraph := range strings.Split(text, "\n") {
		if paragraph == "" {
			w.y += lineHeight
			continue
		}
		lines, err := w.pdf.SplitText(paragraph, contentWidth)
		if err != nil {
			return err
		}
		for _, line := range lines {
			w.ensureRoom(lineHeight)
			w.pdf.SetXY(pageMarginX, w.y)
			if err := w.pdf.Cell(nil, line); err != nil {
				return err
			}
			w.y += lineHeight
		}
	}
	return nil
}
