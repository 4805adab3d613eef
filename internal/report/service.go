package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/signintech/gopdf"
	"github.com/sirupsen/logrus"

	"doctor-assistant/internal/prescription"
)

type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

// Service renders a completed prescription as a PDF and forwards it to the
// reviewing doctor's Telegram chat.
type Service struct {
	tgClient     TelegramClient
	doctorChatID int64
	log          logrus.FieldLogger
}

func NewService(tg TelegramClient, doctorChatID int64, log logrus.FieldLogger) *Service {
	return &Service{
		tgClient:     tg,
		doctorChatID: doctorChatID,
		log:          log,
	}
}

// Common font locations; DejaVuSans ships with the ttf-dejavu package on
// Alpine and Debian images.
var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

func (s *Service) SendPrescriptionReport(ctx context.Context, p prescription.Payload, narrative string) error {
	s.log.WithField("patient", p.PatientName).Info("generating prescription report")

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return fmt.Errorf("failed to load font for PDF report: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return err
	}
	pdf.Cell(nil, "Prescription Summary")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Patient: %s", p.PatientName))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Age: %s", p.PatientAge))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return err
	}
	pdf.Cell(nil, "Symptoms and matched medicines:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return err
	}
	if len(p.Items) == 0 {
		pdf.Cell(nil, "- No symptoms recorded.")
		pdf.Br(15)
	}
	for _, item := range p.Items {
		line := fmt.Sprintf("- %s (Duration: %s): %s, %s", item.Symptom, item.Duration, item.MedicineName, item.MedicineType)
		lines, _ := pdf.SplitText(line, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
		pdf.Br(5)
	}
	pdf.Br(15)

	if narrative != "" {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return err
		}
		pdf.Cell(nil, "Prescription:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return err
		}
		lines, _ := pdf.SplitText(narrative, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fileName := fmt.Sprintf("prescription_%d.pdf", time.Now().Unix())
	if err := s.tgClient.SendDocument(s.doctorChatID, buf.Bytes(), fileName); err != nil {
		return fmt.Errorf("failed to send prescription report: %w", err)
	}
	s.log.WithField("file", fileName).Info("prescription report sent")
	return nil
}
