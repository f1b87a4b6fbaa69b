package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

type statusCall struct {
	status domain.ConsultationStatus
	errMsg string
}

type repoFake struct {
	consultation *domain.Consultation
	created      *domain.Consultation
	listed       []domain.Consultation
	listLimit    int

	createErr     error
	getErr        error
	saveErr       error
	statusErr     error
	failStatusErr error

	statusCalls []statusCall
	saved       []domain.ProcessingResult
}

func (f *repoFake) Create(_ context.Context, c *domain.Consultation) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyC := *c
	f.created = &copyC
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.Consultation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.consultation == nil {
		return nil, domain.ErrConsultationNotFound
	}
	copyC := *f.consultation
	return &copyC, nil
}

func (f *repoFake) List(_ context.Context, limit int) ([]domain.Consultation, error) {
	f.listLimit = limit
	return f.listed, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.ConsultationStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *repoFake) SaveResult(_ context.Context, _ string, result domain.ProcessingResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, result)
	return nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type queueFake struct {
	consultationID string
	err            error
}

func (f *queueFake) PublishConsultationIngested(_ context.Context, consultationID string) error {
	if f.err != nil {
		return f.err
	}
	f.consultationID = consultationID
	return nil
}

func (f *queueFake) SubscribeConsultationIngested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Consultation) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type engineFake struct {
	result domain.ProcessingResult
	calls  int
}

func (f *engineFake) Process(string) domain.ProcessingResult {
	f.calls++
	return f.result
}

type observerFake struct {
	observed []domain.ProcessingResult
}

func (f *observerFake) ObserveAnalysis(result domain.ProcessingResult) {
	f.observed = append(f.observed, result)
}

func successResult() domain.ProcessingResult {
	return domain.ProcessingResult{
		Success: true,
		Dialog:  []domain.Utterance{},
		Record: &domain.ClinicalRecord{
			Diagnosis: domain.Diagnosis{Code: "I10", Desc: "Hipertensão essencial (primária)"},
			Severity:  domain.SeverityMild,
		},
		Note:        &domain.SOAPNote{},
		SummaryView: &domain.SummaryView{},
		Metadata:    &domain.ProcessingMetadata{UtteranceCount: 3},
	}
}
