package uploader

import (
	"context"
	"errors"
	"sync"

	"github.com/de-tools/policy-report/pkg/adapters"
	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/de-tools/policy-report/pkg/services/render"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	SuccessMessage = "✅ Policy file processed successfully!"

	errorPrefix        = "❌ "
	genericErrorPrefix = "❌ Error: "
)

// ErrInFlight is returned when a submission is made while another one is
// still waiting for the backend.
var ErrInFlight = errors.New("a submission is already in progress")

// View is the set of display regions the controller writes to.
type View interface {
	// ShowProcessing hides the initial, error, success and results regions
	// and shows the spinner.
	ShowProcessing()
	HideSpinner()
	ShowError(msg string)
	ShowSuccess(msg string)
	ShowResults(page render.Page)
}

// Input is the user's selection at the time the process action fires.
type Input struct {
	CompanyName string
	File        *domain.PolicyFile
}

type Controller struct {
	processor client.Processor
	view      View

	mu       sync.Mutex
	inFlight string
	last     *domain.Report
}

func NewController(processor client.Processor, view View) *Controller {
	return &Controller{
		processor: processor,
		view:      view,
	}
}

// Enabled reports whether the process action is available for in.
func (c *Controller) Enabled(in Input) bool {
	if in.File == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight == ""
}

// Submit posts the selected file and renders the outcome into the view.
// Without a file it does nothing and returns nil, nil.
func (c *Controller) Submit(ctx context.Context, in Input) (*domain.Report, error) {
	if in.File == nil {
		return nil, nil
	}

	token, ok := c.acquire()
	if !ok {
		return nil, ErrInFlight
	}
	defer c.release(token)

	logger := zerolog.Ctx(ctx).With().
		Str("request_id", token).
		Str("company", in.CompanyName).
		Str("filename", in.File.Name).
		Logger()
	ctx = logger.WithContext(ctx)

	c.view.ShowProcessing()
	defer c.view.HideSpinner()

	resp, err := c.processor.Process(ctx, domain.Submission{
		CompanyName: in.CompanyName,
		File:        *in.File,
	})
	if err != nil {
		logger.Error().Err(err).Msg("policy processing failed")
		c.view.ShowError(errorMessage(err))
		return nil, err
	}

	report := adapters.MapAPIReportToDomain(ctx, resp, in.CompanyName)

	c.view.ShowSuccess(SuccessMessage)
	c.view.ShowResults(render.Render(report))
	c.setLast(report)

	logger.Info().
		Int("records", len(report.Records)).
		Msg("policy file processed")

	return report, nil
}

// LastReport returns the most recent successfully rendered report.
func (c *Controller) LastReport() *domain.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Controller) acquire() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight != "" {
		return "", false
	}
	c.inFlight = uuid.NewString()
	return c.inFlight, true
}

func (c *Controller) release(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight == token {
		c.inFlight = ""
	}
}

func (c *Controller) setLast(report *domain.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = report
}

func errorMessage(err error) string {
	var backendErr *client.BackendError
	if errors.As(err, &backendErr) {
		return errorPrefix + backendErr.Message
	}
	return genericErrorPrefix + err.Error()
}
