package surveyordriver

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

const (
	connectTimeout = 10 * time.Second
	requestTimeout = 10 * time.Second
	pollInterval   = 2 * time.Second
)

func newHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: dialer.DialContext,
		},
	}
}

// Driver is the status-polling task for one CoBo's Surveyor endpoint.
// lastBytes is task-local state carried across ticks, per spec.md §4.2.
type Driver struct {
	ModuleID   int
	Fleet      module.FleetConfig
	Responses  chan<- message.Envelope
	Cancel     <-chan struct{}
	httpClient *http.Client
	lastBytes  uint64
	log        zerolog.Logger
}

// NewDriver constructs a Surveyor driver owning its own HTTP client.
func NewDriver(id int, fleet module.FleetConfig, responses chan<- message.Envelope, cancel <-chan struct{}, log zerolog.Logger) *Driver {
	return &Driver{
		ModuleID:   id,
		Fleet:      fleet,
		Responses:  responses,
		Cancel:     cancel,
		httpClient: newHTTPClient(),
		log:        log.With().Int("module_id", id).Str("driver", "surveyor").Logger(),
	}
}

// Run polls every 2 seconds until cancelled. A parse failure is
// reported as an error and ends the task; a transport error emits a
// default (offline) response and keeps the task alive, per spec.md
// §4.2/§7.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.Cancel:
			d.log.Info().Msg("surveyor driver cancelled")
			return nil
		case <-ticker.C:
			resp, err := d.poll(ctx)
			if err != nil {
				d.log.Error().Err(err).Msg("surveyor driver exiting after parse error")
				return err
			}
			select {
			case d.Responses <- message.NewSurveyorResponse(d.ModuleID, resp):
			case <-d.Cancel:
				return nil
			}
		}
	}
}

func (d *Driver) poll(ctx context.Context) (message.SurveyorResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, d.Fleet.SurveyorURL(d.ModuleID), nil)
	if err != nil {
		return message.SurveyorResponse{}, err
	}

	httpResp, err := d.httpClient.Do(req)
	if err != nil {
		d.log.Warn().Err(err).Msg("surveyor poll transport error, reporting offline")
		return message.DefaultSurveyorResponse(), nil
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		d.log.Warn().Err(err).Msg("surveyor poll body read error, reporting offline")
		return message.DefaultSurveyorResponse(), nil
	}

	resp, err := parseSurveyorBody(string(body), d.lastBytes)
	if err != nil {
		return message.SurveyorResponse{}, err
	}
	d.lastBytes = resp.BytesUsed
	return resp, nil
}
