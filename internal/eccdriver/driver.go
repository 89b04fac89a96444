// Package eccdriver implements the per-module ECC driver tasks:
// transition issuers and status pollers. Each is an independent
// goroutine that owns its own HTTP client and exchanges typed
// envelopes with the hub (internal/hub) over channels — grounded in
// _examples/original_source/src/envoy/surveyor_envoy.rs's
// select-over-cancel-or-timer task shape, generalized from Surveyor's
// GET-only polling to ECC's POST-a-SOAP-body request/response pair.
package eccdriver

import (
	"bytes"
	"context"
	"fmt"
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

// newHTTPClient builds the client every ECC driver task owns
// exclusively, with the connect and per-request timeouts spec.md §4.1
// requires (10s each).
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: dialer.DialContext,
		},
	}
}

func postXML(ctx context.Context, client *http.Client, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// TransitionDriver composes and issues lifecycle transition commands
// for one ECC module. It waits simultaneously on its command channel
// and the broadcast cancel, per spec.md §4.1.
type TransitionDriver struct {
	ModuleID   int
	Fleet      module.FleetConfig
	Commands   <-chan message.Envelope
	Responses  chan<- message.Envelope
	Cancel     <-chan struct{}
	httpClient *http.Client
	log        zerolog.Logger
}

// NewTransitionDriver constructs a transition driver owning its own
// HTTP client.
func NewTransitionDriver(id int, fleet module.FleetConfig, commands <-chan message.Envelope, responses chan<- message.Envelope, cancel <-chan struct{}, log zerolog.Logger) *TransitionDriver {
	return &TransitionDriver{
		ModuleID:   id,
		Fleet:      fleet,
		Commands:   commands,
		Responses:  responses,
		Cancel:     cancel,
		httpClient: newHTTPClient(),
		log:        log.With().Int("module_id", id).Str("driver", "ecc-transition").Logger(),
	}
}

// Run is the task's cooperative select loop: Starting -> Running <->
// Sleeping (blocked in select) -> Exited. A transport error at the
// SOAP layer is logged and ends the task — transient errors are not
// retried inside the driver, per spec.md §4.1/§7.
func (d *TransitionDriver) Run(ctx context.Context) error {
	for {
		select {
		case <-d.Cancel:
			d.log.Info().Msg("transition driver cancelled")
			return nil
		case cmd, ok := <-d.Commands:
			if !ok {
				return nil
			}
			if err := d.handle(ctx, cmd); err != nil {
				d.log.Error().Err(err).Msg("transition driver exiting after transport error")
				return err
			}
		}
	}
}

func (d *TransitionDriver) handle(ctx context.Context, cmd message.Envelope) error {
	op := module.ParseECCOperation(cmd.Operation())

	body, err := BuildTransitionRequest(op, d.Fleet, d.ModuleID)
	if err != nil {
		return fmt.Errorf("composing transition request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	respBody, err := postXML(reqCtx, d.httpClient, d.Fleet.ECCURL(d.ModuleID), body)
	if err != nil {
		return fmt.Errorf("posting transition request: %w", err)
	}

	resp, err := ParseOperationResponse(respBody)
	if err != nil {
		return err
	}

	if resp.ErrorCode != 0 {
		d.log.Error().Int("error_code", resp.ErrorCode).Str("error_message", resp.ErrorMessage).Msg("ECC operation failed")
	} else {
		d.log.Info().Str("operation", cmd.Operation()).Str("text", resp.Text).Msg("ECC operation completed")
	}

	select {
	case d.Responses <- message.NewECCOperationResponse(d.ModuleID, cmd.Operation(), resp):
	case <-d.Cancel:
	}
	return nil
}

// StatusDriver polls one ECC module's status on a fixed 2-second
// timer. Transport errors do not end the task — they are reported as
// a default (offline) status so the aggregator can observe the outage
// and keep polling, per spec.md §4.1/§7.
type StatusDriver struct {
	ModuleID   int
	Fleet      module.FleetConfig
	Responses  chan<- message.Envelope
	Cancel     <-chan struct{}
	httpClient *http.Client
	log        zerolog.Logger
}

// NewStatusDriver constructs a status driver owning its own HTTP client.
func NewStatusDriver(id int, fleet module.FleetConfig, responses chan<- message.Envelope, cancel <-chan struct{}, log zerolog.Logger) *StatusDriver {
	return &StatusDriver{
		ModuleID:   id,
		Fleet:      fleet,
		Responses:  responses,
		Cancel:     cancel,
		httpClient: newHTTPClient(),
		log:        log.With().Int("module_id", id).Str("driver", "ecc-status").Logger(),
	}
}

// Run loops forever, polling every 2 seconds, until cancelled.
func (d *StatusDriver) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.Cancel:
			d.log.Info().Msg("status driver cancelled")
			return nil
		case <-ticker.C:
			resp := d.poll(ctx)
			select {
			case d.Responses <- message.NewECCStatusResponse(d.ModuleID, resp):
			case <-d.Cancel:
				return nil
			}
		}
	}
}

func (d *StatusDriver) poll(ctx context.Context) message.ECCStatusResponse {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := postXML(reqCtx, d.httpClient, d.Fleet.ECCURL(d.ModuleID), BuildStatusRequest())
	if err != nil {
		d.log.Warn().Err(err).Msg("status poll transport error, reporting offline")
		return message.DefaultECCStatusResponse()
	}

	resp, err := ParseStatusResponse(body)
	if err != nil {
		d.log.Error().Err(err).Msg("status poll parse error, reporting offline")
		return message.DefaultECCStatusResponse()
	}

	if resp.ErrorCode != 0 {
		d.log.Error().Int("error_code", resp.ErrorCode).Str("error_message", resp.ErrorMessage).Msg("ECC status reported an error")
	}
	return resp
}
