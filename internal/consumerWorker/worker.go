package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"eventdesk/internal/dto"
	"eventdesk/internal/mailer"
	"eventdesk/internal/model"
	"eventdesk/internal/rabbit"
	"eventdesk/internal/repo"
)

type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Source interface {
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
}

type Options struct {
	MaxAttempts       int
	RetryDelaySeconds int
}

// Reader sends the confirmation email for every registration message.
// Failed sends are republished with a growing delay until MaxAttempts.
type Reader struct {
	consumer  Consumer
	publisher rabbit.Publisher
	source    Source
	sender    mailer.Sender
	opts      Options
	log       *zerolog.Logger

	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(consumer Consumer, publisher rabbit.Publisher, source Source, sender mailer.Sender, opts Options, log *zerolog.Logger) *Reader {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Reader{
		consumer:  consumer,
		publisher: publisher,
		source:    source,
		sender:    sender,
		opts:      opts,
		log:       log,
		done:      make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("confirmation reader started")

	go func() {
		defer close(r.done)

		if err := r.consumer.Consume(func(body []byte) error {
			return r.Handle(cctx, body)
		}); err != nil {
			r.log.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("confirmation reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

// Handle processes one delivery. A non-nil error asks the broker to requeue
// it, which only happens when the store could not be read.
func (r *Reader) Handle(ctx context.Context, body []byte) error {
	var msg dto.RegistrationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		r.log.Error().Err(err).Str("body", string(body)).Msg("dropping malformed message")
		return nil
	}

	log := r.log.With().
		Int64("registration_id", msg.RegistrationID).
		Int64("event_id", msg.EventID).
		Int("attempt", msg.Attempt).
		Logger()

	reg, err := r.source.GetRegistrationByID(ctx, msg.RegistrationID)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		log.Warn().Msg("registration is gone, skipping email")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load registration")
		return err
	}
	if reg.Status != model.RegistrationConfirmed {
		log.Info().Str("status", reg.Status).Msg("registration not confirmed, skipping email")
		return nil
	}

	event, err := r.source.GetEventByID(ctx, reg.EventID)
	if errors.Is(err, repo.ErrEventNotFound) {
		log.Warn().Msg("event is gone, skipping email")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load event")
		return err
	}

	if err := r.sender.Send(mailer.Confirmation(event, reg)); err != nil {
		r.retry(log, msg, err)
		return nil
	}

	log.Info().Str("email", reg.Email).Msg("confirmation email sent")
	return nil
}

func (r *Reader) retry(log zerolog.Logger, msg dto.RegistrationMessage, cause error) {
	next := msg.Attempt + 1
	if next >= r.opts.MaxAttempts {
		log.Error().Err(cause).Msg("giving up on confirmation email")
		return
	}
	msg.Attempt = next
	delay := r.opts.RetryDelaySeconds * next
	if err := rabbit.PublishJSON(r.publisher, msg, delay); err != nil {
		log.Error().Err(err).Msg("failed to schedule email retry")
		return
	}
	log.Warn().Err(cause).Int("delay_seconds", delay).Msg("confirmation email failed, retry scheduled")
}
