package events

import (
	"context"

	"coursefeedback/internal/model"
)

// Publisher is the publishing side of the bus
type Publisher interface {
	PublishFeedbackSubmitted(ctx context.Context, evt model.FeedbackEvent) error
}

// Handler consumes one feedback event
type Handler func(ctx context.Context, evt model.FeedbackEvent) error

// Recorder counts event outcomes by direction and status
type Recorder interface {
	RecordEvent(direction, status string)
}

type instrumented struct {
	next     Publisher
	recorder Recorder
}

// Instrument counts every publish as ok or error
func Instrument(p Publisher, r Recorder) Publisher {
	return &instrumented{next: p, recorder: r}
}

func (i *instrumented) PublishFeedbackSubmitted(ctx context.Context, evt model.FeedbackEvent) error {
	err := i.next.PublishFeedbackSubmitted(ctx, evt)
	i.recorder.RecordEvent("published", status(err))
	return err
}

// InstrumentHandler counts every consumed event as ok or error
func InstrumentHandler(h Handler, r Recorder) Handler {
	return func(ctx context.Context, evt model.FeedbackEvent) error {
		err := h(ctx, evt)
		r.RecordEvent("consumed", status(err))
		return err
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
