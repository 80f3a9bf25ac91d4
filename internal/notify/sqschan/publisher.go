package sqschan

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"ceacwatch/internal/notify"
)

// Publisher forwards enriched payloads to an SQS queue so downstream
// consumers (dashboards, archival, extra notifiers) can react to them.
type Publisher struct {
	SQS      *sqs.Client
	QueueURL string
}

func (p *Publisher) Name() string { return "sqs" }

func (p *Publisher) Send(ctx context.Context, payload notify.Payload) error {
	in, err := buildInput(p.QueueURL, payload)
	if err != nil {
		return err
	}
	_, err = p.SQS.SendMessage(ctx, in)
	return err
}

// buildInput shapes one outgoing message. FIFO queues need ordering and
// dedup keys; standard queues reject them.
func buildInput(queueURL string, payload notify.Payload) (*sqs.SendMessageInput, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	in := &sqs.SendMessageInput{
		QueueUrl:    &queueURL,
		MessageBody: str(string(body)),
	}
	if strings.HasSuffix(queueURL, ".fifo") {
		in.MessageGroupId = str(payload.CaseNumberRequested)
		in.MessageDeduplicationId = str(payload.NotificationID)
	}
	return in, nil
}

func str(s string) *string { return &s }
