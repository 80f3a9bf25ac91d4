package sqschan

import (
	"encoding/json"
	"testing"

	"ceacwatch/internal/ceac"
	"ceacwatch/internal/notify"
)

func samplePayload() notify.Payload {
	return notify.Payload{
		Result: ceac.Result{
			Success:             true,
			Status:              "Issued",
			CaseLastUpdated:     "19-Oct-2022",
			CaseNumberRequested: "AA0020AKAX",
		},
		NotificationID: "ntf_01HN0XJ5K8Z3Q4R5S6T7V8W9X0",
		MessageText:    "CEAC Status Update",
	}
}

func TestBuildInputStandardQueue(t *testing.T) {
	queueURL := "https://sqs.us-east-1.amazonaws.com/123456789012/ceac-events"
	in, err := buildInput(queueURL, samplePayload())
	if err != nil {
		t.Fatalf("build input: %v", err)
	}
	if *in.QueueUrl != queueURL {
		t.Errorf("queue url = %q, want %q", *in.QueueUrl, queueURL)
	}
	if in.MessageGroupId != nil || in.MessageDeduplicationId != nil {
		t.Errorf("standard queue must not carry fifo attributes, got group=%v dedup=%v",
			in.MessageGroupId, in.MessageDeduplicationId)
	}

	var got notify.Payload
	if err := json.Unmarshal([]byte(*in.MessageBody), &got); err != nil {
		t.Fatalf("body is not valid payload json: %v", err)
	}
	if got.Status != "Issued" || got.CaseNumberRequested != "AA0020AKAX" {
		t.Errorf("body round trip lost fields: %+v", got)
	}
	if got.NotificationID != "ntf_01HN0XJ5K8Z3Q4R5S6T7V8W9X0" {
		t.Errorf("notification id = %q", got.NotificationID)
	}
}

func TestBuildInputFIFOQueue(t *testing.T) {
	p := samplePayload()
	in, err := buildInput("https://sqs.us-east-1.amazonaws.com/123456789012/ceac-events.fifo", p)
	if err != nil {
		t.Fatalf("build input: %v", err)
	}
	if in.MessageGroupId == nil || *in.MessageGroupId != p.CaseNumberRequested {
		t.Errorf("group id = %v, want case number %q", in.MessageGroupId, p.CaseNumberRequested)
	}
	if in.MessageDeduplicationId == nil || *in.MessageDeduplicationId != p.NotificationID {
		t.Errorf("dedup id = %v, want notification id %q", in.MessageDeduplicationId, p.NotificationID)
	}
}
