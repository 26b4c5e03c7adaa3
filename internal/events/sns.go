package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher is the part of the SNS client the sink uses.
type SNSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
	Ping(ctx context.Context, topicARN string) error
}

// SNSSink publishes events to an SNS topic.
type SNSSink struct {
	client   SNSPublisher
	topicARN string
}

func NewSNSSink(client SNSPublisher, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		Subject:  aws.String(string(event.Type)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Type)),
			},
			"activity": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Activity),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

func (s *SNSSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, s.topicARN)
}
