package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	OutcomeCounts() map[string]int64
}

// consumerService drains served-recommendation events off the in-process
// bus and keeps running outcome tallies. The tallies back the usage log
// line emitted per event; they reset with the process.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string

	mu     sync.Mutex
	counts map[string]int64
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		counts:    make(map[string]int64),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal usage event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	outcome, _ := envelope.Payload["outcome"].(string)
	cached, _ := envelope.Payload["cached"].(bool)

	cs.mu.Lock()
	cs.counts[outcome]++
	if cached {
		cs.counts["cache_hits"]++
	}
	total := cs.counts[outcome]
	cs.mu.Unlock()

	log.Printf("[INFO] Usage event %s: outcome=%s cached=%t (total %d)", envelope.Type, outcome, cached, total)
	msg.Ack()
}

func (cs *consumerService) OutcomeCounts() map[string]int64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	snapshot := make(map[string]int64, len(cs.counts))
	for k, v := range cs.counts {
		snapshot[k] = v
	}
	return snapshot
}
