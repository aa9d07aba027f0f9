package utils

import (
	"log"

	kafka "github.com/segmentio/kafka-go"

	"github.com/T0nystoyz/ExploreWithMe/config"
)

var KafkaWriter *kafka.Writer

// InitializeKafka sets up the writer for the endpoint-hits topic consumed by
// the analytics service
func InitializeKafka(cfg *config.Config) {
	KafkaWriter = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaHitsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	log.Printf("✅ Kafka writer ready, topic=%s", cfg.KafkaHitsTopic)
}

func CloseKafka() {
	if KafkaWriter != nil {
		if err := KafkaWriter.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close: %v", err)
		}
	}
}
