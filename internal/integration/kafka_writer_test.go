//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/forest-cover-service/internal/adapter/kafka"
	"github.com/couchcryptid/forest-cover-service/internal/config"
	"github.com/couchcryptid/forest-cover-service/internal/domain"
	"github.com/couchcryptid/forest-cover-service/internal/inference"
	"github.com/couchcryptid/forest-cover-service/internal/model"
	"github.com/couchcryptid/forest-cover-service/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testPredictionsTopic = "test-predictions"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	c, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("forest-cover-test"))
	testcontainers.CleanupContainer(t, c)
	require.NoError(t, err, "start kafka container")

	brokers, err := c.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// constClassifier always predicts Aspen.
type constClassifier struct{}

func (constClassifier) PredictProba(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i := range out {
		out[i] = []float64{0.05, 0.05, 0.05, 0.05, 0.7, 0.05, 0.05}
	}
	return out, nil
}

func (c constClassifier) Predict(x [][]float64) ([]int, error) {
	p, _ := c.PredictProba(x)
	return model.ArgMax(p), nil
}

func (constClassifier) NumClasses() int  { return domain.NumCoverTypes }
func (constClassifier) NumFeatures() int { return 59 }

// TestPredictionEventsReachKafka runs a batch prediction through the service
// with the Kafka writer attached and reads the events back from the topic.
func TestPredictionEventsReachKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPredictionsTopic)

	cfg := &config.Config{
		KafkaBrokers:          []string{broker},
		KafkaPredictionsTopic: testPredictionsTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())

	ct, err := model.NewColumnTransformer(model.Block{
		Name:    "all",
		Kind:    model.KindPassthrough,
		Columns: slices.Concat(domain.RawColumns, domain.EngineeredColumns),
	})
	require.NoError(t, err)
	svc := inference.New(model.NewStaticProvider(ct, constClassifier{}), writer,
		discardLogger(), observability.NewMetricsForTesting())

	obs := domain.Observation{Elevation: 2800, Hillshade9am: 200, HillshadeNoon: 220, Hillshade3pm: 140}
	obs.Wilderness[2] = 1
	obs.Soil[9] = 1

	reqCtx := inference.WithRequestID(ctx, "integration-req")
	res, err := svc.PredictBatch(reqCtx, domain.NewFrame(obs, obs))
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalRows)

	// Close flushes the async writer.
	require.NoError(t, writer.Close())

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testPredictionsTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = reader.Close() })

	for i := range 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := reader.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read event %d", i)

		assert.Equal(t, "integration-req", string(msg.Key))
		var event domain.PredictionEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		assert.Equal(t, domain.SourceBatch, event.Source)
		assert.Equal(t, i, event.RowIndex)
		assert.Equal(t, res.Predictions[i].Prediction, event.Prediction)
		assert.Equal(t, "Aspen", event.CoverTypeName)
	}
}
