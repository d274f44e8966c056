package app

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/you-humble/asset-tracker/internal/config"
	"github.com/you-humble/asset-tracker/internal/converter"
	"github.com/you-humble/asset-tracker/internal/metrics"
	"github.com/you-humble/asset-tracker/internal/model"
	assetrepo "github.com/you-humble/asset-tracker/internal/repository/asset"
	counterrepo "github.com/you-humble/asset-tracker/internal/repository/counter"
	employeerepo "github.com/you-humble/asset-tracker/internal/repository/employee"
	intentrepo "github.com/you-humble/asset-tracker/internal/repository/intent"
	assignsvc "github.com/you-humble/asset-tracker/internal/service/assignment"
	asgconsumer "github.com/you-humble/asset-tracker/internal/service/consumer/assignment"
	idsvc "github.com/you-humble/asset-tracker/internal/service/identifier"
	invsvc "github.com/you-humble/asset-tracker/internal/service/inventory"
	asgproducer "github.com/you-humble/asset-tracker/internal/service/producer/assignment"
	recsvc "github.com/you-humble/asset-tracker/internal/service/reconcile"
	assethttp "github.com/you-humble/asset-tracker/internal/transport/http/asset/v1"
	emphttp "github.com/you-humble/asset-tracker/internal/transport/http/employee/v1"
	rechttp "github.com/you-humble/asset-tracker/internal/transport/http/reconcile/v1"
	"github.com/you-humble/asset-tracker/pkg/closer"
	"github.com/you-humble/asset-tracker/pkg/kafka"
	"github.com/you-humble/asset-tracker/pkg/kafka/consumer"
	"github.com/you-humble/asset-tracker/pkg/kafka/middleware"
	"github.com/you-humble/asset-tracker/pkg/kafka/producer"
	"github.com/you-humble/asset-tracker/pkg/logger"
)

type Converter interface {
	asgproducer.Converter
	asgconsumer.Converter
}

type AssetRepository interface {
	assignsvc.AssetRepository
	recsvc.AssetRepository
	invsvc.AssetReader
}

type EmployeeRepository interface {
	assignsvc.EmployeeRepository
	recsvc.EmployeeRepository
	invsvc.EmployeeReader
}

type IntentJournal interface {
	assignsvc.IntentJournal
	recsvc.IntentJournal
}

type AssignmentVerifier interface {
	RunAssignmentVerifier(ctx context.Context) error
}

type AssignmentService interface {
	assethttp.AssetService
	emphttp.EmployeeService
}

type InventoryService interface {
	assethttp.InventoryService
	emphttp.InventoryService
}

type ReconcileService interface {
	rechttp.ReconcileService
	asgconsumer.Repairer
	Run(ctx context.Context, interval time.Duration) error
}

type Handler interface {
	Routes(r chi.Router)
}

type di struct {
	mongoClient *mongo.Client
	database    *mongo.Database

	assetRegistry *assetrepo.Registry
	assetRepos    map[model.Kind]AssetRepository
	employeeRepo  EmployeeRepository
	counterRepo   idsvc.CounterRepository
	intentRepo    IntentJournal

	consumerGroup      sarama.ConsumerGroup
	assignmentConsumer kafka.Consumer
	verifier           AssignmentVerifier

	syncProducer       sarama.SyncProducer
	assignmentProducer kafka.Producer
	publisher          assignsvc.EventPublisher

	conv    Converter
	metrics *metrics.Metrics

	identifier assignsvc.IdentifierService
	assignment AssignmentService
	inventory  InventoryService
	reconcile  ReconcileService

	assetHandler     Handler
	employeeHandler  Handler
	reconcileHandler Handler

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) MongoClient(ctx context.Context) *mongo.Client {
	if d.mongoClient == nil {
		client, err := mongo.Connect(options.Client().ApplyURI(config.C().Mongo.DSN()))
		if err != nil {
			panic(fmt.Sprintf("failed to connect to MongoDB: %s\n", err.Error()))
		}

		closer.AddNamed("Mongo Client", func(ctx context.Context) error {
			return client.Disconnect(ctx)
		})

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			panic(fmt.Sprintf("failed to ping MongoDB: %v\n", err))
		}

		d.mongoClient = client
	}

	return d.mongoClient
}

func (d *di) Database(ctx context.Context) *mongo.Database {
	if d.database == nil {
		d.database = d.MongoClient(ctx).Database(config.C().Mongo.DatabaseName())
	}

	return d.database
}

func (d *di) AssetRegistry(ctx context.Context) *assetrepo.Registry {
	if d.assetRegistry == nil {
		d.assetRegistry = assetrepo.NewRegistry(d.Database(ctx))
	}

	return d.assetRegistry
}

func (d *di) AssetRepositories(ctx context.Context) map[model.Kind]AssetRepository {
	if d.assetRepos == nil {
		repos := make(map[model.Kind]AssetRepository, len(model.Kinds()))
		for kind, repo := range d.AssetRegistry(ctx).All() {
			repos[kind] = repo
		}
		d.assetRepos = repos
	}

	return d.assetRepos
}

func (d *di) EmployeeRepository(ctx context.Context) EmployeeRepository {
	if d.employeeRepo == nil {
		d.employeeRepo = employeerepo.NewEmployeeRepository(
			d.Database(ctx).Collection(config.C().Mongo.EmployeeCollection()),
		)
	}

	return d.employeeRepo
}

func (d *di) CounterRepository(ctx context.Context) idsvc.CounterRepository {
	if d.counterRepo == nil {
		d.counterRepo = counterrepo.NewCounterRepository(
			d.Database(ctx).Collection(config.C().Mongo.CountersCollection()),
		)
	}

	return d.counterRepo
}

func (d *di) IntentJournal(ctx context.Context) IntentJournal {
	if d.intentRepo == nil {
		d.intentRepo = intentrepo.NewIntentRepository(
			d.Database(ctx).Collection(config.C().Mongo.IntentsCollection()),
		)
	}

	return d.intentRepo
}

// EnsureIndexes creates the indexes of every collection the service owns.
func (d *di) EnsureIndexes(ctx context.Context) error {
	db := d.Database(ctx)
	cfg := config.C().Mongo

	if err := d.AssetRegistry(ctx).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := employeerepo.EnsureIndexes(ctx, db.Collection(cfg.EmployeeCollection())); err != nil {
		return err
	}
	if err := intentrepo.EnsureIndexes(ctx, db.Collection(cfg.IntentsCollection())); err != nil {
		return err
	}

	return nil
}

func (d *di) KafkaConverter(_ context.Context) Converter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter()
	}

	return d.conv
}

func (d *di) Metrics(_ context.Context) *metrics.Metrics {
	if d.metrics == nil {
		d.metrics = metrics.New()
	}

	return d.metrics
}

func (d *di) ConsumerGroup(_ context.Context) sarama.ConsumerGroup {
	if d.consumerGroup == nil {
		cfg := config.C()

		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ConsumerGroupID(),
			cfg.Kafka.ConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka consumer group", func(ctx context.Context) error {
			return consumerGroup.Close()
		})

		d.consumerGroup = consumerGroup
	}

	return d.consumerGroup
}

func (d *di) AssignmentConsumer(ctx context.Context) kafka.Consumer {
	if d.assignmentConsumer == nil {
		d.assignmentConsumer = consumer.NewConsumer(
			d.ConsumerGroup(ctx),
			[]string{
				config.C().Kafka.AssignmentTopic(),
			},
			logger.L(),
			middleware.Recovery(logger.L()),
			middleware.Logging(logger.L()),
		)
	}

	return d.assignmentConsumer
}

func (d *di) AssignmentVerifier(ctx context.Context) AssignmentVerifier {
	if d.verifier == nil {
		d.verifier = asgconsumer.NewAssignmentConsumer(
			d.AssignmentConsumer(ctx),
			d.KafkaConverter(ctx),
			d.ReconcileService(ctx),
		)
	}

	return d.verifier
}

func (d *di) SyncProducer(_ context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) AssignmentProducer(ctx context.Context) kafka.Producer {
	if d.assignmentProducer == nil {
		d.assignmentProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.AssignmentTopic(),
			logger.L(),
		)
	}

	return d.assignmentProducer
}

// EventPublisher falls back to a publisher that drops events when Kafka is
// disabled.
func (d *di) EventPublisher(ctx context.Context) assignsvc.EventPublisher {
	if d.publisher == nil {
		if !config.C().Kafka.Enabled() {
			d.publisher = asgproducer.NewNopPublisher()
			return d.publisher
		}

		d.publisher = asgproducer.NewAssignmentProducer(
			d.AssignmentProducer(ctx),
			d.KafkaConverter(ctx),
		)
	}

	return d.publisher
}

func (d *di) IdentifierService(ctx context.Context) assignsvc.IdentifierService {
	if d.identifier == nil {
		d.identifier = idsvc.NewIdentifierService(
			d.CounterRepository(ctx),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.identifier
}

func (d *di) AssignmentService(ctx context.Context) AssignmentService {
	if d.assignment == nil {
		cfg := config.C()

		d.assignment = assignsvc.NewAssignmentService(
			lo.MapValues(d.AssetRepositories(ctx), func(r AssetRepository, _ model.Kind) assignsvc.AssetRepository {
				return r
			}),
			d.EmployeeRepository(ctx),
			d.IdentifierService(ctx),
			d.IntentJournal(ctx),
			d.EventPublisher(ctx),
			d.Metrics(ctx),
			cfg.Reconcile.AssignMaxAttempts(),
			cfg.Server.DBWriteTimeout(),
		)
	}

	return d.assignment
}

func (d *di) InventoryService(ctx context.Context) InventoryService {
	if d.inventory == nil {
		d.inventory = invsvc.NewInventoryService(
			lo.MapValues(d.AssetRepositories(ctx), func(r AssetRepository, _ model.Kind) invsvc.AssetReader {
				return r
			}),
			d.EmployeeRepository(ctx),
			config.C().Server.DBReadTimeout(),
		)
	}

	return d.inventory
}

func (d *di) ReconcileService(ctx context.Context) ReconcileService {
	if d.reconcile == nil {
		cfg := config.C()

		d.reconcile = recsvc.NewReconcileService(
			lo.MapValues(d.AssetRepositories(ctx), func(r AssetRepository, _ model.Kind) recsvc.AssetRepository {
				return r
			}),
			d.EmployeeRepository(ctx),
			d.IntentJournal(ctx),
			d.Metrics(ctx),
			cfg.Reconcile.IntentGrace(),
			cfg.Server.DBWriteTimeout(),
		)
	}

	return d.reconcile
}

func (d *di) AssetHandler(ctx context.Context) Handler {
	if d.assetHandler == nil {
		d.assetHandler = assethttp.NewAssetHandler(d.AssignmentService(ctx), d.InventoryService(ctx))
	}

	return d.assetHandler
}

func (d *di) EmployeeHandler(ctx context.Context) Handler {
	if d.employeeHandler == nil {
		d.employeeHandler = emphttp.NewEmployeeHandler(d.AssignmentService(ctx), d.InventoryService(ctx))
	}

	return d.employeeHandler
}

func (d *di) ReconcileHandler(ctx context.Context) Handler {
	if d.reconcileHandler == nil {
		d.reconcileHandler = rechttp.NewReconcileHandler(d.ReconcileService(ctx))
	}

	return d.reconcileHandler
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
