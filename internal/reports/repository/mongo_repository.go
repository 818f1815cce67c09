package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petpoint/pet_point/internal/reports/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrReportNotFound = errors.New("report not found")

const reportsCollection = "reports"

type mongoRepository struct {
	collection *mongo.Collection
}

func (m mongoRepository) Create(ctx context.Context, report *domain.Report) error {
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	_, err := m.collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (m mongoRepository) Update(ctx context.Context, report *domain.Report) error {
	report.UpdatedAt = time.Now()

	filter := bson.M{"_id": report.ID}
	update := bson.M{"$set": report}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (m mongoRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	var report domain.Report

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}

func (m mongoRepository) ListVisible(ctx context.Context) ([]domain.Report, error) {
	return m.list(ctx, bson.M{"visible": true})
}

func (m mongoRepository) ListByReporter(ctx context.Context, reporterID string) ([]domain.Report, error) {
	return m.list(ctx, bson.M{"reporter_id": reporterID})
}

func (m mongoRepository) list(ctx context.Context, filter bson.M) ([]domain.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []domain.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}

	return reports, nil
}

func (m mongoRepository) Hide(ctx context.Context, id string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"visible":    false,
			"updated_at": time.Now(),
		},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to hide report: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "visible", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "reporter_id", Value: 1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func NewMongoRepository(db *mongo.Database) ReportRepository {
	return &mongoRepository{
		collection: db.Collection(reportsCollection),
	}
}

// EnsureIndexes creates the report collection indexes; call once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	repo := &mongoRepository{collection: db.Collection(reportsCollection)}
	return repo.CreateIndexes(ctx)
}
